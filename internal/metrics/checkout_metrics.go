package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics содержит метрики операций чекаута.
type CheckoutMetrics struct {
	// Счётчики операций
	ordersCreated prometheus.Counter
	ordersUpdated prometheus.Counter
	ordersDeleted prometheus.Counter

	// Отказы валидации по причинам
	validationFailed *prometheus.CounterVec

	// Компенсации стока при частичных сбоях
	stockRollbacks prometheus.Counter

	// Гистограмма времени выполнения по операциям
	operationDuration *prometheus.HistogramVec

	// События уведомлений
	notifyEvents prometheus.Counter

	// Gauge для операций в полёте
	inflightOperations prometheus.Gauge
}

// NewCheckoutMetrics создаёт новый экземпляр метрик чекаута.
func NewCheckoutMetrics() *CheckoutMetrics {
	return newCheckoutMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newCheckoutMetricsWithRegisterer(registerer prometheus.Registerer) *CheckoutMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &CheckoutMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_created_total",
			Help: "Total number of orders created",
		}),
		ordersUpdated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_updated_total",
			Help: "Total number of orders updated",
		}),
		ordersDeleted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_orders_deleted_total",
			Help: "Total number of orders deleted",
		}),
		validationFailed: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "checkout_validation_failed_total",
			Help: "Total number of rejected orders grouped by reason",
		}, []string{"reason"}),
		stockRollbacks: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_stock_rollbacks_total",
			Help: "Total number of stock compensations after partial failures",
		}),
		operationDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "checkout_operation_duration_seconds",
			Help:    "Duration of checkout operations in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"operation"}),
		notifyEvents: registerCounter(registerer, prometheus.CounterOpts{
			Name: "checkout_notify_events_total",
			Help: "Total number of change notifications emitted",
		}),
		inflightOperations: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "checkout_inflight_operations",
			Help: "Number of checkout operations currently in flight",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *CheckoutMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderUpdated увеличивает счётчик обновлённых заказов.
func (m *CheckoutMetrics) RecordOrderUpdated() {
	m.ordersUpdated.Inc()
}

// RecordOrderDeleted увеличивает счётчик удалённых заказов.
func (m *CheckoutMetrics) RecordOrderDeleted() {
	m.ordersDeleted.Inc()
}

// RecordValidationFailed увеличивает счётчик отказов валидации по причине.
func (m *CheckoutMetrics) RecordValidationFailed(reason string) {
	m.validationFailed.WithLabelValues(reason).Inc()
}

// RecordStockRollback увеличивает счётчик компенсаций стока.
func (m *CheckoutMetrics) RecordStockRollback() {
	m.stockRollbacks.Inc()
}

// RecordOperationDuration записывает время выполнения операции чекаута.
func (m *CheckoutMetrics) RecordOperationDuration(operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordNotifyEvent увеличивает счётчик отправленных уведомлений.
func (m *CheckoutMetrics) RecordNotifyEvent() {
	m.notifyEvents.Inc()
}

// RecordOperationStarted увеличивает количество операций в полёте.
func (m *CheckoutMetrics) RecordOperationStarted() {
	m.inflightOperations.Inc()
}

// RecordOperationFinished уменьшает количество операций в полёте.
func (m *CheckoutMetrics) RecordOperationFinished() {
	m.inflightOperations.Dec()
}
