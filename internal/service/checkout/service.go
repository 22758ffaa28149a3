package checkout

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
	"github.com/vladislavdragonenkov/checkout/internal/metrics"
)

// Service оркестрирует жизненный цикл заказа: создание, обновление и
// удаление. Каждая операция проходит как единое целое: либо все стоковые
// изменения применены и заказ сохранён, либо сток возвращён в исходное
// состояние и наружу отдана ошибка.
type Service struct {
	orders    domain.OrderRepository
	validator *Validator
	engine    *Engine
	notifier  domain.Notifier
	logger    *log.Entry
	metrics   *metrics.CheckoutMetrics
}

// NewService создаёт рабочий экземпляр сервиса заказов.
func NewService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	notifier domain.Notifier,
	logger *log.Entry,
) *Service {
	svc := newService(orders, products, notifier, logger)
	svc.metrics = metrics.NewCheckoutMetrics()
	return svc
}

// NewServiceWithoutMetrics создаёт сервис без метрик (для тестов).
func NewServiceWithoutMetrics(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	notifier domain.Notifier,
	logger *log.Entry,
) *Service {
	return newService(orders, products, notifier, logger)
}

func newService(
	orders domain.OrderRepository,
	products domain.ProductRepository,
	notifier domain.Notifier,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "checkout")
	}
	return &Service{
		orders:    orders,
		validator: NewValidator(products),
		engine:    NewEngine(products, logger.WithField("layer", "reservation")),
		notifier:  notifier,
		logger:    logger,
	}
}

// Create проводит заказ через validate → reserve → persist и возвращает
// сохранённый заказ с вычисленными суммами. При отказе валидации или
// резервирования каталог остаётся нетронутым; при сбое сохранения уже
// списанный сток возвращается обратно.
func (s *Service) Create(order domain.Order) (domain.Order, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordOperationStarted()
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationFinished()
			s.metrics.RecordOperationDuration("create", time.Since(start))
		}
	}()

	if err := s.validator.Validate(order); err != nil {
		s.recordRejection(err)
		return domain.Order{}, err
	}

	reserved, err := s.engine.Reserve(order)
	if err != nil {
		s.recordRejection(err)
		return domain.Order{}, err
	}

	now := time.Now().UTC()
	if reserved.ID == "" {
		reserved.ID = uuid.NewString()
	}
	reserved.Version = 0
	reserved.CreatedAt = now
	reserved.UpdatedAt = now

	// Агрегат с вычисленными суммами обязан удовлетворять инвариантам;
	// нарушение здесь — внутренний дефект, а не ошибка вызывающего.
	if errs := reserved.ValidateInvariants(); len(errs) > 0 {
		s.compensate(reserved)
		s.logger.WithField("violations", errs).Error("reserved order violates invariants")
		return domain.Order{}, fmt.Errorf("order invariants violated: %w", errs[0])
	}

	if err := s.orders.Create(reserved); err != nil {
		// Заказ не сохранился: возвращаем только что списанный сток,
		// чтобы неудачная операция не оставила следа в каталоге.
		s.compensate(reserved)
		s.logger.WithError(err).WithField("order_id", reserved.ID).Error("failed to persist order")
		return domain.Order{}, fmt.Errorf("persist order: %w", err)
	}

	s.notify(domain.ChangeEventCreated, reserved)
	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.logger.WithFields(log.Fields{
		"order_id":    reserved.ID,
		"customer_id": reserved.CustomerID,
		"total_minor": reserved.TotalMinor,
		"total_items": reserved.TotalItems,
	}).Info("order created")

	return reserved, nil
}

// Update заменяет позиции существующего заказа: возвращает сток по ранее
// сохранённым позициям, валидирует новый состав против восстановленного
// остатка, резервирует его заново и сохраняет заказ. Сток снимается по
// позициям, хранящимся в репозитории, а не по пришедшим в запросе:
// вызывающий мог прислать другой состав, и освобождение по нему вернуло бы
// каталогу неверное количество.
func (s *Service) Update(id string, incoming domain.Order) (domain.Order, error) {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordOperationStarted()
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationFinished()
			s.metrics.RecordOperationDuration("update", time.Since(start))
		}
	}()

	stored, err := s.orders.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	if err := s.engine.Release(stored); err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("failed to release prior reservation")
		return domain.Order{}, fmt.Errorf("release prior reservation: %w", err)
	}

	if err := s.validator.Validate(incoming); err != nil {
		s.restorePrior(stored)
		s.recordRejection(err)
		return domain.Order{}, err
	}

	reserved, err := s.engine.Reserve(incoming)
	if err != nil {
		s.restorePrior(stored)
		s.recordRejection(err)
		return domain.Order{}, err
	}

	reserved.ID = stored.ID
	reserved.Version = stored.Version
	reserved.CreatedAt = stored.CreatedAt
	reserved.UpdatedAt = time.Now().UTC()
	if reserved.CustomerID == "" {
		reserved.CustomerID = stored.CustomerID
	}

	if errs := reserved.ValidateInvariants(); len(errs) > 0 {
		s.compensate(reserved)
		s.restorePrior(stored)
		s.logger.WithField("violations", errs).Error("reserved order violates invariants")
		return domain.Order{}, fmt.Errorf("order invariants violated: %w", errs[0])
	}

	if err := s.orders.Save(reserved); err != nil {
		// Сохранение не прошло: снимаем новое резервирование и
		// восстанавливаем прежнее, возвращая каталог к состоянию до вызова.
		s.compensate(reserved)
		s.restorePrior(stored)
		s.logger.WithError(err).WithField("order_id", id).Error("failed to persist updated order")
		if domain.IsVersionConflict(err) || errors.Is(err, domain.ErrOrderNotFound) {
			return domain.Order{}, err
		}
		return domain.Order{}, fmt.Errorf("persist updated order: %w", err)
	}
	reserved.Version++

	s.notify(domain.ChangeEventUpdated, reserved)
	if s.metrics != nil {
		s.metrics.RecordOrderUpdated()
	}
	s.logger.WithFields(log.Fields{
		"order_id":    reserved.ID,
		"total_minor": reserved.TotalMinor,
		"total_items": reserved.TotalItems,
	}).Info("order updated")

	return reserved, nil
}

// Delete снимает резервирование заказа и удаляет его из репозитория.
func (s *Service) Delete(id string) error {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordOperationStarted()
	}
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordOperationFinished()
			s.metrics.RecordOperationDuration("delete", time.Since(start))
		}
	}()

	stored, err := s.orders.Get(id)
	if err != nil {
		return err
	}

	if err := s.engine.Release(stored); err != nil {
		s.logger.WithError(err).WithField("order_id", id).Error("failed to release reservation for delete")
		return fmt.Errorf("release reservation: %w", err)
	}

	if err := s.orders.Delete(id); err != nil {
		// Заказ не удалился: возвращаем резервирование на место.
		s.restorePrior(stored)
		s.logger.WithError(err).WithField("order_id", id).Error("failed to delete order")
		if errors.Is(err, domain.ErrOrderNotFound) {
			return err
		}
		return fmt.Errorf("delete order: %w", err)
	}

	s.notify(domain.ChangeEventDeleted, stored)
	if s.metrics != nil {
		s.metrics.RecordOrderDeleted()
	}
	s.logger.WithField("order_id", id).Info("order deleted")

	return nil
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(id string) (domain.Order, error) {
	return s.orders.Get(id)
}

// ListByCustomer возвращает заказы клиента.
func (s *Service) ListByCustomer(customerID string, limit int) ([]domain.Order, error) {
	return s.orders.ListByCustomer(customerID, limit)
}

// compensate снимает только что применённое резервирование после сбоя хранилища.
func (s *Service) compensate(order domain.Order) {
	if err := s.engine.Release(order); err != nil {
		s.logger.WithError(err).WithField("order_id", order.ID).
			Error("failed to compensate reservation after storage failure")
	}
	if s.metrics != nil {
		s.metrics.RecordStockRollback()
	}
}

// restorePrior заново резервирует ранее сохранённые позиции после того,
// как их освобождение оказалось напрасным.
func (s *Service) restorePrior(stored domain.Order) {
	if _, err := s.engine.Reserve(stored); err != nil {
		s.logger.WithError(err).WithField("order_id", stored.ID).
			Error("failed to restore prior reservation")
	}
	if s.metrics != nil {
		s.metrics.RecordStockRollback()
	}
}

func (s *Service) recordRejection(err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case errors.Is(err, domain.ErrNoItems):
		s.metrics.RecordValidationFailed("no_items")
	case errors.Is(err, domain.ErrLineQtyInvalid):
		s.metrics.RecordValidationFailed("invalid_qty")
	case errors.Is(err, domain.ErrProductNotFound):
		s.metrics.RecordValidationFailed("product_not_found")
	case errors.Is(err, domain.ErrInsufficientStock):
		s.metrics.RecordValidationFailed("insufficient_stock")
	case errors.Is(err, domain.ErrPriceMismatch):
		s.metrics.RecordValidationFailed("price_mismatch")
	default:
		s.metrics.RecordValidationFailed("other")
	}
}

// notify отправляет событие изменения. Канал best-effort: отсутствие
// notifier или ошибки доставки не влияют на результат операции.
func (s *Service) notify(event domain.ChangeEvent, order domain.Order) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(event, order)
	if s.metrics != nil {
		s.metrics.RecordNotifyEvent()
	}
}
