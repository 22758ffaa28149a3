package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// Topics для Kafka
const (
	TopicOrderEvents = "checkout.order.events"
)

// OrderEventLine — позиция заказа в публикуемом событии.
type OrderEventLine struct {
	ProductID  string `json:"product_id"`
	Qty        int32  `json:"qty"`
	PriceMinor int64  `json:"price_minor"`
	TotalMinor int64  `json:"total_minor"`
}

// OrderEvent представляет событие изменения заказа.
type OrderEvent struct {
	EventType  string           `json:"event_type"`
	OrderID    string           `json:"order_id"`
	CustomerID string           `json:"customer_id"`
	TotalItems int32            `json:"total_items"`
	TotalMinor int64            `json:"total_minor"`
	Lines      []OrderEventLine `json:"lines,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// NewOrderEvent собирает событие заказа из доменного агрегата.
func NewOrderEvent(event domain.ChangeEvent, order domain.Order) *OrderEvent {
	lines := make([]OrderEventLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderEventLine{
			ProductID:  line.ProductID,
			Qty:        line.Qty,
			PriceMinor: line.PriceMinor,
			TotalMinor: line.TotalMinor,
		})
	}
	return &OrderEvent{
		EventType:  string(event),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		TotalItems: order.TotalItems,
		TotalMinor: order.TotalMinor,
		Lines:      lines,
		Timestamp:  time.Now().UTC(),
	}
}
