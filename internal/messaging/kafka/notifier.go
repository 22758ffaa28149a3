package kafka

import (
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// Notifier публикует события изменения заказов в Kafka. Канал best-effort:
// ошибка публикации логируется и никогда не доходит до вызывающего.
type Notifier struct {
	producer *Producer
	logger   *log.Entry
}

// NewNotifier создаёт notifier поверх готового producer.
func NewNotifier(producer *Producer, logger *log.Entry) *Notifier {
	if logger == nil {
		logger = log.New().WithField("component", "kafka-notifier")
	}
	return &Notifier{producer: producer, logger: logger}
}

// Notify публикует событие заказа, ключ партиционирования — ID заказа.
func (n *Notifier) Notify(event domain.ChangeEvent, order domain.Order) {
	payload := NewOrderEvent(event, order)
	if err := n.producer.PublishEvent(TopicOrderEvents, order.ID, payload); err != nil {
		n.logger.WithError(err).WithFields(log.Fields{
			"event":    event,
			"order_id": order.ID,
		}).Warn("failed to publish order change event")
	}
}

var _ domain.Notifier = (*Notifier)(nil)
