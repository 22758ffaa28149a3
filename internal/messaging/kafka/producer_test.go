package kafka

import (
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

func testOrder() domain.Order {
	return domain.Order{
		ID:         "order-123",
		CustomerID: "cust-1",
		Lines: []domain.OrderLine{
			{ProductID: "p-1", Qty: 2, PriceMinor: 1500, TotalMinor: 3000},
		},
		TotalItems: 2,
		TotalMinor: 3000,
	}
}

func TestProducer_PublishEvent(t *testing.T) {
	// Создаем mock producer
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	// Настраиваем ожидания
	mockProducer.ExpectSendMessageAndSucceed()

	event := NewOrderEvent(domain.ChangeEventCreated, testOrder())

	err := producer.PublishEvent(TopicOrderEvents, "order-123", event)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Проверяем, что все ожидания выполнены
	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	// Создаем mock producer с ошибкой
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	// Настраиваем ожидание ошибки
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	event := NewOrderEvent(domain.ChangeEventCreated, testOrder())

	err := producer.PublishEvent(TopicOrderEvents, "order-123", event)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNotifier_Notify(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}
	notifier := NewNotifier(producer, nil)

	mockProducer.ExpectSendMessageAndSucceed()

	notifier.Notify(domain.ChangeEventUpdated, testOrder())

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNotifier_NotifyPublishFailureIsSwallowed(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		logger:   log.WithField("component", "kafka-producer-test"),
	}
	logger := log.New()
	logger.SetLevel(log.PanicLevel)
	notifier := NewNotifier(producer, logger.WithField("component", "kafka-notifier-test"))

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	// Ошибка публикации не должна паниковать и не должна никуда пробрасываться.
	notifier.Notify(domain.ChangeEventDeleted, testOrder())

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewOrderEvent(t *testing.T) {
	order := testOrder()

	event := NewOrderEvent(domain.ChangeEventCreated, order)

	if event.EventType != string(domain.ChangeEventCreated) {
		t.Errorf("expected event type %s, got %s", domain.ChangeEventCreated, event.EventType)
	}

	if event.OrderID != order.ID {
		t.Errorf("expected order id %s, got %s", order.ID, event.OrderID)
	}

	if event.CustomerID != order.CustomerID {
		t.Errorf("expected customer id %s, got %s", order.CustomerID, event.CustomerID)
	}

	if event.TotalMinor != order.TotalMinor {
		t.Errorf("expected total %d, got %d", order.TotalMinor, event.TotalMinor)
	}

	if len(event.Lines) != 1 || event.Lines[0].ProductID != "p-1" {
		t.Errorf("lines not copied correctly: %+v", event.Lines)
	}

	if event.Timestamp.IsZero() {
		t.Error("timestamp should not be zero")
	}

	if time.Since(event.Timestamp) > time.Second {
		t.Error("timestamp should be close to current time")
	}
}
