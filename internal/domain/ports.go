package domain

// ChangeEvent определяет тип события изменения заказа.
type ChangeEvent string

const (
	// ChangeEventCreated — заказ создан и сохранён.
	ChangeEventCreated ChangeEvent = "order.created"
	// ChangeEventUpdated — заказ обновлён.
	ChangeEventUpdated ChangeEvent = "order.updated"
	// ChangeEventDeleted — заказ удалён.
	ChangeEventDeleted ChangeEvent = "order.deleted"
)

// Notifier публикует события изменения заказов во внешний канал.
// Канал best-effort: ошибки доставки логируются реализацией и никогда
// не влияют на результат операции чекаута.
type Notifier interface {
	Notify(event ChangeEvent, order Order)
}
