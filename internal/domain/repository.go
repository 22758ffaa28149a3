package domain

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ошибку, если запись с таким ID уже существует.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound, если его нет.
	Get(id string) (Order, error)
	// ListByCustomer возвращает заказы клиента с опциональным ограничением на количество.
	ListByCustomer(customerID string, limit int) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
	// Delete удаляет заказ или возвращает ErrOrderNotFound, если его нет.
	Delete(id string) error
}

// ProductRepository описывает требования к хранилищу каталога товаров.
type ProductRepository interface {
	// Get возвращает товар по идентификатору или ErrProductNotFound, если его нет.
	Get(id string) (Product, error)
	// List возвращает товары каталога с опциональным ограничением на количество.
	List(limit int) ([]Product, error)
	// Save создаёт или перезаписывает товар каталога.
	Save(product Product) error
	// AdjustStock атомарно изменяет остаток товара на delta (может быть
	// отрицательной) и возвращает товар после изменения. Проверка
	// достаточности стока и само изменение выполняются как одна операция:
	// если результат ушёл бы в минус, остаток не меняется и возвращается
	// ErrInsufficientStock. Отсутствующий товар — ErrProductNotFound.
	AdjustStock(id string, delta int32) (Product, error)
}
