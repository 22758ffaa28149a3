package domain

import "errors"

var (
	// Ошибка отсутствующего идентификатора клиента.
	ErrCustomerRequired = errors.New("customer_id is required")
	// ErrNoItems — заказ отправлен без единой позиции.
	ErrNoItems = errors.New("order must contain at least one line")
	// Ошибка отсутствующего идентификатора товара в позиции.
	ErrLineProductRequired = errors.New("line product_id is required")
	// Ошибка при некорректном количестве товара в позиции (<= 0).
	ErrLineQtyInvalid = errors.New("line qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrLinePriceInvalid = errors.New("line price must be non-negative")
	// Ошибка несоответствия totalItems заказа и суммы количеств позиций.
	ErrTotalItemsMismatch = errors.New("order total_items does not match lines sum")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrTotalMismatch = errors.New("order total does not match lines sum")
	// Ошибка отсутствующего идентификатора товара.
	ErrProductIDRequired = errors.New("product id is required")
	// Ошибка отрицательного остатка товара.
	ErrStockNegative = errors.New("product stock must be non-negative")

	// ErrProductNotFound — позиция ссылается на товар, которого нет в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrInsufficientStock — запрошенное количество превышает текущий остаток.
	ErrInsufficientStock = errors.New("insufficient product stock")
	// ErrPriceMismatch — цена в позиции не совпадает с текущей ценой каталога.
	ErrPriceMismatch = errors.New("line price does not match catalog price")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")
	// ErrOrderVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrOrderVersionConflict = errors.New("order version conflict")
)

// IsCheckoutError определяет, относится ли ошибка к бизнес-ошибкам чекаута,
// которые транспортный слой отдаёт вызывающему как 4xx (в отличие от
// инфраструктурных ошибок хранилища).
func IsCheckoutError(err error) bool {
	return errors.Is(err, ErrNoItems) ||
		errors.Is(err, ErrLineQtyInvalid) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrPriceMismatch)
}

// IsNotFound проверяет, является ли ошибка отсутствием заказа или товара.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrProductNotFound)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrOrderVersionConflict)
}
