package domain

import "time"

// OrderLine представляет одну позицию заказа: товар, количество и цена.
// Позиция не имеет собственной идентичности и живёт только внутри заказа.
type OrderLine struct {
	// ProductID — идентификатор товара в каталоге.
	ProductID string
	// Qty — количество единиц товара, всегда >= 1.
	Qty int32
	// PriceMinor — цена за единицу в минимальных денежных единицах,
	// как её прислал вызывающий (сверяется с каталогом при валидации).
	PriceMinor int64
	// TotalMinor — производная сумма позиции, Qty * PriceMinor.
	// Заполняется движком резервирования через LineTotal.
	TotalMinor int64
}

// LineTotal вычисляет сумму позиции. Единственное место пересчёта:
// производные суммы никогда не обновляются как побочный эффект сеттеров.
func LineTotal(qty int32, priceMinor int64) int64 {
	return int64(qty) * priceMinor
}

// Customer — встроенная карточка покупателя. Проверяется только структурно,
// в алгоритмике резервирования не участвует.
type Customer struct {
	Name            string
	Email           string
	Phone           string
	ShippingAddress string
}

// Order — агрегат заказа. Создаётся и мутируется только сервисом заказов,
// сохраняется только репозиторием заказов.
type Order struct {
	ID         string
	CustomerID string
	Customer   Customer
	Lines      []OrderLine
	// TotalItems и TotalMinor — производные суммы, вычисляются движком
	// резервирования по позициям и никогда не принимаются от вызывающего.
	TotalItems int32
	TotalMinor int64
	// Version используется для optimistic locking при сохранении.
	Version int64
	// Deleted — флаг мягкого удаления; процессом резервирования не используется.
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет базовые структурные инварианты заказа
// и возвращает список замечаний. Бизнес-проверки против каталога
// (наличие товара, сток, цена) выполняет валидатор чекаута, не агрегат.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerID == "" {
		errs = append(errs, ErrCustomerRequired)
	}
	if len(o.Lines) == 0 {
		errs = append(errs, ErrNoItems)
	}

	// Сверяем производные суммы с позициями: qty и qty*price.
	var totalItems int32
	var totalMinor int64
	for _, line := range o.Lines {
		if line.ProductID == "" {
			errs = append(errs, ErrLineProductRequired)
		}
		if line.Qty <= 0 {
			errs = append(errs, ErrLineQtyInvalid)
		}
		if line.PriceMinor < 0 {
			errs = append(errs, ErrLinePriceInvalid)
		}
		totalItems += line.Qty
		totalMinor += LineTotal(line.Qty, line.PriceMinor)
	}
	if o.TotalItems != totalItems {
		errs = append(errs, ErrTotalItemsMismatch)
	}
	if o.TotalMinor != totalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}
