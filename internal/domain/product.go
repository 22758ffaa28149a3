package domain

import "time"

// Product — товар каталога. Внешняя по отношению к заказу сущность:
// заказ ссылается на него, но не владеет им. Stock — единственный
// разделяемый мутируемый ресурс; меняется только внутри резервирования
// или освобождения через ProductRepository.AdjustStock.
type Product struct {
	ID string
	// Name — название товара для витрины.
	Name string
	// PriceMinor — текущая цена каталога в минимальных денежных единицах.
	PriceMinor int64
	// Stock — доступный остаток на складе; никогда не опускается ниже нуля.
	Stock     int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет, корректно ли заполнены ключевые поля товара.
func (p *Product) Validate() []error {
	var errs []error

	if p.ID == "" {
		errs = append(errs, ErrProductIDRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrLinePriceInvalid)
	}
	if p.Stock < 0 {
		errs = append(errs, ErrStockNegative)
	}

	return errs
}
