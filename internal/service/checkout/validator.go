package checkout

import (
	"errors"
	"fmt"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// Validator отклоняет заказ до любого изменения стока. Все проверки
// выполняются только чтением каталога; побочных эффектов нет.
type Validator struct {
	products domain.ProductRepository
}

// NewValidator создаёт валидатор поверх каталога товаров.
func NewValidator(products domain.ProductRepository) *Validator {
	return &Validator{products: products}
}

// Validate проверяет предусловия заказа в фиксированном порядке: наличие
// позиций, корректность количества, существование товара, достаточность
// остатка, совпадение цены с каталогом. Успех гарантирует выполнимость
// резервирования только на момент проверки: само резервирование
// перепроверяет остаток атомарно.
func (v *Validator) Validate(order domain.Order) error {
	if len(order.Lines) == 0 {
		return domain.ErrNoItems
	}

	for i, line := range order.Lines {
		// Количество проверяется до обращения к каталогу: qty < 1 не имеет
		// смысла ни для резервирования, ни для освобождения.
		if line.Qty < 1 {
			return fmt.Errorf("line %d, product %s: qty %d: %w",
				i, line.ProductID, line.Qty, domain.ErrLineQtyInvalid)
		}
		product, err := v.products.Get(line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				return fmt.Errorf("line %d, product %s: %w", i, line.ProductID, domain.ErrProductNotFound)
			}
			return fmt.Errorf("lookup product %s: %w", line.ProductID, err)
		}
		if line.Qty > product.Stock {
			return fmt.Errorf("line %d, product %s: requested %d of %d: %w",
				i, line.ProductID, line.Qty, product.Stock, domain.ErrInsufficientStock)
		}
		if line.PriceMinor != product.PriceMinor {
			return fmt.Errorf("line %d, product %s: submitted %d, catalog %d: %w",
				i, line.ProductID, line.PriceMinor, product.PriceMinor, domain.ErrPriceMismatch)
		}
	}

	return nil
}
