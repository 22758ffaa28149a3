package checkout

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/checkout/internal/domain"
)

// Engine применяет и снимает стоковый эффект позиций заказа и пересчитывает
// производные суммы. Сток меняется только через ProductRepository.AdjustStock,
// где проверка достаточности и запись выполняются как одна атомарная операция,
// поэтому параллельные резервирования одного товара не могут перерасходовать
// остаток.
type Engine struct {
	products domain.ProductRepository
	logger   *log.Entry
}

// NewEngine создаёт движок резервирования поверх каталога товаров.
func NewEngine(products domain.ProductRepository, logger *log.Entry) *Engine {
	if logger == nil {
		logger = log.New().WithField("component", "reservation")
	}
	return &Engine{products: products, logger: logger}
}

// Reserve списывает остаток по каждой позиции и пересчитывает суммы позиций
// и заказа. Вызывающий обязан предварительно прогнать заказ через Validator;
// движок не повторяет его проверки, но атомарный декремент сам отклонит
// недостаточный сток. При сбое на любой позиции уже списанные остатки
// возвращаются обратно, и заказ остаётся без стокового эффекта.
func (e *Engine) Reserve(order domain.Order) (domain.Order, error) {
	applied := make([]domain.OrderLine, 0, len(order.Lines))

	for i := range order.Lines {
		line := &order.Lines[i]
		if _, err := e.products.AdjustStock(line.ProductID, -line.Qty); err != nil {
			e.rollback(applied)
			return domain.Order{}, fmt.Errorf("reserve product %s: %w", line.ProductID, err)
		}
		line.TotalMinor = domain.LineTotal(line.Qty, line.PriceMinor)
		applied = append(applied, *line)
	}

	var totalItems int32
	var totalMinor int64
	for _, line := range order.Lines {
		totalItems += line.Qty
		totalMinor += line.TotalMinor
	}
	order.TotalItems = totalItems
	order.TotalMinor = totalMinor

	return order, nil
}

// Release возвращает остаток по каждой позиции заказа. Используется для
// отмены ранее применённого резервирования: при удалении заказа и перед
// ревалидацией обновления. Повторный Release по уже снятому резервированию
// не допускается — за дисциплину вызовов отвечает сервис заказов.
// При сбое на любой позиции уже возвращённые остатки списываются обратно.
func (e *Engine) Release(order domain.Order) error {
	applied := make([]domain.OrderLine, 0, len(order.Lines))

	for _, line := range order.Lines {
		if _, err := e.products.AdjustStock(line.ProductID, line.Qty); err != nil {
			e.rollbackRelease(applied)
			return fmt.Errorf("release product %s: %w", line.ProductID, err)
		}
		applied = append(applied, line)
	}

	return nil
}

// rollback возвращает сток по уже списанным позициям после частичного сбоя Reserve.
func (e *Engine) rollback(applied []domain.OrderLine) {
	for _, line := range applied {
		if _, err := e.products.AdjustStock(line.ProductID, line.Qty); err != nil {
			e.logger.WithError(err).WithField("product_id", line.ProductID).
				Error("failed to return stock during reserve rollback")
		}
	}
}

// rollbackRelease заново списывает сток по уже возвращённым позициям после
// частичного сбоя Release. Списание может не пройти, если параллельная
// операция успела забрать возвращённый остаток; это логируется как ошибка.
func (e *Engine) rollbackRelease(applied []domain.OrderLine) {
	for _, line := range applied {
		if _, err := e.products.AdjustStock(line.ProductID, -line.Qty); err != nil {
			e.logger.WithError(err).WithField("product_id", line.ProductID).
				Error("failed to re-reserve stock during release rollback")
		}
	}
}
