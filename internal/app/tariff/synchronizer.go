package tariff

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PriceSync — итог синхронизации кэша цены после мутации.
// Warning заполняется, когда пересчёт не удался по бизнес-причине:
// сама мутация при этом фиксируется, а цена помечается устаревшей.
type PriceSync struct {
	ServiceID uint            `json:"service_id"`
	Price     decimal.Decimal `json:"price"`
	Stale     bool            `json:"stale"`
	Warning   string          `json:"warning,omitempty"`
}

// recalculate пересчитывает и сохраняет цену услуги в текущей транзакции.
// Бизнес-ошибка расчёта (например, MissingFactor) не откатывает мутацию:
// цена помечается устаревшей, возвращается предупреждение. Инфраструктурные
// ошибки пробрасываются и откатывают транзакцию целиком.
func (e *Engine) recalculate(s Store, serviceID uint, asOf time.Time, actorID uint) (*PriceSync, error) {
	calc, err := e.calculateTx(s, serviceID, nil, asOf)
	if err != nil {
		var be *Error
		if errors.As(err, &be) {
			if markErr := s.MarkPriceStale(serviceID, actorID); markErr != nil {
				return nil, markErr
			}
			logrus.Warnf("price sync failed for service %d: %s", serviceID, be.Message)
			return &PriceSync{ServiceID: serviceID, Stale: true, Warning: be.Message}, nil
		}
		return nil, err
	}

	if err := s.SetServicePrice(serviceID, calc.Total, asOf, actorID); err != nil {
		return nil, err
	}
	return &PriceSync{ServiceID: serviceID, Price: calc.Total}, nil
}
