package tariff

import (
	"github.com/sirupsen/logrus"
)

// FreezeFinancialYear замораживает все активные незамороженные коэффициенты
// года одним атомарным обновлением (закрытие финансового периода).
// Заморозка необратима. Повторная заморозка года — не ошибка: просто
// нечего замораживать, затронуто 0 записей.
func (e *Engine) FreezeFinancialYear(year int, actorID uint) (int64, error) {
	var frozen int64
	err := e.store.InTx(func(s Store) error {
		n, err := s.FreezeFactors(year, actorID)
		if err != nil {
			return err
		}
		frozen = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	logrus.Infof("financial year %d frozen: %d factor(s)", year, frozen)
	return frozen, nil
}
