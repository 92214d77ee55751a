package tariff

import (
	"time"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/app/ds"
)

// ComponentInput — данные для создания компонента услуги
type ComponentInput struct {
	ServiceID     uint
	ComponentType ds.FactorType
	Coefficient   decimal.Decimal
	IsActive      bool
}

// ComponentUpdate — изменение компонента с ожидаемой версией записи
type ComponentUpdate struct {
	ComponentType ds.FactorType
	Coefficient   decimal.Decimal
	IsActive      bool
	Version       int
}

func validateComponentInput(t ds.FactorType, c decimal.Decimal) map[string]string {
	fields := make(map[string]string)
	if !t.Valid() {
		fields["component_type"] = "недопустимый тип компонента"
	}
	if msg := validateCoefficient(c); msg != "" {
		fields["coefficient"] = msg
	}
	return fields
}

// AddComponent добавляет компонент услуге. У услуги допускается не более
// одного активного компонента каждого типа. Успешная мутация запускает
// синхронизацию цены в той же транзакции.
func (e *Engine) AddComponent(in ComponentInput, asOf time.Time, actorID uint) (*ds.ServiceComponent, *PriceSync, error) {
	if fields := validateComponentInput(in.ComponentType, in.Coefficient); len(fields) > 0 {
		return nil, nil, validationError(fields)
	}

	var (
		out  *ds.ServiceComponent
		sync *PriceSync
	)
	err := e.store.InTx(func(s Store) error {
		svc, err := s.GetService(in.ServiceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return newError(KindNotFound, "услуга не найдена")
		}

		if in.IsActive {
			exists, err := s.ComponentExists(in.ServiceID, in.ComponentType, 0)
			if err != nil {
				return err
			}
			if exists {
				return &Error{
					Kind:    KindValidation,
					Message: "у услуги уже есть активный компонент этого типа",
					Fields:  map[string]string{"component_type": "активный компонент этого типа уже существует"},
				}
			}
		}

		now := time.Now()
		c := &ds.ServiceComponent{
			ServiceID:     in.ServiceID,
			ComponentType: in.ComponentType,
			Coefficient:   in.Coefficient,
			IsActive:      in.IsActive,
			Version:       1,
			Audit: ds.Audit{
				CreatedAt: now,
				UpdatedAt: now,
				CreatedBy: actorID,
				UpdatedBy: actorID,
			},
		}
		if err := s.CreateComponent(c); err != nil {
			return err
		}

		sync, err = e.recalculate(s, in.ServiceID, asOf, actorID)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, sync, nil
}

// UpdateComponent изменяет компонент (проверка "не более одного активного
// компонента типа" исключает редактируемую запись). Промах версии — Conflict.
func (e *Engine) UpdateComponent(id uint, upd ComponentUpdate, asOf time.Time, actorID uint) (*ds.ServiceComponent, *PriceSync, error) {
	if fields := validateComponentInput(upd.ComponentType, upd.Coefficient); len(fields) > 0 {
		return nil, nil, validationError(fields)
	}

	var (
		out  *ds.ServiceComponent
		sync *PriceSync
	)
	err := e.store.InTx(func(s Store) error {
		c, err := s.GetComponent(id)
		if err != nil {
			return err
		}
		if c == nil {
			return newError(KindNotFound, "компонент услуги не найден")
		}

		if upd.IsActive {
			exists, err := s.ComponentExists(c.ServiceID, upd.ComponentType, c.ID)
			if err != nil {
				return err
			}
			if exists {
				return &Error{
					Kind:    KindValidation,
					Message: "у услуги уже есть активный компонент этого типа",
					Fields:  map[string]string{"component_type": "активный компонент этого типа уже существует"},
				}
			}
		}

		c.ComponentType = upd.ComponentType
		c.Coefficient = upd.Coefficient
		c.IsActive = upd.IsActive
		c.UpdatedAt = time.Now()
		c.UpdatedBy = actorID
		c.Version = upd.Version + 1

		ok, err := s.UpdateComponent(c, upd.Version)
		if err != nil {
			return err
		}
		if !ok {
			return newError(KindConflict, "компонент был изменён параллельно, повторите операцию")
		}

		sync, err = e.recalculate(s, c.ServiceID, asOf, actorID)
		if err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, sync, nil
}

// RemoveComponent логически удаляет компонент и пересчитывает цену
// владеющей услуги
func (e *Engine) RemoveComponent(id uint, asOf time.Time, actorID uint) (*PriceSync, error) {
	var sync *PriceSync
	err := e.store.InTx(func(s Store) error {
		c, err := s.GetComponent(id)
		if err != nil {
			return err
		}
		if c == nil {
			return newError(KindNotFound, "компонент услуги не найден")
		}

		now := time.Now()
		expected := c.Version
		c.IsActive = false
		c.DeletedAt = &now
		c.DeletedBy = &actorID
		c.UpdatedAt = now
		c.UpdatedBy = actorID
		c.Version = expected + 1

		ok, err := s.UpdateComponent(c, expected)
		if err != nil {
			return err
		}
		if !ok {
			return newError(KindConflict, "компонент был изменён параллельно, повторите операцию")
		}

		sync, err = e.recalculate(s, c.ServiceID, asOf, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sync, nil
}
