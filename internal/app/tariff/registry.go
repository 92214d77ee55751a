package tariff

import (
	"time"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/app/ds"
)

// FactorInput — данные для создания/изменения тарифного коэффициента
type FactorInput struct {
	ComponentType ds.FactorType
	Scope         ds.FactorScope
	IsHashtagged  bool
	Value         decimal.Decimal
	FinancialYear int
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
	Description   string
	IsActive      bool
}

// FactorUpdate — полная замена полей коэффициента с ожидаемой версией
// записи (оптимистическая блокировка)
type FactorUpdate struct {
	FactorInput
	Version int
}

// CreateFactor создаёт коэффициент. Отклоняет нарушение диапазонов,
// дубликат ключа (тип, год, хэштег) и превышение лимита активных
// коэффициентов года. Цены услуг, которые новый коэффициент начинает
// разрешать, пересчитываются в той же транзакции.
func (e *Engine) CreateFactor(in FactorInput, asOf time.Time, actorID uint) (*ds.FactorSetting, error) {
	if fields := validateFactorInput(in); len(fields) > 0 {
		return nil, validationError(fields)
	}

	var out *ds.FactorSetting
	err := e.store.InTx(func(s Store) error {
		dup, err := s.FactorExists(in.ComponentType, in.IsHashtagged, in.FinancialYear, 0)
		if err != nil {
			return err
		}
		if dup {
			return newError(KindDuplicate, "коэффициент с таким типом, годом и признаком хэштега уже существует")
		}

		if in.IsActive {
			n, err := s.CountActiveFactors(in.FinancialYear)
			if err != nil {
				return err
			}
			if n >= maxActiveFactorsPerYear {
				return &Error{
					Kind:    KindValidation,
					Message: "превышен лимит активных коэффициентов года",
					Fields:  map[string]string{"is_active": "для года допускается не более 10 активных коэффициентов"},
				}
			}
		}

		now := time.Now()
		f := &ds.FactorSetting{
			ComponentType: in.ComponentType,
			Scope:         in.Scope,
			IsHashtagged:  in.IsHashtagged,
			Value:         in.Value,
			FinancialYear: in.FinancialYear,
			EffectiveFrom: in.EffectiveFrom,
			EffectiveTo:   in.EffectiveTo,
			Description:   in.Description,
			IsActive:      in.IsActive,
			Version:       1,
			Audit: ds.Audit{
				CreatedAt: now,
				UpdatedAt: now,
				CreatedBy: actorID,
				UpdatedBy: actorID,
			},
		}
		if err := s.CreateFactor(f); err != nil {
			return err
		}
		if err := e.syncFactorKey(s, f.ComponentType, f.IsHashtagged, f.FinancialYear, asOf, actorID); err != nil {
			return err
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFactor изменяет коэффициент. Замороженная запись неизменяема
// целиком; запись, используемая в расчётах, допускает правку только
// метаданных (описание, период действия, активность) — ключ и значение
// неизменны. Промах версии — Conflict.
func (e *Engine) UpdateFactor(id uint, upd FactorUpdate, asOf time.Time, actorID uint) (*ds.FactorSetting, error) {
	if fields := validateFactorInput(upd.FactorInput); len(fields) > 0 {
		return nil, validationError(fields)
	}

	var out *ds.FactorSetting
	err := e.store.InTx(func(s Store) error {
		f, err := s.GetFactor(id)
		if err != nil {
			return err
		}
		if f == nil {
			return newError(KindNotFound, "коэффициент не найден")
		}
		if f.IsFrozen {
			return newError(KindFrozen, "коэффициент заморожен и не подлежит изменению")
		}

		used, err := e.usedInCalculations(s, f, asOf)
		if err != nil {
			return err
		}
		if used && e.identityChanged(f, upd.FactorInput) {
			return newError(KindInUseImmutable, "коэффициент используется в расчётах: тип и значение изменить нельзя")
		}

		dup, err := s.FactorExists(upd.ComponentType, upd.IsHashtagged, upd.FinancialYear, f.ID)
		if err != nil {
			return err
		}
		if dup {
			return newError(KindDuplicate, "коэффициент с таким типом, годом и признаком хэштега уже существует")
		}

		// лимит проверяется и при активации, и при переносе уже активной
		// записи в другой финансовый год
		if upd.IsActive && (!f.IsActive || upd.FinancialYear != f.FinancialYear) {
			n, err := s.CountActiveFactors(upd.FinancialYear)
			if err != nil {
				return err
			}
			if n >= maxActiveFactorsPerYear {
				return &Error{
					Kind:    KindValidation,
					Message: "превышен лимит активных коэффициентов года",
					Fields:  map[string]string{"is_active": "для года допускается не более 10 активных коэффициентов"},
				}
			}
		}

		oldType, oldHashtagged, oldYear := f.ComponentType, f.IsHashtagged, f.FinancialYear

		f.ComponentType = upd.ComponentType
		f.Scope = upd.Scope
		f.IsHashtagged = upd.IsHashtagged
		f.Value = upd.Value
		f.FinancialYear = upd.FinancialYear
		f.EffectiveFrom = upd.EffectiveFrom
		f.EffectiveTo = upd.EffectiveTo
		f.Description = upd.Description
		f.IsActive = upd.IsActive
		f.UpdatedAt = time.Now()
		f.UpdatedBy = actorID
		f.Version = upd.Version + 1

		ok, err := s.UpdateFactor(f, upd.Version)
		if err != nil {
			return err
		}
		if !ok {
			return newError(KindConflict, "коэффициент был изменён параллельно, повторите операцию")
		}

		// пересчитываем цены услуг по старому и (при смене) новому ключу:
		// деактивация или перенос года делают прежние цены недостоверными
		if err := e.syncFactorKey(s, oldType, oldHashtagged, oldYear, asOf, actorID); err != nil {
			return err
		}
		if upd.ComponentType != oldType || upd.IsHashtagged != oldHashtagged || upd.FinancialYear != oldYear {
			if err := e.syncFactorKey(s, upd.ComponentType, upd.IsHashtagged, upd.FinancialYear, asOf, actorID); err != nil {
				return err
			}
		}
		out = f
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteFactor логически удаляет коэффициент. Замороженные и используемые
// в расчётах записи удалить нельзя.
func (e *Engine) DeleteFactor(id uint, asOf time.Time, actorID uint) error {
	return e.store.InTx(func(s Store) error {
		f, err := s.GetFactor(id)
		if err != nil {
			return err
		}
		if f == nil {
			return newError(KindNotFound, "коэффициент не найден")
		}
		if f.IsFrozen {
			return newError(KindFrozen, "коэффициент заморожен и не подлежит удалению")
		}

		used, err := e.usedInCalculations(s, f, asOf)
		if err != nil {
			return err
		}
		if used {
			return newError(KindInUseImmutable, "коэффициент используется в расчётах и не может быть удалён")
		}

		now := time.Now()
		expected := f.Version
		f.DeletedAt = &now
		f.DeletedBy = &actorID
		f.UpdatedAt = now
		f.UpdatedBy = actorID
		f.Version = expected + 1

		ok, err := s.UpdateFactor(f, expected)
		if err != nil {
			return err
		}
		if !ok {
			return newError(KindConflict, "коэффициент был изменён параллельно, повторите операцию")
		}
		return e.syncFactorKey(s, f.ComponentType, f.IsHashtagged, f.FinancialYear, asOf, actorID)
	})
}

// GetActiveFactor возвращает единственный активный неудалённый коэффициент
// по ключу (тип, хэштег, год)
func (e *Engine) GetActiveFactor(t ds.FactorType, hashtagged bool, year int) (*ds.FactorSetting, error) {
	f, err := e.store.GetActiveFactor(t, hashtagged, year)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, newError(KindNotFound, "активный коэффициент не найден")
	}
	return f, nil
}

// ListFactorsByYear возвращает все неудалённые коэффициенты года
func (e *Engine) ListFactorsByYear(year int) ([]ds.FactorSetting, error) {
	return e.store.ListFactorsByYear(year)
}

// IsFactorUsedInCalculations проверяет, разрешается ли коэффициент как
// активный хотя бы одной услугой на дату asOf
func (e *Engine) IsFactorUsedInCalculations(id uint, asOf time.Time) (bool, error) {
	var used bool
	err := e.store.InTx(func(s Store) error {
		f, err := s.GetFactor(id)
		if err != nil {
			return err
		}
		if f == nil {
			return newError(KindNotFound, "коэффициент не найден")
		}
		used, err = e.usedInCalculations(s, f, asOf)
		return err
	})
	return used, err
}

// usedInCalculations: коэффициент "используется в расчётах", если он активен,
// относится к текущему финансовому году и хотя бы одна активная услуга с
// совпадающим признаком хэштега имеет активный компонент его типа.
func (e *Engine) usedInCalculations(s Store, f *ds.FactorSetting, asOf time.Time) (bool, error) {
	if !f.IsActive || f.Deleted() {
		return false, nil
	}
	if f.FinancialYear != FinancialYearOf(asOf) {
		return false, nil
	}
	n, err := s.CountServicesUsingFactor(f.ComponentType, f.IsHashtagged)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// syncFactorKey пересчитывает в текущей транзакции цены всех активных услуг,
// разрешающих коэффициент с ключом (тип, хэштег, год). Коэффициенты прошлых
// и будущих лет на кэш цен не влияют. Деловая ошибка пересчёта (например,
// после деактивации коэффициент перестал разрешаться) помечает цену услуги
// как недостоверную, не откатывая мутацию.
func (e *Engine) syncFactorKey(s Store, t ds.FactorType, hashtagged bool, year int, asOf time.Time, actorID uint) error {
	if year != FinancialYearOf(asOf) {
		return nil
	}
	ids, err := s.ListServiceIDsUsingFactor(t, hashtagged)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, err := e.recalculate(s, id, asOf, actorID); err != nil {
			return err
		}
	}
	return nil
}

// identityChanged: изменение ключа или значения (недопустимо для записи,
// используемой в расчётах)
func (e *Engine) identityChanged(f *ds.FactorSetting, in FactorInput) bool {
	return f.ComponentType != in.ComponentType ||
		f.IsHashtagged != in.IsHashtagged ||
		f.FinancialYear != in.FinancialYear ||
		!f.Value.Equal(in.Value)
}
