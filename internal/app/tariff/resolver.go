package tariff

import (
	"fmt"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/app/ds"
)

// Источник значения коэффициента в расшифровке расчёта
const (
	SourceActiveFactor       = "active_factor"
	SourceDepartmentOverride = "department_override"
)

// overrides — переопределения коэффициентов в контексте общей услуги
// отделения ("сырые" значения, без записи FactorSetting)
type overrides struct {
	departmentID uint
	technical    *decimal.Decimal
	professional *decimal.Decimal
}

func (o *overrides) valueFor(t ds.FactorType) *decimal.Decimal {
	switch t {
	case ds.FactorTechnical:
		return o.technical
	case ds.FactorProfessional:
		return o.professional
	}
	return nil
}

// resolveFactor разрешает значение коэффициента для типа компонента.
// Приоритет строгий: явное переопределение отделения > глобально активный
// коэффициент года > ошибка MissingFactor.
func (e *Engine) resolveFactor(s Store, t ds.FactorType, hashtagged bool, year int, ovr *overrides) (decimal.Decimal, string, error) {
	if ovr != nil {
		if v := ovr.valueFor(t); v != nil {
			return *v, SourceDepartmentOverride, nil
		}
	}

	f, err := s.GetActiveFactor(t, hashtagged, year)
	if err != nil {
		return decimal.Zero, "", err
	}
	if f == nil {
		return decimal.Zero, "", &Error{
			Kind:    KindMissingFactor,
			Message: fmt.Sprintf("нет активного коэффициента (%s, хэштег=%v) на %d год", t, hashtagged, year),
			Fields:  map[string]string{"component_type": string(t)},
		}
	}
	return f.Value, SourceActiveFactor, nil
}
