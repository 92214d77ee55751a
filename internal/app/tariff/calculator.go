package tariff

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"clinic-backend/internal/app/ds"
)

// ComponentBreakdown — вклад одного компонента в цену услуги
type ComponentBreakdown struct {
	ComponentType ds.FactorType   `json:"component_type"`
	Coefficient   decimal.Decimal `json:"coefficient"`
	FactorValue   decimal.Decimal `json:"factor_value"`
	Source        string          `json:"source"` // active_factor | department_override
	Contribution  decimal.Decimal `json:"contribution"`
}

// Calculation — результат расчёта цены с расшифровкой для аудита
type Calculation struct {
	Reference     uuid.UUID            `json:"reference"`
	ServiceID     uint                 `json:"service_id"`
	DepartmentID  *uint                `json:"department_id,omitempty"`
	FinancialYear int                  `json:"financial_year"`
	AsOf          time.Time            `json:"as_of"`
	Components    []ComponentBreakdown `json:"components"`
	Total         decimal.Decimal      `json:"total"`
}

// CalculatePrice рассчитывает цену услуги на дату asOf по глобально
// активным коэффициентам
func (e *Engine) CalculatePrice(serviceID uint, asOf time.Time) (*Calculation, error) {
	var out *Calculation
	err := e.store.InTx(func(s Store) error {
		calc, err := e.calculateTx(s, serviceID, nil, asOf)
		if err != nil {
			return err
		}
		out = calc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CalculateSharedServicePrice рассчитывает цену услуги в контексте
// отделения. Явно переданные переопределения имеют приоритет над
// сохранёнными в записи общей услуги; отсутствующие значения берутся из
// глобально активных коэффициентов.
func (e *Engine) CalculateSharedServicePrice(serviceID, departmentID uint, overrideTechnical, overrideProfessional *decimal.Decimal, asOf time.Time) (*Calculation, error) {
	var out *Calculation
	err := e.store.InTx(func(s Store) error {
		ss, err := s.FindSharedService(serviceID, departmentID)
		if err != nil {
			return err
		}
		if ss == nil && overrideTechnical == nil && overrideProfessional == nil {
			return newError(KindNotFound, "общая услуга для отделения не найдена")
		}

		ovr := &overrides{departmentID: departmentID}
		if ss != nil {
			ovr.technical = ss.OverrideTechnicalFactor
			ovr.professional = ss.OverrideProfessionalFactor
		}
		// Явные значения запроса ("что если") поверх сохранённых
		if overrideTechnical != nil {
			ovr.technical = overrideTechnical
		}
		if overrideProfessional != nil {
			ovr.professional = overrideProfessional
		}

		calc, err := e.calculateTx(s, serviceID, ovr, asOf)
		if err != nil {
			return err
		}
		calc.DepartmentID = &departmentID
		out = calc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// calculateTx — ядро расчёта внутри транзакции.
// Цена = сумма вкладов активных компонентов услуги; вклад компонента =
// коэффициент * разрешённое значение тарифного коэффициента. Отсутствие
// одного из двух типов компонентов у услуги — не ошибка, слагаемое просто
// опускается. Отсутствие разрешимого коэффициента для имеющегося
// компонента — MissingFactor.
func (e *Engine) calculateTx(s Store, serviceID uint, ovr *overrides, asOf time.Time) (*Calculation, error) {
	svc, err := s.GetService(serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, newError(KindNotFound, "услуга не найдена")
	}

	comps, err := s.ListActiveComponents(serviceID)
	if err != nil {
		return nil, err
	}

	year := FinancialYearOf(asOf)
	calc := &Calculation{
		Reference:     uuid.New(),
		ServiceID:     serviceID,
		FinancialYear: year,
		AsOf:          asOf,
		Components:    make([]ComponentBreakdown, 0, len(comps)),
		Total:         decimal.Zero,
	}

	for _, comp := range comps {
		value, source, err := e.resolveFactor(s, comp.ComponentType, svc.IsHashtagged, year, ovr)
		if err != nil {
			return nil, err
		}

		contribution := comp.Coefficient.Mul(value)
		calc.Components = append(calc.Components, ComponentBreakdown{
			ComponentType: comp.ComponentType,
			Coefficient:   comp.Coefficient,
			FactorValue:   value,
			Source:        source,
			Contribution:  contribution,
		})
		calc.Total = calc.Total.Add(contribution)
	}

	return calc, nil
}
