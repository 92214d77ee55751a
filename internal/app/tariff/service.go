package tariff

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/app/ds"
)

// ServiceInput — данные для создания услуги; коэффициенты компонентов
// необязательны (услуга может иметь только один из двух типов)
type ServiceInput struct {
	Code              string
	Name              string
	Description       string
	IsHashtagged      bool
	TechnicalCoeff    *decimal.Decimal
	ProfessionalCoeff *decimal.Decimal
}

func validateServiceInput(in ServiceInput) map[string]string {
	fields := make(map[string]string)
	if strings.TrimSpace(in.Code) == "" {
		fields["code"] = "код услуги обязателен"
	}
	if strings.TrimSpace(in.Name) == "" {
		fields["name"] = "наименование услуги обязательно"
	}
	if in.TechnicalCoeff != nil {
		if msg := validateCoefficient(*in.TechnicalCoeff); msg != "" {
			fields["technical_coeff"] = msg
		}
	}
	if in.ProfessionalCoeff != nil {
		if msg := validateCoefficient(*in.ProfessionalCoeff); msg != "" {
			fields["professional_coeff"] = msg
		}
	}
	return fields
}

// CreateService создаёт услугу с начальными компонентами и сразу
// синхронизирует кэш цены
func (e *Engine) CreateService(in ServiceInput, asOf time.Time, actorID uint) (*ds.MedicalService, *PriceSync, error) {
	if fields := validateServiceInput(in); len(fields) > 0 {
		return nil, nil, validationError(fields)
	}

	var (
		out  *ds.MedicalService
		sync *PriceSync
	)
	err := e.store.InTx(func(s Store) error {
		existing, err := s.GetServiceByCode(in.Code)
		if err != nil {
			return err
		}
		if existing != nil {
			return &Error{
				Kind:    KindValidation,
				Message: "услуга с таким кодом уже существует",
				Fields:  map[string]string{"code": "код услуги должен быть уникальным"},
			}
		}

		now := time.Now()
		audit := ds.Audit{
			CreatedAt: now,
			UpdatedAt: now,
			CreatedBy: actorID,
			UpdatedBy: actorID,
		}

		svc := &ds.MedicalService{
			Code:         in.Code,
			Name:         in.Name,
			Description:  in.Description,
			IsHashtagged: in.IsHashtagged,
			Price:        decimal.Zero,
			IsActive:     true,
			Audit:        audit,
		}
		if err := s.CreateService(svc); err != nil {
			return err
		}

		seed := map[ds.FactorType]*decimal.Decimal{
			ds.FactorTechnical:    in.TechnicalCoeff,
			ds.FactorProfessional: in.ProfessionalCoeff,
		}
		for _, t := range []ds.FactorType{ds.FactorTechnical, ds.FactorProfessional} {
			coeff := seed[t]
			if coeff == nil {
				continue
			}
			c := &ds.ServiceComponent{
				ServiceID:     svc.ID,
				ComponentType: t,
				Coefficient:   *coeff,
				IsActive:      true,
				Version:       1,
				Audit:         audit,
			}
			if err := s.CreateComponent(c); err != nil {
				return err
			}
		}

		sync, err = e.recalculate(s, svc.ID, asOf, actorID)
		if err != nil {
			return err
		}
		out = svc
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, sync, nil
}

// CreateServiceFromTemplate создаёт услугу по шаблону: коэффициенты
// компонентов берутся из значений по умолчанию шаблона
func (e *Engine) CreateServiceFromTemplate(templateID uint, code, name string, asOf time.Time, actorID uint) (*ds.MedicalService, *PriceSync, error) {
	tpl, err := e.store.GetTemplate(templateID)
	if err != nil {
		return nil, nil, err
	}
	if tpl == nil {
		return nil, nil, newError(KindNotFound, "шаблон услуги не найден")
	}

	return e.CreateService(ServiceInput{
		Code:              code,
		Name:              name,
		IsHashtagged:      tpl.IsHashtagged,
		TechnicalCoeff:    tpl.DefaultTechnicalCoeff,
		ProfessionalCoeff: tpl.DefaultProfessionalCoeff,
	}, asOf, actorID)
}
