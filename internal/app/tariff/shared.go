package tariff

import (
	"time"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/app/ds"
)

// SharedServiceInput — привязка услуги к отделению с необязательными
// переопределениями коэффициентов
type SharedServiceInput struct {
	ServiceID                  uint
	DepartmentID               uint
	OverrideTechnicalFactor    *decimal.Decimal
	OverrideProfessionalFactor *decimal.Decimal
	IsActive                   bool
}

func validateOverrides(hashtagged bool, techOvr, profOvr *decimal.Decimal) map[string]string {
	fields := make(map[string]string)
	if msg := validateOverride(ds.FactorTechnical, hashtagged, techOvr); msg != "" {
		fields["override_technical_factor"] = msg
	}
	if msg := validateOverride(ds.FactorProfessional, hashtagged, profOvr); msg != "" {
		fields["override_professional_factor"] = msg
	}
	return fields
}

// CreateSharedService создаёт общую услугу отделения. Пара
// (услуга, отделение) уникальна среди неудалённых записей.
func (e *Engine) CreateSharedService(in SharedServiceInput, asOf time.Time, actorID uint) (*ds.SharedService, *PriceSync, error) {
	var (
		out  *ds.SharedService
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
		dep, err := s.GetDepartment(in.DepartmentID)
		if err != nil {
			return err
		}
		if dep == nil {
			return newError(KindNotFound, "отделение не найдено")
		}

		if fields := validateOverrides(svc.IsHashtagged, in.OverrideTechnicalFactor, in.OverrideProfessionalFactor); len(fields) > 0 {
			return validationError(fields)
		}

		exists, err := s.SharedServiceExists(in.ServiceID, in.DepartmentID, 0)
		if err != nil {
			return err
		}
		if exists {
			return &Error{
				Kind:    KindValidation,
				Message: "услуга уже привязана к этому отделению",
				Fields:  map[string]string{"department_id": "пара услуга-отделение уже существует"},
			}
		}

		now := time.Now()
		ss := &ds.SharedService{
			ServiceID:                  in.ServiceID,
			DepartmentID:               in.DepartmentID,
			OverrideTechnicalFactor:    in.OverrideTechnicalFactor,
			OverrideProfessionalFactor: in.OverrideProfessionalFactor,
			IsActive:                   in.IsActive,
			Audit: ds.Audit{
				CreatedAt: now,
				UpdatedAt: now,
				CreatedBy: actorID,
				UpdatedBy: actorID,
			},
		}
		if err := s.CreateSharedService(ss); err != nil {
			return err
		}

		sync, err = e.recalculate(s, in.ServiceID, asOf, actorID)
		if err != nil {
			return err
		}
		out = ss
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, sync, nil
}

// UpdateSharedServiceOverrides заменяет переопределения коэффициентов
// общей услуги (nil снимает переопределение) и пересчитывает цену
// владеющей услуги в той же транзакции
func (e *Engine) UpdateSharedServiceOverrides(id uint, techOvr, profOvr *decimal.Decimal, asOf time.Time, actorID uint) (*ds.SharedService, *PriceSync, error) {
	var (
		out  *ds.SharedService
		sync *PriceSync
	)
	err := e.store.InTx(func(s Store) error {
		ss, err := s.GetSharedService(id)
		if err != nil {
			return err
		}
		if ss == nil {
			return newError(KindNotFound, "общая услуга не найдена")
		}

		svc, err := s.GetService(ss.ServiceID)
		if err != nil {
			return err
		}
		if svc == nil {
			return newError(KindNotFound, "услуга не найдена")
		}

		if fields := validateOverrides(svc.IsHashtagged, techOvr, profOvr); len(fields) > 0 {
			return validationError(fields)
		}

		ss.OverrideTechnicalFactor = techOvr
		ss.OverrideProfessionalFactor = profOvr
		ss.UpdatedAt = time.Now()
		ss.UpdatedBy = actorID
		if err := s.SaveSharedService(ss); err != nil {
			return err
		}

		sync, err = e.recalculate(s, ss.ServiceID, asOf, actorID)
		if err != nil {
			return err
		}
		out = ss
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, sync, nil
}

// DeleteSharedService логически удаляет общую услугу отделения
func (e *Engine) DeleteSharedService(id uint, asOf time.Time, actorID uint) (*PriceSync, error) {
	var sync *PriceSync
	err := e.store.InTx(func(s Store) error {
		ss, err := s.GetSharedService(id)
		if err != nil {
			return err
		}
		if ss == nil {
			return newError(KindNotFound, "общая услуга не найдена")
		}

		now := time.Now()
		ss.IsActive = false
		ss.DeletedAt = &now
		ss.DeletedBy = &actorID
		ss.UpdatedAt = now
		ss.UpdatedBy = actorID
		if err := s.SaveSharedService(ss); err != nil {
			return err
		}

		sync, err = e.recalculate(s, ss.ServiceID, asOf, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return sync, nil
}
