package ds

import "github.com/shopspring/decimal"

// 4. Таблица общих услуг — экземпляр услуги, привязанный к отделению.
// Отделение может подставить собственные значения коэффициентов вместо
// глобально активных (переопределения хранятся как "сырые" значения,
// без отдельной записи FactorSetting).
type SharedService struct {
	ID                         uint             `gorm:"primaryKey" json:"id"`
	ServiceID                  uint             `gorm:"not null;index:idx_shared_service" json:"service_id"`
	DepartmentID               uint             `gorm:"not null;index:idx_shared_service" json:"department_id"`
	OverrideTechnicalFactor    *decimal.Decimal `gorm:"type:decimal(12,2)" json:"override_technical_factor,omitempty"`
	OverrideProfessionalFactor *decimal.Decimal `gorm:"type:decimal(12,2)" json:"override_professional_factor,omitempty"`
	IsActive                   bool             `gorm:"not null;default:true" json:"is_active"`
	Audit

	Service    MedicalService `gorm:"foreignKey:ServiceID" json:"-"`
	Department Department     `gorm:"foreignKey:DepartmentID" json:"-"`
}

// OverrideFor возвращает переопределение для типа компонента (nil — нет)
func (s *SharedService) OverrideFor(t FactorType) *decimal.Decimal {
	switch t {
	case FactorTechnical:
		return s.OverrideTechnicalFactor
	case FactorProfessional:
		return s.OverrideProfessionalFactor
	}
	return nil
}
