package ds

import "github.com/shopspring/decimal"

// 5. Таблица шаблонов услуг — значения коэффициентов по умолчанию,
// используемые при создании новой услуги. В расчёте цены не участвуют.
type ServiceTemplate struct {
	ID                       uint             `gorm:"primaryKey" json:"id"`
	Name                     string           `gorm:"type:varchar(200);not null" json:"name"`
	IsHashtagged             bool             `gorm:"not null;default:false" json:"is_hashtagged"`
	DefaultTechnicalCoeff    *decimal.Decimal `gorm:"type:decimal(12,2)" json:"default_technical_coeff,omitempty"`
	DefaultProfessionalCoeff *decimal.Decimal `gorm:"type:decimal(12,2)" json:"default_professional_coeff,omitempty"`
	IsActive                 bool             `gorm:"not null;default:true" json:"is_active"`
	Audit
}
