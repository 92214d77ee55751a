package ds

import "github.com/shopspring/decimal"

// 3. Таблица компонентов услуги — коэффициент, который услуга вносит в
// формулу цены по одному типу компонента. На услугу допускается не более
// одного активного компонента каждого типа.
type ServiceComponent struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ServiceID     uint            `gorm:"not null;index" json:"service_id"`
	ComponentType FactorType      `gorm:"type:varchar(20);not null" json:"component_type"`
	Coefficient   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"coefficient"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	Version       int             `gorm:"not null;default:1" json:"version"`
	Audit

	Service MedicalService `gorm:"foreignKey:ServiceID" json:"-"`
}
