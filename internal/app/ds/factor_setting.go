package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

// Тип компонента тарифа
type FactorType string

const (
	FactorTechnical    FactorType = "technical"    // технический компонент (кей فني)
	FactorProfessional FactorType = "professional" // профессиональный компонент (кей حرفه‌اي)
)

// Valid проверяет, что тип компонента из закрытого множества
func (t FactorType) Valid() bool {
	switch t {
	case FactorTechnical, FactorProfessional:
		return true
	}
	return false
}

// Тарифная область действия коэффициента (8 фиксированных областей,
// варианты с "#" — хэштегированные подмножества кодов услуг)
type FactorScope string

const (
	ScopeGeneral               FactorScope = "general"
	ScopeGeneralHashtagged     FactorScope = "general_hashtagged"
	ScopeOutpatient            FactorScope = "outpatient"
	ScopeOutpatientHashtagged  FactorScope = "outpatient_hashtagged"
	ScopeDental                FactorScope = "dental"
	ScopeDentalHashtagged      FactorScope = "dental_hashtagged"
	ScopeParaclinic            FactorScope = "paraclinic"
	ScopeParaclinicHashtagged  FactorScope = "paraclinic_hashtagged"
)

// Valid проверяет, что область из закрытого множества
func (s FactorScope) Valid() bool {
	switch s {
	case ScopeGeneral, ScopeGeneralHashtagged,
		ScopeOutpatient, ScopeOutpatientHashtagged,
		ScopeDental, ScopeDentalHashtagged,
		ScopeParaclinic, ScopeParaclinicHashtagged:
		return true
	}
	return false
}

// Hashtagged сообщает, относится ли область к хэштегированному подмножеству
func (s FactorScope) Hashtagged() bool {
	switch s {
	case ScopeGeneralHashtagged, ScopeOutpatientHashtagged,
		ScopeDentalHashtagged, ScopeParaclinicHashtagged:
		return true
	}
	return false
}

// 1. Таблица тарифных коэффициентов (версионируются по финансовому году)
type FactorSetting struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ComponentType FactorType      `gorm:"type:varchar(20);not null;index:idx_factor_key" json:"component_type"`
	Scope         FactorScope     `gorm:"type:varchar(30);not null" json:"scope"`
	IsHashtagged  bool            `gorm:"not null;default:false;index:idx_factor_key" json:"is_hashtagged"`
	Value         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"value"`
	FinancialYear int             `gorm:"not null;index:idx_factor_key" json:"financial_year"` // год по иранскому календарю
	EffectiveFrom *time.Time      `gorm:"type:date" json:"effective_from,omitempty"`
	EffectiveTo   *time.Time      `gorm:"type:date" json:"effective_to,omitempty"`
	Description   string          `gorm:"type:text" json:"description"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	IsFrozen      bool            `gorm:"not null;default:false" json:"is_frozen"` // заморозка необратима
	Version       int             `gorm:"not null;default:1" json:"version"`       // оптимистическая блокировка
	Audit
}
