package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"` // ошибки по полям формы
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Warning string      `json:"warning,omitempty"` // неблокирующее предупреждение (устаревшая цена)
	Data    interface{} `json:"data,omitempty"`
}

// ============ Тарифные коэффициенты (Factor Settings) ============

type CreateFactorRequest struct {
	ComponentType string          `json:"component_type" binding:"required,oneof=technical professional"`
	Scope         string          `json:"scope" binding:"required"`
	IsHashtagged  bool            `json:"is_hashtagged"`
	Value         decimal.Decimal `json:"value" binding:"required"`
	FinancialYear int             `json:"financial_year" binding:"required"`
	EffectiveFrom *time.Time      `json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to"`
	Description   string          `json:"description"`
	IsActive      *bool           `json:"is_active"` // по умолчанию true
}

type UpdateFactorRequest struct {
	CreateFactorRequest
	Version int `json:"version" binding:"required,gte=1"`
}

type FactorResponse struct {
	ID            uint            `json:"id"`
	ComponentType string          `json:"component_type"`
	Scope         string          `json:"scope"`
	IsHashtagged  bool            `json:"is_hashtagged"`
	Value         decimal.Decimal `json:"value"`
	FinancialYear int             `json:"financial_year"`
	EffectiveFrom *time.Time      `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	Description   string          `json:"description"`
	IsActive      bool            `json:"is_active"`
	IsFrozen      bool            `json:"is_frozen"`
	Version       int             `json:"version"`
}

type FactorListResponse struct {
	Factors []FactorResponse `json:"factors"`
	Total   int              `json:"total"`
}

type FreezeResponse struct {
	FinancialYear int   `json:"financial_year"`
	FrozenCount   int64 `json:"frozen_count"`
}

type FactorInUseResponse struct {
	FactorID uint `json:"factor_id"`
	InUse    bool `json:"in_use"`
}

// ============ Компоненты услуг (Service Components) ============

type CreateComponentRequest struct {
	ServiceID     uint            `json:"service_id" binding:"required"`
	ComponentType string          `json:"component_type" binding:"required,oneof=technical professional"`
	Coefficient   decimal.Decimal `json:"coefficient" binding:"required"`
	IsActive      *bool           `json:"is_active"`
}

type UpdateComponentRequest struct {
	ComponentType string          `json:"component_type" binding:"required,oneof=technical professional"`
	Coefficient   decimal.Decimal `json:"coefficient" binding:"required"`
	IsActive      *bool           `json:"is_active"`
	Version       int             `json:"version" binding:"required,gte=1"`
}

type ComponentResponse struct {
	ID            uint            `json:"id"`
	ServiceID     uint            `json:"service_id"`
	ComponentType string          `json:"component_type"`
	Coefficient   decimal.Decimal `json:"coefficient"`
	IsActive      bool            `json:"is_active"`
	Version       int             `json:"version"`
}

// ============ Услуги (Medical Services) ============

type CreateServiceRequest struct {
	Code              string           `json:"code" binding:"required,max=20"`
	Name              string           `json:"name" binding:"required,max=200"`
	Description       string           `json:"description"`
	IsHashtagged      bool             `json:"is_hashtagged"`
	TechnicalCoeff    *decimal.Decimal `json:"technical_coeff"`
	ProfessionalCoeff *decimal.Decimal `json:"professional_coeff"`
}

type CreateServiceFromTemplateRequest struct {
	TemplateID uint   `json:"template_id" binding:"required"`
	Code       string `json:"code" binding:"required,max=20"`
	Name       string `json:"name" binding:"required,max=200"`
}

type ServiceResponse struct {
	ID           uint            `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	IsHashtagged bool            `json:"is_hashtagged"`
	Price        decimal.Decimal `json:"price"`
	PriceStale   bool            `json:"price_stale"`
	PricedAt     *time.Time      `json:"priced_at,omitempty"`
	IsActive     bool            `json:"is_active"`
}

type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
	Total    int               `json:"total"`
}

// ============ Общие услуги отделений (Shared Services) ============

type CreateSharedServiceRequest struct {
	ServiceID                  uint             `json:"service_id" binding:"required"`
	DepartmentID               uint             `json:"department_id" binding:"required"`
	OverrideTechnicalFactor    *decimal.Decimal `json:"override_technical_factor"`
	OverrideProfessionalFactor *decimal.Decimal `json:"override_professional_factor"`
}

type UpdateOverridesRequest struct {
	OverrideTechnicalFactor    *decimal.Decimal `json:"override_technical_factor"`
	OverrideProfessionalFactor *decimal.Decimal `json:"override_professional_factor"`
}

type SharedServiceResponse struct {
	ID                         uint             `json:"id"`
	ServiceID                  uint             `json:"service_id"`
	DepartmentID               uint             `json:"department_id"`
	OverrideTechnicalFactor    *decimal.Decimal `json:"override_technical_factor,omitempty"`
	OverrideProfessionalFactor *decimal.Decimal `json:"override_professional_factor,omitempty"`
	IsActive                   bool             `json:"is_active"`
}

// ============ Расчёт цены ============

type SharedCalculationRequest struct {
	ServiceID                  uint             `json:"service_id" binding:"required"`
	DepartmentID               uint             `json:"department_id" binding:"required"`
	OverrideTechnicalFactor    *decimal.Decimal `json:"override_technical_factor"`
	OverrideProfessionalFactor *decimal.Decimal `json:"override_professional_factor"`
	Date                       string           `json:"date"` // формат 2006-01-02, по умолчанию сегодня
}

type BreakdownItemResponse struct {
	ComponentType string          `json:"component_type"`
	Coefficient   decimal.Decimal `json:"coefficient"`
	FactorValue   decimal.Decimal `json:"factor_value"`
	Source        string          `json:"source"`
	Contribution  decimal.Decimal `json:"contribution"`
}

type CalculationResponse struct {
	Reference     string                  `json:"reference"`
	ServiceID     uint                    `json:"service_id"`
	DepartmentID  *uint                   `json:"department_id,omitempty"`
	FinancialYear int                     `json:"financial_year"`
	AsOf          time.Time               `json:"as_of"`
	Components    []BreakdownItemResponse `json:"components"`
	Total         decimal.Decimal         `json:"total"`
}
