package tariff

import (
	"clinic-backend/internal/app/ds"

	"github.com/shopspring/decimal"
)

// Граничные значения тарифной книги
var (
	minFactorValue         = decimal.RequireFromString("0.01")
	maxFactorValue         = decimal.RequireFromString("999999.99")
	maxTechnicalHashtagged = decimal.NewFromInt(50000)  // потолок технического хэштегированного кея
	maxProfessional        = decimal.NewFromInt(100000) // потолок профессионального кея
)

// Не более 10 активных коэффициентов на финансовый год
const maxActiveFactorsPerYear = 10

// Допустимый интервал годов иранского календаря
const (
	minFinancialYear = 1300
	maxFinancialYear = 1500
)

// validateFactorValue проверяет диапазон значения с учётом потолков по типу
func validateFactorValue(t ds.FactorType, hashtagged bool, v decimal.Decimal) string {
	if v.LessThan(minFactorValue) || v.GreaterThan(maxFactorValue) {
		return "значение должно быть в диапазоне 0.01–999999.99"
	}
	if t == ds.FactorTechnical && hashtagged && v.GreaterThan(maxTechnicalHashtagged) {
		return "технический хэштегированный коэффициент не может превышать 50000"
	}
	if t == ds.FactorProfessional && v.GreaterThan(maxProfessional) {
		return "профессиональный коэффициент не может превышать 100000"
	}
	return ""
}

// validateFactorInput собирает все нарушения по полям, не останавливаясь
// на первом
func validateFactorInput(in FactorInput) map[string]string {
	fields := make(map[string]string)

	if !in.ComponentType.Valid() {
		fields["component_type"] = "недопустимый тип компонента"
	}
	if !in.Scope.Valid() {
		fields["scope"] = "недопустимая тарифная область"
	} else if in.Scope.Hashtagged() != in.IsHashtagged {
		fields["scope"] = "область не согласована с признаком хэштега"
	}
	if msg := validateFactorValue(in.ComponentType, in.IsHashtagged, in.Value); msg != "" {
		fields["value"] = msg
	}
	if in.FinancialYear < minFinancialYear || in.FinancialYear > maxFinancialYear {
		fields["financial_year"] = "недопустимый финансовый год"
	}
	if in.EffectiveFrom != nil && in.EffectiveTo != nil && in.EffectiveTo.Before(*in.EffectiveFrom) {
		fields["effective_to"] = "дата окончания раньше даты начала"
	}

	return fields
}

// validateCoefficient проверяет диапазон коэффициента компонента услуги
func validateCoefficient(c decimal.Decimal) string {
	if c.LessThan(minFactorValue) || c.GreaterThan(maxFactorValue) {
		return "коэффициент должен быть в диапазоне 0.01–999999.99"
	}
	return ""
}

// validateOverride проверяет переопределение отделения (то же ограничение,
// что и для глобального значения соответствующего типа)
func validateOverride(t ds.FactorType, hashtagged bool, v *decimal.Decimal) string {
	if v == nil {
		return ""
	}
	return validateFactorValue(t, hashtagged, *v)
}
