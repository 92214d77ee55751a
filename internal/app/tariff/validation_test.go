package tariff

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"clinic-backend/internal/app/ds"
)

func validInput() FactorInput {
	return FactorInput{
		ComponentType: ds.FactorTechnical,
		Scope:         ds.ScopeGeneral,
		IsHashtagged:  false,
		Value:         decimal.RequireFromString("25000.00"),
		FinancialYear: 1404,
		IsActive:      true,
	}
}

func TestValidateFactorValue_Boundaries(t *testing.T) {
	// включительные границы диапазона
	assert.Empty(t, validateFactorValue(ds.FactorTechnical, false, decimal.RequireFromString("0.01")))
	assert.Empty(t, validateFactorValue(ds.FactorTechnical, false, decimal.RequireFromString("999999.99")))

	assert.NotEmpty(t, validateFactorValue(ds.FactorTechnical, false, decimal.RequireFromString("0.00")))
	assert.NotEmpty(t, validateFactorValue(ds.FactorTechnical, false, decimal.RequireFromString("1000000.00")))
	assert.NotEmpty(t, validateFactorValue(ds.FactorTechnical, false, decimal.RequireFromString("-5")))
}

func TestValidateFactorValue_TypeCeilings(t *testing.T) {
	// технический хэштегированный — не выше 50000
	assert.Empty(t, validateFactorValue(ds.FactorTechnical, true, decimal.NewFromInt(50000)))
	assert.NotEmpty(t, validateFactorValue(ds.FactorTechnical, true, decimal.RequireFromString("50000.01")))

	// нехэштегированный технический потолком 50000 не ограничен
	assert.Empty(t, validateFactorValue(ds.FactorTechnical, false, decimal.NewFromInt(60000)))

	// профессиональный — не выше 100000 независимо от хэштега
	assert.Empty(t, validateFactorValue(ds.FactorProfessional, false, decimal.NewFromInt(100000)))
	assert.NotEmpty(t, validateFactorValue(ds.FactorProfessional, false, decimal.RequireFromString("100000.01")))
	assert.NotEmpty(t, validateFactorValue(ds.FactorProfessional, true, decimal.NewFromInt(100001)))
}

func TestValidateFactorInput_CollectsAllViolations(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)

	in := FactorInput{
		ComponentType: ds.FactorType("surgical"),
		Scope:         ds.FactorScope("inpatient"),
		Value:         decimal.Zero,
		FinancialYear: 99,
		EffectiveFrom: &from,
		EffectiveTo:   &to,
	}

	fields := validateFactorInput(in)
	// все нарушения собраны разом, не только первое
	assert.Len(t, fields, 5)
	assert.Contains(t, fields, "component_type")
	assert.Contains(t, fields, "scope")
	assert.Contains(t, fields, "value")
	assert.Contains(t, fields, "financial_year")
	assert.Contains(t, fields, "effective_to")
}

func TestValidateFactorInput_ScopeHashtagConsistency(t *testing.T) {
	in := validInput()
	in.Scope = ds.ScopeDentalHashtagged
	in.IsHashtagged = false

	fields := validateFactorInput(in)
	assert.Contains(t, fields, "scope")

	in.IsHashtagged = true
	in.Value = decimal.NewFromInt(40000)
	assert.Empty(t, validateFactorInput(in))
}

func TestValidateFactorInput_Valid(t *testing.T) {
	assert.Empty(t, validateFactorInput(validInput()))
}
