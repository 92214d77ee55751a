package tariff

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/app/ds"
)

func TestCreateService_SeedsComponentsAndPrice(t *testing.T) {
	store := newFakeStore()
	store.seedFactor(ds.FactorTechnical, false, 1404, "10000", true)
	store.seedFactor(ds.FactorProfessional, false, 1404, "40000", true)
	e := New(store)

	tech := decimal.RequireFromString("2.5")
	prof := decimal.RequireFromString("1.2")

	svc, sync, err := e.CreateService(ServiceInput{
		Code:              "901234",
		Name:              "Эхокардиография",
		TechnicalCoeff:    &tech,
		ProfessionalCoeff: &prof,
	}, asOf1404, 4)
	require.NoError(t, err)
	require.NotNil(t, svc)
	assert.True(t, svc.IsActive)
	assert.Equal(t, uint(4), svc.CreatedBy)

	comps, err := store.ListActiveComponents(svc.ID)
	require.NoError(t, err)
	assert.Len(t, comps, 2)

	require.NotNil(t, sync)
	assert.True(t, sync.Price.Equal(decimal.NewFromInt(73000)), "price = %s", sync.Price)
}

func TestCreateService_WithoutComponents(t *testing.T) {
	store := newFakeStore()
	e := New(store)

	// услуга без компонентов допустима, цена нулевая
	svc, sync, err := e.CreateService(ServiceInput{
		Code: "900001",
		Name: "Консультация",
	}, asOf1404, 1)
	require.NoError(t, err)
	require.NotNil(t, sync)
	assert.True(t, sync.Price.Equal(decimal.Zero))
	assert.False(t, sync.Stale)

	comps, err := store.ListActiveComponents(svc.ID)
	require.NoError(t, err)
	assert.Empty(t, comps)
}

func TestCreateService_DuplicateCode(t *testing.T) {
	store := newFakeStore()
	store.seedService("901234", false)
	e := New(store)

	_, _, err := e.CreateService(ServiceInput{
		Code: "901234",
		Name: "Дубликат",
	}, asOf1404, 1)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))

	var be *Error
	require.ErrorAs(t, err, &be)
	assert.Contains(t, be.Fields, "code")
}

func TestCreateService_InvalidCoefficient(t *testing.T) {
	e := New(newFakeStore())

	bad := decimal.Zero
	_, _, err := e.CreateService(ServiceInput{
		Code:           "901234",
		Name:           "Услуга",
		TechnicalCoeff: &bad,
	}, asOf1404, 1)
	assert.True(t, IsKind(err, KindValidation))
}

func TestCreateServiceFromTemplate(t *testing.T) {
	store := newFakeStore()
	store.seedFactor(ds.FactorTechnical, true, 1404, "8000", true)

	tech := decimal.RequireFromString("2.0")
	store.templates[1] = &ds.ServiceTemplate{
		ID:                    1,
		Name:                  "Хэштегированная диагностика",
		IsHashtagged:          true,
		DefaultTechnicalCoeff: &tech,
		IsActive:              true,
	}

	e := New(store)

	svc, sync, err := e.CreateServiceFromTemplate(1, "905555", "МРТ с контрастом", asOf1404, 2)
	require.NoError(t, err)
	assert.True(t, svc.IsHashtagged)

	require.NotNil(t, sync)
	assert.True(t, sync.Price.Equal(decimal.NewFromInt(16000)))
}

func TestCreateServiceFromTemplate_NotFound(t *testing.T) {
	e := New(newFakeStore())

	_, _, err := e.CreateServiceFromTemplate(42, "905555", "МРТ", asOf1404, 1)
	assert.True(t, IsKind(err, KindNotFound))
}
