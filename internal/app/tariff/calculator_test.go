package tariff

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinic-backend/internal/app/ds"
)

func (c *Calculation) contribution(t ds.FactorType) *ComponentBreakdown {
	for i := range c.Components {
		if c.Components[i].ComponentType == t {
			return &c.Components[i]
		}
	}
	return nil
}

func TestCalculatePrice(t *testing.T) {
	store := newFakeStore()
	store.seedFactor(ds.FactorTechnical, false, 1404, "10000", true)
	store.seedFactor(ds.FactorProfessional, false, 1404, "40000", true)
	svc := store.seedService("901234", false)
	store.seedComponent(svc.ID, ds.FactorTechnical, "2.5")
	store.seedComponent(svc.ID, ds.FactorProfessional, "1.2")

	e := New(store)

	calc, err := e.CalculatePrice(svc.ID, asOf1404)
	require.NoError(t, err)

	assert.Equal(t, svc.ID, calc.ServiceID)
	assert.Nil(t, calc.DepartmentID)
	assert.Equal(t, 1404, calc.FinancialYear)
	require.Len(t, calc.Components, 2)

	// 2.5 * 10000 + 1.2 * 40000 = 73000
	assert.True(t, calc.Total.Equal(decimal.NewFromInt(73000)), "total = %s", calc.Total)

	tech := calc.contribution(ds.FactorTechnical)
	require.NotNil(t, tech)
	assert.Equal(t, SourceActiveFactor, tech.Source)
	assert.True(t, tech.Contribution.Equal(decimal.NewFromInt(25000)))
}

func TestCalculatePrice_SingleComponent(t *testing.T) {
	store := newFakeStore()
	store.seedFactor(ds.FactorTechnical, false, 1404, "10000", true)
	svc := store.seedService("901234", false)
	store.seedComponent(svc.ID, ds.FactorTechnical, "2.5")

	e := New(store)

	// отсутствие профессионального компонента — не ошибка, слагаемое опускается
	calc, err := e.CalculatePrice(svc.ID, asOf1404)
	require.NoError(t, err)
	require.Len(t, calc.Components, 1)
	assert.True(t, calc.Total.Equal(decimal.NewFromInt(25000)))
}

func TestCalculatePrice_MissingFactor(t *testing.T) {
	store := newFakeStore()
	store.seedFactor(ds.FactorTechnical, false, 1404, "10000", true)
	svc := store.seedService("901234", false)
	store.seedComponent(svc.ID, ds.FactorTechnical, "2.5")
	store.seedComponent(svc.ID, ds.FactorProfessional, "1.2")

	e := New(store)

	// профессионального коэффициента на 1404 год нет
	_, err := e.CalculatePrice(svc.ID, asOf1404)
	assert.True(t, IsKind(err, KindMissingFactor))
}

func TestCalculatePrice_HashtaggedResolution(t *testing.T) {
	store := newFakeStore()
	store.seedFactor(ds.FactorTechnical, false, 1404, "10000", true)
	store.seedFactor(ds.FactorTechnical, true, 1404, "8000", true)
	svc := store.seedService("905555", true)
	store.seedComponent(svc.ID, ds.FactorTechnical, "2.0")

	e := New(store)

	// хэштегированная услуга разрешает хэштегированный коэффициент
	calc, err := e.CalculatePrice(svc.ID, asOf1404)
	require.NoError(t, err)
	assert.True(t, calc.Total.Equal(decimal.NewFromInt(16000)))
}

func TestCalculatePrice_NotFound(t *testing.T) {
	e := New(newFakeStore())

	_, err := e.CalculatePrice(42, asOf1404)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestCalculatePrice_Deterministic(t *testing.T) {
	store := newFakeStore()
	store.seedFactor(ds.FactorTechnical, false, 1404, "10000", true)
	store.seedFactor(ds.FactorProfessional, false, 1404, "40000", true)
	svc := store.seedService("901234", false)
	store.seedComponent(svc.ID, ds.FactorTechnical, "2.5")
	store.seedComponent(svc.ID, ds.FactorProfessional, "1.2")

	e := New(store)

	first, err := e.CalculatePrice(svc.ID, asOf1404)
	require.NoError(t, err)
	second, err := e.CalculatePrice(svc.ID, asOf1404)
	require.NoError(t, err)

	// при неизменных данных повторный расчёт даёт тот же итог и вклады
	assert.True(t, first.Total.Equal(second.Total))
	for _, typ := range []ds.FactorType{ds.FactorTechnical, ds.FactorProfessional} {
		a, b := first.contribution(typ), second.contribution(typ)
		require.NotNil(t, a)
		require.NotNil(t, b)
		assert.True(t, a.Contribution.Equal(b.Contribution))
		assert.Equal(t, a.Source, b.Source)
	}
}

func TestCalculateSharedServicePrice_StoredOverride(t *testing.T) {
	store := newFakeStore()
	store.seedFactor(ds.FactorTechnical, false, 1404, "10000", true)
	svc := store.seedService("901234", false)
	store.seedComponent(svc.ID, ds.FactorTechnical, "2.5")
	dep := store.seedDepartment("Кардиология")

	override := decimal.NewFromInt(12000)
	store.shared[100] = &ds.SharedService{
		ID:                      100,
		ServiceID:               svc.ID,
		DepartmentID:            dep.ID,
		OverrideTechnicalFactor: &override,
		IsActive:                true,
	}

	e := New(store)

	calc, err := e.CalculateSharedServicePrice(svc.ID, dep.ID, nil, nil, asOf1404)
	require.NoError(t, err)

	// переопределение отделения сильнее глобального коэффициента:
	// 2.5 * 12000, а не 2.5 * 10000
	assert.True(t, calc.Total.Equal(decimal.NewFromInt(30000)), "total = %s", calc.Total)
	require.NotNil(t, calc.DepartmentID)
	assert.Equal(t, dep.ID, *calc.DepartmentID)

	tech := calc.contribution(ds.FactorTechnical)
	require.NotNil(t, tech)
	assert.Equal(t, SourceDepartmentOverride, tech.Source)
}

func TestCalculateSharedServicePrice_OverridePrecedenceStable(t *testing.T) {
	store := newFakeStore()
	global := store.seedFactor(ds.FactorTechnical, false, 1404, "12000", true)
	svc := store.seedService("901234", false)
	store.seedComponent(svc.ID, ds.FactorTechnical, "2.5")
	dep := store.seedDepartment("Кардиология")

	override := decimal.NewFromInt(30000)
	store.shared[100] = &ds.SharedService{
		ID:                      100,
		ServiceID:               svc.ID,
		DepartmentID:            dep.ID,
		OverrideTechnicalFactor: &override,
		IsActive:                true,
	}

	e := New(store)

	before, err := e.CalculateSharedServicePrice(svc.ID, dep.ID, nil, nil, asOf1404)
	require.NoError(t, err)

	// смена глобального значения не влияет на расчёт с переопределением
	global.Value = decimal.NewFromInt(99000)
	after, err := e.CalculateSharedServicePrice(svc.ID, dep.ID, nil, nil, asOf1404)
	require.NoError(t, err)

	assert.True(t, before.Total.Equal(after.Total))
}

func TestCalculateSharedServicePrice_ExplicitOverrideWins(t *testing.T) {
	store := newFakeStore()
	store.seedFactor(ds.FactorTechnical, false, 1404, "12000", true)
	svc := store.seedService("901234", false)
	store.seedComponent(svc.ID, ds.FactorTechnical, "2.0")
	dep := store.seedDepartment("Кардиология")

	stored := decimal.NewFromInt(30000)
	store.shared[100] = &ds.SharedService{
		ID:                      100,
		ServiceID:               svc.ID,
		DepartmentID:            dep.ID,
		OverrideTechnicalFactor: &stored,
		IsActive:                true,
	}

	e := New(store)

	// явное значение запроса ("что если") сильнее сохранённого
	explicit := decimal.NewFromInt(15000)
	calc, err := e.CalculateSharedServicePrice(svc.ID, dep.ID, &explicit, nil, asOf1404)
	require.NoError(t, err)
	assert.True(t, calc.Total.Equal(decimal.NewFromInt(30000)), "total = %s", calc.Total)
}

func TestCalculateSharedServicePrice_NoLinkNoOverrides(t *testing.T) {
	store := newFakeStore()
	svc := store.seedService("901234", false)
	dep := store.seedDepartment("Кардиология")

	e := New(store)

	// привязки нет и явных переопределений нет
	_, err := e.CalculateSharedServicePrice(svc.ID, dep.ID, nil, nil, asOf1404)
	assert.True(t, IsKind(err, KindNotFound))

	// с явным переопределением расчёт "что если" допустим и без привязки
	store.seedComponent(svc.ID, ds.FactorTechnical, "2.0")
	explicit := decimal.NewFromInt(10000)
	calc, err := e.CalculateSharedServicePrice(svc.ID, dep.ID, &explicit, nil, asOf1404)
	require.NoError(t, err)
	assert.True(t, calc.Total.Equal(decimal.NewFromInt(20000)))
}

func TestCalculatePrice_PartialOverrideFallsBack(t *testing.T) {
	store := newFakeStore()
	store.seedFactor(ds.FactorTechnical, false, 1404, "10000", true)
	store.seedFactor(ds.FactorProfessional, false, 1404, "40000", true)
	svc := store.seedService("901234", false)
	store.seedComponent(svc.ID, ds.FactorTechnical, "2.5")
	store.seedComponent(svc.ID, ds.FactorProfessional, "1.2")
	dep := store.seedDepartment("Стоматология")

	techOvr := decimal.NewFromInt(8000)
	store.shared[100] = &ds.SharedService{
		ID:                      100,
		ServiceID:               svc.ID,
		DepartmentID:            dep.ID,
		OverrideTechnicalFactor: &techOvr,
		IsActive:                true,
	}

	e := New(store)

	calc, err := e.CalculateSharedServicePrice(svc.ID, dep.ID, nil, nil, asOf1404)
	require.NoError(t, err)

	// технический — из переопределения, профессиональный — из глобального:
	// 2.5 * 8000 + 1.2 * 40000 = 68000
	assert.True(t, calc.Total.Equal(decimal.NewFromInt(68000)), "total = %s", calc.Total)

	prof := calc.contribution(ds.FactorProfessional)
	require.NotNil(t, prof)
	assert.Equal(t, SourceActiveFactor, prof.Source)
}
