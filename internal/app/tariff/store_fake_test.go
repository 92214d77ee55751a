package tariff

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/app/ds"
)

// fakeStore — in-memory реализация Store для тестов движка.
// Повторяет контрактные соглашения репозитория: Get* возвращают (nil, nil)
// для отсутствующих и логически удалённых записей, Update-методы — false
// при промахе версии.
type fakeStore struct {
	factors     map[uint]*ds.FactorSetting
	services    map[uint]*ds.MedicalService
	components  map[uint]*ds.ServiceComponent
	shared      map[uint]*ds.SharedService
	departments map[uint]*ds.Department
	templates   map[uint]*ds.ServiceTemplate
	nextID      uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		factors:     make(map[uint]*ds.FactorSetting),
		services:    make(map[uint]*ds.MedicalService),
		components:  make(map[uint]*ds.ServiceComponent),
		shared:      make(map[uint]*ds.SharedService),
		departments: make(map[uint]*ds.Department),
		templates:   make(map[uint]*ds.ServiceTemplate),
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

// InTx в фейке не изолирует изменения: тесты проверяют бизнес-логику
// движка, а не откат транзакций
func (f *fakeStore) InTx(fn func(Store) error) error {
	return fn(f)
}

// Коэффициенты

func (f *fakeStore) GetFactor(id uint) (*ds.FactorSetting, error) {
	fc, ok := f.factors[id]
	if !ok || fc.Deleted() {
		return nil, nil
	}
	cp := *fc
	return &cp, nil
}

func (f *fakeStore) GetActiveFactor(t ds.FactorType, hashtagged bool, year int) (*ds.FactorSetting, error) {
	for _, fc := range f.factors {
		if fc.Deleted() || !fc.IsActive {
			continue
		}
		if fc.ComponentType == t && fc.IsHashtagged == hashtagged && fc.FinancialYear == year {
			cp := *fc
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) FactorExists(t ds.FactorType, hashtagged bool, year int, excludeID uint) (bool, error) {
	for _, fc := range f.factors {
		if fc.Deleted() || fc.ID == excludeID {
			continue
		}
		if fc.ComponentType == t && fc.IsHashtagged == hashtagged && fc.FinancialYear == year {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CountActiveFactors(year int) (int64, error) {
	var n int64
	for _, fc := range f.factors {
		if !fc.Deleted() && fc.IsActive && fc.FinancialYear == year {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ListFactorsByYear(year int) ([]ds.FactorSetting, error) {
	var out []ds.FactorSetting
	for _, fc := range f.factors {
		if !fc.Deleted() && fc.FinancialYear == year {
			out = append(out, *fc)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateFactor(fc *ds.FactorSetting) error {
	fc.ID = f.id()
	cp := *fc
	f.factors[fc.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateFactor(fc *ds.FactorSetting, expectedVersion int) (bool, error) {
	cur, ok := f.factors[fc.ID]
	if !ok || cur.Version != expectedVersion {
		return false, nil
	}
	cp := *fc
	f.factors[fc.ID] = &cp
	return true, nil
}

func (f *fakeStore) FreezeFactors(year int, actorID uint) (int64, error) {
	var n int64
	for _, fc := range f.factors {
		if fc.Deleted() || !fc.IsActive || fc.IsFrozen || fc.FinancialYear != year {
			continue
		}
		fc.IsFrozen = true
		fc.Version++
		fc.UpdatedBy = actorID
		fc.UpdatedAt = time.Now()
		n++
	}
	return n, nil
}

func (f *fakeStore) CountServicesUsingFactor(t ds.FactorType, hashtagged bool) (int64, error) {
	seen := make(map[uint]bool)
	for _, c := range f.components {
		if c.Deleted() || !c.IsActive || c.ComponentType != t {
			continue
		}
		s, ok := f.services[c.ServiceID]
		if !ok || s.Deleted() || !s.IsActive || s.IsHashtagged != hashtagged {
			continue
		}
		seen[s.ID] = true
	}
	return int64(len(seen)), nil
}

func (f *fakeStore) ListServiceIDsUsingFactor(t ds.FactorType, hashtagged bool) ([]uint, error) {
	seen := make(map[uint]bool)
	var ids []uint
	for _, c := range f.components {
		if c.Deleted() || !c.IsActive || c.ComponentType != t {
			continue
		}
		s, ok := f.services[c.ServiceID]
		if !ok || s.Deleted() || !s.IsActive || s.IsHashtagged != hashtagged || seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		ids = append(ids, s.ID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Услуги

func (f *fakeStore) GetService(id uint) (*ds.MedicalService, error) {
	s, ok := f.services[id]
	if !ok || s.Deleted() {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) GetServiceByCode(code string) (*ds.MedicalService, error) {
	for _, s := range f.services {
		if !s.Deleted() && s.Code == code {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateService(s *ds.MedicalService) error {
	s.ID = f.id()
	cp := *s
	f.services[s.ID] = &cp
	return nil
}

func (f *fakeStore) ListServices(query string) ([]ds.MedicalService, error) {
	var out []ds.MedicalService
	q := strings.ToLower(query)
	for _, s := range f.services {
		if s.Deleted() {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(s.Name), q) && !strings.Contains(strings.ToLower(s.Code), q) {
			continue
		}
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) SetServicePrice(serviceID uint, price decimal.Decimal, pricedAt time.Time, actorID uint) error {
	s, ok := f.services[serviceID]
	if !ok {
		return nil
	}
	s.Price = price
	s.PriceStale = false
	s.PricedAt = &pricedAt
	s.UpdatedBy = actorID
	s.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) MarkPriceStale(serviceID uint, actorID uint) error {
	s, ok := f.services[serviceID]
	if !ok {
		return nil
	}
	s.PriceStale = true
	s.UpdatedBy = actorID
	s.UpdatedAt = time.Now()
	return nil
}

// Компоненты услуг

func (f *fakeStore) GetComponent(id uint) (*ds.ServiceComponent, error) {
	c, ok := f.components[id]
	if !ok || c.Deleted() {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeStore) ListActiveComponents(serviceID uint) ([]ds.ServiceComponent, error) {
	var out []ds.ServiceComponent
	for _, c := range f.components {
		if !c.Deleted() && c.IsActive && c.ServiceID == serviceID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeStore) ComponentExists(serviceID uint, t ds.FactorType, excludeID uint) (bool, error) {
	for _, c := range f.components {
		if c.Deleted() || !c.IsActive || c.ID == excludeID {
			continue
		}
		if c.ServiceID == serviceID && c.ComponentType == t {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateComponent(c *ds.ServiceComponent) error {
	c.ID = f.id()
	cp := *c
	f.components[c.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateComponent(c *ds.ServiceComponent, expectedVersion int) (bool, error) {
	cur, ok := f.components[c.ID]
	if !ok || cur.Version != expectedVersion {
		return false, nil
	}
	cp := *c
	f.components[c.ID] = &cp
	return true, nil
}

// Общие услуги отделений

func (f *fakeStore) GetSharedService(id uint) (*ds.SharedService, error) {
	ss, ok := f.shared[id]
	if !ok || ss.Deleted() {
		return nil, nil
	}
	cp := *ss
	return &cp, nil
}

func (f *fakeStore) FindSharedService(serviceID, departmentID uint) (*ds.SharedService, error) {
	for _, ss := range f.shared {
		if !ss.Deleted() && ss.ServiceID == serviceID && ss.DepartmentID == departmentID {
			cp := *ss
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) SharedServiceExists(serviceID, departmentID, excludeID uint) (bool, error) {
	for _, ss := range f.shared {
		if ss.Deleted() || ss.ID == excludeID {
			continue
		}
		if ss.ServiceID == serviceID && ss.DepartmentID == departmentID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateSharedService(ss *ds.SharedService) error {
	ss.ID = f.id()
	cp := *ss
	f.shared[ss.ID] = &cp
	return nil
}

func (f *fakeStore) SaveSharedService(ss *ds.SharedService) error {
	cp := *ss
	f.shared[ss.ID] = &cp
	return nil
}

// Справочники

func (f *fakeStore) GetDepartment(id uint) (*ds.Department, error) {
	d, ok := f.departments[id]
	if !ok || d.Deleted() {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (f *fakeStore) GetTemplate(id uint) (*ds.ServiceTemplate, error) {
	t, ok := f.templates[id]
	if !ok || t.Deleted() || !t.IsActive {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

// Помощники наполнения

func (f *fakeStore) seedFactor(t ds.FactorType, hashtagged bool, year int, value string, active bool) *ds.FactorSetting {
	fc := &ds.FactorSetting{
		ID:            f.id(),
		ComponentType: t,
		Scope:         scopeFor(hashtagged),
		IsHashtagged:  hashtagged,
		Value:         decimal.RequireFromString(value),
		FinancialYear: year,
		IsActive:      active,
		Version:       1,
	}
	f.factors[fc.ID] = fc
	return fc
}

func (f *fakeStore) seedService(code string, hashtagged bool) *ds.MedicalService {
	s := &ds.MedicalService{
		ID:           f.id(),
		Code:         code,
		Name:         "Услуга " + code,
		IsHashtagged: hashtagged,
		IsActive:     true,
	}
	f.services[s.ID] = s
	return s
}

func (f *fakeStore) seedComponent(serviceID uint, t ds.FactorType, coefficient string) *ds.ServiceComponent {
	c := &ds.ServiceComponent{
		ID:            f.id(),
		ServiceID:     serviceID,
		ComponentType: t,
		Coefficient:   decimal.RequireFromString(coefficient),
		IsActive:      true,
		Version:       1,
	}
	f.components[c.ID] = c
	return c
}

func (f *fakeStore) seedDepartment(name string) *ds.Department {
	d := &ds.Department{ID: f.id(), Name: name, IsActive: true}
	f.departments[d.ID] = d
	return d
}

func scopeFor(hashtagged bool) ds.FactorScope {
	if hashtagged {
		return ds.ScopeGeneralHashtagged
	}
	return ds.ScopeGeneral
}
