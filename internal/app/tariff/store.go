package tariff

import (
	"time"

	"github.com/shopspring/decimal"

	"clinic-backend/internal/app/ds"
)

// Store — контракт хранилища для движка тарификации. Реализация —
// *repository.Repository поверх gorm/postgres; в тестах — in-memory фейк.
// Методы Get* возвращают (nil, nil), если запись не найдена или логически
// удалена. Update-методы с expectedVersion возвращают false при промахе
// версии (конкурентная правка).
type Store interface {
	// InTx выполняет fn в одной транзакции; каждый публичный метод движка
	// целиком укладывается в одну такую единицу работы.
	InTx(fn func(Store) error) error

	// Коэффициенты
	GetFactor(id uint) (*ds.FactorSetting, error)
	GetActiveFactor(t ds.FactorType, hashtagged bool, year int) (*ds.FactorSetting, error)
	FactorExists(t ds.FactorType, hashtagged bool, year int, excludeID uint) (bool, error)
	CountActiveFactors(year int) (int64, error)
	ListFactorsByYear(year int) ([]ds.FactorSetting, error)
	CreateFactor(f *ds.FactorSetting) error
	UpdateFactor(f *ds.FactorSetting, expectedVersion int) (bool, error)
	FreezeFactors(year int, actorID uint) (int64, error)
	// Число неудалённых активных услуг, компонент которых разрешается в
	// коэффициент с данным ключом (для проверки "используется в расчётах")
	CountServicesUsingFactor(t ds.FactorType, hashtagged bool) (int64, error)
	// Идентификаторы таких услуг — для пересчёта цен после мутации коэффициента
	ListServiceIDsUsingFactor(t ds.FactorType, hashtagged bool) ([]uint, error)

	// Услуги
	GetService(id uint) (*ds.MedicalService, error)
	GetServiceByCode(code string) (*ds.MedicalService, error)
	CreateService(s *ds.MedicalService) error
	ListServices(query string) ([]ds.MedicalService, error)
	SetServicePrice(serviceID uint, price decimal.Decimal, pricedAt time.Time, actorID uint) error
	MarkPriceStale(serviceID uint, actorID uint) error

	// Компоненты услуг
	GetComponent(id uint) (*ds.ServiceComponent, error)
	ListActiveComponents(serviceID uint) ([]ds.ServiceComponent, error)
	ComponentExists(serviceID uint, t ds.FactorType, excludeID uint) (bool, error)
	CreateComponent(c *ds.ServiceComponent) error
	UpdateComponent(c *ds.ServiceComponent, expectedVersion int) (bool, error)

	// Общие услуги отделений
	GetSharedService(id uint) (*ds.SharedService, error)
	FindSharedService(serviceID, departmentID uint) (*ds.SharedService, error)
	SharedServiceExists(serviceID, departmentID, excludeID uint) (bool, error)
	CreateSharedService(ss *ds.SharedService) error
	SaveSharedService(ss *ds.SharedService) error

	// Справочники
	GetDepartment(id uint) (*ds.Department, error)
	GetTemplate(id uint) (*ds.ServiceTemplate, error)
}

// Engine — движок тарификации: реестр коэффициентов, заморозка года,
// каталог компонентов, расчёт цены и синхронизация кэша цен.
type Engine struct {
	store Store
}

func New(store Store) *Engine {
	return &Engine{store: store}
}
