package repository

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clinic-backend/internal/app/ds"
)

// Методы для услуг

func (r *Repository) GetService(id uint) (*ds.MedicalService, error) {
	var s ds.MedicalService
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) GetServiceByCode(code string) (*ds.MedicalService, error) {
	var s ds.MedicalService
	err := r.db.Where("code = ? AND deleted_at IS NULL", code).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) CreateService(s *ds.MedicalService) error {
	return r.db.Create(s).Error
}

// Список услуг с поиском по наименованию или коду
func (r *Repository) ListServices(query string) ([]ds.MedicalService, error) {
	var services []ds.MedicalService
	q := r.db.Where("deleted_at IS NULL")
	if query != "" {
		q = q.Where("name ILIKE ? OR code ILIKE ?", "%"+query+"%", "%"+query+"%")
	}
	err := q.Order("code").Find(&services).Error
	return services, err
}

// Сохранить рассчитанную цену (снимает пометку устаревания)
func (r *Repository) SetServicePrice(serviceID uint, price decimal.Decimal, pricedAt time.Time, actorID uint) error {
	return r.db.Model(&ds.MedicalService{}).
		Where("id = ?", serviceID).
		Updates(map[string]interface{}{
			"price":       price,
			"price_stale": false,
			"priced_at":   pricedAt,
			"updated_at":  time.Now(),
			"updated_by":  actorID,
		}).Error
}

// Пометить кэш цены как устаревший (пересчёт не удался)
func (r *Repository) MarkPriceStale(serviceID uint, actorID uint) error {
	return r.db.Model(&ds.MedicalService{}).
		Where("id = ?", serviceID).
		Updates(map[string]interface{}{
			"price_stale": true,
			"updated_at":  time.Now(),
			"updated_by":  actorID,
		}).Error
}

// Методы для шаблонов услуг

func (r *Repository) GetTemplate(id uint) (*ds.ServiceTemplate, error) {
	var t ds.ServiceTemplate
	err := r.db.Where("id = ? AND is_active = true AND deleted_at IS NULL", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Методы для отделений

func (r *Repository) GetDepartment(id uint) (*ds.Department, error) {
	var d ds.Department
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
