package repository

import (
	"errors"

	"gorm.io/gorm"

	"clinic-backend/internal/app/ds"
)

// Методы для компонентов услуг

func (r *Repository) GetComponent(id uint) (*ds.ServiceComponent, error) {
	var c ds.ServiceComponent
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) ListActiveComponents(serviceID uint) ([]ds.ServiceComponent, error) {
	var comps []ds.ServiceComponent
	err := r.db.
		Where("service_id = ? AND is_active = true AND deleted_at IS NULL", serviceID).
		Order("component_type").
		Find(&comps).Error
	return comps, err
}

// Есть ли у услуги другой активный компонент этого типа
func (r *Repository) ComponentExists(serviceID uint, t ds.FactorType, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&ds.ServiceComponent{}).
		Where("service_id = ? AND component_type = ?", serviceID, t).
		Where("is_active = true AND deleted_at IS NULL")
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateComponent(c *ds.ServiceComponent) error {
	return r.db.Create(c).Error
}

// Обновление с оптимистической блокировкой: false при промахе версии
func (r *Repository) UpdateComponent(c *ds.ServiceComponent, expectedVersion int) (bool, error) {
	res := r.db.Model(&ds.ServiceComponent{}).
		Where("id = ? AND version = ?", c.ID, expectedVersion).
		Updates(map[string]interface{}{
			"component_type": c.ComponentType,
			"coefficient":    c.Coefficient,
			"is_active":      c.IsActive,
			"version":        c.Version,
			"updated_at":     c.UpdatedAt,
			"updated_by":     c.UpdatedBy,
			"deleted_at":     c.DeletedAt,
			"deleted_by":     c.DeletedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
