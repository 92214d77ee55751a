package repository

import (
	"errors"

	"gorm.io/gorm"

	"clinic-backend/internal/app/ds"
)

// Методы для общих услуг отделений

func (r *Repository) GetSharedService(id uint) (*ds.SharedService, error) {
	var ss ds.SharedService
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&ss).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ss, nil
}

// Найти привязку услуги к отделению (nil, если её нет)
func (r *Repository) FindSharedService(serviceID, departmentID uint) (*ds.SharedService, error) {
	var ss ds.SharedService
	err := r.db.
		Where("service_id = ? AND department_id = ? AND deleted_at IS NULL", serviceID, departmentID).
		First(&ss).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ss, nil
}

// Уникальность пары услуга-отделение среди неудалённых записей
func (r *Repository) SharedServiceExists(serviceID, departmentID, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&ds.SharedService{}).
		Where("service_id = ? AND department_id = ? AND deleted_at IS NULL", serviceID, departmentID)
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CreateSharedService(ss *ds.SharedService) error {
	return r.db.Create(ss).Error
}

func (r *Repository) SaveSharedService(ss *ds.SharedService) error {
	return r.db.Model(&ds.SharedService{}).
		Where("id = ?", ss.ID).
		Updates(map[string]interface{}{
			"override_technical_factor":    ss.OverrideTechnicalFactor,
			"override_professional_factor": ss.OverrideProfessionalFactor,
			"is_active":                    ss.IsActive,
			"updated_at":                   ss.UpdatedAt,
			"updated_by":                   ss.UpdatedBy,
			"deleted_at":                   ss.DeletedAt,
			"deleted_by":                   ss.DeletedBy,
		}).Error
}
