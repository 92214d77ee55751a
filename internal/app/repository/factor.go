package repository

import (
	"errors"

	"gorm.io/gorm"

	"clinic-backend/internal/app/ds"
)

// Методы для тарифных коэффициентов

// Получить коэффициент по ID (nil, если не найден или удалён)
func (r *Repository) GetFactor(id uint) (*ds.FactorSetting, error) {
	var f ds.FactorSetting
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Получить единственный активный коэффициент по ключу (тип, хэштег, год)
func (r *Repository) GetActiveFactor(t ds.FactorType, hashtagged bool, year int) (*ds.FactorSetting, error) {
	var f ds.FactorSetting
	err := r.db.
		Where("component_type = ? AND is_hashtagged = ? AND financial_year = ?", t, hashtagged, year).
		Where("is_active = true AND deleted_at IS NULL").
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// Проверка дубликата по ключу (тип, хэштег, год) среди неудалённых записей
func (r *Repository) FactorExists(t ds.FactorType, hashtagged bool, year int, excludeID uint) (bool, error) {
	var count int64
	q := r.db.Model(&ds.FactorSetting{}).
		Where("component_type = ? AND is_hashtagged = ? AND financial_year = ?", t, hashtagged, year).
		Where("deleted_at IS NULL")
	if excludeID != 0 {
		q = q.Where("id != ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) CountActiveFactors(year int) (int64, error) {
	var count int64
	err := r.db.Model(&ds.FactorSetting{}).
		Where("financial_year = ? AND is_active = true AND deleted_at IS NULL", year).
		Count(&count).Error
	return count, err
}

func (r *Repository) ListFactorsByYear(year int) ([]ds.FactorSetting, error) {
	var factors []ds.FactorSetting
	err := r.db.
		Where("financial_year = ? AND deleted_at IS NULL", year).
		Order("component_type, is_hashtagged").
		Find(&factors).Error
	return factors, err
}

func (r *Repository) CreateFactor(f *ds.FactorSetting) error {
	return r.db.Create(f).Error
}

// Обновление с оптимистической блокировкой: false при промахе версии
func (r *Repository) UpdateFactor(f *ds.FactorSetting, expectedVersion int) (bool, error) {
	res := r.db.Model(&ds.FactorSetting{}).
		Where("id = ? AND version = ?", f.ID, expectedVersion).
		Updates(map[string]interface{}{
			"component_type": f.ComponentType,
			"scope":          f.Scope,
			"is_hashtagged":  f.IsHashtagged,
			"value":          f.Value,
			"financial_year": f.FinancialYear,
			"effective_from": f.EffectiveFrom,
			"effective_to":   f.EffectiveTo,
			"description":    f.Description,
			"is_active":      f.IsActive,
			"version":        f.Version,
			"updated_at":     f.UpdatedAt,
			"updated_by":     f.UpdatedBy,
			"deleted_at":     f.DeletedAt,
			"deleted_by":     f.DeletedBy,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// Заморозка всех активных незамороженных коэффициентов года одним
// SQL-обновлением (всё или ничего). Версия каждой записи увеличивается,
// чтобы конкурентная правка, прочитавшая запись до заморозки, промахнулась
// по версии и не изменила уже замороженный коэффициент.
func (r *Repository) FreezeFactors(year int, actorID uint) (int64, error) {
	res := r.db.Exec(`UPDATE factor_settings
		SET is_frozen = true, version = version + 1, updated_by = ?, updated_at = NOW()
		WHERE financial_year = ? AND is_active = true AND is_frozen = false AND deleted_at IS NULL`,
		actorID, year)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

// Сколько неудалённых активных услуг разрешают коэффициент с данным ключом
// (активный компонент нужного типа у услуги с совпадающим признаком хэштега)
func (r *Repository) CountServicesUsingFactor(t ds.FactorType, hashtagged bool) (int64, error) {
	var count int64
	err := r.db.Raw(`SELECT COUNT(DISTINCT s.id)
		FROM medical_services s
		JOIN service_components c ON c.service_id = s.id
		WHERE s.deleted_at IS NULL AND s.is_active = true AND s.is_hashtagged = ?
		  AND c.deleted_at IS NULL AND c.is_active = true AND c.component_type = ?`,
		hashtagged, t).Scan(&count).Error
	return count, err
}

// Идентификаторы таких услуг — для пересчёта цен после мутации коэффициента
func (r *Repository) ListServiceIDsUsingFactor(t ds.FactorType, hashtagged bool) ([]uint, error) {
	var ids []uint
	err := r.db.Raw(`SELECT DISTINCT s.id
		FROM medical_services s
		JOIN service_components c ON c.service_id = s.id
		WHERE s.deleted_at IS NULL AND s.is_active = true AND s.is_hashtagged = ?
		  AND c.deleted_at IS NULL AND c.is_active = true AND c.component_type = ?
		ORDER BY s.id`,
		hashtagged, t).Scan(&ids).Error
	return ids, err
}
