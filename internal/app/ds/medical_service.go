package ds

import (
	"time"

	"github.com/shopspring/decimal"
)

// 2. Таблица медицинских услуг.
// Поле Price — кэш последнего успешного расчёта; пересчитывается в той же
// транзакции, что и изменение исходных данных. Если пересчёт невозможен
// (нет активного коэффициента), цена помечается как устаревшая (PriceStale).
type MedicalService struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Code         string          `gorm:"type:varchar(20);uniqueIndex;not null" json:"code"` // код по тарифной книге
	Name         string          `gorm:"type:varchar(200);not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	IsHashtagged bool            `gorm:"not null;default:false" json:"is_hashtagged"` // услуга из хэштегированного подмножества
	Price        decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0" json:"price"`
	PriceStale   bool            `gorm:"not null;default:false" json:"price_stale"`
	PricedAt     *time.Time      `json:"priced_at,omitempty"` // момент последнего успешного расчёта
	IsActive     bool            `gorm:"not null;default:true" json:"is_active"`
	Audit
}
