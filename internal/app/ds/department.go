package ds

// 6. Таблица отделений клиники
type Department struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"type:varchar(100);not null" json:"name"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
	Audit
}
