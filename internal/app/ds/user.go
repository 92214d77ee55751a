package ds

import "clinic-backend/internal/app/role"

// 7. Таблица пользователей (администраторы и персонал клиники)
type User struct {
	ID       uint      `gorm:"primaryKey"`
	Login    string    `gorm:"type:varchar(50);unique;not null"`
	Password string    `gorm:"type:varchar(255);not null"`
	Email    string    `gorm:"type:varchar(100)"`
	FullName string    `gorm:"type:varchar(100)"`
	Role     role.Role `gorm:"not null;default:0"`
}
