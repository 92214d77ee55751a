package ds

import "time"

// Audit — общие поля жизненного цикла записи.
// Логическое удаление: запись считается удалённой, если DeletedAt != nil.
type Audit struct {
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
	CreatedBy uint       `gorm:"not null;default:0" json:"created_by"`
	UpdatedBy uint       `gorm:"not null;default:0" json:"updated_by"`
	DeletedAt *time.Time `gorm:"index" json:"deleted_at,omitempty"`
	DeletedBy *uint      `json:"deleted_by,omitempty"`
}

// Deleted проверяет, удалена ли запись логически
func (a Audit) Deleted() bool {
	return a.DeletedAt != nil
}
