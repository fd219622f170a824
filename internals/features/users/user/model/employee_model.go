package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeModel: timeline absensi (work_sessions, daily_attendance, koin
// cuti) menggantung di sini, bukan langsung di users.
type EmployeeModel struct {
	EmployeeID       uuid.UUID `gorm:"column:employee_id;type:uuid;primaryKey" json:"employee_id"`
	EmployeeUserID   uuid.UUID `gorm:"column:employee_user_id;type:uuid;not null;uniqueIndex" json:"employee_user_id"`
	EmployeeFullName string    `gorm:"column:employee_full_name;size:100;not null" json:"employee_full_name"`
	EmployeePosition string    `gorm:"column:employee_position;size:100" json:"employee_position"`
	EmployeeIsActive bool      `gorm:"column:employee_is_active;not null;default:true" json:"employee_is_active"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (EmployeeModel) TableName() string {
	return "employees"
}

func (e *EmployeeModel) BeforeCreate(tx *gorm.DB) error {
	if e.EmployeeID == uuid.Nil {
		e.EmployeeID = uuid.New()
	}
	return nil
}
