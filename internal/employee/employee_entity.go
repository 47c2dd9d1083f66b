package employee

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// SyncCollection is the mirror collection this module binds to.
const SyncCollection = "employees"

type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code       string    `gorm:"uniqueIndex:uq_employee_code" json:"code"`
	Name       string    `json:"name"`
	Phone      string    `gorm:"uniqueIndex:uq_employee_phone" json:"phone"`
	BaseSalary int64     `gorm:"not null;default:0" json:"base_salary"`
	Role       string    `json:"role"`
	Status     string    `gorm:"not null;default:active" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
