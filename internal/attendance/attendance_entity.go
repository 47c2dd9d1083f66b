package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeOff      = "off"
	TypeOvertime = "overtime"
)

const SyncCollection = "attendance"

// Attendance records a non-normal day. A date with no row is a normal worked
// day; at most one row exists per employee and date.
type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_attendance_employee_date" json:"employee_id"`
	Date       string    `gorm:"type:varchar(10);uniqueIndex:uq_attendance_employee_date" json:"date"`
	Type       string    `gorm:"not null" json:"type"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Attendance) TableName() string {
	return "attendances"
}
