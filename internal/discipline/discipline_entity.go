package discipline

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeReward  = "reward"
	TypeBonus   = "bonus"
	TypePenalty = "penalty"
	TypeFine    = "fine"
)

const SyncCollection = "discipline"

// Entry is one reward or penalty line on an employee's monthly ledger.
// Amounts are positive; the type decides whether payroll adds or subtracts.
type Entry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;index:idx_discipline_employee_month" json:"employee_id"`
	Month      string    `gorm:"type:varchar(7);index:idx_discipline_employee_month" json:"month"`
	Type       string    `gorm:"not null" json:"type"`
	Amount     int64     `gorm:"not null" json:"amount"`
	Reason     string    `json:"reason"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Entry) TableName() string {
	return "discipline_entries"
}
