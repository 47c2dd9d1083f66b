package operation

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeMaterial = "material"
	TypeService  = "service"
)

const SyncCollection = "operations"

// Operation is one vendor purchase or service expense.
type Operation struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Type      string    `gorm:"not null" json:"type"`
	Name      string    `gorm:"not null" json:"name"`
	Amount    int64     `gorm:"not null" json:"amount"`
	Date      string    `gorm:"type:varchar(10);index" json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Operation) TableName() string {
	return "operations"
}
