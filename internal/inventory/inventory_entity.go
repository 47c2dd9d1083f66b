package inventory

import (
	"time"

	"github.com/google/uuid"
)

const (
	MovementIn  = "in"
	MovementOut = "out"
)

const (
	SyncCollection        = "inventory"
	HistorySyncCollection = "inventory_history"
)

// Product tracks stock by value: total_value is the authoritative figure and
// average_price is derived from it by integer division.
type Product struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Unit            string    `json:"unit"`
	CurrentQuantity int64     `gorm:"not null;default:0" json:"current_quantity"`
	AveragePrice    int64     `gorm:"not null;default:0" json:"average_price"`
	TotalValue      int64     `gorm:"not null;default:0" json:"total_value"`
	MinStock        int64     `gorm:"not null;default:0" json:"min_stock"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// HistoryEntry is the append-only audit trail of stock movements.
type HistoryEntry struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID  uuid.UUID `gorm:"type:uuid;index" json:"product_id"`
	Type       string    `gorm:"not null;index" json:"type"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	UnitPrice  int64     `gorm:"not null" json:"unit_price"`
	TotalPrice int64     `gorm:"not null" json:"total_price"`
	Date       string    `gorm:"type:varchar(10);index" json:"date"`
	CreatedAt  time.Time `json:"created_at"`
}

func (HistoryEntry) TableName() string {
	return "inventory_history"
}
