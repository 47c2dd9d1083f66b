package report

import (
	"time"

	"github.com/google/uuid"
)

const SyncCollection = "reports"

// Report is one day's cash position. Line items are append-only children;
// totals are always derived from them, never stored independently.
type Report struct {
	ID             uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Date           string           `gorm:"type:varchar(10);uniqueIndex:uq_report_date" json:"date"`
	OpeningBalance int64            `gorm:"not null;default:0" json:"opening_balance"`
	Revenue        int64            `gorm:"not null;default:0" json:"revenue"`
	ClosingBalance int64            `gorm:"not null;default:0" json:"closing_balance"`
	ActualReceived int64            `gorm:"not null;default:0" json:"actual_received"`
	Note           string           `json:"note"`
	Expenses       []ReportExpense  `gorm:"foreignKey:ReportID" json:"expenses"`
	Transfers      []ReportTransfer `gorm:"foreignKey:ReportID" json:"transfers"`
	Exports        []ReportExport   `gorm:"foreignKey:ReportID" json:"exports"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (Report) TableName() string {
	return "reports"
}

type ReportExpense struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;index" json:"report_id"`
	Name      string    `gorm:"not null" json:"name"`
	Amount    int64     `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReportExpense) TableName() string {
	return "report_expenses"
}

type ReportTransfer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;index" json:"report_id"`
	Name      string    `gorm:"not null" json:"name"`
	Amount    int64     `gorm:"not null" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReportTransfer) TableName() string {
	return "report_transfers"
}

// ReportExport records goods leaving the shop during the day. It carries an
// amount for the share summary but does not enter the cash reconciliation.
type ReportExport struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReportID  uuid.UUID `gorm:"type:uuid;index" json:"report_id"`
	Name      string    `gorm:"not null" json:"name"`
	Quantity  int64     `gorm:"not null;default:0" json:"quantity"`
	Amount    int64     `gorm:"not null;default:0" json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

func (ReportExport) TableName() string {
	return "report_exports"
}
