package app

import (
	"cafedesk/internal/attendance"
	"cafedesk/internal/auth"
	"cafedesk/internal/discipline"
	"cafedesk/internal/employee"
	"cafedesk/internal/inventory"
	"cafedesk/internal/operation"
	"cafedesk/internal/report"
	"cafedesk/internal/settings"
	"cafedesk/internal/store"
	"cafedesk/internal/sync"

	"gorm.io/gorm"
)

// migrations is the ordered schema history. Entity tables go through gorm so
// index names stay in step with the struct tags the error mappers match on;
// tables written with raw SQL elsewhere get raw DDL here.
var migrations = []store.Migration{
	{
		Version: 1,
		Name:    "create core tables",
		Run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&auth.User{},
				&employee.Employee{},
				&attendance.Attendance{},
				&discipline.Entry{},
				&report.Report{},
				&report.ReportExpense{},
				&report.ReportTransfer{},
				&report.ReportExport{},
				&inventory.Product{},
				&inventory.HistoryEntry{},
				&operation.Operation{},
				&settings.Setting{},
			)
		},
	},
	{
		Version: 2,
		Name:    "create counters table",
		Run: func(tx *gorm.DB) error {
			return tx.Exec(`
CREATE TABLE IF NOT EXISTS counters (
	counter_type varchar(50) PRIMARY KEY,
	last_value   bigint NOT NULL DEFAULT 0,
	updated_at   timestamptz NOT NULL DEFAULT now()
)
`).Error
		},
	},
	{
		Version: 3,
		Name:    "create sync outbox table",
		Run: func(tx *gorm.DB) error {
			if err := tx.Exec(`
CREATE TABLE IF NOT EXISTS sync_outbox (
	id            uuid PRIMARY KEY,
	request_id    varchar(64),
	collection    varchar(50) NOT NULL,
	record_key    varchar(100) NOT NULL,
	payload       jsonb NOT NULL,
	status        varchar(20) NOT NULL DEFAULT 'pending',
	retry_count   int NOT NULL DEFAULT 0,
	error_message varchar(500),
	next_retry_at timestamptz,
	processed_at  timestamptz,
	created_at    timestamptz NOT NULL DEFAULT now(),
	updated_at    timestamptz NOT NULL DEFAULT now()
)
`).Error; err != nil {
				return err
			}
			return tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_sync_outbox_pending
ON sync_outbox (status, next_retry_at, created_at)
`).Error
		},
	},
	{
		Version: 4,
		Name:    "create sync metadata tables",
		Run: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&sync.SyncMetadata{},
				&sync.MigrationLog{},
			)
		},
	},
}
