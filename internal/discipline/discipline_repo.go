package discipline

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, entry *Entry) error
	FindByID(ctx context.Context, id string) (*Entry, error)
	FindByMonth(ctx context.Context, employeeID, month string) ([]Entry, error)
	SumByMonth(ctx context.Context, employeeID, month string, types []string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, entry *Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Entry, error) {
	var entry Entry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	return &entry, err
}

func (r *repository) FindByMonth(ctx context.Context, employeeID, month string) ([]Entry, error) {
	var entries []Entry
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND month = ?", employeeID, month).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *repository) SumByMonth(ctx context.Context, employeeID, month string, types []string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&Entry{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("employee_id = ? AND month = ? AND type IN ?", employeeID, month, types).
		Scan(&total).Error
	return total, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Entry{}, "id = ?", id).Error
}
