package operation

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, op *Operation) error
	FindByID(ctx context.Context, id string) (*Operation, error)
	FindByDateRange(ctx context.Context, from, to string) ([]Operation, error)
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

func (r *repository) Create(ctx context.Context, op *Operation) error {
	return r.db.WithContext(ctx).Create(op).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Operation, error) {
	var op Operation
	err := r.db.WithContext(ctx).First(&op, "id = ?", id).Error
	return &op, err
}

func (r *repository) FindByDateRange(ctx context.Context, from, to string) ([]Operation, error) {
	var ops []Operation
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, created_at ASC").
		Find(&ops).Error
	return ops, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Operation{}, "id = ?", id).Error
}
