package report

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(txRepo Repository, tx *gorm.DB) error) error
	Create(ctx context.Context, rep *Report) error
	FindByDate(ctx context.Context, date string) (*Report, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	AddExpense(ctx context.Context, item *ReportExpense) error
	AddTransfer(ctx context.Context, item *ReportTransfer) error
	AddExport(ctx context.Context, item *ReportExport) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// Transaction runs fn with a repository bound to one transaction so a line
// item, the recomputed total, and the outbox row commit together or not at
// all.
func (r *repository) Transaction(ctx context.Context, fn func(txRepo Repository, tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx}, tx)
	})
}

func (r *repository) Create(ctx context.Context, rep *Report) error {
	return r.db.WithContext(ctx).Create(rep).Error
}

func (r *repository) FindByDate(ctx context.Context, date string) (*Report, error) {
	var rep Report
	err := r.db.WithContext(ctx).
		Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Transfers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Exports", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&rep, "date = ?", date).Error
	return &rep, err
}

func (r *repository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&Report{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *repository) AddExpense(ctx context.Context, item *ReportExpense) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) AddTransfer(ctx context.Context, item *ReportTransfer) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) AddExport(ctx context.Context, item *ReportExport) error {
	return r.db.WithContext(ctx).Create(item).Error
}
