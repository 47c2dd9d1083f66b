package attendance

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, att *Attendance) error
	FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*Attendance, error)
	FindByMonth(ctx context.Context, employeeID, month string) ([]Attendance, error)
	UpdateType(ctx context.Context, id string, attType string) error
	DeleteByEmployeeAndDate(ctx context.Context, employeeID, date string) error
	CountByMonth(ctx context.Context, employeeID, month, attType string) (int64, error)
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

func (r *repository) Create(ctx context.Context, att *Attendance) error {
	return r.db.WithContext(ctx).Create(att).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID, date string) (*Attendance, error) {
	var att Attendance
	err := r.db.WithContext(ctx).
		First(&att, "employee_id = ? AND date = ?", employeeID, date).Error
	return &att, err
}

func (r *repository) FindByMonth(ctx context.Context, employeeID, month string) ([]Attendance, error) {
	var atts []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date LIKE ?", employeeID, month+"-%").
		Order("date ASC").
		Find(&atts).Error
	return atts, err
}

func (r *repository) UpdateType(ctx context.Context, id string, attType string) error {
	return r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("id = ?", id).
		Update("type", attType).Error
}

func (r *repository) DeleteByEmployeeAndDate(ctx context.Context, employeeID, date string) error {
	return r.db.WithContext(ctx).
		Delete(&Attendance{}, "employee_id = ? AND date = ?", employeeID, date).Error
}

func (r *repository) CountByMonth(ctx context.Context, employeeID, month, attType string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("employee_id = ? AND date LIKE ? AND type = ?", employeeID, month+"-%", attType).
		Count(&count).Error
	return count, err
}
