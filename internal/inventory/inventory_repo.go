package inventory

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	// Transaction runs fn against a repository bound to one database
	// transaction; any error rolls the whole movement back.
	Transaction(ctx context.Context, fn func(txRepo Repository, tx *gorm.DB) error) error
	Create(ctx context.Context, product *Product) error
	FindAll(ctx context.Context) ([]Product, error)
	FindByID(ctx context.Context, id string) (*Product, error)
	FindByIDForUpdate(ctx context.Context, id string) (*Product, error)
	FindLowStock(ctx context.Context) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	AppendHistory(ctx context.Context, entry *HistoryEntry) error
	FindHistory(ctx context.Context, productID string) ([]HistoryEntry, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Transaction(ctx context.Context, fn func(txRepo Repository, tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&repository{db: tx}, tx)
	})
}

func (r *repository) Create(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) FindAll(ctx context.Context) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&products).Error
	return products, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	return &product, err
}

// FindByIDForUpdate row-locks the product so concurrent movements serialize
// on it.
func (r *repository) FindByIDForUpdate(ctx context.Context, id string) (*Product, error) {
	var product Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error
	return &product, err
}

func (r *repository) FindLowStock(ctx context.Context) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).
		Where("current_quantity <= min_stock").
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *repository) Save(ctx context.Context, product *Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *repository) AppendHistory(ctx context.Context, entry *HistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) FindHistory(ctx context.Context, productID string) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("date DESC, created_at DESC").
		Find(&entries).Error
	return entries, err
}
