// Package store is the local persistence gateway: a uniform CRUD surface
// over the named collections, plus versioned schema migrations. Collections
// are typed GORM models keyed by an `id` primary column; callers that need
// richer queries use their own repositories and share this package's error
// taxonomy through MapError.
package store

import (
	"context"

	"cafedesk/internal/shared/apperror"

	"gorm.io/gorm"
)

// Add inserts a new record. Inserting an existing primary or unique key
// fails with DUPLICATE_KEY.
func Add[T any](ctx context.Context, db *gorm.DB, record *T) error {
	if err := db.WithContext(ctx).Create(record).Error; err != nil {
		return MapError(err)
	}
	return nil
}

// Get returns the record for key, or (nil, nil) when absent. A missing key
// is not an error.
func Get[T any](ctx context.Context, db *gorm.DB, key any) (*T, error) {
	var rec T
	err := db.WithContext(ctx).First(&rec, "id = ?", key).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, MapError(err)
	}
	return &rec, nil
}

// GetAll returns every record of the collection. Conditions, when given,
// narrow the result the way a secondary index range would.
func GetAll[T any](ctx context.Context, db *gorm.DB, conds ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	q := db.WithContext(ctx)
	for _, c := range conds {
		q = c(q)
	}

	var rows []T
	if err := q.Find(&rows).Error; err != nil {
		return nil, MapError(err)
	}
	return rows, nil
}

// Update merges fields into the existing record and stamps updated_at. The
// merge is shallow: top-level fields only, nested values replaced wholesale.
// Fails with NOT_FOUND when the key does not exist.
func Update[T any](ctx context.Context, db *gorm.DB, key any, fields map[string]any) error {
	res := db.WithContext(ctx).Model(new(T)).Where("id = ?", key).Updates(fields)
	if res.Error != nil {
		return MapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.ErrNotFound
	}
	return nil
}

// Delete removes the record for key. Deleting an absent key is a no-op.
func Delete[T any](ctx context.Context, db *gorm.DB, key any) error {
	if err := db.WithContext(ctx).Delete(new(T), "id = ?", key).Error; err != nil {
		return MapError(err)
	}
	return nil
}
