package store

import (
	"errors"
	"strings"

	"cafedesk/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// MapError translates driver-level failures into the gateway's error
// taxonomy: NotFound, DuplicateKey, StorageUnavailable.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return apperror.Wrap(err, apperror.CodeDuplicateKey, "A record with the same key already exists", 409)
		case "57P03", "08006", "08001":
			return apperror.Wrap(err, apperror.CodeStorageUnavailable, "The local store could not be reached", 503)
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") {
		return apperror.Wrap(err, apperror.CodeDuplicateKey, "A record with the same key already exists", 409)
	}

	return err
}

// IsDuplicateKey reports whether err is a unique-constraint violation on the
// named constraint. An empty constraint matches any duplicate-key error.
func IsDuplicateKey(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != "23505" {
			return false
		}
		return constraint == "" || pgErr.ConstraintName == constraint
	}

	errMsg := strings.ToLower(err.Error())
	if !strings.Contains(errMsg, "duplicate key value") {
		return false
	}
	return constraint == "" || strings.Contains(errMsg, constraint)
}
