package store

import (
	"context"
	"testing"
	"time"

	"cafedesk/internal/shared/apperror"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type note struct {
	ID        string `gorm:"type:varchar(100);primaryKey"`
	Body      string
	UpdatedAt time.Time
}

func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestGet_AbsentKeyIsNotAnError(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT .* FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "updated_at"}))

	rec, err := Get[note](context.Background(), db, "missing")
	assert.NoError(t, err)
	assert.Nil(t, rec)
}

func TestGet_ReturnsRecord(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectQuery(`SELECT .* FROM "notes"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "body", "updated_at"}).
			AddRow("n1", "hello", time.Now()))

	rec, err := Get[note](context.Background(), db, "n1")
	assert.NoError(t, err)
	assert.NotNil(t, rec)
	assert.Equal(t, "hello", rec.Body)
}

func TestUpdate_AbsentKeyFailsNotFound(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectExec(`UPDATE "notes"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := Update[note](context.Background(), db, "missing", map[string]any{"body": "x"})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdate_MergesFields(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectExec(`UPDATE "notes"`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := Update[note](context.Background(), db, "n1", map[string]any{"body": "merged"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete_AbsentKeyIsNoOp(t *testing.T) {
	db, mock := newTestDB(t)

	mock.ExpectExec(`DELETE FROM "notes"`).WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, Delete[note](context.Background(), db, "missing"))
}
