package discipline

import (
	"context"
	"database/sql"
	"testing"

	disciplineerrors "cafedesk/internal/discipline/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	withTxFn      func(tx *sql.Tx) Repository
	createFn      func(ctx context.Context, entry *Entry) error
	findByIDFn    func(ctx context.Context, id string) (*Entry, error)
	findByMonthFn func(ctx context.Context, employeeID, month string) ([]Entry, error)
	sumByMonthFn  func(ctx context.Context, employeeID, month string, types []string) (int64, error)
	deleteFn      func(ctx context.Context, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, entry *Entry) error {
	return f.createFn(ctx, entry)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Entry, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindByMonth(ctx context.Context, employeeID, month string) ([]Entry, error) {
	return f.findByMonthFn(ctx, employeeID, month)
}
func (f *fakeRepo) SumByMonth(ctx context.Context, employeeID, month string, types []string) (int64, error) {
	return f.sumByMonthFn(ctx, employeeID, month, types)
}
func (f *fakeRepo) Delete(ctx context.Context, id string) error { return f.deleteFn(ctx, id) }

func TestService_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	employeeID := uuid.New()

	var saved *Entry
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, entry *Entry) error { saved = entry; return nil }

	svc := NewService(db, repo, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), CreateEntryRequest{
		EmployeeID: employeeID.String(),
		Month:      "2025-03",
		Type:       TypePenalty,
		Amount:     50_000,
		Reason:     "đi muộn",
	})
	assert.NoError(t, err)
	assert.Equal(t, TypePenalty, resp.Type)
	assert.NotNil(t, saved)
	assert.Equal(t, employeeID, saved.EmployeeID)
	assert.Equal(t, int64(50_000), saved.Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_InvalidEmployeeID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, nil)

	_, err := svc.Create(context.Background(), CreateEntryRequest{
		EmployeeID: "not-a-uuid",
		Month:      "2025-03",
		Type:       TypePenalty,
		Amount:     50_000,
	})
	assert.ErrorIs(t, err, disciplineerrors.ErrInvalidEmployeeID)
}

func TestService_ListByMonth_InvalidMonth(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, nil)

	_, err := svc.ListByMonth(context.Background(), uuid.New().String(), "2025-3")
	assert.ErrorIs(t, err, disciplineerrors.ErrInvalidMonth)
}
