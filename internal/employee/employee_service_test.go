package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	employeeerrors "cafedesk/internal/employee/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	withTxFn      func(tx *sql.Tx) Repository
	createFn      func(ctx context.Context, empl *Employee) error
	findAllFn     func(ctx context.Context, status string) ([]Employee, error)
	findByIDFn    func(ctx context.Context, id string) (*Employee, error)
	findOptionsFn func(ctx context.Context) ([]Employee, error)
	updateFn      func(ctx context.Context, empl *Employee) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f.withTxFn(tx) }
func (f *fakeRepo) Create(ctx context.Context, empl *Employee) error {
	return f.createFn(ctx, empl)
}
func (f *fakeRepo) FindAll(ctx context.Context, status string) ([]Employee, error) {
	return f.findAllFn(ctx, status)
}
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Employee, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) FindOptions(ctx context.Context) ([]Employee, error) {
	return f.findOptionsFn(ctx)
}
func (f *fakeRepo) Update(ctx context.Context, empl *Employee) error {
	return f.updateFn(ctx, empl)
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

func TestService_Create_GeneratesSequentialCodes(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var created []Employee
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.createFn = func(ctx context.Context, empl *Employee) error {
		created = append(created, *empl)
		return nil
	}

	svc := NewService(db, repo, &fakeCounter{}, nil, nil)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectCommit()
	first, err := svc.Create(ctx, CreateEmployeeRequest{Name: "Nguyen Van A", Phone: "0901000001", BaseSalary: 9_000_000})
	assert.NoError(t, err)
	assert.Equal(t, "EMP-000001", first.Code)
	assert.Equal(t, StatusActive, first.Status)

	mock.ExpectBegin()
	mock.ExpectCommit()
	second, err := svc.Create(ctx, CreateEmployeeRequest{Name: "Tran Thi B", Phone: "0901000002", BaseSalary: 7_500_000})
	assert.NoError(t, err)
	assert.Equal(t, "EMP-000002", second.Code)

	assert.Len(t, created, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_GetByID_InvalidID(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, nil, nil)

	_, err := svc.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
}

func TestService_Deactivate_KeepsRecord(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	empl := &Employee{ID: uuid.New(), Code: "EMP-000001", Name: "Nguyen Van A", Status: StatusActive}

	var updated *Employee
	repo := &fakeRepo{}
	repo.withTxFn = func(tx *sql.Tx) Repository { return repo }
	repo.findByIDFn = func(ctx context.Context, id string) (*Employee, error) {
		cp := *empl
		return &cp, nil
	}
	repo.updateFn = func(ctx context.Context, e *Employee) error { updated = e; return nil }

	svc := NewService(db, repo, &fakeCounter{}, nil, nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	assert.NoError(t, svc.Deactivate(context.Background(), empl.ID.String()))
	assert.NotNil(t, updated)
	assert.Equal(t, StatusInactive, updated.Status)
	assert.Equal(t, "EMP-000001", updated.Code)
}

func TestService_GetOptions_CachesResult(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()

	empl := Employee{ID: uuid.New(), Code: "EMP-000001", Name: "Nguyen Van A"}
	lookups := 0
	repo := &fakeRepo{}
	repo.findOptionsFn = func(ctx context.Context) ([]Employee, error) {
		lookups++
		return []Employee{empl}, nil
	}

	svc := NewService(db, repo, &fakeCounter{}, nil, rdb)
	ctx := context.Background()

	expected := []EmployeeOptionResponse{{ID: empl.ID.String(), Code: empl.Code, Name: empl.Name}}
	payload, err := json.Marshal(expected)
	assert.NoError(t, err)

	redisMock.ExpectGet(OptionsCacheKey).RedisNil()
	redisMock.ExpectSet(OptionsCacheKey, payload, time.Hour).SetVal("OK")

	options, err := svc.GetOptions(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expected, options)
	assert.Equal(t, 1, lookups)

	// Second call is served from the cache.
	redisMock.ExpectGet(OptionsCacheKey).SetVal(string(payload))

	options, err = svc.GetOptions(ctx)
	assert.NoError(t, err)
	assert.Equal(t, expected, options)
	assert.Equal(t, 1, lookups)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
