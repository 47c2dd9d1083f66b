package inventory

import (
	"context"
	"testing"

	inventoryerrors "cafedesk/internal/inventory/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// fakeInvRepo keeps products in memory. Movements still need a real *gorm.DB
// for the outbox insert, so tests back it with sqlmock.
type fakeInvRepo struct {
	products map[string]*Product
	history  []HistoryEntry
	tx       *gorm.DB
}

func newFakeInvRepo(tx *gorm.DB) *fakeInvRepo {
	return &fakeInvRepo{products: make(map[string]*Product), tx: tx}
}

func (f *fakeInvRepo) Transaction(ctx context.Context, fn func(txRepo Repository, tx *gorm.DB) error) error {
	return fn(f, f.tx)
}

func (f *fakeInvRepo) Create(ctx context.Context, product *Product) error {
	cp := *product
	f.products[product.ID.String()] = &cp
	return nil
}

func (f *fakeInvRepo) FindAll(ctx context.Context) ([]Product, error) {
	var out []Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeInvRepo) FindByID(ctx context.Context, id string) (*Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeInvRepo) FindByIDForUpdate(ctx context.Context, id string) (*Product, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeInvRepo) FindLowStock(ctx context.Context) ([]Product, error) {
	var out []Product
	for _, p := range f.products {
		if p.CurrentQuantity <= p.MinStock {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeInvRepo) Save(ctx context.Context, product *Product) error {
	cp := *product
	f.products[product.ID.String()] = &cp
	return nil
}

func (f *fakeInvRepo) AppendHistory(ctx context.Context, entry *HistoryEntry) error {
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeInvRepo) FindHistory(ctx context.Context, productID string) ([]HistoryEntry, error) {
	var out []HistoryEntry
	for _, e := range f.history {
		if e.ProductID.String() == productID {
			out = append(out, e)
		}
	}
	return out, nil
}

func newTestService(t *testing.T) (Service, *fakeInvRepo, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	repo := newFakeInvRepo(gormDB)
	return NewService(repo), repo, mock
}

func seedProduct(repo *fakeInvRepo, quantity, totalValue int64) *Product {
	p := &Product{
		ID:              uuid.New(),
		Name:            "Cà phê hạt",
		Unit:            "kg",
		CurrentQuantity: quantity,
		TotalValue:      totalValue,
		AveragePrice:    averagePrice(totalValue, quantity),
	}
	repo.products[p.ID.String()] = p
	return p
}

func expectOutboxInserts(mock sqlmock.Sqlmock, n int) {
	for i := 0; i < n; i++ {
		mock.ExpectExec("INSERT INTO sync_outbox").WillReturnResult(sqlmock.NewResult(0, 1))
	}
}

func TestService_StockIn_WeightedAverage(t *testing.T) {
	svc, repo, mock := newTestService(t)
	p := seedProduct(repo, 0, 0)
	ctx := context.Background()

	expectOutboxInserts(mock, 2)
	resp, err := svc.StockIn(ctx, p.ID.String(), StockInRequest{Quantity: 10, UnitPrice: 20_000, Date: "2025-03-05"})
	assert.NoError(t, err)
	assert.Equal(t, int64(10), resp.CurrentQuantity)
	assert.Equal(t, int64(200_000), resp.TotalValue)
	assert.Equal(t, int64(20_000), resp.AveragePrice)

	expectOutboxInserts(mock, 2)
	resp, err = svc.StockIn(ctx, p.ID.String(), StockInRequest{Quantity: 10, UnitPrice: 30_000, Date: "2025-03-06"})
	assert.NoError(t, err)
	assert.Equal(t, int64(20), resp.CurrentQuantity)
	assert.Equal(t, int64(500_000), resp.TotalValue)
	assert.Equal(t, int64(25_000), resp.AveragePrice)

	assert.Len(t, repo.history, 2)
	assert.Equal(t, MovementIn, repo.history[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_StockOut_IssuesAtAveragePrice(t *testing.T) {
	svc, repo, mock := newTestService(t)
	p := seedProduct(repo, 20, 500_000)
	ctx := context.Background()

	expectOutboxInserts(mock, 2)
	resp, err := svc.StockOut(ctx, p.ID.String(), StockOutRequest{Quantity: 5, Date: "2025-03-07"})
	assert.NoError(t, err)
	assert.Equal(t, int64(15), resp.CurrentQuantity)
	assert.Equal(t, int64(375_000), resp.TotalValue)
	assert.Equal(t, int64(25_000), resp.AveragePrice)

	assert.Len(t, repo.history, 1)
	assert.Equal(t, MovementOut, repo.history[0].Type)
	assert.Equal(t, int64(25_000), repo.history[0].UnitPrice)
	assert.Equal(t, int64(125_000), repo.history[0].TotalPrice)
}

func TestService_StockOut_DrainsValueAtZero(t *testing.T) {
	svc, repo, mock := newTestService(t)
	// 100/3 does not divide evenly; emptying the stock must not leave a
	// value remainder behind.
	p := seedProduct(repo, 3, 100)
	ctx := context.Background()

	expectOutboxInserts(mock, 2)
	resp, err := svc.StockOut(ctx, p.ID.String(), StockOutRequest{Quantity: 3, Date: "2025-03-07"})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), resp.CurrentQuantity)
	assert.Equal(t, int64(0), resp.TotalValue)
	assert.Equal(t, int64(0), resp.AveragePrice)
	assert.Equal(t, int64(100), repo.history[0].TotalPrice)
}

func TestService_StockOut_InsufficientStock(t *testing.T) {
	svc, repo, _ := newTestService(t)
	p := seedProduct(repo, 5, 100_000)
	ctx := context.Background()

	_, err := svc.StockOut(ctx, p.ID.String(), StockOutRequest{Quantity: 6, Date: "2025-03-07"})
	assert.ErrorIs(t, err, inventoryerrors.ErrInsufficientStock)

	// Nothing moved.
	stored := repo.products[p.ID.String()]
	assert.Equal(t, int64(5), stored.CurrentQuantity)
	assert.Equal(t, int64(100_000), stored.TotalValue)
	assert.Empty(t, repo.history)
}
