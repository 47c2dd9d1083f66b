package report

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	reporterrors "cafedesk/internal/report/errors"
)

// memRepo keeps reports in memory keyed by date so the cascade across
// neighbouring days can be observed. Transactions run against a mocked
// connection so the outbox insert and commit ordering stay visible.
type memRepo struct {
	byDate        map[string]*Report
	gdb           *gorm.DB
	addExpenseErr error
}

func newTestRepo(t *testing.T) (*memRepo, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return &memRepo{byDate: make(map[string]*Report), gdb: gdb}, mock
}

func (m *memRepo) Transaction(ctx context.Context, fn func(Repository, *gorm.DB) error) error {
	return m.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(m, tx)
	})
}

func (m *memRepo) Create(ctx context.Context, rep *Report) error {
	cp := *rep
	m.byDate[rep.Date] = &cp
	return nil
}

func (m *memRepo) FindByDate(ctx context.Context, date string) (*Report, error) {
	rep, ok := m.byDate[date]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rep
	return &cp, nil
}

func (m *memRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	for _, rep := range m.byDate {
		if rep.ID.String() != id {
			continue
		}
		if v, ok := fields["opening_balance"]; ok {
			rep.OpeningBalance = v.(int64)
		}
		if v, ok := fields["revenue"]; ok {
			rep.Revenue = v.(int64)
		}
		if v, ok := fields["closing_balance"]; ok {
			rep.ClosingBalance = v.(int64)
		}
		if v, ok := fields["actual_received"]; ok {
			rep.ActualReceived = v.(int64)
		}
		if v, ok := fields["note"]; ok {
			rep.Note = v.(string)
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *memRepo) AddExpense(ctx context.Context, item *ReportExpense) error {
	if m.addExpenseErr != nil {
		return m.addExpenseErr
	}
	for _, rep := range m.byDate {
		if rep.ID == item.ReportID {
			rep.Expenses = append(rep.Expenses, *item)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memRepo) AddTransfer(ctx context.Context, item *ReportTransfer) error {
	for _, rep := range m.byDate {
		if rep.ID == item.ReportID {
			rep.Transfers = append(rep.Transfers, *item)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memRepo) AddExport(ctx context.Context, item *ReportExport) error {
	for _, rep := range m.byDate {
		if rep.ID == item.ReportID {
			rep.Exports = append(rep.Exports, *item)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func int64Ptr(v int64) *int64 { return &v }

// expectMutation covers one service transaction: the outbox row is written
// inside the same commit as the domain change.
func expectMutation(mock sqlmock.Sqlmock) {
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO sync_outbox").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
}

func TestService_GetOrCreate_OpeningDefaultsToPreviousClosing(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.GetOrCreate(ctx, "2025-03-01")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), first.OpeningBalance)

	repo.byDate["2025-03-01"].ClosingBalance = 120_000

	second, err := svc.GetOrCreate(ctx, "2025-03-02")
	assert.NoError(t, err)
	assert.Equal(t, int64(120_000), second.OpeningBalance)
	assert.Equal(t, int64(120_000), second.ActualReceived)

	// Repeated access returns the same report instead of creating another.
	again, err := svc.GetOrCreate(ctx, "2025-03-02")
	assert.NoError(t, err)
	assert.Equal(t, second.ID, again.ID)
}

func TestService_GetOrCreate_InvalidDate(t *testing.T) {
	repo, _ := newTestRepo(t)
	svc := NewService(repo)

	_, err := svc.GetOrCreate(context.Background(), "01-03-2025")
	assert.ErrorIs(t, err, reporterrors.ErrInvalidDate)
}

func TestService_Save_ComputesActualReceived(t *testing.T) {
	repo, mock := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	expectMutation(mock)
	_, err := svc.AddExpense(ctx, "2025-03-05", AddLineItemRequest{Name: "nguyên liệu", Amount: 200_000})
	assert.NoError(t, err)

	expectMutation(mock)
	_, err = svc.AddExpense(ctx, "2025-03-05", AddLineItemRequest{Name: "điện nước", Amount: 150_000})
	assert.NoError(t, err)

	expectMutation(mock)
	_, err = svc.AddTransfer(ctx, "2025-03-05", AddLineItemRequest{Name: "chuyển khoản", Amount: 100_000})
	assert.NoError(t, err)

	expectMutation(mock)
	resp, err := svc.Save(ctx, "2025-03-05", SaveReportRequest{
		OpeningBalance: int64Ptr(100_000),
		Revenue:        int64Ptr(500_000),
		ClosingBalance: int64Ptr(100_000),
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(350_000), resp.TotalExpenses)
	assert.Equal(t, int64(100_000), resp.TotalTransfers)
	assert.Equal(t, int64(50_000), resp.ActualReceived)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Save_CascadesOneDayForward(t *testing.T) {
	repo, mock := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	expectMutation(mock)
	_, err := svc.Save(ctx, "2025-03-05", SaveReportRequest{
		Revenue:        int64Ptr(500_000),
		ClosingBalance: int64Ptr(180_000),
	})
	assert.NoError(t, err)

	next := repo.byDate["2025-03-06"]
	assert.NotNil(t, next)
	assert.Equal(t, int64(180_000), next.OpeningBalance)

	// The cascade stops after one day.
	assert.Nil(t, repo.byDate["2025-03-07"])
}

func TestService_Save_EditingOldDayOverwritesNextOpening(t *testing.T) {
	repo, mock := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	expectMutation(mock)
	_, err := svc.Save(ctx, "2025-03-05", SaveReportRequest{ClosingBalance: int64Ptr(100_000)})
	assert.NoError(t, err)

	expectMutation(mock)
	_, err = svc.Save(ctx, "2025-03-05", SaveReportRequest{ClosingBalance: int64Ptr(250_000)})
	assert.NoError(t, err)

	assert.Equal(t, int64(250_000), repo.byDate["2025-03-06"].OpeningBalance)
}

func TestService_AddExpense_FailedInsertRollsBack(t *testing.T) {
	repo, mock := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	rep, err := svc.GetOrCreate(ctx, "2025-03-05")
	assert.NoError(t, err)

	repo.addExpenseErr = errors.New("insert rejected")
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err = svc.AddExpense(ctx, "2025-03-05", AddLineItemRequest{Name: "nguyên liệu", Amount: 200_000})
	assert.Error(t, err)

	// Nothing was applied: no line item, total untouched.
	day := repo.byDate["2025-03-05"]
	assert.Empty(t, day.Expenses)
	assert.Equal(t, rep.ActualReceived, day.ActualReceived)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_AddExport_DoesNotChangeActualReceived(t *testing.T) {
	repo, mock := newTestRepo(t)
	svc := NewService(repo)
	ctx := context.Background()

	expectMutation(mock)
	_, err := svc.Save(ctx, "2025-03-05", SaveReportRequest{
		OpeningBalance: int64Ptr(100_000),
		Revenue:        int64Ptr(500_000),
	})
	assert.NoError(t, err)

	expectMutation(mock)
	resp, err := svc.AddExport(ctx, "2025-03-05", AddExportRequest{Name: "bánh mì", Quantity: 10, Amount: 80_000})
	assert.NoError(t, err)
	assert.Len(t, resp.Exports, 1)
	// Export goods are tracked on the report but stay outside the cash
	// reconciliation formula.
	assert.Equal(t, int64(600_000), resp.ActualReceived)
}
