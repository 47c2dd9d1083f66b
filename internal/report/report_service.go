package report

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"cafedesk/internal/shared/contextutil"
	"cafedesk/internal/sync"

	reporterrors "cafedesk/internal/report/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type Service interface {
	GetOrCreate(ctx context.Context, date string) (ReportResponse, error)
	Save(ctx context.Context, date string, req SaveReportRequest) (ReportResponse, error)
	AddExpense(ctx context.Context, date string, req AddLineItemRequest) (ReportResponse, error)
	AddTransfer(ctx context.Context, date string, req AddLineItemRequest) (ReportResponse, error)
	AddExport(ctx context.Context, date string, req AddExportRequest) (ReportResponse, error)
}

type service struct {
	repo   Repository
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("report.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.service")
	}
	return &service{
		repo:   repo,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// GetOrCreate returns the day's report, creating it on first access. Creation
// defaults the opening balance to the previous day's closing balance. The
// call is idempotent: concurrent first access is collapsed by singleflight,
// and a racing insert that still slips through the unique date index is
// resolved by refetching.
func (s *service) GetOrCreate(ctx context.Context, date string) (ReportResponse, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ReportResponse{}, reporterrors.ErrInvalidDate
	}

	v, err, _ := s.sf.Do("report:"+date, func() (interface{}, error) {
		rep, err := s.getOrCreate(ctx, date)
		if err != nil {
			return nil, err
		}
		return mapToResponse(*rep), nil
	})
	if err != nil {
		return ReportResponse{}, err
	}

	return v.(ReportResponse), nil
}

func (s *service) getOrCreate(ctx context.Context, date string) (*Report, error) {
	rep, err := s.repo.FindByDate(ctx, date)
	if err == nil {
		return rep, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapRepositoryError(err)
	}

	opening := int64(0)
	prevDate := shiftDate(date, -1)
	if prev, err := s.repo.FindByDate(ctx, prevDate); err == nil {
		opening = prev.ClosingBalance
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, mapRepositoryError(err)
	}

	rep = &Report{
		ID:             uuid.New(),
		Date:           date,
		OpeningBalance: opening,
		ActualReceived: opening,
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		if isDuplicateDate(err) {
			// Lost the race; the other writer's record wins.
			existing, ferr := s.repo.FindByDate(ctx, date)
			if ferr != nil {
				return nil, mapRepositoryError(ferr)
			}
			return existing, nil
		}
		return nil, mapRepositoryError(err)
	}

	s.logger.Info("report created", zap.String("date", date), zap.Int64("opening_balance", opening))
	return rep, nil
}

// Save applies the day's balances, recomputes the net cash position, and
// force-sets the next day's opening balance to this day's closing balance.
// The cascade goes exactly one day forward; editing an old report does not
// ripple through later days.
func (s *service) Save(ctx context.Context, date string, req SaveReportRequest) (ReportResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ReportResponse{}, reporterrors.ErrInvalidDate
	}

	rep, err := s.getOrCreate(ctx, date)
	if err != nil {
		return ReportResponse{}, err
	}

	if req.OpeningBalance != nil {
		rep.OpeningBalance = *req.OpeningBalance
	}
	if req.Revenue != nil {
		rep.Revenue = *req.Revenue
	}
	if req.ClosingBalance != nil {
		rep.ClosingBalance = *req.ClosingBalance
	}
	if req.Note != nil {
		rep.Note = *req.Note
	}
	rep.ActualReceived = actualReceived(rep)

	err = s.repo.Transaction(ctx, func(txRepo Repository, tx *gorm.DB) error {
		if err := txRepo.UpdateFields(ctx, rep.ID.String(), map[string]any{
			"opening_balance": rep.OpeningBalance,
			"revenue":         rep.Revenue,
			"closing_balance": rep.ClosingBalance,
			"actual_received": rep.ActualReceived,
			"note":            rep.Note,
		}); err != nil {
			return err
		}
		return s.enqueueSync(tx, rid, rep)
	})
	if err != nil {
		s.logger.Error("save report persist failed", zap.String("date", date), zap.Error(err))
		return ReportResponse{}, mapRepositoryError(err)
	}

	if err := s.cascadeOpeningBalance(ctx, rid, date, rep.ClosingBalance); err != nil {
		s.logger.Error("cascade opening balance failed",
			zap.String("date", date),
			zap.Error(err),
		)
		return ReportResponse{}, err
	}

	s.logger.Info("save report success",
		zap.String("request_id", rid),
		zap.String("date", date),
		zap.Int64("actual_received", rep.ActualReceived),
	)

	return mapToResponse(*rep), nil
}

func (s *service) AddExpense(ctx context.Context, date string, req AddLineItemRequest) (ReportResponse, error) {
	return s.appendLineItem(ctx, date, "expense", func(txRepo Repository, rep *Report) error {
		item := &ReportExpense{ID: uuid.New(), ReportID: rep.ID, Name: req.Name, Amount: req.Amount}
		if err := txRepo.AddExpense(ctx, item); err != nil {
			return err
		}
		rep.Expenses = append(rep.Expenses, *item)
		return nil
	})
}

func (s *service) AddTransfer(ctx context.Context, date string, req AddLineItemRequest) (ReportResponse, error) {
	return s.appendLineItem(ctx, date, "transfer", func(txRepo Repository, rep *Report) error {
		item := &ReportTransfer{ID: uuid.New(), ReportID: rep.ID, Name: req.Name, Amount: req.Amount}
		if err := txRepo.AddTransfer(ctx, item); err != nil {
			return err
		}
		rep.Transfers = append(rep.Transfers, *item)
		return nil
	})
}

func (s *service) AddExport(ctx context.Context, date string, req AddExportRequest) (ReportResponse, error) {
	return s.appendLineItem(ctx, date, "export", func(txRepo Repository, rep *Report) error {
		item := &ReportExport{ID: uuid.New(), ReportID: rep.ID, Name: req.Name, Quantity: req.Quantity, Amount: req.Amount}
		if err := txRepo.AddExport(ctx, item); err != nil {
			return err
		}
		rep.Exports = append(rep.Exports, *item)
		return nil
	})
}

func (s *service) appendLineItem(ctx context.Context, date, kind string, appendFn func(Repository, *Report) error) (ReportResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ReportResponse{}, reporterrors.ErrInvalidDate
	}

	rep, err := s.getOrCreate(ctx, date)
	if err != nil {
		return ReportResponse{}, err
	}

	err = s.repo.Transaction(ctx, func(txRepo Repository, tx *gorm.DB) error {
		if err := appendFn(txRepo, rep); err != nil {
			return err
		}

		rep.ActualReceived = actualReceived(rep)
		if err := txRepo.UpdateFields(ctx, rep.ID.String(), map[string]any{
			"actual_received": rep.ActualReceived,
		}); err != nil {
			return err
		}

		return s.enqueueSync(tx, rid, rep)
	})
	if err != nil {
		s.logger.Error("append line item persist failed",
			zap.String("date", date),
			zap.String("kind", kind),
			zap.Error(err),
		)
		return ReportResponse{}, mapRepositoryError(err)
	}

	s.logger.Info("line item appended",
		zap.String("request_id", rid),
		zap.String("date", date),
		zap.String("kind", kind),
	)

	return mapToResponse(*rep), nil
}

func (s *service) cascadeOpeningBalance(ctx context.Context, rid, date string, closing int64) error {
	nextDate := shiftDate(date, 1)
	next, err := s.getOrCreate(ctx, nextDate)
	if err != nil {
		return err
	}

	next.OpeningBalance = closing
	next.ActualReceived = actualReceived(next)

	if err := s.repo.UpdateFields(ctx, next.ID.String(), map[string]any{
		"opening_balance": next.OpeningBalance,
		"actual_received": next.ActualReceived,
	}); err != nil {
		return mapRepositoryError(err)
	}

	s.logger.Info("opening balance cascaded",
		zap.String("request_id", rid),
		zap.String("from", date),
		zap.String("to", nextDate),
		zap.Int64("opening_balance", closing),
	)
	return nil
}

func (s *service) enqueueSync(tx *gorm.DB, rid string, rep *Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return err
	}

	return sync.EnqueueTx(tx, sync.NewOutboxDocument(rid, SyncCollection, rep.ID.String(), payload))
}

func actualReceived(rep *Report) int64 {
	return rep.OpeningBalance + rep.Revenue - sumExpenses(rep.Expenses) - sumTransfers(rep.Transfers) - rep.ClosingBalance
}

func sumExpenses(items []ReportExpense) int64 {
	var total int64
	for _, it := range items {
		total += it.Amount
	}
	return total
}

func sumTransfers(items []ReportTransfer) int64 {
	var total int64
	for _, it := range items {
		total += it.Amount
	}
	return total
}

func shiftDate(date string, days int) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return t.AddDate(0, 0, days).Format(dateLayout)
}

func mapToResponse(rep Report) ReportResponse {
	resp := ReportResponse{
		ID:             rep.ID.String(),
		Date:           rep.Date,
		OpeningBalance: rep.OpeningBalance,
		Revenue:        rep.Revenue,
		ClosingBalance: rep.ClosingBalance,
		TotalExpenses:  sumExpenses(rep.Expenses),
		TotalTransfers: sumTransfers(rep.Transfers),
		ActualReceived: rep.ActualReceived,
		Note:           rep.Note,
		Expenses:       make([]LineItemResponse, len(rep.Expenses)),
		Transfers:      make([]LineItemResponse, len(rep.Transfers)),
		Exports:        make([]ExportItemResponse, len(rep.Exports)),
	}
	for i, it := range rep.Expenses {
		resp.Expenses[i] = LineItemResponse{ID: it.ID.String(), Name: it.Name, Amount: it.Amount}
	}
	for i, it := range rep.Transfers {
		resp.Transfers[i] = LineItemResponse{ID: it.ID.String(), Name: it.Name, Amount: it.Amount}
	}
	for i, it := range rep.Exports {
		resp.Exports[i] = ExportItemResponse{ID: it.ID.String(), Name: it.Name, Quantity: it.Quantity, Amount: it.Amount}
	}
	return resp
}
