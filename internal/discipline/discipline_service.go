package discipline

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"

	"cafedesk/internal/shared/contextutil"
	"cafedesk/internal/sync"

	disciplineerrors "cafedesk/internal/discipline/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type Service interface {
	Create(ctx context.Context, req CreateEntryRequest) (EntryResponse, error)
	ListByMonth(ctx context.Context, employeeID, month string) ([]EntryResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox sync.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo sync.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("discipline.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("discipline.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateEntryRequest) (EntryResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return EntryResponse{}, disciplineerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create discipline entry begin tx failed", zap.Error(err))
		return EntryResponse{}, err
	}
	defer tx.Rollback()

	entry := &Entry{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Month:      req.Month,
		Type:       req.Type,
		Amount:     req.Amount,
		Reason:     req.Reason,
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, entry); err != nil {
		s.logger.Error("create discipline entry persist failed", zap.Error(err))
		return EntryResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		payload, err := json.Marshal(entry)
		if err != nil {
			return EntryResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Enqueue(ctx, sync.NewOutboxDocument(rid, SyncCollection, entry.ID.String(), payload)); err != nil {
			s.logger.Error("create discipline entry outbox persist failed", zap.Error(err))
			return EntryResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EntryResponse{}, err
	}

	s.logger.Info("create discipline entry success",
		zap.String("request_id", rid),
		zap.String("entry_id", entry.ID.String()),
		zap.String("employee_id", req.EmployeeID),
		zap.String("type", req.Type),
		zap.Int64("amount", req.Amount),
	)

	return mapToResponse(*entry), nil
}

func (s *service) ListByMonth(ctx context.Context, employeeID, month string) ([]EntryResponse, error) {
	if !monthPattern.MatchString(month) {
		return nil, disciplineerrors.ErrInvalidMonth
	}

	entries, err := s.repo.FindByMonth(ctx, employeeID, month)
	if err != nil {
		s.logger.Error("list discipline entries failed",
			zap.String("employee_id", employeeID),
			zap.String("month", month),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(entries), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete discipline entry failed", zap.String("entry_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.logger.Info("delete discipline entry success", zap.String("entry_id", id))
	return nil
}

func mapToResponse(entry Entry) EntryResponse {
	return EntryResponse{
		ID:         entry.ID.String(),
		EmployeeID: entry.EmployeeID.String(),
		Month:      entry.Month,
		Type:       entry.Type,
		Amount:     entry.Amount,
		Reason:     entry.Reason,
	}
}

func mapToListResponse(entries []Entry) []EntryResponse {
	res := make([]EntryResponse, len(entries))
	for i, e := range entries {
		res[i] = mapToResponse(e)
	}
	return res
}
