package operation

import (
	"context"
	"database/sql"
	"encoding/json"

	"cafedesk/internal/shared/contextutil"
	"cafedesk/internal/sync"

	operationerrors "cafedesk/internal/operation/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, req CreateOperationRequest) (OperationResponse, error)
	ListByPeriod(ctx context.Context, period string) ([]OperationResponse, error)
	PeriodSummary(ctx context.Context, period string) (PeriodSummaryResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox sync.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo sync.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("operation.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("operation.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateOperationRequest) (OperationResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create operation begin tx failed", zap.Error(err))
		return OperationResponse{}, err
	}
	defer tx.Rollback()

	op := &Operation{
		ID:     uuid.New(),
		Type:   req.Type,
		Name:   req.Name,
		Amount: req.Amount,
		Date:   req.Date,
	}

	qtx := s.repo.WithTx(tx)
	if err := qtx.Create(ctx, op); err != nil {
		s.logger.Error("create operation persist failed", zap.Error(err))
		return OperationResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		payload, err := json.Marshal(op)
		if err != nil {
			return OperationResponse{}, err
		}
		if err := s.outbox.WithTx(tx).Enqueue(ctx, sync.NewOutboxDocument(rid, SyncCollection, op.ID.String(), payload)); err != nil {
			s.logger.Error("create operation outbox persist failed", zap.Error(err))
			return OperationResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return OperationResponse{}, err
	}

	s.logger.Info("create operation success",
		zap.String("request_id", rid),
		zap.String("operation_id", op.ID.String()),
		zap.String("type", op.Type),
		zap.Int64("amount", op.Amount),
	)

	return mapToResponse(*op), nil
}

func (s *service) ListByPeriod(ctx context.Context, period string) ([]OperationResponse, error) {
	from, to, err := PeriodBounds(period)
	if err != nil {
		return nil, operationerrors.ErrInvalidPeriod
	}

	ops, err := s.repo.FindByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("list operations failed", zap.String("period", period), zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(ops), nil
}

func (s *service) PeriodSummary(ctx context.Context, period string) (PeriodSummaryResponse, error) {
	from, to, err := PeriodBounds(period)
	if err != nil {
		return PeriodSummaryResponse{}, operationerrors.ErrInvalidPeriod
	}

	ops, err := s.repo.FindByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("period summary failed", zap.String("period", period), zap.Error(err))
		return PeriodSummaryResponse{}, mapRepositoryError(err)
	}

	resp := PeriodSummaryResponse{
		Period:     period,
		From:       from,
		To:         to,
		Operations: mapToListResponse(ops),
	}
	for _, op := range ops {
		switch op.Type {
		case TypeMaterial:
			resp.TotalMaterial += op.Amount
		case TypeService:
			resp.TotalService += op.Amount
		}
		resp.Total += op.Amount
	}

	return resp, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return mapRepositoryError(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete operation failed", zap.String("operation_id", id), zap.Error(err))
		return mapRepositoryError(err)
	}

	s.logger.Info("delete operation success", zap.String("operation_id", id))
	return nil
}

func mapToResponse(op Operation) OperationResponse {
	return OperationResponse{
		ID:     op.ID.String(),
		Type:   op.Type,
		Name:   op.Name,
		Amount: op.Amount,
		Date:   op.Date,
	}
}

func mapToListResponse(ops []Operation) []OperationResponse {
	res := make([]OperationResponse, len(ops))
	for i, op := range ops {
		res[i] = mapToResponse(op)
	}
	return res
}
