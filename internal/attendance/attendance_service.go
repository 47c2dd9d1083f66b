package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"

	"cafedesk/internal/shared/contextutil"
	"cafedesk/internal/sync"

	attendanceerrors "cafedesk/internal/attendance/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

type Service interface {
	Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error)
	Unmark(ctx context.Context, req UnmarkAttendanceRequest) error
	ListByMonth(ctx context.Context, employeeID, month string) ([]AttendanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox sync.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, outboxRepo sync.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, outbox: outboxRepo, logger: l}
}

// Mark records a non-normal day. Marking an already-marked day switches its
// type instead of failing; two concurrent first marks race on the unique
// index and the loser surfaces a conflict.
func (s *service) Mark(ctx context.Context, req MarkAttendanceRequest) (AttendanceResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	s.logger.Debug("mark attendance requested",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("type", req.Type),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("mark attendance begin tx failed", zap.Error(err))
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	att, err := qtx.FindByEmployeeAndDate(ctx, req.EmployeeID, req.Date)
	switch {
	case err == nil:
		if att.Type != req.Type {
			if err := qtx.UpdateType(ctx, att.ID.String(), req.Type); err != nil {
				s.logger.Error("mark attendance update type failed", zap.Error(err))
				return AttendanceResponse{}, mapRepositoryError(err)
			}
			att.Type = req.Type
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		att = &Attendance{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			Date:       req.Date,
			Type:       req.Type,
		}
		if err := qtx.Create(ctx, att); err != nil {
			s.logger.Error("mark attendance persist failed", zap.Error(err))
			return AttendanceResponse{}, mapRepositoryError(err)
		}
	default:
		s.logger.Error("mark attendance lookup failed", zap.Error(err))
		return AttendanceResponse{}, mapRepositoryError(err)
	}

	if err := s.enqueueSync(ctx, tx, rid, att); err != nil {
		s.logger.Error("mark attendance outbox persist failed", zap.Error(err))
		return AttendanceResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return AttendanceResponse{}, err
	}

	s.logger.Info("mark attendance success",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
		zap.String("type", att.Type),
	)

	return mapToResponse(*att), nil
}

// Unmark returns the day to normal. Unmarking an unmarked day is a no-op.
func (s *service) Unmark(ctx context.Context, req UnmarkAttendanceRequest) error {
	rid := contextutil.GetRequestID(ctx)

	if err := s.repo.DeleteByEmployeeAndDate(ctx, req.EmployeeID, req.Date); err != nil {
		s.logger.Error("unmark attendance failed",
			zap.String("employee_id", req.EmployeeID),
			zap.String("date", req.Date),
			zap.Error(err),
		)
		return mapRepositoryError(err)
	}

	s.logger.Info("unmark attendance success",
		zap.String("request_id", rid),
		zap.String("employee_id", req.EmployeeID),
		zap.String("date", req.Date),
	)
	return nil
}

func (s *service) ListByMonth(ctx context.Context, employeeID, month string) ([]AttendanceResponse, error) {
	if !monthPattern.MatchString(month) {
		return nil, attendanceerrors.ErrInvalidMonth
	}

	atts, err := s.repo.FindByMonth(ctx, employeeID, month)
	if err != nil {
		s.logger.Error("list attendance failed",
			zap.String("employee_id", employeeID),
			zap.String("month", month),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(atts), nil
}

func (s *service) enqueueSync(ctx context.Context, tx *sql.Tx, rid string, att *Attendance) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(att)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Enqueue(ctx, sync.NewOutboxDocument(rid, SyncCollection, att.ID.String(), payload))
}

func mapToResponse(att Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:         att.ID.String(),
		EmployeeID: att.EmployeeID.String(),
		Date:       att.Date,
		Type:       att.Type,
	}
}

func mapToListResponse(atts []Attendance) []AttendanceResponse {
	res := make([]AttendanceResponse, len(atts))
	for i, a := range atts {
		res[i] = mapToResponse(a)
	}
	return res
}
