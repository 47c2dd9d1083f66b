package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"cafedesk/internal/shared/apperror"
	"cafedesk/internal/shared/contextutil"
	"cafedesk/internal/store"
	"cafedesk/internal/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// clearableTables whitelists which collections the admin wipe may touch.
var clearableTables = map[string]string{
	"employees":         "employees",
	"attendance":        "attendances",
	"discipline":        "discipline_entries",
	"reports":           "reports",
	"report_expenses":   "report_expenses",
	"report_transfers":  "report_transfers",
	"report_exports":    "report_exports",
	"inventory":         "products",
	"inventory_history": "inventory_history",
	"operations":        "operations",
}

type Service interface {
	Get(ctx context.Context, key string) (SettingResponse, error)
	GetAll(ctx context.Context) ([]SettingResponse, error)
	Set(ctx context.Context, key string, req SetSettingRequest) (SettingResponse, error)
	Delete(ctx context.Context, key string) error
	ClearData(ctx context.Context, req ClearDataRequest) (ClearDataResponse, error)
}

type service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger ...*zap.Logger) Service {
	l := zap.L().Named("settings.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("settings.service")
	}
	return &service{db: db, logger: l}
}

func (s *service) Get(ctx context.Context, key string) (SettingResponse, error) {
	setting, err := store.Get[Setting](ctx, s.db, key)
	if err != nil {
		return SettingResponse{}, err
	}
	if setting == nil {
		return SettingResponse{}, apperror.ErrNotFound
	}

	return SettingResponse{Key: setting.ID, Value: setting.Value}, nil
}

func (s *service) GetAll(ctx context.Context) ([]SettingResponse, error) {
	all, err := store.GetAll[Setting](ctx, s.db, func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	})
	if err != nil {
		return nil, err
	}

	res := make([]SettingResponse, len(all))
	for i, setting := range all {
		res[i] = SettingResponse{Key: setting.ID, Value: setting.Value}
	}
	return res, nil
}

// Set upserts one setting. The value and its outbox row commit together so a
// mirrored setting never goes out without the local write, and vice versa.
func (s *service) Set(ctx context.Context, key string, req SetSettingRequest) (SettingResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	payload, err := json.Marshal(Setting{ID: key, Value: req.Value})
	if err != nil {
		return SettingResponse{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := store.Update[Setting](ctx, tx, key, map[string]any{"value": []byte(req.Value)})
		if errors.Is(err, apperror.ErrNotFound) {
			err = store.Add(ctx, tx, &Setting{ID: key, Value: req.Value})
		}
		if err != nil {
			return err
		}
		return sync.EnqueueTx(tx, sync.NewOutboxDocument(rid, SyncCollection, key, payload))
	})
	if err != nil {
		s.logger.Error("set setting failed", zap.String("key", key), zap.Error(err))
		return SettingResponse{}, err
	}

	s.logger.Info("set setting success", zap.String("request_id", rid), zap.String("key", key))
	return SettingResponse{Key: key, Value: req.Value}, nil
}

func (s *service) Delete(ctx context.Context, key string) error {
	if err := store.Delete[Setting](ctx, s.db, key); err != nil {
		s.logger.Error("delete setting failed", zap.String("key", key), zap.Error(err))
		return err
	}

	s.logger.Info("delete setting success", zap.String("key", key))
	return nil
}

// ClearData wipes the named collections locally. The mirror is left alone;
// wiping is a local reset, not a deletion to propagate.
func (s *service) ClearData(ctx context.Context, req ClearDataRequest) (ClearDataResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	actor := contextutil.GetUserID(ctx)

	tables := make([]string, 0, len(req.Collections))
	for _, collection := range req.Collections {
		table, ok := clearableTables[collection]
		if !ok {
			return ClearDataResponse{}, apperror.New(
				apperror.CodeInvalidInput,
				fmt.Sprintf("Unknown collection: %s", collection),
				http.StatusBadRequest,
			)
		}
		tables = append(tables, table)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range tables {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("clear data failed", zap.Strings("collections", req.Collections), zap.Error(err))
		return ClearDataResponse{}, store.MapError(err)
	}

	s.logger.Warn("collections cleared",
		zap.String("request_id", rid),
		zap.String("actor", actor),
		zap.Strings("collections", req.Collections),
	)

	return ClearDataResponse{Cleared: req.Collections}, nil
}
