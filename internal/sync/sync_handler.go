package sync

import (
	"errors"
	"net/http"

	"cafedesk/internal/shared/apperror"
	"cafedesk/internal/shared/response"
	"cafedesk/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	db       *gorm.DB
	puller   *Puller
	migrator *Migrator
	logger   *zap.Logger
}

func NewHandler(db *gorm.DB, puller *Puller, migrator *Migrator, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("sync.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("sync.handler")
	}
	return &Handler{db: db, puller: puller, migrator: migrator, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("sync request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// TriggerPull runs a pull synchronously and reports per-collection counts.
func (h *Handler) TriggerPull(c *gin.Context) {
	summary, err := h.puller.Pull(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrPullInFlight) {
			response.Error(c, http.StatusConflict, apperror.CodeConflict, "A pull is already in flight", nil)
			return
		}
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, summary, nil)
}

func (h *Handler) MigrateCollection(c *gin.Context) {
	collection := c.Param("collection")

	logEntry, err := h.migrator.MigrateCollection(c.Request.Context(), collection)
	if err != nil {
		if logEntry == nil {
			response.Error(c, http.StatusNotFound, apperror.CodeNotFound, err.Error(), nil)
			return
		}
		// Partial progress: report what was pushed alongside the failure.
		response.Error(c, http.StatusBadGateway, apperror.CodeStorageUnavailable, "Migration failed partway", logEntry)
		return
	}

	response.Success(c, http.StatusOK, logEntry, nil)
}

func (h *Handler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	metadata, err := store.GetAll[SyncMetadata](ctx, h.db)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var pending int64
	if err := h.db.WithContext(ctx).
		Table("sync_outbox").
		Where("status IN ?", []string{OutboxStatusPending, OutboxStatusFailed}).
		Count(&pending).Error; err != nil {
		h.writeServiceError(c, store.MapError(err))
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"collections":    metadata,
		"pending_pushes": pending,
	}, nil)
}
