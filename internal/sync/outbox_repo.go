package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OutboxStatusPending    = "pending"
	OutboxStatusSent       = "sent"
	OutboxStatusFailed     = "failed"
	OutboxStatusSuperseded = "superseded"
)

// OutboxItem is one pending push: a full document snapshot of a local record
// awaiting delivery to the remote mirror. The outbox survives restarts, so a
// write made while the mirror is unreachable is retried instead of dropped.
type OutboxItem struct {
	ID          string
	RequestID   string
	Collection  string
	RecordKey   string
	Payload     []byte
	Status      string
	RetryCount  int
	NextRetryAt time.Time
}

// NewOutboxDocument builds a pending push for one record snapshot.
func NewOutboxDocument(requestID, collection, recordKey string, payload []byte) OutboxItem {
	return OutboxItem{
		ID:         uuid.NewString(),
		RequestID:  requestID,
		Collection: collection,
		RecordKey:  recordKey,
		Payload:    payload,
		Status:     OutboxStatusPending,
	}
}

type OutboxRepository interface {
	WithTx(tx *sql.Tx) OutboxRepository
	Enqueue(ctx context.Context, item OutboxItem) error
	ListPending(ctx context.Context, limit int) ([]OutboxItem, error)
	HasNewerSnapshot(ctx context.Context, item OutboxItem) (bool, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, reason string) error
	MarkSuperseded(ctx context.Context, id string) error
}

type outboxRepository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewOutboxRepository(db *sql.DB) OutboxRepository {
	return &outboxRepository{db: db}
}

func (r *outboxRepository) WithTx(tx *sql.Tx) OutboxRepository {
	return &outboxRepository{db: r.db, tx: tx}
}

func (r *outboxRepository) Enqueue(ctx context.Context, item OutboxItem) error {
	query := `
        INSERT INTO sync_outbox (
            id, request_id, collection, record_key, payload, status
        ) VALUES ($1, $2, $3, $4, $5, $6)
    `

	exec := r.execer()
	_, err := exec.ExecContext(
		ctx, query,
		item.ID, item.RequestID, item.Collection, item.RecordKey, item.Payload, item.Status,
	)
	return err
}

// ListPending returns due items oldest-first so per-collection ordering is
// preserved across the drain.
func (r *outboxRepository) ListPending(ctx context.Context, limit int) ([]OutboxItem, error) {
	query := `
SELECT
	id::text,
	collection,
	record_key,
	payload,
	status,
	retry_count,
	COALESCE(next_retry_at, created_at)
FROM sync_outbox
WHERE status IN ($1, $2)
	AND (next_retry_at IS NULL OR next_retry_at <= NOW())
ORDER BY created_at ASC
LIMIT $3
`

	rows, err := r.db.QueryContext(ctx, query, OutboxStatusPending, OutboxStatusFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]OutboxItem, 0, limit)
	for rows.Next() {
		var it OutboxItem
		if err := rows.Scan(
			&it.ID,
			&it.Collection,
			&it.RecordKey,
			&it.Payload,
			&it.Status,
			&it.RetryCount,
			&it.NextRetryAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

// HasNewerSnapshot reports whether a later unsent snapshot of the same record
// exists. Payloads are full documents, so an older snapshot with a newer one
// behind it carries no information and must never reach the mirror: pushing
// it after the newer one would roll the mirror back.
func (r *outboxRepository) HasNewerSnapshot(ctx context.Context, item OutboxItem) (bool, error) {
	query := `
SELECT EXISTS (
	SELECT 1
	FROM sync_outbox newer
	JOIN sync_outbox cur ON cur.id = $1
	WHERE newer.collection = cur.collection
		AND newer.record_key = cur.record_key
		AND newer.status IN ($2, $3)
		AND newer.created_at > cur.created_at
)
`
	var exists bool
	err := r.db.QueryRowContext(ctx, query, item.ID, OutboxStatusPending, OutboxStatusFailed).Scan(&exists)
	return exists, err
}

func (r *outboxRepository) MarkSent(ctx context.Context, id string) error {
	query := `
UPDATE sync_outbox
SET
	status = $2,
	processed_at = NOW(),
	error_message = NULL,
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, id, OutboxStatusSent)
	return err
}

func (r *outboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	query := `
UPDATE sync_outbox
SET
	status = $2,
	retry_count = retry_count + 1,
	error_message = LEFT($3, 500),
	next_retry_at = NOW() + (LEAST(retry_count + 1, 10) * INTERVAL '15 seconds'),
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, id, OutboxStatusFailed, reason)
	return err
}

// MarkSuperseded retires a snapshot that a newer one has replaced without
// pushing it.
func (r *outboxRepository) MarkSuperseded(ctx context.Context, id string) error {
	query := `
UPDATE sync_outbox
SET
	status = $2,
	processed_at = NOW(),
	error_message = NULL,
	updated_at = NOW()
WHERE id = $1
`
	_, err := r.db.ExecContext(ctx, query, id, OutboxStatusSuperseded)
	return err
}

// EnqueueTx writes a pending push inside an existing gorm transaction, for
// flows whose domain writes run through gorm rather than database/sql.
func EnqueueTx(tx *gorm.DB, item OutboxItem) error {
	return tx.Exec(`
        INSERT INTO sync_outbox (
            id, request_id, collection, record_key, payload, status
        ) VALUES (?, ?, ?, ?, ?, ?)
    `, item.ID, item.RequestID, item.Collection, item.RecordKey, item.Payload, item.Status).Error
}

func (r *outboxRepository) execer() interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
} {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func ValidateOutboxItem(item OutboxItem) error {
	if item.ID == "" {
		return errors.New("outbox id is required")
	}
	if item.Collection == "" {
		return errors.New("outbox collection is required")
	}
	if item.RecordKey == "" {
		return errors.New("outbox record key is required")
	}
	if len(item.Payload) == 0 {
		return errors.New("outbox payload is required")
	}
	switch item.Status {
	case OutboxStatusPending, OutboxStatusSent, OutboxStatusFailed, OutboxStatusSuperseded:
		return nil
	default:
		return fmt.Errorf("invalid outbox status: %s", item.Status)
	}
}
