package sync

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestNewOutboxDocument(t *testing.T) {
	item := NewOutboxDocument("req-1", "employees", "key-1", []byte(`{"a":1}`))

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "req-1", item.RequestID)
	assert.Equal(t, "employees", item.Collection)
	assert.Equal(t, "key-1", item.RecordKey)
	assert.Equal(t, OutboxStatusPending, item.Status)
	assert.NoError(t, ValidateOutboxItem(item))
}

func TestValidateOutboxItem(t *testing.T) {
	valid := NewOutboxDocument("", "employees", "key-1", []byte(`{}`))
	assert.NoError(t, ValidateOutboxItem(valid))

	missingID := valid
	missingID.ID = ""
	assert.Error(t, ValidateOutboxItem(missingID))

	missingCollection := valid
	missingCollection.Collection = ""
	assert.Error(t, ValidateOutboxItem(missingCollection))

	missingKey := valid
	missingKey.RecordKey = ""
	assert.Error(t, ValidateOutboxItem(missingKey))
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()

	apply := func(ctx context.Context, doc Document) error { return nil }
	assert.NoError(t, registry.Register(Binding{Collection: "reports", Apply: apply}))
	assert.NoError(t, registry.Register(Binding{Collection: "employees", Apply: apply}))

	// Duplicate and incomplete bindings are rejected.
	assert.Error(t, registry.Register(Binding{Collection: "employees", Apply: apply}))
	assert.Error(t, registry.Register(Binding{Collection: "", Apply: apply}))
	assert.Error(t, registry.Register(Binding{Collection: "attendance"}))

	_, ok := registry.Get("reports")
	assert.True(t, ok)
	_, ok = registry.Get("unknown")
	assert.False(t, ok)

	all := registry.All()
	assert.Len(t, all, 2)
	assert.Equal(t, "employees", all[0].Collection)
	assert.Equal(t, "reports", all[1].Collection)
}

type fakeMirror struct {
	mergeFn    func(ctx context.Context, collection, key string, data []byte) error
	fetchAllFn func(ctx context.Context, collection string, fn func(Document) error) error
	batches    [][]Document
	bulkErr    func(batchIndex int) error
}

func (f *fakeMirror) Merge(ctx context.Context, collection, key string, data []byte) error {
	return f.mergeFn(ctx, collection, key, data)
}

func (f *fakeMirror) FetchAll(ctx context.Context, collection string, fn func(Document) error) error {
	return f.fetchAllFn(ctx, collection, fn)
}

func (f *fakeMirror) BulkWrite(ctx context.Context, collection string, docs []Document) error {
	idx := len(f.batches)
	f.batches = append(f.batches, docs)
	if f.bulkErr != nil {
		return f.bulkErr(idx)
	}
	return nil
}

func newTestGormDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)
	return gormDB, mock
}

func exportDocs(n int) []Document {
	docs := make([]Document, n)
	for i := range docs {
		docs[i] = Document{Key: fmt.Sprintf("key-%d", i), Data: json.RawMessage(`{}`)}
	}
	return docs
}

func TestMigrator_BatchesAtCeiling(t *testing.T) {
	gormDB, mock := newTestGormDB(t)

	registry := NewRegistry()
	assert.NoError(t, registry.Register(Binding{
		Collection: "inventory_history",
		Apply:      func(ctx context.Context, doc Document) error { return nil },
		ExportAll: func(ctx context.Context) ([]Document, error) {
			return exportDocs(1000), nil
		},
	}))

	mirror := &fakeMirror{}
	migrator := NewMigrator(gormDB, registry, mirror)

	mock.ExpectExec(`INSERT INTO "migration_logs"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "sync_metadata"`).WillReturnResult(sqlmock.NewResult(0, 1))

	logEntry, err := migrator.MigrateCollection(context.Background(), "inventory_history")
	assert.NoError(t, err)
	assert.Equal(t, 1000, logEntry.Total)
	assert.Equal(t, 1000, logEntry.Pushed)
	assert.Equal(t, 0, logEntry.Failed)

	assert.Len(t, mirror.batches, 3)
	assert.Len(t, mirror.batches[0], MaxBatchOps)
	assert.Len(t, mirror.batches[1], MaxBatchOps)
	assert.Len(t, mirror.batches[2], 200)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_PartialFailureIsRecorded(t *testing.T) {
	gormDB, mock := newTestGormDB(t)

	registry := NewRegistry()
	assert.NoError(t, registry.Register(Binding{
		Collection: "inventory_history",
		Apply:      func(ctx context.Context, doc Document) error { return nil },
		ExportAll: func(ctx context.Context) ([]Document, error) {
			return exportDocs(900), nil
		},
	}))

	mirror := &fakeMirror{
		bulkErr: func(batchIndex int) error {
			if batchIndex == 1 {
				return errors.New("commit rejected")
			}
			return nil
		},
	}
	migrator := NewMigrator(gormDB, registry, mirror)

	mock.ExpectExec(`INSERT INTO "migration_logs"`).WillReturnResult(sqlmock.NewResult(0, 1))

	logEntry, err := migrator.MigrateCollection(context.Background(), "inventory_history")
	assert.Error(t, err)
	assert.NotNil(t, logEntry)
	assert.Equal(t, 900, logEntry.Total)
	assert.Equal(t, MaxBatchOps, logEntry.Pushed)
	assert.Equal(t, 500, logEntry.Failed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// fakeOutbox replays the repository contract in memory: slice order stands in
// for created_at, and MarkFailed applies the same 15 second backoff.
type fakeOutbox struct {
	items []*OutboxItem
	now   time.Time
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) OutboxRepository { return f }

func (f *fakeOutbox) Enqueue(ctx context.Context, item OutboxItem) error {
	cp := item
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]OutboxItem, error) {
	var due []OutboxItem
	for _, it := range f.items {
		if it.Status != OutboxStatusPending && it.Status != OutboxStatusFailed {
			continue
		}
		if !it.NextRetryAt.IsZero() && it.NextRetryAt.After(f.now) {
			continue
		}
		due = append(due, *it)
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (f *fakeOutbox) HasNewerSnapshot(ctx context.Context, item OutboxItem) (bool, error) {
	seen := false
	for _, it := range f.items {
		if it.ID == item.ID {
			seen = true
			continue
		}
		if !seen {
			continue
		}
		if it.Collection == item.Collection && it.RecordKey == item.RecordKey &&
			(it.Status == OutboxStatusPending || it.Status == OutboxStatusFailed) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error {
	return f.setStatus(id, OutboxStatusSent)
}

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error {
	for _, it := range f.items {
		if it.ID == id {
			it.Status = OutboxStatusFailed
			it.RetryCount++
			it.NextRetryAt = f.now.Add(15 * time.Second)
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeOutbox) MarkSuperseded(ctx context.Context, id string) error {
	return f.setStatus(id, OutboxStatusSuperseded)
}

func (f *fakeOutbox) setStatus(id, status string) error {
	for _, it := range f.items {
		if it.ID == id {
			it.Status = status
			return nil
		}
	}
	return errors.New("not found")
}

func (f *fakeOutbox) statusOf(id string) string {
	for _, it := range f.items {
		if it.ID == id {
			return it.Status
		}
	}
	return ""
}

func TestDrainPending_RetriedItemYieldsToNewerSnapshot(t *testing.T) {
	gormDB, mock := newTestGormDB(t)
	ctx := context.Background()

	outbox := &fakeOutbox{now: time.Now()}
	v1 := NewOutboxDocument("req-1", "reports", "rec-1", []byte(`{"closing":100}`))
	assert.NoError(t, outbox.Enqueue(ctx, v1))

	var mirrorState []byte
	failNext := true
	mirror := &fakeMirror{mergeFn: func(ctx context.Context, collection, key string, data []byte) error {
		if failNext {
			failNext = false
			return errors.New("mirror unavailable")
		}
		mirrorState = data
		return nil
	}}

	logger := zap.NewNop()

	// First drain: the only snapshot fails and is left to back off.
	assert.NoError(t, drainPending(ctx, gormDB, outbox, mirror, nil, logger))
	assert.Nil(t, mirrorState)
	assert.Equal(t, OutboxStatusFailed, outbox.statusOf(v1.ID))

	// The record is edited again while the failed snapshot waits out its
	// backoff.
	v2 := NewOutboxDocument("req-2", "reports", "rec-1", []byte(`{"closing":999}`))
	assert.NoError(t, outbox.Enqueue(ctx, v2))

	outbox.now = outbox.now.Add(time.Minute)
	mock.ExpectExec(`UPDATE "sync_metadata"`).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, drainPending(ctx, gormDB, outbox, mirror, nil, logger))

	// The stale retry is retired without a push; the mirror never regresses
	// to the older snapshot.
	assert.JSONEq(t, `{"closing":999}`, string(mirrorState))
	assert.Equal(t, OutboxStatusSuperseded, outbox.statusOf(v1.ID))
	assert.Equal(t, OutboxStatusSent, outbox.statusOf(v2.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrainPending_PushesOnlyNewestSnapshotPerRecord(t *testing.T) {
	gormDB, mock := newTestGormDB(t)
	ctx := context.Background()

	outbox := &fakeOutbox{now: time.Now()}
	v1 := NewOutboxDocument("req-1", "reports", "rec-1", []byte(`{"closing":100}`))
	v2 := NewOutboxDocument("req-2", "reports", "rec-1", []byte(`{"closing":999}`))
	assert.NoError(t, outbox.Enqueue(ctx, v1))
	assert.NoError(t, outbox.Enqueue(ctx, v2))

	var merged [][]byte
	mirror := &fakeMirror{mergeFn: func(ctx context.Context, collection, key string, data []byte) error {
		merged = append(merged, data)
		return nil
	}}

	mock.ExpectExec(`UPDATE "sync_metadata"`).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, drainPending(ctx, gormDB, outbox, mirror, nil, zap.NewNop()))

	assert.Len(t, merged, 1)
	assert.JSONEq(t, `{"closing":999}`, string(merged[0]))
	assert.Equal(t, OutboxStatusSuperseded, outbox.statusOf(v1.ID))
	assert.Equal(t, OutboxStatusSent, outbox.statusOf(v2.ID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_UnknownCollection(t *testing.T) {
	gormDB, _ := newTestGormDB(t)

	migrator := NewMigrator(gormDB, NewRegistry(), &fakeMirror{})

	_, err := migrator.MigrateCollection(context.Background(), "nope")
	assert.Error(t, err)
}
