package report

import (
	"context"
	"encoding/json"
	"fmt"

	"cafedesk/internal/store"
	"cafedesk/internal/sync"

	"gorm.io/gorm"
)

func NewSyncBinding(db *gorm.DB) sync.Binding {
	return sync.Binding{
		Collection: SyncCollection,
		ExportAll: func(ctx context.Context) ([]sync.Document, error) {
			var reps []Report
			err := db.WithContext(ctx).
				Preload("Expenses").
				Preload("Transfers").
				Preload("Exports").
				Find(&reps).Error
			if err != nil {
				return nil, store.MapError(err)
			}

			docs := make([]sync.Document, len(reps))
			for i, rep := range reps {
				data, err := json.Marshal(rep)
				if err != nil {
					return nil, err
				}
				docs[i] = sync.Document{Key: rep.ID.String(), Data: data}
			}
			return docs, nil
		},
		Apply: func(ctx context.Context, doc sync.Document) error {
			var remote Report
			if err := json.Unmarshal(doc.Data, &remote); err != nil {
				return fmt.Errorf("decode report document %s: %w", doc.Key, err)
			}

			local, err := store.Get[Report](ctx, db, doc.Key)
			if err != nil {
				return err
			}
			if local == nil {
				return store.Add(ctx, db, &remote)
			}

			// Scalar fields merge; line items stay local. A report's children
			// are append-only and already mirrored through their parent
			// document, so replacing them here could drop newer local lines.
			return store.Update[Report](ctx, db, doc.Key, map[string]any{
				"date":            remote.Date,
				"opening_balance": remote.OpeningBalance,
				"revenue":         remote.Revenue,
				"closing_balance": remote.ClosingBalance,
				"actual_received": remote.ActualReceived,
				"note":            remote.Note,
			})
		},
	}
}
