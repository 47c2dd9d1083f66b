package discipline

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
			entries, err := store.GetAll[Entry](ctx, db)
			if err != nil {
				return nil, err
			}

			docs := make([]sync.Document, len(entries))
			for i, e := range entries {
				data, err := json.Marshal(e)
				if err != nil {
					return nil, err
				}
				docs[i] = sync.Document{Key: e.ID.String(), Data: data}
			}
			return docs, nil
		},
		Apply: func(ctx context.Context, doc sync.Document) error {
			var remote Entry
			if err := json.Unmarshal(doc.Data, &remote); err != nil {
				return fmt.Errorf("decode discipline document %s: %w", doc.Key, err)
			}

			local, err := store.Get[Entry](ctx, db, doc.Key)
			if err != nil {
				return err
			}
			if local == nil {
				return store.Add(ctx, db, &remote)
			}

			return store.Update[Entry](ctx, db, doc.Key, map[string]any{
				"employee_id": remote.EmployeeID,
				"month":       remote.Month,
				"type":        remote.Type,
				"amount":      remote.Amount,
				"reason":      remote.Reason,
			})
		},
	}
}
