package operation

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
			ops, err := store.GetAll[Operation](ctx, db)
			if err != nil {
				return nil, err
			}

			docs := make([]sync.Document, len(ops))
			for i, op := range ops {
				data, err := json.Marshal(op)
				if err != nil {
					return nil, err
				}
				docs[i] = sync.Document{Key: op.ID.String(), Data: data}
			}
			return docs, nil
		},
		Apply: func(ctx context.Context, doc sync.Document) error {
			var remote Operation
			if err := json.Unmarshal(doc.Data, &remote); err != nil {
				return fmt.Errorf("decode operation document %s: %w", doc.Key, err)
			}

			local, err := store.Get[Operation](ctx, db, doc.Key)
			if err != nil {
				return err
			}
			if local == nil {
				return store.Add(ctx, db, &remote)
			}

			return store.Update[Operation](ctx, db, doc.Key, map[string]any{
				"type":   remote.Type,
				"name":   remote.Name,
				"amount": remote.Amount,
				"date":   remote.Date,
			})
		},
	}
}
