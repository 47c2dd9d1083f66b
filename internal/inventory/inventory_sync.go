package inventory

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
			products, err := store.GetAll[Product](ctx, db)
			if err != nil {
				return nil, err
			}

			docs := make([]sync.Document, len(products))
			for i, p := range products {
				data, err := json.Marshal(p)
				if err != nil {
					return nil, err
				}
				docs[i] = sync.Document{Key: p.ID.String(), Data: data}
			}
			return docs, nil
		},
		Apply: func(ctx context.Context, doc sync.Document) error {
			var remote Product
			if err := json.Unmarshal(doc.Data, &remote); err != nil {
				return fmt.Errorf("decode product document %s: %w", doc.Key, err)
			}

			local, err := store.Get[Product](ctx, db, doc.Key)
			if err != nil {
				return err
			}
			if local == nil {
				return store.Add(ctx, db, &remote)
			}

			return store.Update[Product](ctx, db, doc.Key, map[string]any{
				"name":             remote.Name,
				"unit":             remote.Unit,
				"current_quantity": remote.CurrentQuantity,
				"average_price":    remote.AveragePrice,
				"total_value":      remote.TotalValue,
				"min_stock":        remote.MinStock,
			})
		},
	}
}

// NewHistorySyncBinding mirrors the audit trail. History rows are immutable,
// so Apply only ever inserts.
func NewHistorySyncBinding(db *gorm.DB) sync.Binding {
	return sync.Binding{
		Collection: HistorySyncCollection,
		ExportAll: func(ctx context.Context) ([]sync.Document, error) {
			entries, err := store.GetAll[HistoryEntry](ctx, db)
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
			var remote HistoryEntry
			if err := json.Unmarshal(doc.Data, &remote); err != nil {
				return fmt.Errorf("decode history document %s: %w", doc.Key, err)
			}

			local, err := store.Get[HistoryEntry](ctx, db, doc.Key)
			if err != nil {
				return err
			}
			if local != nil {
				return nil
			}
			return store.Add(ctx, db, &remote)
		},
	}
}
