package settings

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
			all, err := store.GetAll[Setting](ctx, db)
			if err != nil {
				return nil, err
			}

			docs := make([]sync.Document, len(all))
			for i, setting := range all {
				data, err := json.Marshal(setting)
				if err != nil {
					return nil, err
				}
				docs[i] = sync.Document{Key: setting.ID, Data: data}
			}
			return docs, nil
		},
		Apply: func(ctx context.Context, doc sync.Document) error {
			var remote Setting
			if err := json.Unmarshal(doc.Data, &remote); err != nil {
				return fmt.Errorf("decode setting document %s: %w", doc.Key, err)
			}
			if remote.ID == "" {
				remote.ID = doc.Key
			}

			local, err := store.Get[Setting](ctx, db, doc.Key)
			if err != nil {
				return err
			}
			if local == nil {
				return store.Add(ctx, db, &remote)
			}

			return store.Update[Setting](ctx, db, doc.Key, map[string]any{
				"value": []byte(remote.Value),
			})
		},
	}
}
