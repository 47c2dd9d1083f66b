package attendance

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
			atts, err := store.GetAll[Attendance](ctx, db)
			if err != nil {
				return nil, err
			}

			docs := make([]sync.Document, len(atts))
			for i, a := range atts {
				data, err := json.Marshal(a)
				if err != nil {
					return nil, err
				}
				docs[i] = sync.Document{Key: a.ID.String(), Data: data}
			}
			return docs, nil
		},
		Apply: func(ctx context.Context, doc sync.Document) error {
			var remote Attendance
			if err := json.Unmarshal(doc.Data, &remote); err != nil {
				return fmt.Errorf("decode attendance document %s: %w", doc.Key, err)
			}

			local, err := store.Get[Attendance](ctx, db, doc.Key)
			if err != nil {
				return err
			}
			if local == nil {
				return store.Add(ctx, db, &remote)
			}

			return store.Update[Attendance](ctx, db, doc.Key, map[string]any{
				"employee_id": remote.EmployeeID,
				"date":        remote.Date,
				"type":        remote.Type,
			})
		},
	}
}
