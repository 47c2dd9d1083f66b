package employee

import (
	"context"
	"encoding/json"
	"fmt"

	"cafedesk/internal/store"
	"cafedesk/internal/sync"

	"gorm.io/gorm"
)

// NewSyncBinding connects the employees collection to the mirror. Remote
// documents are applied upsert-only: an employee present locally is merged
// field by field, an unknown one is added, and nothing is removed.
func NewSyncBinding(db *gorm.DB) sync.Binding {
	return sync.Binding{
		Collection: SyncCollection,
		ExportAll: func(ctx context.Context) ([]sync.Document, error) {
			empls, err := store.GetAll[Employee](ctx, db)
			if err != nil {
				return nil, err
			}

			docs := make([]sync.Document, len(empls))
			for i, e := range empls {
				data, err := json.Marshal(e)
				if err != nil {
					return nil, err
				}
				docs[i] = sync.Document{Key: e.ID.String(), Data: data}
			}
			return docs, nil
		},
		Apply: func(ctx context.Context, doc sync.Document) error {
			var remote Employee
			if err := json.Unmarshal(doc.Data, &remote); err != nil {
				return fmt.Errorf("decode employee document %s: %w", doc.Key, err)
			}
			if remote.ID.String() != doc.Key {
				return fmt.Errorf("employee document key mismatch: %s", doc.Key)
			}

			local, err := store.Get[Employee](ctx, db, doc.Key)
			if err != nil {
				return err
			}
			if local == nil {
				return store.Add(ctx, db, &remote)
			}

			return store.Update[Employee](ctx, db, doc.Key, map[string]any{
				"code":        remote.Code,
				"name":        remote.Name,
				"phone":       remote.Phone,
				"base_salary": remote.BaseSalary,
				"role":        remote.Role,
				"status":      remote.Status,
			})
		},
	}
}
