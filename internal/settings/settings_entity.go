package settings

import (
	"encoding/json"
	"time"
)

const SyncCollection = "settings"

// Setting is one key of the shop-wide key/value store; the value is an
// opaque JSON document owned by the caller.
type Setting struct {
	ID        string          `gorm:"type:varchar(100);primaryKey" json:"id"`
	Value     json.RawMessage `gorm:"type:jsonb" json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Setting) TableName() string {
	return "settings"
}
