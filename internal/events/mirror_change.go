package events

import (
	"encoding/json"
	"time"
)

const MirrorChangesTopic = "cafedesk.mirror.changes"

const (
	ChangeAdded    = "added"
	ChangeModified = "modified"
)

// MirrorChangeEvent is a remote-store change notification. Removal events
// are intentionally not part of the contract: remote deletions never
// propagate to the local store.
type MirrorChangeEvent struct {
	Collection string          `json:"collection"`
	ChangeType string          `json:"change_type"`
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data"`
	Revision   string          `json:"revision,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
