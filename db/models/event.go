package models

import "time"

// Event : domain event fanned out to the broker and the webhook. Not persisted.
type Event struct {
	Type       string                 `json:"type"`
	EntityID   int64                  `json:"entity_id,omitempty"`
	Tahun      int                    `json:"tahun,omitempty"`
	Bulan      int                    `json:"bulan,omitempty"`
	UserID     int64                  `json:"user_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}
