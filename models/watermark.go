package models

import "time"

// Stream names for SyncWatermark rows
const (
	StreamCommerce = "commerce"
)

// SyncWatermark marks the end of the last successfully ingested window for
// one logical stream. It is advanced only after a batch fully commits, so a
// crash mid-run makes the next run re-fetch an overlapping window and rely on
// idempotent upserts.
type SyncWatermark struct {
	Stream string    `gorm:"column:stream;primarykey" json:"stream"`
	RanAt  time.Time `gorm:"column:ran_at;not null" json:"ranAt"`
	BaseModel
}

// TableName sets the table name for GORM
func (SyncWatermark) TableName() string {
	return "last_updated"
}
