package models

import "time"

const (
	SyncStatusNotSynced = "not_synced"
	SyncStatusSynced    = "synced"
	SyncStatusPending   = "pending"
	SyncStatusError     = "error"

	MoodleTypeCategory = "category"
	MoodleTypeCourse   = "course"

	WordPressTypeTerm = "term"
	WordPressTypePost = "post"
)

// WordPressMapping links one local entity (category or course) to one remote
// WordPress entity (term or post) and records the outcome of the last sync
// attempt. At most one row may exist per (MoodleType, MoodleID); duplicates
// are treated as stale and replaced.
type WordPressMapping struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	MoodleType    string     `gorm:"type:varchar(20);not null;index:ux_wp_mappings_entity,unique,priority:1" json:"moodle_type" validate:"oneof=category course"`
	MoodleID      uint       `gorm:"not null;index:ux_wp_mappings_entity,unique,priority:2" json:"moodle_id" validate:"required"`
	WordPressType string     `gorm:"type:varchar(20);not null" json:"wordpress_type" validate:"oneof=term post"`
	WordPressID   int64      `gorm:"default:0" json:"wordpress_id"`
	RemoteLabel   string     `gorm:"type:varchar(100)" json:"remote_label"`
	SyncStatus    string     `gorm:"type:varchar(20);not null;default:'not_synced';index" json:"sync_status" validate:"oneof=not_synced synced pending error"`
	LastSyncedAt  *time.Time `gorm:"type:timestamp;default:null" json:"last_synced_at"`
	SyncError     string     `gorm:"type:text" json:"sync_error"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsSynced reports whether the last sync attempt for the mapping succeeded.
func (m *WordPressMapping) IsSynced() bool {
	return m.SyncStatus == SyncStatusSynced
}

// HasRemote reports whether the mapping points at a known remote entity.
func (m *WordPressMapping) HasRemote() bool {
	return m.WordPressID > 0
}
