package models

import (
	"time"

	"gorm.io/gorm"
)

// Storage keys for the persisted documents.
const (
	KeyApplications = "applications"
	KeyGamification = "gamification"
	KeyThemeMode    = "theme_mode"
)

// KVEntry stores one JSON document per key when the MySQL backend is used.
type KVEntry struct {
	Key       string    `gorm:"primaryKey;size:191" json:"key"`
	Value     string    `gorm:"type:longtext;not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName pins the table name independent of gorm's pluralisation.
func (KVEntry) TableName() string {
	return "kv_entries"
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (e *KVEntry) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (e *KVEntry) BeforeUpdate(tx *gorm.DB) error {
	e.UpdatedAt = time.Now()
	return nil
}
