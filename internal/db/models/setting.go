// Package models contains database model definitions.
package models

import "time"

// Setting represents a configuration setting stored in the database.
// Value is always stored as text, Type tells how to decode it.
type Setting struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	Key         string    `gorm:"uniqueIndex;size:191;not null" json:"key"`
	Value       string    `gorm:"type:text" json:"value"`
	Type        string    `gorm:"size:16;not null;default:'string'" json:"type"`
	Description *string   `gorm:"size:512" json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
