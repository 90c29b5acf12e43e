package entities

import "time"

// Record is one named JSON document of persisted library state.
type Record struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Record) TableName() string {
	return "library_records"
}
