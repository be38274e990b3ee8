package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Document is one named collection stored as a JSON payload.
type Document struct {
	Name      string         `gorm:"primaryKey;size:64" json:"name"`
	Payload   datatypes.JSON `json:"payload"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Document{})
}
