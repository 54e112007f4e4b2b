package models

import (
	"encoding/hex"
	"regexp"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// BaseModel provides shared columns for all tables. Primary keys are
// 24-character lowercase hex identifiers.
type BaseModel struct {
	ID        string    `gorm:"type:char(24);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures identifiers are generated for new records.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = NewID()
	}
	return nil
}

// NewID returns a fresh 24-character hex identifier backed by UUID entropy.
func NewID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:12])
}

// ValidID reports whether s is a well-formed 24-character hex identifier.
func ValidID(s string) bool {
	return idPattern.MatchString(s)
}
