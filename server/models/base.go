package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var ErrUniqueViolation = errors.New("record violates a uniqueness constraint")

type BaseModel struct {
	ID        uint      `json:"id,omitempty" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// UUIDModel is the base for records addressed by a random id.
type UUIDModel struct {
	ID        string    `json:"id" gorm:"primarykey;type:varchar(36)"`
	CreatedAt time.Time `json:"created_at"`
}

func (model *UUIDModel) BeforeCreate(tx *gorm.DB) error {
	if model.ID == "" {
		model.ID = uuid.NewString()
	}
	return nil
}

// ---------------------------------------------------------------------------------//
// Scopes
// --------------------------------------------------------------------------------//

// OwnedBy restricts a query on a table with a created_by_id column to rows
// created by the given staff member.
func OwnedBy(staffID uint) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_by_id = ?", staffID)
	}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// translateError maps driver specific constraint failures onto ErrUniqueViolation.
func translateError(err error, msg string) error {
	if err == nil {
		return nil
	}

	if isUniqueViolation(err) {
		return errors.Wrap(ErrUniqueViolation, msg)
	}

	return errors.Wrap(err, msg)
}

func isUniqueViolation(err error) bool {
	errMsg := err.Error()

	// sqlite/sqlcipher & postgres respectively
	return strings.Contains(errMsg, "UNIQUE constraint failed") ||
		strings.Contains(errMsg, "duplicate key value violates unique constraint") ||
		strings.Contains(errMsg, "SQLSTATE 23505")
}

func uintPtr(val uint) *uint {
	return &val
}
