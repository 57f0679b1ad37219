package models

import (
	"time"

	"github.com/google/uuid"
)

// Company represents a tenant. Every other entity is scoped beneath one,
// directly or through its parent.
type Company struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`

	// IANA zone used for day-bucket KPIs when the caller does not supply one
	Timezone string `json:"timezone" db:"timezone"`

	IsActive bool `json:"isActive" db:"is_active"`
}
