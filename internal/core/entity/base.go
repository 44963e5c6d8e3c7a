// Package entity provides the shared shape of mutable ledger entities.
package entity

import (
	"time"

	"palletbook/internal/core/id"
)

// Versioned contains common fields for records that are replaced in place.
// Version starts at 1 and advances on every save; CreatedAt is frozen.
type Versioned struct {
	ID        id.ID     `db:"id" json:"id"`
	Version   int       `db:"version" json:"version"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewVersioned creates a Versioned with generated ID, version 1 and both timestamps at now.
func NewVersioned(now time.Time) Versioned {
	return Versioned{
		ID:        id.New(),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes UpdatedAt and increments version.
func (v *Versioned) Touch(now time.Time) {
	v.UpdatedAt = now
	v.Version++
}

// Timestamps is the audit pair of entities edited without versioning.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
