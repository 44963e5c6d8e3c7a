package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVersionedTouch(t *testing.T) {
	created := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	v := NewVersioned(created)
	assert.Equal(t, 1, v.Version)

	later := created.Add(time.Hour)
	v.Touch(later)
	assert.Equal(t, 2, v.Version)
	assert.Equal(t, created, v.CreatedAt)
	assert.Equal(t, later, v.UpdatedAt)
}

func TestSignedQuantity(t *testing.T) {
	in := StockMovement{RecordType: RecordTypeReceipt, Quantity: 5}
	out := StockMovement{RecordType: RecordTypeExpense, Quantity: 5}

	assert.Equal(t, 5, in.SignedQuantity())
	assert.Equal(t, -5, out.SignedQuantity())
}
