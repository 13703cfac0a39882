package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestDiscount_IsValid(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		d    Discount
		want bool
	}{
		{"active with window", Discount{Active: true, StartDate: now, EndDate: now.Add(time.Hour)}, true},
		{"zero length window", Discount{Active: true, StartDate: now, EndDate: now}, true},
		{"inactive", Discount{Active: false, StartDate: now, EndDate: now.Add(time.Hour)}, false},
		{"start after end", Discount{Active: true, StartDate: now.Add(time.Hour), EndDate: now}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.IsValid())
		})
	}
}

func TestDiscount_InEffect(t *testing.T) {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(48 * time.Hour)
	d := Discount{Active: true, StartDate: start, EndDate: end}

	assert.False(t, d.InEffect(start.Add(-time.Second)))
	assert.True(t, d.InEffect(start))
	assert.True(t, d.InEffect(start.Add(24*time.Hour)))
	assert.True(t, d.InEffect(end))
	assert.False(t, d.InEffect(end.Add(time.Second)))

	d.Active = false
	assert.False(t, d.InEffect(start.Add(time.Hour)))
}

func TestDiscount_AppliesTo(t *testing.T) {
	p := Product{ID: 7, CategoryID: 3}

	assert.True(t, Discount{}.AppliesTo(p), "global discount")
	assert.True(t, Discount{TargetProductID: ptr(int64(7))}.AppliesTo(p))
	assert.False(t, Discount{TargetProductID: ptr(int64(8))}.AppliesTo(p))
	assert.True(t, Discount{TargetCategoryID: ptr(int64(3))}.AppliesTo(p))
	assert.False(t, Discount{TargetCategoryID: ptr(int64(4))}.AppliesTo(p))
	assert.True(t, Discount{TargetProductID: ptr(int64(8)), TargetCategoryID: ptr(int64(3))}.AppliesTo(p))
}
