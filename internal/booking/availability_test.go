package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadInstallsReservedSet(t *testing.T) {
	q := &stubQuerier{reserved: map[string][]SeatID{
		"st1": {seat(t, "B5"), seat(t, "A1")},
	}}
	c := NewAvailabilityCache(q)
	c.SetActive("st1")

	applied := c.Load(context.Background(), "st1")

	assert.True(t, applied)
	assert.True(t, c.IsReserved(seat(t, "A1")))
	assert.True(t, c.IsReserved(seat(t, "B5")))
	assert.False(t, c.IsReserved(seat(t, "C3")))
	assert.Equal(t, []SeatID{seat(t, "A1"), seat(t, "B5")}, c.Reserved())
}

func TestStaleLoadResultIsDiscarded(t *testing.T) {
	q := &stubQuerier{reserved: map[string][]SeatID{
		"st1": {seat(t, "A1")},
	}}
	c := NewAvailabilityCache(q)

	// the user moved on to st2 while the st1 fetch was in flight
	c.SetActive("st2")
	applied := c.Load(context.Background(), "st1")

	assert.False(t, applied)
	assert.False(t, c.IsReserved(seat(t, "A1")))
}

func TestSetActiveDiscardsPreviousSet(t *testing.T) {
	q := &stubQuerier{reserved: map[string][]SeatID{
		"st1": {seat(t, "A1")},
	}}
	c := NewAvailabilityCache(q)
	c.SetActive("st1")
	require.True(t, c.Load(context.Background(), "st1"))
	require.True(t, c.IsReserved(seat(t, "A1")))

	// switching showtimes empties the set before any fetch resolves
	c.SetActive("st2")
	assert.False(t, c.IsReserved(seat(t, "A1")))
	assert.Empty(t, c.Reserved())
}

func TestLoadErrorResolvesToEmptySet(t *testing.T) {
	q := &stubQuerier{err: assert.AnError}
	c := NewAvailabilityCache(q)
	c.SetActive("st1")

	applied := c.Load(context.Background(), "st1")

	// soft fail: result applied, no seats reserved, no error surfaces
	assert.True(t, applied)
	assert.Empty(t, c.Reserved())
}
