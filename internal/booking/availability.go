package booking

import (
	"context"
	"log"
	"sync"
)

// SeatQuerier fetches the authoritative set of already-reserved seats
// for a showtime from the remote reservation service.
type SeatQuerier interface {
	FetchReservedSeats(ctx context.Context, showtimeID string) ([]SeatID, error)
}

// AvailabilityCache holds the reserved seat set for exactly one
// showtime at a time.  Switching showtimes replaces the set
// wholesale; sets are never merged across showtimes.
//
// Loads are tagged with the showtime they were issued for.  A load
// that resolves after the active showtime has moved on is discarded,
// so a slow fetch can never attach a stale reserved set to the wrong
// showtime.
//
// A failed fetch resolves to an empty reserved set instead of an
// error: the seat map stays usable and the server remains the final
// authority at submission time.  The failure is logged as a warning.
type AvailabilityCache struct {
	querier SeatQuerier

	mu       sync.Mutex
	active   string              // showtime the cache currently serves
	reserved map[SeatID]struct{} // reserved seats for the active showtime
}

// NewAvailabilityCache builds an empty cache backed by the given
// querier.  The querier must be non-nil.
func NewAvailabilityCache(querier SeatQuerier) *AvailabilityCache {
	if querier == nil {
		panic("nil querier passed to NewAvailabilityCache")
	}
	return &AvailabilityCache{
		querier:  querier,
		reserved: map[SeatID]struct{}{},
	}
}

// SetActive switches the cache to a new showtime.  The previous
// reserved set is discarded immediately so no stale occupancy is
// visible while the fresh load is in flight.
func (c *AvailabilityCache) SetActive(showtimeID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.active = showtimeID
	c.reserved = map[SeatID]struct{}{}
}

// Active returns the showtime the cache currently serves.
func (c *AvailabilityCache) Active() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Load fetches the reserved seats for showtimeID and installs them if
// that showtime is still the active one.  The result of a superseded
// load is dropped silently.  Fetch errors degrade to an empty set.
// The returned bool reports whether the result was applied.
func (c *AvailabilityCache) Load(ctx context.Context, showtimeID string) bool {
	seats, err := c.querier.FetchReservedSeats(ctx, showtimeID)
	if err != nil {
		log.Printf("availability: fetch reserved seats for showtime %s failed, assuming none reserved: %v", showtimeID, err)
		seats = nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active != showtimeID {
		// a newer showtime was selected while this load was in flight
		return false
	}
	set := make(map[SeatID]struct{}, len(seats))
	for _, s := range seats {
		set[s] = struct{}{}
	}
	c.reserved = set
	return true
}

// IsReserved reports whether the seat is reserved under the active
// showtime.
func (c *AvailabilityCache) IsReserved(seat SeatID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.reserved[seat]
	return ok
}

// Reserved returns the reserved seats of the active showtime in
// row-major order.
func (c *AvailabilityCache) Reserved() []SeatID {
	c.mu.Lock()
	out := make([]SeatID, 0, len(c.reserved))
	for s := range c.reserved {
		out = append(out, s)
	}
	c.mu.Unlock()
	return SortSeats(out)
}
