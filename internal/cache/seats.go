// Package cache layers a short-lived Redis cache in front of the
// reserved-seat query client.  Occupancy changes as other users book,
// so entries use a short TTL and every showtime is cached wholesale
// under its own key.  When no Redis client is available the cache
// degrades to a passthrough, mirroring how the rest of the
// application treats Redis as optional.
package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/movie-ticket-booking/internal/booking"
)

const keyPrefix = "seats:reserved:"

// ReservedSeatCache implements booking.SeatQuerier by consulting
// Redis before the wrapped querier.
type ReservedSeatCache struct {
	rdb  *redis.Client
	next booking.SeatQuerier
	ttl  time.Duration
}

// NewReservedSeatCache wraps next with a Redis cache.  rdb may be nil
// to disable caching.  A non-positive ttl defaults to ten seconds.
func NewReservedSeatCache(rdb *redis.Client, next booking.SeatQuerier, ttl time.Duration) *ReservedSeatCache {
	if next == nil {
		panic("nil querier passed to NewReservedSeatCache")
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &ReservedSeatCache{rdb: rdb, next: next, ttl: ttl}
}

// FetchReservedSeats returns the cached seat labels for the showtime
// when present, otherwise falls through to the wrapped querier and
// stores its result.  Redis failures only cost the cache hit; they
// never fail the fetch.
func (c *ReservedSeatCache) FetchReservedSeats(ctx context.Context, showtimeID string) ([]booking.SeatID, error) {
	if c.rdb == nil {
		return c.next.FetchReservedSeats(ctx, showtimeID)
	}
	key := keyPrefix + showtimeID

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		if seats, ok := decodeSeats(raw); ok {
			return seats, nil
		}
	}

	seats, err := c.next.FetchReservedSeats(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(booking.Labels(seats)); err == nil {
		if err := c.rdb.SetEx(ctx, key, raw, c.ttl).Err(); err != nil {
			log.Printf("seat cache: store for showtime %s failed: %v", showtimeID, err)
		}
	}
	return seats, nil
}

// Invalidate drops the cached occupancy for a showtime.  Called after
// a successful checkout so the freshly reserved seats show up on the
// next seat-map read instead of after TTL expiry.
func (c *ReservedSeatCache) Invalidate(ctx context.Context, showtimeID string) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, keyPrefix+showtimeID).Err(); err != nil {
		log.Printf("seat cache: invalidate for showtime %s failed: %v", showtimeID, err)
	}
}

// decodeSeats parses a cached label list.  A corrupt entry is treated
// as a miss.
func decodeSeats(raw []byte) ([]booking.SeatID, bool) {
	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil, false
	}
	seats := make([]booking.SeatID, 0, len(labels))
	for _, label := range labels {
		s, err := booking.ParseSeatID(label)
		if err != nil {
			return nil, false
		}
		seats = append(seats, s)
	}
	return seats, true
}
