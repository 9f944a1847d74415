package model

import "time"

// Showtime represents a single scheduled screening of a movie.  The
// remote catalog service returns showtimes with a human-readable
// 12-hour display time; ordering for display is derived from that
// string by the catalog package.  Showtimes are immutable once
// fetched.
//
// Fields:
//  ID        – opaque identifier assigned by the catalog service.
//  Time      – wall-clock time of day in "h:mm AM/PM" form.
//  CreatedAt – creation timestamp reported by the service.
//  UpdatedAt – last update timestamp reported by the service.
type Showtime struct {
	ID        string    `json:"id"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
