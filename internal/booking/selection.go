package booking

import (
	"context"
	"errors"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// FlowState tracks where a checkout flow currently is.  The flow
// moves SelectingSeats -> Confirmed -> Submitting and ends in either
// Succeeded (terminal, state cleared) or Failed (retryable, state
// preserved).
type FlowState string

const (
	StateSelectingSeats FlowState = "SELECTING_SEATS"
	StateConfirmed      FlowState = "CONFIRMED"
	StateSubmitting     FlowState = "SUBMITTING"
	StateSucceeded      FlowState = "SUCCEEDED"
	StateFailed         FlowState = "FAILED"
)

// SeatStatus is the status of a single seat relative to the active
// showtime, as rendered in the seat map.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatSelected  SeatStatus = "SELECTED"
	SeatReserved  SeatStatus = "RESERVED"
)

// ErrEmptySelection is returned by Confirm when no seats are
// selected.  This is a user-correctable validation error, not a
// fault.
var ErrEmptySelection = errors.New("no seats selected")

// ErrNoShowtime is returned by Confirm when no showtime has been
// chosen yet.
var ErrNoShowtime = errors.New("no showtime selected")

// Flow owns the client-local selection state for one user's trip
// through the checkout: the chosen movie and showtime, the seats the
// user intends to reserve and the reserved-seat cache gating seat
// taps.  A Flow is owned by a single logical flow of control and is
// threaded explicitly through the checkout instead of living in
// ambient shared state.
type Flow struct {
	avail          *AvailabilityCache
	unitPriceCents uint32

	movieID    string
	movieTitle string
	showtime   *model.Showtime
	selected   map[SeatID]struct{}
	state      FlowState
}

// NewFlow creates a flow for one checkout attempt.  unitPriceCents is
// the fixed per-seat price supplied by configuration.
func NewFlow(querier SeatQuerier, unitPriceCents uint32) *Flow {
	return &Flow{
		avail:          NewAvailabilityCache(querier),
		unitPriceCents: unitPriceCents,
		selected:       map[SeatID]struct{}{},
		state:          StateSelectingSeats,
	}
}

// SetMovie records which movie the flow is booking seats for.
func (f *Flow) SetMovie(id, title string) {
	f.movieID = id
	f.movieTitle = title
}

// ChangeShowtime switches the flow to a new showtime.  The selection
// is cleared unconditionally and eagerly, before the reserved-seat
// load resolves, so a stale selection can never reference a seat that
// turns out to be reserved under the new showtime.  The reserved set
// is then reloaded; a load result arriving for a showtime that is no
// longer active is discarded by the cache.
func (f *Flow) ChangeShowtime(ctx context.Context, st model.Showtime) {
	copied := st
	f.showtime = &copied
	f.selected = map[SeatID]struct{}{}
	f.state = StateSelectingSeats
	f.avail.SetActive(st.ID)
	f.avail.Load(ctx, st.ID)
}

// Showtime returns the active showtime, or nil when none is chosen.
func (f *Flow) Showtime() *model.Showtime {
	return f.showtime
}

// Availability exposes the flow's reserved-seat cache for rendering.
func (f *Flow) Availability() *AvailabilityCache {
	return f.avail
}

// Toggle flips a seat in or out of the selection.  Tapping a reserved
// seat is a no-op rather than an error: the seat is simply
// unresponsive.  It returns true when the selection changed.
func (f *Flow) Toggle(seat SeatID) bool {
	if f.avail.IsReserved(seat) {
		return false
	}
	if _, ok := f.selected[seat]; ok {
		delete(f.selected, seat)
	} else {
		f.selected[seat] = struct{}{}
	}
	return true
}

// Status reports how a seat should render: reserved seats win over
// selection, everything else is available.
func (f *Flow) Status(seat SeatID) SeatStatus {
	if f.avail.IsReserved(seat) {
		return SeatReserved
	}
	if _, ok := f.selected[seat]; ok {
		return SeatSelected
	}
	return SeatAvailable
}

// Selected returns the current selection in row-major order.
func (f *Flow) Selected() []SeatID {
	out := make([]SeatID, 0, len(f.selected))
	for s := range f.selected {
		out = append(out, s)
	}
	return SortSeats(out)
}

// State returns the flow's position in the checkout state machine.
func (f *Flow) State() FlowState {
	return f.state
}

// TotalCents is the running price of the current selection.
func (f *Flow) TotalCents() uint32 {
	return f.unitPriceCents * uint32(len(f.selected))
}

// Confirm freezes the current selection into an immutable Session.
// It fails without mutating any state when the selection is empty or
// no showtime is active.  The live selection stays intact; callers
// clear it via Reset once the session has been consumed.
func (f *Flow) Confirm() (*Session, error) {
	if f.showtime == nil {
		return nil, ErrNoShowtime
	}
	if len(f.selected) == 0 {
		return nil, ErrEmptySelection
	}
	session := newSession(f.movieID, f.movieTitle, *f.showtime, f.Selected(), f.unitPriceCents)
	f.state = StateConfirmed
	return session, nil
}

// MarkSubmitting moves a confirmed flow into the Submitting state.
func (f *Flow) MarkSubmitting() {
	f.state = StateSubmitting
}

// MarkFailed records a failed submission.  Selection, showtime and
// movie are preserved so the user can retry without re-selecting.
func (f *Flow) MarkFailed() {
	f.state = StateFailed
}

// Reset clears all selection state: movie, showtime, seats and the
// reserved-seat cache.  Called when a submission succeeds so the same
// seats cannot be submitted twice from this flow.
func (f *Flow) Reset() {
	f.movieID = ""
	f.movieTitle = ""
	f.showtime = nil
	f.selected = map[SeatID]struct{}{}
	f.avail.SetActive("")
	f.state = StateSucceeded
}
