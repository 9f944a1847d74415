package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// stubQuerier returns a fixed reserved set per showtime, or an error.
type stubQuerier struct {
	reserved map[string][]SeatID
	err      error
	calls    int
}

func (q *stubQuerier) FetchReservedSeats(_ context.Context, showtimeID string) ([]SeatID, error) {
	q.calls++
	if q.err != nil {
		return nil, q.err
	}
	return q.reserved[showtimeID], nil
}

func seat(t *testing.T, label string) SeatID {
	t.Helper()
	s, err := ParseSeatID(label)
	require.NoError(t, err)
	return s
}

func newTestFlow(t *testing.T, q SeatQuerier) *Flow {
	t.Helper()
	f := NewFlow(q, 1500)
	f.SetMovie("m1", "Arrival")
	f.ChangeShowtime(context.Background(), model.Showtime{ID: "st1", Time: "7:30 PM"})
	return f
}

func TestToggleAddsAndRemoves(t *testing.T) {
	f := newTestFlow(t, &stubQuerier{})

	assert.True(t, f.Toggle(seat(t, "C3")))
	assert.Equal(t, []SeatID{seat(t, "C3")}, f.Selected())
	assert.Equal(t, SeatSelected, f.Status(seat(t, "C3")))

	// double toggle returns to the original state
	assert.True(t, f.Toggle(seat(t, "C3")))
	assert.Empty(t, f.Selected())
	assert.Equal(t, SeatAvailable, f.Status(seat(t, "C3")))
}

func TestToggleReservedSeatIsNoOp(t *testing.T) {
	q := &stubQuerier{reserved: map[string][]SeatID{
		"st1": {seat(t, "A1"), seat(t, "A2"), seat(t, "B5")},
	}}
	f := newTestFlow(t, q)

	assert.False(t, f.Toggle(seat(t, "A1")))
	assert.Empty(t, f.Selected())
	assert.Equal(t, SeatReserved, f.Status(seat(t, "A1")))

	assert.True(t, f.Toggle(seat(t, "C3")))
	assert.Equal(t, []SeatID{seat(t, "C3")}, f.Selected())

	// reserved seats stay unresponsive regardless of current selection
	assert.False(t, f.Toggle(seat(t, "B5")))
	assert.Equal(t, []SeatID{seat(t, "C3")}, f.Selected())
}

func TestToggleSequenceXORFolds(t *testing.T) {
	f := newTestFlow(t, &stubQuerier{})
	taps := []string{"C3", "D4", "C3", "E5", "D4", "D4"}
	for _, l := range taps {
		f.Toggle(seat(t, l))
	}
	// C3 twice cancels, D4 three times survives, E5 once survives
	assert.Equal(t, []SeatID{seat(t, "D4"), seat(t, "E5")}, f.Selected())
}

func TestChangeShowtimeClearsSelection(t *testing.T) {
	q := &stubQuerier{reserved: map[string][]SeatID{
		"st2": {seat(t, "C3")},
	}}
	f := newTestFlow(t, q)
	f.Toggle(seat(t, "C3"))
	f.Toggle(seat(t, "C4"))
	require.Len(t, f.Selected(), 2)

	f.ChangeShowtime(context.Background(), model.Showtime{ID: "st2", Time: "9:30 PM"})

	assert.Empty(t, f.Selected())
	assert.Equal(t, "st2", f.Availability().Active())
	// the new showtime's occupancy replaced the old set wholesale
	assert.Equal(t, SeatReserved, f.Status(seat(t, "C3")))
	assert.Equal(t, StateSelectingSeats, f.State())
}

func TestConfirmEmptySelectionFailsWithoutMutation(t *testing.T) {
	f := newTestFlow(t, &stubQuerier{})

	session, err := f.Confirm()
	assert.Nil(t, session)
	require.ErrorIs(t, err, ErrEmptySelection)
	assert.Equal(t, StateSelectingSeats, f.State())
	assert.NotNil(t, f.Showtime())
}

func TestConfirmWithoutShowtime(t *testing.T) {
	f := NewFlow(&stubQuerier{}, 1500)
	_, err := f.Confirm()
	require.ErrorIs(t, err, ErrNoShowtime)
}

func TestConfirmFreezesSelection(t *testing.T) {
	f := newTestFlow(t, &stubQuerier{})
	for _, l := range []string{"A1", "A2", "B3"} {
		f.Toggle(seat(t, l))
	}

	session, err := f.Confirm()
	require.NoError(t, err)
	assert.Equal(t, StateConfirmed, f.State())
	assert.Equal(t, []string{"A1", "A2", "B3"}, session.SeatLabels())
	assert.Equal(t, uint32(4500), session.TotalCents())

	// later toggles must not reach the frozen session
	f.Toggle(seat(t, "A1"))
	f.Toggle(seat(t, "G8"))
	assert.Equal(t, []string{"A1", "A2", "B3"}, session.SeatLabels())
	assert.Equal(t, uint32(4500), session.TotalCents())
}

func TestResetClearsEverything(t *testing.T) {
	f := newTestFlow(t, &stubQuerier{})
	f.Toggle(seat(t, "C3"))

	f.Reset()

	assert.Empty(t, f.Selected())
	assert.Nil(t, f.Showtime())
	assert.Equal(t, StateSucceeded, f.State())
	assert.Equal(t, uint32(0), f.TotalCents())
}

func TestRunningTotal(t *testing.T) {
	f := newTestFlow(t, &stubQuerier{})
	assert.Equal(t, uint32(0), f.TotalCents())
	f.Toggle(seat(t, "C3"))
	f.Toggle(seat(t, "C4"))
	assert.Equal(t, uint32(3000), f.TotalCents())
}

func TestAvailabilityFetchErrorDegradesToEmpty(t *testing.T) {
	q := &stubQuerier{err: errors.New("connection refused")}
	f := newTestFlow(t, q)

	// no seat reads as reserved, every tap works
	assert.Empty(t, f.Availability().Reserved())
	assert.True(t, f.Toggle(seat(t, "A1")))
	require.Equal(t, 1, q.calls)
}
