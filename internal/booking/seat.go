// Package booking implements the seat selection core: the per-showtime
// reserved seat cache, the client-local selection state machine and the
// frozen reservation session handed to checkout.
package booking

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Theater layout.  The layout is a fixed configuration constant rather
// than data fetched per theater; every showtime in the catalog shares
// the same grid.
const (
	SeatRows    = "ABCDEFG" // ordered row alphabet
	SeatsPerRow = 8         // seats in each row
)

// SeatID addresses one seat in the grid by row letter and 1-based
// number within the row.
type SeatID struct {
	Row    byte   // row letter, one of SeatRows
	Number uint32 // seat number within the row, 1..SeatsPerRow
}

// Label renders the seat in its display form, e.g. "A1" or "G8".
func (s SeatID) Label() string {
	return fmt.Sprintf("%c%d", s.Row, s.Number)
}

// ParseSeatID parses a display label such as "C3" back into a SeatID.
// It rejects labels outside the configured grid.
func ParseSeatID(label string) (SeatID, error) {
	label = strings.ToUpper(strings.TrimSpace(label))
	if len(label) < 2 {
		return SeatID{}, fmt.Errorf("invalid seat label %q", label)
	}
	row := label[0]
	if !strings.ContainsRune(SeatRows, rune(row)) {
		return SeatID{}, fmt.Errorf("unknown seat row %q", label)
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 1 || n > SeatsPerRow {
		return SeatID{}, fmt.Errorf("seat number out of range in %q", label)
	}
	return SeatID{Row: row, Number: uint32(n)}, nil
}

// AllSeats returns the full seat universe in row-major order.
func AllSeats() []SeatID {
	out := make([]SeatID, 0, len(SeatRows)*SeatsPerRow)
	for i := 0; i < len(SeatRows); i++ {
		for n := uint32(1); n <= SeatsPerRow; n++ {
			out = append(out, SeatID{Row: SeatRows[i], Number: n})
		}
	}
	return out
}

// SortSeats orders seats row-major in place and returns the slice for
// convenience.  Used when rendering selections and building payloads
// so seat lists have a deterministic order.
func SortSeats(seats []SeatID) []SeatID {
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}
		return seats[i].Number < seats[j].Number
	})
	return seats
}

// Labels converts a seat list to display labels, preserving order.
func Labels(seats []SeatID) []string {
	out := make([]string, 0, len(seats))
	for _, s := range seats {
		out = append(out, s.Label())
	}
	return out
}
