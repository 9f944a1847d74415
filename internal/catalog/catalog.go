// Package catalog normalizes showtime data received from the remote
// catalog service.  Showtimes arrive carrying a 12-hour display time
// ("h:mm AM/PM"); for presentation they must be ordered by time of
// day.  A time string that does not match the expected pattern is a
// contract violation by the upstream service, so sorting fails hard
// instead of silently skipping the entry.
package catalog

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
)

// timePattern matches 12-hour display times such as "9:30 PM" or
// "10:05am".  The space before the meridiem is optional, matching the
// formats the catalog service has been observed to emit.
var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s?(AM|PM)$`)

// MalformedTimeError reports a showtime whose display time does not
// match the expected 12-hour pattern.  Handlers should treat it as an
// upstream data error, not as user input to be corrected.
type MalformedTimeError struct {
	Value string // the offending time string
}

// Error implements the error interface.
func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed showtime %q: expected h:mm AM/PM", e.Value)
}

// MinuteOfDay converts a 12-hour display time into minutes since
// midnight.  "12:xx AM" maps to hour 0 and "12:xx PM" stays at hour
// 12.  It returns a MalformedTimeError when the string does not match
// the expected pattern or encodes an impossible time.
func MinuteOfDay(display string) (int, error) {
	m := timePattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(display)))
	if m == nil {
		return 0, &MalformedTimeError{Value: display}
	}
	hrs, _ := strconv.Atoi(m[1])
	mins, _ := strconv.Atoi(m[2])
	if hrs < 1 || hrs > 12 || mins > 59 {
		return 0, &MalformedTimeError{Value: display}
	}
	if m[3] == "PM" && hrs != 12 {
		hrs += 12
	}
	if m[3] == "AM" && hrs == 12 {
		hrs = 0
	}
	return hrs*60 + mins, nil
}

// Sort returns the given showtimes ordered by time of day ascending.
// Ties keep their original input order.  The input slice is never
// modified, so callers can re-derive the ordered list at any time
// from the raw data.  When any display time is malformed, Sort
// returns a MalformedTimeError and no result.
func Sort(showtimes []model.Showtime) ([]model.Showtime, error) {
	minutes := make([]int, len(showtimes))
	for i, st := range showtimes {
		m, err := MinuteOfDay(st.Time)
		if err != nil {
			return nil, err
		}
		minutes[i] = m
	}
	// sort index positions so the parsed minutes travel with each row
	idx := make([]int, len(showtimes))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return minutes[idx[i]] < minutes[idx[j]]
	})
	out := make([]model.Showtime, len(showtimes))
	for pos, src := range idx {
		out[pos] = showtimes[src]
	}
	return out, nil
}
