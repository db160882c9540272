package scheduling

import "fmt"

// Window is the slot a meeting occupies on one date
type Window struct {
	Date      string
	StartTime string
	EndTime   string
}

// Booking is an attendee already committed to a meeting overlapping a Window
type Booking struct {
	MeetingID    uint64
	EmployeeID   uint64
	AttendeeName string
	StartTime    string
	EndTime      string
}

// Overlaps reports whether the booking intersects w. Both ranges are half-open.
func (b Booking) Overlaps(w Window) bool {
	return b.StartTime < w.EndTime && b.EndTime > w.StartTime
}

// FindConflicts describes every booking in w held by one of the candidates as
// "<name> from <start> to <end>". Duplicate descriptions are dropped and the
// first-seen order is kept.
func FindConflicts(candidates []uint64, w Window, bookings []Booking) []string {
	wanted := make(map[uint64]struct{}, len(candidates))
	for _, id := range candidates {
		wanted[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	conflicts := make([]string, 0)
	for _, b := range bookings {
		if _, ok := wanted[b.EmployeeID]; !ok || !b.Overlaps(w) {
			continue
		}
		desc := fmt.Sprintf("%s from %s to %s", b.AttendeeName, To12Hour(b.StartTime), To12Hour(b.EndTime))
		if _, dup := seen[desc]; dup {
			continue
		}
		seen[desc] = struct{}{}
		conflicts = append(conflicts, desc)
	}

	return conflicts
}
