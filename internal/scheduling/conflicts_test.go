package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var morning = Window{Date: "2024-07-01", StartTime: "10:00:00", EndTime: "11:00:00"}

func TestFindConflicts_NoOverlap(t *testing.T) {
	bookings := []Booking{
		{EmployeeID: 7, AttendeeName: "Asha", StartTime: "10:00:00", EndTime: "10:30:00"},
	}

	assert.Empty(t, FindConflicts([]uint64{1, 2}, morning, bookings))
	assert.Empty(t, FindConflicts([]uint64{1}, morning, nil))
}

func TestFindConflicts_ReturnsOverlappingCandidates(t *testing.T) {
	bookings := []Booking{
		{EmployeeID: 1, AttendeeName: "Asha", StartTime: "09:30:00", EndTime: "10:30:00"},
		{EmployeeID: 2, AttendeeName: "Bala", StartTime: "10:45:00", EndTime: "12:00:00"},
		{EmployeeID: 3, AttendeeName: "Chitra", StartTime: "10:00:00", EndTime: "10:15:00"},
	}

	got := FindConflicts([]uint64{1, 2}, morning, bookings)

	assert.Equal(t, []string{
		"Asha from 09:30 AM to 10:30 AM",
		"Bala from 10:45 AM to 12:00 PM",
	}, got)
}

func TestFindConflicts_Deduplicates(t *testing.T) {
	bookings := []Booking{
		{MeetingID: 10, EmployeeID: 1, AttendeeName: "Asha", StartTime: "10:00:00", EndTime: "11:00:00"},
		{MeetingID: 11, EmployeeID: 1, AttendeeName: "Asha", StartTime: "10:00:00", EndTime: "11:00:00"},
	}

	got := FindConflicts([]uint64{1, 1}, morning, bookings)

	assert.Equal(t, []string{"Asha from 10:00 AM to 11:00 AM"}, got)
}

func TestBookingOverlaps_HalfOpen(t *testing.T) {
	before := Booking{StartTime: "09:00:00", EndTime: "10:00:00"}
	after := Booking{StartTime: "11:00:00", EndTime: "12:00:00"}
	inside := Booking{StartTime: "10:15:00", EndTime: "10:45:00"}

	assert.False(t, before.Overlaps(morning))
	assert.False(t, after.Overlaps(morning))
	assert.True(t, inside.Overlaps(morning))
}
