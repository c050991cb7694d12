package rentals

import (
	"strings"
	"time"
)

// Status constants used across the codebase.
const (
	StatusActive    = "ACTIVE"
	StatusReserved  = "RESERVED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// ActiveRental is a rental as returned by the backoffice API.
type ActiveRental struct {
	ID                      string
	CheckInTime             *time.Time
	ExpectedDurationMinutes *int
	EquipmentLabel          string
	CustomerName            string
	Status                  string
}

// Identity distinguishes one booking of a rental id from another. Editing the
// check-in time or the duration produces a new identity.
type Identity struct {
	ID              string
	CheckIn         time.Time
	DurationMinutes int
}

// Identity returns the identity of the rental.
func (r ActiveRental) Identity() Identity {
	id := Identity{ID: r.ID}
	if r.CheckInTime != nil {
		id.CheckIn = *r.CheckInTime
	}
	if d, ok := r.Duration(); ok {
		id.DurationMinutes = d
	}
	return id
}

// Equal reports whether two identities describe the same booking.
func (i Identity) Equal(o Identity) bool {
	return i.ID == o.ID && i.CheckIn.Equal(o.CheckIn) && i.DurationMinutes == o.DurationMinutes
}

// Duration returns the expected duration in minutes. Non-positive durations
// are treated as open-ended.
func (r ActiveRental) Duration() (int, bool) {
	if r.ExpectedDurationMinutes == nil || *r.ExpectedDurationMinutes <= 0 {
		return 0, false
	}
	return *r.ExpectedDurationMinutes, true
}

// EndTime returns the expected end of the rental, if it has one.
func (r ActiveRental) EndTime() (time.Time, bool) {
	d, ok := r.Duration()
	if !ok || r.CheckInTime == nil || r.CheckInTime.IsZero() {
		return time.Time{}, false
	}
	return r.CheckInTime.Add(time.Duration(d) * time.Minute), true
}

// IsActive reports whether the rental is checked in and not yet returned.
func (r ActiveRental) IsActive() bool {
	return r.Status == StatusActive
}

// Label returns "equipment · customer" for presentation.
func (r ActiveRental) Label() string {
	label := r.EquipmentLabel
	if label == "" {
		label = r.ID
	}
	if r.CustomerName != "" {
		label += " · " + r.CustomerName
	}
	return label
}

// FormatCheckIn returns the check-in wall clock time like "14:05".
func (r ActiveRental) FormatCheckIn() string {
	if r.CheckInTime == nil || r.CheckInTime.IsZero() {
		return "—"
	}
	return r.CheckInTime.Local().Format("15:04")
}

// FilterActive returns only rentals with the active status, preserving order.
func FilterActive(list []ActiveRental) []ActiveRental {
	active := make([]ActiveRental, 0, len(list))
	for _, r := range list {
		if r.IsActive() {
			active = append(active, r)
		}
	}
	return active
}

// NormalizeStatus maps API status strings to the status constants.
func NormalizeStatus(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active", "in_progress", "in-progress", "checked_in", "ongoing":
		return StatusActive
	case "reserved", "booked", "pending", "confirmed":
		return StatusReserved
	case "completed", "returned", "checked_out", "closed":
		return StatusCompleted
	case "cancelled", "canceled":
		return StatusCancelled
	default:
		return strings.ToUpper(s)
	}
}
