package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/jetdock/rentalwatch/internal/rentals"
)

// MockSource implements rentals.Source for testing.
type MockSource struct {
	mu      sync.Mutex
	Rentals []rentals.ActiveRental
	ListErr error
	Calls   int
}

func (m *MockSource) ListActive(_ context.Context) ([]rentals.ActiveRental, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]rentals.ActiveRental, len(m.Rentals))
	copy(out, m.Rentals)
	return out, nil
}

// SetRentals replaces the returned list in a thread-safe manner.
func (m *MockSource) SetRentals(list []rentals.ActiveRental) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rentals = list
}

// SetErr sets the error returned by ListActive in a thread-safe manner.
func (m *MockSource) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListErr = err
}

// GetCalls returns the number of ListActive calls in a thread-safe manner.
func (m *MockSource) GetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// Rental builds an active rental that ends remaining after now.
func Rental(id string, now time.Time, durationMinutes int, remaining time.Duration) rentals.ActiveRental {
	checkIn := now.Add(remaining - time.Duration(durationMinutes)*time.Minute)
	d := durationMinutes
	return rentals.ActiveRental{
		ID:                      id,
		CheckInTime:             &checkIn,
		ExpectedDurationMinutes: &d,
		EquipmentLabel:          "Jet Ski " + id,
		CustomerName:            "Customer " + id,
		Status:                  rentals.StatusActive,
	}
}

// OpenEnded builds an active rental without an expected duration.
func OpenEnded(id string, checkIn time.Time) rentals.ActiveRental {
	return rentals.ActiveRental{
		ID:             id,
		CheckInTime:    &checkIn,
		EquipmentLabel: "Boat " + id,
		CustomerName:   "Customer " + id,
		Status:         rentals.StatusActive,
	}
}
