package rowan

import "time"

// Clock supplies the current time to the state machine and interpolation
// code. Injecting it keeps timeout behavior testable without real waiting.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock backed by the monotonic system time.
type SystemClock struct{}

// Now returns the current time with monotonic clock reading.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// MockClock is a manually advanced clock for tests.
type MockClock struct {
	t time.Time
}

// NewMockClock creates a mock clock starting at start.
func NewMockClock(start time.Time) *MockClock {
	return &MockClock{t: start}
}

// Now returns the mock's current time.
func (m *MockClock) Now() time.Time {
	return m.t
}

// Advance moves the mock clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.t = m.t.Add(d)
}

// Set jumps the mock clock to t.
func (m *MockClock) Set(t time.Time) {
	m.t = t
}
