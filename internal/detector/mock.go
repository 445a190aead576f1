package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector returns canned results. It is used by tests and by the CLI's
// dry-run mode.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by Detect.
func (m *MockDetector) SetHands(hands ...HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError makes Detect fail with err.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many frames were submitted.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

func (m *MockDetector) Close() error {
	return nil
}

// OpenPalmLandmarks returns a right hand with all five fingers extended upward.
func OpenPalmLandmarks() HandLandmarks {
	hand := HandLandmarks{Handedness: "Right", Score: 0.95}
	hand.Points[Wrist] = Point3D{X: 0.5, Y: 0.8}

	// base x, base y, per-joint dx, per-joint dy for each finger
	fingers := [5][4]float64{
		{0.55, 0.75, 0.06, -0.05}, // thumb
		{0.55, 0.68, 0.01, -0.11}, // index
		{0.50, 0.66, 0.00, -0.13}, // middle
		{0.45, 0.68, -0.01, -0.11},
		{0.40, 0.70, -0.02, -0.09},
	}
	for f, spec := range fingers {
		for j := 0; j < 4; j++ {
			hand.Points[1+f*4+j] = Point3D{
				X: spec[0] + spec[2]*float64(j),
				Y: spec[1] + spec[3]*float64(j),
			}
		}
	}
	return hand
}
