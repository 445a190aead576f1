//go:generate go run go.uber.org/mock/mockgen -source=detector.go -destination=../mocks/mock_detector.go -package=mocks

// Package detector extracts hand landmarks from frames through an external
// pose-estimation helper.
package detector

import (
	"time"

	"gocv.io/x/gocv"
)

// Detector finds hands in a frame.
type Detector interface {
	// Detect returns the landmarks of every hand found, or an empty slice.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)
	Close() error
}

// Config holds the detection thresholds and helper process settings.
type Config struct {
	MaxHands        int
	MinConfidence   float64
	MinTrackingConf float64
	// StaticImages treats every frame independently instead of tracking
	// hands across consecutive frames.
	StaticImages bool

	// ScriptPath is the helper script; empty searches the usual locations.
	ScriptPath string
	// PythonPath is the interpreter; empty prefers a local virtualenv, then python3.
	PythonPath string
	// IdleTimeout stops the helper after a period without frames.
	IdleTimeout time.Duration
}

// DefaultConfig returns the settings used by the letter classifier: one hand,
// detection confidence 0.7, tracking confidence 0.5, video mode.
func DefaultConfig() Config {
	return Config{
		MaxHands:        1,
		MinConfidence:   0.7,
		MinTrackingConf: 0.5,
		IdleTimeout:     30 * time.Second,
	}
}
