package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

const (
	// MotionBlurSize is the Gaussian kernel used to suppress sensor noise.
	MotionBlurSize = 21
	// MotionPixelDelta is the per-pixel intensity change counted as movement.
	MotionPixelDelta = 25
	// DefaultMotionPercent is the share of changed pixels that wakes recognition.
	DefaultMotionPercent = 1.0
)

// MotionGate decides whether a frame differs enough from the previous one to
// be worth classifying. Live sources use it to skip idle frames.
type MotionGate struct {
	percent  float64
	previous gocv.Mat
	primed   bool
	mu       sync.Mutex
}

// NewMotionGate creates a gate that opens when more than percent of the
// pixels changed. Values <= 0 fall back to DefaultMotionPercent.
func NewMotionGate(percent float64) *MotionGate {
	if percent <= 0 {
		percent = DefaultMotionPercent
	}
	return &MotionGate{percent: percent, previous: gocv.NewMat()}
}

// Check compares frame against the last frame it saw. The first frame only
// primes the gate. It reports whether the gate opened and the changed share.
func (g *MotionGate) Check(frame *gocv.Mat) (bool, float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Pt(MotionBlurSize, MotionBlurSize), 0, 0, gocv.BorderDefault)

	if !g.primed || g.previous.Rows() != blurred.Rows() || g.previous.Cols() != blurred.Cols() {
		blurred.CopyTo(&g.previous)
		g.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, g.previous, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, MotionPixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(mask)) / float64(mask.Rows()*mask.Cols()) * 100.0
	blurred.CopyTo(&g.previous)

	return changed > g.percent, changed
}

// Reset forgets the reference frame.
func (g *MotionGate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.release()
}

// Close releases the reference frame.
func (g *MotionGate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.release()
}

func (g *MotionGate) release() {
	if !g.previous.Empty() {
		g.previous.Close()
		g.previous = gocv.NewMat()
	}
	g.primed = false
}
