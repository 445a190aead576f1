package capture

import (
	"sync"

	"gocv.io/x/gocv"
)

// Playback replays an in-memory frame sequence. It backs tests and the
// CLI's still-image mode.
type Playback struct {
	frames []*gocv.Mat
	index  int
	loop   bool
	fps    int
	open   bool
	mu     sync.Mutex
}

// NewPlayback creates a Playback over frames. Frames stay owned by the caller.
func NewPlayback(frames []*gocv.Mat, loop bool) *Playback {
	return &Playback{frames: frames, loop: loop, fps: DefaultFPS}
}

func (p *Playback) Open() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
	p.index = 0
	return nil
}

func (p *Playback) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
	return nil
}

// Read returns a clone of the next frame.
func (p *Playback) Read() (*gocv.Mat, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.open {
		return nil, ErrSourceClosed
	}
	if p.index >= len(p.frames) {
		if !p.loop || len(p.frames) == 0 {
			return nil, ErrEndOfStream
		}
		p.index = 0
	}

	frame := p.frames[p.index].Clone()
	p.index++
	return &frame, nil
}

func (p *Playback) SetFPS(fps int) {
	if fps <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fps = fps
}

func (p *Playback) FPS() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fps
}

func (p *Playback) IsOpen() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.open
}
