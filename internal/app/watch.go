package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/ayusman/ishaara/internal/capture"
	"github.com/ayusman/ishaara/internal/gesture"
	"gocv.io/x/gocv"
)

// Watch timing defaults.
const (
	// IdleFPS is the frame rate while the scene is still.
	IdleFPS = 5
	// ActiveFPS is the frame rate while something moves.
	ActiveFPS = 15
	// IdleTimeout is how long without motion before dropping back to IdleFPS.
	IdleTimeout = 2 * time.Second
)

// Translator turns a frame into a gesture prediction.
type Translator interface {
	Translate(ctx context.Context, frame *gocv.Mat) (gesture.Prediction, error)
}

// Event is emitted when a live source shows a new gesture.
type Event struct {
	Prediction gesture.Prediction
	Motion     float64
	At         time.Time
}

// WatchConfig tunes the live loop. Zero values use the package defaults.
type WatchConfig struct {
	IdleFPS     int
	ActiveFPS   int
	IdleTimeout time.Duration
}

func (c WatchConfig) withDefaults() WatchConfig {
	if c.IdleFPS <= 0 {
		c.IdleFPS = IdleFPS
	}
	if c.ActiveFPS <= 0 {
		c.ActiveFPS = ActiveFPS
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = IdleTimeout
	}
	return c
}

// Watcher reads a live source, skips still frames and reports gestures.
type Watcher struct {
	config     WatchConfig
	source     capture.Source
	gate       *capture.MotionGate
	translator Translator
	log        *slog.Logger
}

func NewWatcher(config WatchConfig, source capture.Source, gate *capture.MotionGate, translator Translator, log *slog.Logger) *Watcher {
	return &Watcher{
		config:     config.withDefaults(),
		source:     source,
		gate:       gate,
		translator: translator,
		log:        log,
	}
}

// Run drives the loop until ctx is done or the source ends.
//
// The source starts at IdleFPS. Motion switches it to ActiveFPS and frames
// are classified; after IdleTimeout without motion it drops back to idle.
// A gesture is reported once until a different one appears or the scene
// goes idle.
func (w *Watcher) Run(ctx context.Context, onEvent func(Event)) error {
	if !w.source.IsOpen() {
		if err := w.source.Open(); err != nil {
			return err
		}
	}
	defer w.source.Close()

	w.source.SetFPS(w.config.IdleFPS)
	ticker := time.NewTicker(time.Second / time.Duration(w.config.IdleFPS))
	defer ticker.Stop()

	active := false
	lastMotion := time.Now()
	var lastTag gesture.Tag

	setMode := func(toActive bool) {
		active = toActive
		fps := w.config.IdleFPS
		if toActive {
			fps = w.config.ActiveFPS
		}
		w.source.SetFPS(fps)
		ticker.Reset(time.Second / time.Duration(fps))
		w.log.Debug("Watch mode changed", "active", toActive, "fps", fps)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		frame, err := w.source.Read()
		if err != nil {
			if errors.Is(err, capture.ErrEndOfStream) {
				return nil
			}
			if errors.Is(err, capture.ErrSourceClosed) {
				return err
			}
			w.log.Warn("Error reading frame", "error", err)
			continue
		}

		moved, changed := w.gate.Check(frame)
		switch {
		case moved:
			lastMotion = time.Now()
			if !active {
				setMode(true)
			}
		case active && time.Since(lastMotion) > w.config.IdleTimeout:
			setMode(false)
			lastTag = ""
		}

		if !active {
			frame.Close()
			continue
		}

		pred, err := w.translator.Translate(ctx, frame)
		frame.Close()
		if err != nil {
			w.log.Warn("Error translating frame", "error", err)
			continue
		}
		if !pred.Detected || pred.Tag == lastTag {
			continue
		}

		lastTag = pred.Tag
		onEvent(Event{Prediction: pred, Motion: changed, At: time.Now()})
	}
}
