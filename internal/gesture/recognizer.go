// Package gesture turns a single frame into a gesture tag and its phrase
// using contour geometry.
package gesture

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gocv.io/x/gocv"
)

// UnknownConfidence is reported for detected hands whose tag has no phrase.
const UnknownConfidence = 0.30

// Prediction is the outcome of translating one frame.
type Prediction struct {
	Tag        Tag
	Text       string
	Confidence float64
	Detected   bool
	Latency    time.Duration
}

// Recognizer runs extraction, classification and phrase lookup. It holds no
// mutable state and is safe for concurrent use.
type Recognizer struct {
	phrases *Phrasebook
	log     *slog.Logger
}

// NewRecognizer creates a Recognizer. A nil phrasebook uses the defaults.
func NewRecognizer(phrases *Phrasebook, log *slog.Logger) *Recognizer {
	if phrases == nil {
		phrases = DefaultPhrasebook()
	}
	return &Recognizer{phrases: phrases, log: log}
}

// Phrases returns the dictionary used by the recognizer.
func (r *Recognizer) Phrases() *Phrasebook {
	return r.phrases
}

// Translate classifies frame. Frames without a hand yield a successful
// prediction with Detected false and confidence 0. The context is only
// checked before work starts.
func (r *Recognizer) Translate(ctx context.Context, frame *gocv.Mat) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}
	if frame == nil || frame.Empty() {
		return Prediction{}, fmt.Errorf("translate: empty frame")
	}

	start := time.Now()
	shape, ok, err := ExtractShape(*frame)
	if err != nil {
		return Prediction{}, fmt.Errorf("translate: %w", err)
	}
	c := NoHand
	if ok {
		c = Classify(shape)
	}
	pred := r.predict(c)
	pred.Latency = time.Since(start)

	r.log.Debug("Frame classified",
		"tag", pred.Tag,
		"fingers", c.Fingers,
		"aspect_ratio", c.AspectRatio,
		"confidence", pred.Confidence,
		"latency", pred.Latency)

	return pred, nil
}

func (r *Recognizer) predict(c Classification) Prediction {
	if !c.Detected {
		return Prediction{Text: NoGestureText}
	}

	text := r.phrases.Phrase(c.Tag)
	confidence := c.Confidence
	if text == NoGestureText {
		confidence = UnknownConfidence
	}

	return Prediction{
		Tag:        c.Tag,
		Text:       text,
		Confidence: math.Max(0, math.Min(1, confidence)),
		Detected:   true,
	}
}
