// Package letters classifies a hand into an A–Z fingerspelling letter from
// its landmarks.
package letters

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ayusman/ishaara/internal/detector"
	"github.com/samber/lo"
	"gocv.io/x/gocv"
)

// Classifier chains landmark detection and the letter network.
type Classifier struct {
	detector detector.Detector
	network  Network
	labels   []string
	log      *slog.Logger
}

// NewClassifier creates a Classifier. labels[i] names network output i.
func NewClassifier(d detector.Detector, n Network, labels []string, log *slog.Logger) (*Classifier, error) {
	if len(lo.Compact(labels)) == 0 {
		return nil, fmt.Errorf("%w: no labels", ErrBadLabels)
	}
	return &Classifier{detector: d, network: n, labels: labels, log: log}, nil
}

// Labels returns the number of classes the network is expected to score.
func (c *Classifier) Labels() int {
	return len(c.labels)
}

// Predict returns the letter signed by the first detected hand, or nil when
// there is no hand or the best label is not a letter.
func (c *Classifier) Predict(ctx context.Context, frame *gocv.Mat) (*string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hands, err := c.detector.Detect(frame)
	if err != nil {
		return nil, fmt.Errorf("detect landmarks: %w", err)
	}
	if len(hands) == 0 {
		c.log.Debug("No hand landmarks")
		return nil, nil
	}

	return c.PredictVector(hands[0].Vector())
}

// PredictVector applies the letter rule to a flattened landmark vector.
// Vectors of the wrong length yield nil without running the network.
func (c *Classifier) PredictVector(vec []float32) (*string, error) {
	if len(vec) != detector.VectorLength {
		c.log.Debug("Unexpected landmark vector", "length", len(vec))
		return nil, nil
	}

	scores, err := c.network.Predict(vec)
	if err != nil {
		return nil, fmt.Errorf("letter network: %w", err)
	}

	best := argmax(scores)
	if best < 0 || best >= len(c.labels) {
		return nil, nil
	}

	label := c.labels[best]
	if !isLetter(label) {
		return nil, nil
	}
	return lo.ToPtr(label), nil
}

// argmax returns the index of the first highest score, or -1 for no scores.
func argmax(scores []float32) int {
	best := -1
	for i, s := range scores {
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	return best
}

func isLetter(label string) bool {
	return len(label) == 1 && label[0] >= 'A' && label[0] <= 'Z'
}
