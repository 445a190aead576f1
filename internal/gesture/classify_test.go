package gesture

import (
	"errors"
	"image"
	"testing"
)

func defects(depths ...int) []Defect {
	out := make([]Defect, len(depths))
	for i, d := range depths {
		out[i] = Defect{Start: i, End: i + 1, Far: i, Depth: d}
	}
	return out
}

func TestClassify(t *testing.T) {
	square := image.Rect(0, 0, 200, 200)
	tall := image.Rect(0, 0, 100, 200)

	tests := []struct {
		name       string
		shape      Shape
		wantTag    Tag
		wantConf   float64
		wantFinger int
	}{
		{
			name:     "no defects is a palm",
			shape:    Shape{Bounds: square, HullSize: 12},
			wantTag:  TagPalm,
			wantConf: 0.50,
		},
		{
			name:     "small hull is a palm",
			shape:    Shape{Bounds: square, HullSize: 3},
			wantTag:  TagPalm,
			wantConf: 0.50,
		},
		{
			name:     "defect failure is unknown",
			shape:    Shape{Bounds: square, HullSize: 8, DefectErr: errors.New("boom")},
			wantTag:  TagUnknown,
			wantConf: 0.30,
		},
		{
			name:     "shallow defects on a wide blob is a fist",
			shape:    Shape{Bounds: square, HullSize: 8, Defects: defects(500, 9000)},
			wantTag:  TagFist,
			wantConf: 0.80,
		},
		{
			name:     "shallow defects on a tall blob is a thumb up",
			shape:    Shape{Bounds: tall, HullSize: 8, Defects: defects(500)},
			wantTag:  TagThumbUp,
			wantConf: 0.75,
		},
		{
			name:     "aspect ratio exactly 0.7 is a fist",
			shape:    Shape{Bounds: image.Rect(0, 0, 70, 100), HullSize: 8, Defects: defects(10)},
			wantTag:  TagFist,
			wantConf: 0.80,
		},
		{
			name:     "depth at the threshold is not significant",
			shape:    Shape{Bounds: square, HullSize: 8, Defects: defects(SignificantDepth)},
			wantTag:  TagFist,
			wantConf: 0.80,
		},
		{
			name:       "one deep defect is victory",
			shape:      Shape{Bounds: square, HullSize: 8, Defects: defects(SignificantDepth+1, 20)},
			wantTag:    TagVictory,
			wantConf:   0.70,
			wantFinger: 1,
		},
		{
			name:       "two deep defects is three",
			shape:      Shape{Bounds: square, HullSize: 8, Defects: defects(20000, 30000)},
			wantTag:    TagThree,
			wantConf:   0.70,
			wantFinger: 2,
		},
		{
			name:       "three deep defects is four",
			shape:      Shape{Bounds: square, HullSize: 8, Defects: defects(20000, 30000, 25000)},
			wantTag:    TagFour,
			wantConf:   0.65,
			wantFinger: 3,
		},
		{
			name:       "four deep defects is an open hand",
			shape:      Shape{Bounds: square, HullSize: 8, Defects: defects(20000, 30000, 25000, 26000, 100)},
			wantTag:    TagOpenHand,
			wantConf:   0.80,
			wantFinger: 4,
		},
		{
			name:       "five deep defects is a wave",
			shape:      Shape{Bounds: tall, HullSize: 8, Defects: defects(20000, 30000, 25000, 26000, 11000)},
			wantTag:    TagWave,
			wantConf:   0.60,
			wantFinger: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.shape)

			if !got.Detected {
				t.Fatal("expected a detected classification")
			}
			if got.Tag != tt.wantTag {
				t.Errorf("expected tag %s, got %s", tt.wantTag, got.Tag)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("expected confidence %.2f, got %.2f", tt.wantConf, got.Confidence)
			}
			if got.Fingers != tt.wantFinger {
				t.Errorf("expected %d significant defects, got %d", tt.wantFinger, got.Fingers)
			}
			if !got.Tag.Valid() {
				t.Errorf("tag %s is outside the closed set", got.Tag)
			}
		})
	}
}

func TestClassify_Contours(t *testing.T) {
	tests := []struct {
		name    string
		outline []image.Point
		want    Tag
	}{
		{name: "open hand", outline: openHandOutline, want: TagOpenHand},
		{name: "victory", outline: victoryOutline, want: TagVictory},
		{name: "convex blob", outline: regularPolygon(200, 200, 150, 12), want: TagPalm},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(describe(t, tt.outline)).Tag; got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}
