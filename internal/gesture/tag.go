package gesture

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Tag is a symbolic gesture name produced by the classifier.
type Tag string

const (
	TagFist       Tag = "FIST"
	TagPalm       Tag = "PALM"
	TagThumbUp    Tag = "THUMB_UP"
	TagThumbDown  Tag = "THUMB_DOWN"
	TagVictory    Tag = "VICTORY"
	TagPointingUp Tag = "POINTING_UP"
	TagOpenHand   Tag = "OPEN_HAND"
	TagILY        Tag = "ILY"
	TagThree      Tag = "THREE"
	TagFour       Tag = "FOUR"
	TagWave       Tag = "WAVE"
	TagUnknown    Tag = "UNKNOWN"
)

var allTags = []Tag{
	TagFist, TagPalm, TagThumbUp, TagThumbDown, TagVictory, TagPointingUp,
	TagOpenHand, TagILY, TagThree, TagFour, TagWave, TagUnknown,
}

// Tags returns every tag the classifier may emit, in display order.
func Tags() []Tag {
	return slices.Clone(allTags)
}

// Valid reports whether t belongs to the closed tag set.
func (t Tag) Valid() bool {
	return lo.Contains(allTags, t)
}

func (t Tag) String() string {
	return string(t)
}

// ParseTag parses a tag name case-insensitively.
func ParseTag(s string) (Tag, error) {
	t := Tag(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown gesture tag %q", s)
	}
	return t, nil
}
