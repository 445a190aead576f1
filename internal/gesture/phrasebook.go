package gesture

import (
	"fmt"
	"maps"
)

// NoGestureText is returned for frames without a mapped gesture.
const NoGestureText = "No clear gesture detected"

var defaultPhrases = map[Tag]string{
	TagFist:       "Hello",
	TagPalm:       "Thank you",
	TagThumbUp:    "Yes",
	TagThumbDown:  "No",
	TagVictory:    "Peace",
	TagPointingUp: "I need help",
	TagOpenHand:   "Stop",
	TagILY:        "I love you",
	TagThree:      "Three",
	TagFour:       "Four",
	TagWave:       "Goodbye",
}

// DefaultPhrases returns a copy of the built-in dictionary.
func DefaultPhrases() map[Tag]string {
	return maps.Clone(defaultPhrases)
}

// Phrasebook maps gesture tags to display text. It is read-only once built.
type Phrasebook struct {
	phrases map[Tag]string
}

// DefaultPhrasebook returns a Phrasebook holding the built-in dictionary.
func DefaultPhrasebook() *Phrasebook {
	return &Phrasebook{phrases: DefaultPhrases()}
}

// NewPhrasebook layers overrides on top of the defaults. UNKNOWN cannot be
// mapped and empty phrases are rejected.
func NewPhrasebook(overrides map[Tag]string) (*Phrasebook, error) {
	phrases := DefaultPhrases()
	for tag, text := range overrides {
		if !tag.Valid() || tag == TagUnknown {
			return nil, fmt.Errorf("phrase for %q: unknown gesture tag", tag)
		}
		if text == "" {
			return nil, fmt.Errorf("phrase for %s: empty text", tag)
		}
		phrases[tag] = text
	}
	return &Phrasebook{phrases: phrases}, nil
}

// Phrase returns the text for tag, or NoGestureText when nothing is mapped.
func (p *Phrasebook) Phrase(tag Tag) string {
	if text, ok := p.phrases[tag]; ok {
		return text
	}
	return NoGestureText
}

// Entries returns a copy of the dictionary.
func (p *Phrasebook) Entries() map[Tag]string {
	return maps.Clone(p.phrases)
}
