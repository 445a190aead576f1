package api

import (
	"net/http"

	"github.com/ayusman/ishaara/internal/gesture"
	"github.com/samber/lo"
)

type phraseEntry struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

type phrasesResponse struct {
	Phrases  []phraseEntry `json:"phrases"`
	Fallback string        `json:"fallback"`
}

// PhrasesHandler lists the active gesture dictionary.
type PhrasesHandler struct {
	phrases *gesture.Phrasebook
}

func NewPhrasesHandler(phrases *gesture.Phrasebook) *PhrasesHandler {
	return &PhrasesHandler{phrases: phrases}
}

func (h *PhrasesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries := h.phrases.Entries()
	mapped := lo.Filter(gesture.Tags(), func(tag gesture.Tag, _ int) bool {
		_, ok := entries[tag]
		return ok
	})

	writeJSON(w, http.StatusOK, phrasesResponse{
		Phrases: lo.Map(mapped, func(tag gesture.Tag, _ int) phraseEntry {
			return phraseEntry{Tag: string(tag), Text: entries[tag]}
		}),
		Fallback: gesture.NoGestureText,
	})
}
