package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayusman/ishaara/internal/gesture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhrasesHandler(t *testing.T) {
	t.Run("Should list phrases in tag order", func(t *testing.T) {
		book, err := gesture.NewPhrasebook(map[gesture.Tag]string{gesture.TagFist: "Hi there"})
		require.NoError(t, err)
		h := NewPhrasesHandler(book)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/phrases", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp phrasesResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotEmpty(t, resp.Phrases)
		assert.Equal(t, phraseEntry{Tag: "FIST", Text: "Hi there"}, resp.Phrases[0])
		assert.Equal(t, gesture.NoGestureText, resp.Fallback)
		for _, p := range resp.Phrases {
			assert.NotEqual(t, "UNKNOWN", p.Tag)
		}
	})

	t.Run("Should reject POST", func(t *testing.T) {
		h := NewPhrasesHandler(gesture.DefaultPhrasebook())

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/phrases", nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestValidate(t *testing.T) {
	long := strings.Repeat("session-", 64)

	assert.NoError(t, Validate(TranslateRequest{ImageBase64: "abc"}))
	assert.EqualError(t, Validate(TranslateRequest{}), "image_base64 is required")
	assert.NoError(t, Validate(TranslateRequest{ImageBase64: "abc", SessionID: &long}))
}
