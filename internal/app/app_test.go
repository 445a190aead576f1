package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/ayusman/ishaara/internal/artifact"
	"github.com/ayusman/ishaara/internal/config"
	"github.com/ayusman/ishaara/internal/gesture"
	"github.com/ayusman/ishaara/internal/store"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "data")
	return config.Config{
		DataDir:        dir,
		ModelPath:      filepath.Join(dir, "models", "asl_landmarks.onnx"),
		LabelsPath:     filepath.Join(dir, "models", "labels.txt"),
		ONNXInputName:  "input",
		ONNXOutputName: "output",
	}
}

func TestNew(t *testing.T) {
	t.Run("Should build the runtime with the default phrasebook", func(t *testing.T) {
		req := require.New(t)
		a, err := New(context.Background(), testConfig(t), logs.GetLoggerFromLevel(slog.LevelDebug))
		req.NoError(err)
		defer a.Close()

		req.NotNil(a.Recognizer())
		req.Nil(a.Letters())
		req.Equal("Hello", a.Phrases().Phrase(gesture.TagFist))

		rows, err := a.Store().Phrases().List()
		req.NoError(err)
		req.Len(rows, len(gesture.DefaultPhrases()))
	})

	t.Run("Should fail when letters are enabled without a model", func(t *testing.T) {
		req := require.New(t)
		cfg := testConfig(t)
		cfg.LettersEnabled = true

		_, err := New(context.Background(), cfg, logs.GetLoggerFromLevel(slog.LevelDebug))
		req.ErrorIs(err, artifact.ErrMissing)
	})

	t.Run("Should refuse to download an unpinned model", func(t *testing.T) {
		req := require.New(t)
		cfg := testConfig(t)
		cfg.LettersEnabled = true
		cfg.ModelURL = "https://models.example.com/asl.onnx"

		_, err := New(context.Background(), cfg, logs.GetLoggerFromLevel(slog.LevelDebug))
		req.ErrorIs(err, artifact.ErrUnpinned)
	})
}

func TestLoadPhrasebook(t *testing.T) {
	newStore := func(t *testing.T) *store.Store {
		t.Helper()
		st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
		require.NoError(t, err)
		t.Cleanup(func() { st.Close() })
		return st
	}

	t.Run("Should keep stored overrides across seeding", func(t *testing.T) {
		req := require.New(t)
		st := newStore(t)
		req.NoError(st.Phrases().Upsert("FIST", "Namaste"))

		book, err := LoadPhrasebook(st, logs.GetLoggerFromLevel(slog.LevelDebug))
		req.NoError(err)
		req.Equal("Namaste", book.Phrase(gesture.TagFist))
		req.Equal("Yes", book.Phrase(gesture.TagThumbUp))
	})

	t.Run("Should skip rows that cannot be mapped", func(t *testing.T) {
		req := require.New(t)
		st := newStore(t)
		req.NoError(st.Phrases().Upsert("UNKNOWN", "Something"))
		req.NoError(st.Phrases().Upsert("JAZZ_HANDS", "Wow"))

		book, err := LoadPhrasebook(st, logs.GetLoggerFromLevel(slog.LevelDebug))
		req.NoError(err)
		req.Equal(gesture.NoGestureText, book.Phrase(gesture.TagUnknown))
	})
}
