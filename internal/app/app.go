// Package app builds the process-wide runtime context shared by the HTTP
// server, the WebSocket handler and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/ayusman/ishaara/internal/artifact"
	"github.com/ayusman/ishaara/internal/config"
	"github.com/ayusman/ishaara/internal/detector"
	"github.com/ayusman/ishaara/internal/gesture"
	"github.com/ayusman/ishaara/internal/letters"
	"github.com/ayusman/ishaara/internal/store"
	"github.com/samber/lo"
)

// App holds everything loaded at startup. It is immutable once New returns.
type App struct {
	config     config.Config
	store      *store.Store
	phrases    *gesture.Phrasebook
	recognizer *gesture.Recognizer
	letters    *letters.Classifier
	network    letters.Network
	detector   detector.Detector
	log        *slog.Logger
}

// New opens the store, loads the phrasebook and, when enabled, the letter
// classifier. Any failure aborts startup; nothing is retried.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	st, err := store.New(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	a := &App{config: cfg, store: st, log: log}

	a.phrases, err = LoadPhrasebook(st, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.recognizer = gesture.NewRecognizer(a.phrases, log.With("component", "recognizer"))

	if cfg.LettersEnabled {
		if err := a.loadLetters(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("load letter classifier: %w", err)
		}
	}

	log.Info("Runtime ready",
		"data_dir", cfg.DataDir,
		"phrases", len(a.phrases.Entries()),
		"letters", a.letters != nil,
	)
	return a, nil
}

// LoadPhrasebook seeds missing defaults and returns the stored dictionary.
// Rows with tags the classifier cannot emit are skipped.
func LoadPhrasebook(st *store.Store, log *slog.Logger) (*gesture.Phrasebook, error) {
	defaults := lo.MapKeys(gesture.DefaultPhrases(), func(_ string, tag gesture.Tag) string {
		return string(tag)
	})
	seeded, err := st.Phrases().SeedDefaults(defaults)
	if err != nil {
		return nil, fmt.Errorf("seed phrases: %w", err)
	}
	if seeded > 0 {
		log.Info("Seeded default phrases", "count", seeded)
	}

	rows, err := st.Phrases().List()
	if err != nil {
		return nil, fmt.Errorf("list phrases: %w", err)
	}

	overrides := make(map[gesture.Tag]string, len(rows))
	for _, row := range rows {
		tag, err := gesture.ParseTag(row.Tag)
		if err != nil || tag == gesture.TagUnknown || row.Text == "" {
			log.Warn("Ignoring stored phrase", "tag", row.Tag)
			continue
		}
		overrides[tag] = row.Text
	}

	return gesture.NewPhrasebook(overrides)
}

func (a *App) loadLetters(ctx context.Context) error {
	fetcher := artifact.NewFetcher(nil, a.log.With("component", "artifact"))

	model, err := a.ensure(ctx, fetcher, artifact.Spec{
		Name:   "model",
		URL:    a.config.ModelURL,
		Path:   a.config.ModelPath,
		SHA256: a.config.ModelSHA256,
	})
	if err != nil {
		return err
	}

	labelsFile, err := a.ensure(ctx, fetcher, artifact.Spec{Name: "labels", Path: a.config.LabelsPath})
	if err != nil {
		return err
	}
	labels, err := letters.LoadLabels(labelsFile.Path)
	if err != nil {
		return err
	}

	network, err := letters.NewONNXNetwork(letters.ONNXConfig{
		ModelPath:   model.Path,
		LibraryPath: a.config.ONNXLibraryPath,
		InputName:   a.config.ONNXInputName,
		OutputName:  a.config.ONNXOutputName,
		Features:    detector.VectorLength,
		Classes:     len(labels),
	})
	if err != nil {
		return err
	}
	a.network = network

	detCfg := detector.DefaultConfig()
	detCfg.ScriptPath = a.config.MediaPipeScript
	detCfg.PythonPath = a.config.PythonPath
	det, err := detector.NewMediaPipeDetector(detCfg, a.log)
	if err != nil {
		return err
	}
	a.detector = det

	a.letters, err = letters.NewClassifier(det, network, labels, a.log.With("component", "letters"))
	return err
}

// ensure makes the artifact available and records it in the store.
func (a *App) ensure(ctx context.Context, fetcher *artifact.Fetcher, spec artifact.Spec) (artifact.Artifact, error) {
	art, err := fetcher.Ensure(ctx, spec)
	if err != nil {
		return artifact.Artifact{}, err
	}

	err = a.store.Artifacts().Record(&store.Artifact{
		Path:       art.Path,
		Name:       art.Name,
		SHA256:     art.SHA256,
		Size:       art.Size,
		SourceURL:  art.SourceURL,
		VerifiedAt: art.VerifiedAt,
	})
	if err != nil {
		return artifact.Artifact{}, fmt.Errorf("record artifact %s: %w", spec.Name, err)
	}
	return art, nil
}

// Config returns the configuration the runtime was built from.
func (a *App) Config() config.Config {
	return a.config
}

// Store returns the SQLite store.
func (a *App) Store() *store.Store {
	return a.store
}

// Phrases returns the phrasebook snapshot taken at startup.
func (a *App) Phrases() *gesture.Phrasebook {
	return a.phrases
}

// Recognizer returns the heuristic gesture recognizer.
func (a *App) Recognizer() *gesture.Recognizer {
	return a.recognizer
}

// Letters returns the letter classifier, or nil when it is disabled.
func (a *App) Letters() *letters.Classifier {
	return a.letters
}

// Close releases the network, the detector helper and the store.
func (a *App) Close() error {
	var errs []error
	if a.network != nil {
		errs = append(errs, a.network.Close())
	}
	if a.detector != nil {
		errs = append(errs, a.detector.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
