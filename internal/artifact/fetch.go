// Package artifact makes model files available on disk, downloading them
// once and verifying their SHA-256 digest.
package artifact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrMissing is returned when the file is absent and no URL is configured.
	ErrMissing = errors.New("artifact missing")
	// ErrUnpinned is returned when a download is needed but no digest is pinned.
	ErrUnpinned = errors.New("artifact download requires a pinned sha256")
	// ErrChecksumMismatch is returned when a file does not match its pinned digest.
	ErrChecksumMismatch = errors.New("artifact checksum mismatch")
)

// Spec names a file and where to get it.
type Spec struct {
	Name   string
	URL    string
	Path   string
	SHA256 string
}

// Artifact describes a verified file on disk.
type Artifact struct {
	Name       string
	Path       string
	SHA256     string
	Size       int64
	SourceURL  string
	Downloaded bool
	VerifiedAt time.Time
}

// Fetcher downloads artifacts over HTTP(S).
type Fetcher struct {
	client *http.Client
	log    *slog.Logger
}

// NewFetcher creates a Fetcher. A nil client uses a client with a 5 minute timeout.
func NewFetcher(client *http.Client, log *slog.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Fetcher{client: client, log: log}
}

// Ensure returns the artifact at spec.Path, downloading it first when it is
// absent. Existing files are checked against spec.SHA256 when one is pinned.
// There are no retries.
func (f *Fetcher) Ensure(ctx context.Context, spec Spec) (Artifact, error) {
	log := f.log.With("artifact", spec.Name, "path", spec.Path)
	want := strings.ToLower(strings.TrimSpace(spec.SHA256))

	info, err := os.Stat(spec.Path)
	switch {
	case err == nil && info.IsDir():
		return Artifact{}, fmt.Errorf("%s: %s is a directory", spec.Name, spec.Path)
	case err == nil:
		sum, size, err := hashFile(spec.Path)
		if err != nil {
			return Artifact{}, fmt.Errorf("%s: %w", spec.Name, err)
		}
		if want != "" && sum != want {
			return Artifact{}, fmt.Errorf("%w: %s has %s, want %s", ErrChecksumMismatch, spec.Path, sum, want)
		}
		log.Debug("Artifact present", "sha256", sum)
		return Artifact{Name: spec.Name, Path: spec.Path, SHA256: sum, Size: size, SourceURL: spec.URL, VerifiedAt: time.Now()}, nil
	case !errors.Is(err, os.ErrNotExist):
		return Artifact{}, fmt.Errorf("%s: stat: %w", spec.Name, err)
	}

	if spec.URL == "" {
		return Artifact{}, fmt.Errorf("%w: %s", ErrMissing, spec.Path)
	}
	if want == "" {
		return Artifact{}, fmt.Errorf("%w: %s", ErrUnpinned, spec.Name)
	}

	log.Info("Downloading artifact", "url", spec.URL)
	size, err := f.download(ctx, spec.URL, spec.Path, want)
	if err != nil {
		return Artifact{}, fmt.Errorf("%s: %w", spec.Name, err)
	}
	log.Info("Artifact downloaded", "bytes", size)

	return Artifact{
		Name:       spec.Name,
		Path:       spec.Path,
		SHA256:     want,
		Size:       size,
		SourceURL:  spec.URL,
		Downloaded: true,
		VerifiedAt: time.Now(),
	}, nil
}

// download streams url into a temporary file next to dest, then renames it
// into place once the digest matches.
func (f *Fetcher) download(ctx context.Context, url, dest, want string) (int64, error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("download: unexpected status %s", resp.Status)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hasher), resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("write %s: %w", tmp.Name(), err)
	}

	if sum := hex.EncodeToString(hasher.Sum(nil)); sum != want {
		return 0, fmt.Errorf("%w: downloaded %s, want %s", ErrChecksumMismatch, sum, want)
	}

	if err := os.Rename(tmp.Name(), dest); err != nil {
		return 0, fmt.Errorf("install %s: %w", dest, err)
	}
	return size, nil
}

func hashFile(path string) (string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("open: %w", err)
	}
	defer file.Close()

	hasher := sha256.New()
	size, err := io.Copy(hasher, file)
	if err != nil {
		return "", 0, fmt.Errorf("hash: %w", err)
	}
	return hex.EncodeToString(hasher.Sum(nil)), size, nil
}
