package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

const scriptName = "mediapipe_hands.py"

// ErrScriptNotFound is returned when the helper script cannot be located.
var ErrScriptNotFound = errors.New(scriptName + " not found")

// MediaPipeDetector runs a long-lived Python MediaPipe process.
//
// Each request is a 4-byte big-endian length followed by a JPEG frame on the
// helper's stdin; the helper answers with one JSON line
// {"hands":[{"points":[{x,y,z}...],"handedness":"Right","score":0.98}]}.
// The process starts on the first frame and stops after IdleTimeout.
type MediaPipeDetector struct {
	config    Config
	script    string
	python    string
	log       *slog.Logger
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector resolves the helper script and interpreter. The
// process itself is started lazily.
func NewMediaPipeDetector(config Config, log *slog.Logger) (*MediaPipeDetector, error) {
	script := config.ScriptPath
	if script == "" {
		script = findScript()
	}
	if script == "" {
		return nil, ErrScriptNotFound
	}
	if _, err := os.Stat(script); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScriptNotFound, err)
	}

	python := config.PythonPath
	if python == "" {
		python = findVenvPython()
	}
	if python == "" {
		python = "python3"
	}

	if config.IdleTimeout <= 0 {
		config.IdleTimeout = DefaultConfig().IdleTimeout
	}

	return &MediaPipeDetector{
		config: config,
		script: script,
		python: python,
		log:    log.With("component", "mediapipe"),
	}, nil
}

// Args returns the helper command line.
func (d *MediaPipeDetector) Args() []string {
	args := []string{
		d.script,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-detection-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	}
	if d.config.StaticImages {
		args = append(args, "--static")
	}
	return args
}

// Detect sends frame to the helper and returns the hands it found.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if frame == nil || frame.Empty() {
		return nil, fmt.Errorf("detect: empty frame")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.ensureStarted(); err != nil {
		return nil, err
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	hands, err := d.exchange(buf.GetBytes())
	if err != nil {
		// A broken pipe leaves the helper unusable; restart it on the next frame.
		d.log.Warn("Helper exchange failed, stopping process", "error", err)
		d.shutdown()
		return nil, err
	}

	d.resetIdleTimer()
	return hands, nil
}

func (d *MediaPipeDetector) exchange(jpeg []byte) ([]HandLandmarks, error) {
	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(len(jpeg)))

	if _, err := d.stdin.Write(header); err != nil {
		return nil, fmt.Errorf("write frame length: %w", err)
	}
	if _, err := d.stdin.Write(jpeg); err != nil {
		return nil, fmt.Errorf("write frame: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return parseResponse(line)
}

// Close stops the helper process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	cmd := exec.Command(d.python, d.Args()...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mediapipe helper: %w", err)
	}

	d.cmd = cmd
	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true
	d.log.Info("Helper started", "python", d.python, "pid", cmd.Process.Pid)

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}
	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil
	d.log.Info("Helper stopped")

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(d.config.IdleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func findScript() string {
	var execDir string
	if execPath, err := os.Executable(); err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("scripts", scriptName),
		filepath.Join("..", "scripts", scriptName),
		filepath.Join(execDir, "scripts", scriptName),
		filepath.Join(os.Getenv("HOME"), ".ishaara", "scripts", scriptName),
	}
	return firstExisting(candidates)
}

func findVenvPython() string {
	var execDir string
	if execPath, err := os.Executable(); err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("venv", "bin", "python"),
		filepath.Join("..", "venv", "bin", "python"),
		filepath.Join(execDir, "venv", "bin", "python"),
		filepath.Join(os.Getenv("HOME"), ".ishaara", "venv", "bin", "python"),
	}
	return firstExisting(candidates)
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

type helperResponse struct {
	Hands []helperHand `json:"hands"`
	Error string       `json:"error,omitempty"`
}

type helperHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

// parseResponse decodes one helper reply. Hands with fewer than 21 points
// are dropped.
func parseResponse(line []byte) ([]HandLandmarks, error) {
	var resp helperResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("helper: %s", resp.Error)
	}

	hands := make([]HandLandmarks, 0, len(resp.Hands))
	for _, h := range resp.Hands {
		if len(h.Points) < NumLandmarks {
			continue
		}
		lm := HandLandmarks{Handedness: h.Handedness, Score: h.Score}
		copy(lm.Points[:], h.Points)
		hands = append(hands, lm)
	}
	return hands, nil
}
