// Package capture turns camera streams, video files and uploaded images into
// OpenCV frames ready for recognition.
package capture

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"gocv.io/x/gocv"
)

// Default capture settings for live sources.
const (
	DefaultFPS    = 5
	DefaultWidth  = 640
	DefaultHeight = 480
)

var (
	// ErrSourceClosed is returned when reading from a source that is not open.
	ErrSourceClosed = errors.New("frame source is not open")
	// ErrEndOfStream is returned once a finite source has no more frames.
	ErrEndOfStream = errors.New("end of stream")
)

// Source produces BGR frames from a camera, a video file or a recording.
type Source interface {
	Open() error
	Close() error
	// Read returns the next frame. The caller closes the returned Mat.
	Read() (*gocv.Mat, error)
	SetFPS(fps int)
	FPS() int
	IsOpen() bool
}

// videoSource reads frames through an OpenCV VideoCapture.
type videoSource struct {
	target  string
	device  int
	isLive  bool
	capture *gocv.VideoCapture
	mu      sync.Mutex
	fps     int
}

// NewSource creates a Source for target. A numeric target selects a camera
// device, anything else is opened as a video file or stream URL.
func NewSource(target string) Source {
	s := &videoSource{target: target, fps: DefaultFPS}
	if id, err := strconv.Atoi(target); err == nil {
		s.device = id
		s.isLive = true
	}
	return s
}

// NewCameraSource creates a Source for a local camera device.
func NewCameraSource(deviceID int) Source {
	return NewSource(strconv.Itoa(deviceID))
}

func (s *videoSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture != nil {
		return nil
	}

	var (
		capture *gocv.VideoCapture
		err     error
	)
	if s.isLive {
		capture, err = gocv.OpenVideoCapture(s.device)
	} else {
		capture, err = gocv.VideoCaptureFile(s.target)
	}
	if err != nil {
		return fmt.Errorf("open source %q: %w", s.target, err)
	}

	if s.isLive {
		capture.Set(gocv.VideoCaptureFrameWidth, DefaultWidth)
		capture.Set(gocv.VideoCaptureFrameHeight, DefaultHeight)
		capture.Set(gocv.VideoCaptureFPS, float64(s.fps))
	}

	s.capture = capture
	return nil
}

func (s *videoSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return nil
	}

	err := s.capture.Close()
	s.capture = nil
	return err
}

func (s *videoSource) Read() (*gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture == nil {
		return nil, ErrSourceClosed
	}

	mat := gocv.NewMat()
	if ok := s.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		if !s.isLive {
			return nil, ErrEndOfStream
		}
		return nil, fmt.Errorf("read frame from device %d", s.device)
	}

	return &mat, nil
}

// SetFPS changes the pacing rate. Values <= 0 are ignored.
func (s *videoSource) SetFPS(fps int) {
	if fps <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.fps = fps
	if s.capture != nil && s.isLive {
		s.capture.Set(gocv.VideoCaptureFPS, float64(fps))
	}
}

func (s *videoSource) FPS() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fps
}

func (s *videoSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture != nil
}
