package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"gocv.io/x/gocv"
	_ "golang.org/x/image/webp" // browsers may send canvas frames as WebP
)

// ErrInvalidImage is returned when a payload cannot be turned into a frame.
// Callers map it to a client error, never to an internal failure.
var ErrInvalidImage = errors.New("invalid image")

// DecodeOptions controls how uploaded images become frames.
type DecodeOptions struct {
	// MaxDimension bounds the longest side of the decoded frame (0 keeps the original size).
	MaxDimension int
	// AutoOrient rotates JPEG input according to its EXIF orientation tag.
	AutoOrient bool
}

// DecodeBase64 decodes a raw base64 string or a data URL
// (data:<mime>;base64,<payload>) into a BGR frame.
// The caller is responsible for closing the returned Mat.
func DecodeBase64(data string, opts DecodeOptions) (gocv.Mat, error) {
	payload := strings.TrimSpace(data)
	if i := strings.IndexByte(payload, ','); i >= 0 {
		payload = payload[i+1:]
	}
	if payload == "" {
		return gocv.Mat{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some clients strip the trailing padding.
		var rawErr error
		raw, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if rawErr != nil {
			return gocv.Mat{}, fmt.Errorf("%w: base64: %v", ErrInvalidImage, err)
		}
	}

	return DecodeBytes(raw, opts)
}

// DecodeBytes decodes encoded image bytes (JPEG, PNG, GIF, BMP, TIFF, WebP) into a
// 3-channel BGR frame with the source dimensions unless opts say otherwise.
// The caller is responsible for closing the returned Mat.
func DecodeBytes(data []byte, opts DecodeOptions) (gocv.Mat, error) {
	if len(data) == 0 {
		return gocv.Mat{}, fmt.Errorf("%w: empty payload", ErrInvalidImage)
	}

	mime := mimetype.Detect(data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return gocv.Mat{}, fmt.Errorf("%w: unsupported content type %q", ErrInvalidImage, mime.String())
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(opts.AutoOrient))
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("%w: decode %s: %v", ErrInvalidImage, mime.String(), err)
	}

	if limit := opts.MaxDimension; limit > 0 {
		b := img.Bounds()
		if b.Dx() > limit || b.Dy() > limit {
			img = imaging.Fit(img, limit, limit, imaging.Lanczos)
		}
	}

	return ImageToMat(img)
}

// ImageToMat converts a Go image into an OpenCV BGR Mat.
func ImageToMat(img image.Image) (gocv.Mat, error) {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	if b.Empty() {
		return gocv.Mat{}, fmt.Errorf("%w: zero-sized image", ErrInvalidImage)
	}

	rgba, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC4, nrgba.Pix)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("wrap pixels: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	if err := gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR); err != nil {
		bgr.Close()
		return gocv.Mat{}, fmt.Errorf("%w: convert: %v", ErrInvalidImage, err)
	}

	return bgr, nil
}
