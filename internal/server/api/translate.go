//go:generate go run go.uber.org/mock/mockgen -source=translate.go -destination=../../mocks/mock_translate.go -package=mocks
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/ayusman/ishaara/internal/capture"
	"github.com/ayusman/ishaara/internal/gesture"
	"github.com/ayusman/ishaara/internal/metrics"
	"gocv.io/x/gocv"
)

// Routes served by TranslateHandler.
const (
	RouteImage  = "/api/translate/image"
	RouteBase64 = "/api/translate/base64"
	RouteLetter = "/api/translate/letter"
	RouteSocket = "/ws/translate"
)

// Translator turns a frame into a gesture prediction.
type Translator interface {
	Translate(ctx context.Context, frame *gocv.Mat) (gesture.Prediction, error)
}

// LetterPredictor turns a frame into an A–Z letter, or nil.
type LetterPredictor interface {
	Predict(ctx context.Context, frame *gocv.Mat) (*string, error)
}

// TranslateRequest is the JSON body of /api/translate/base64 and of every
// /ws/translate message.
type TranslateRequest struct {
	ImageBase64 string  `json:"image_base64" validate:"required"`
	SessionID   *string `json:"session_id,omitempty"`
}

// TranslateResponse carries one gesture prediction.
type TranslateResponse struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	LatencyMs  int64   `json:"latency_ms"`
	SessionID  *string `json:"session_id,omitempty"`
}

type letterRequest struct {
	ImageBase64 string `json:"image_base64" validate:"required_without=Image"`
	Image       string `json:"image"`
}

type letterResponse struct {
	Letter    *string `json:"letter"`
	LatencyMs int64   `json:"latency_ms"`
}

// TranslateConfig wires a TranslateHandler.
type TranslateConfig struct {
	Translator Translator
	// Letters is optional; without it the letter route answers 404.
	Letters        LetterPredictor
	Decode         capture.DecodeOptions
	MaxUploadBytes int64
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

// TranslateHandler serves the translation routes.
type TranslateHandler struct {
	translator Translator
	letters    LetterPredictor
	decode     capture.DecodeOptions
	maxUpload  int64
	metrics    *metrics.Metrics
	log        *slog.Logger
}

func NewTranslateHandler(cfg TranslateConfig) *TranslateHandler {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 << 20
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &TranslateHandler{
		translator: cfg.Translator,
		letters:    cfg.Letters,
		decode:     cfg.Decode,
		maxUpload:  cfg.MaxUploadBytes,
		metrics:    cfg.Metrics,
		log:        cfg.Logger,
	}
}

// LettersEnabled reports whether the letter route is served.
func (h *TranslateHandler) LettersEnabled() bool {
	return h.letters != nil
}

// Image handles multipart uploads on field "image" (or "file").
func (h *TranslateHandler) Image(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		h.reject(w, RouteImage, start, uploadStatus(err), "Invalid multipart upload: "+err.Error())
		return
	}

	file, err := formFile(r, "image", "file")
	if err != nil {
		h.reject(w, RouteImage, start, http.StatusBadRequest, "No image file provided. Use 'image' as the form field name")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.reject(w, RouteImage, start, http.StatusBadRequest, "Could not read uploaded file")
		return
	}

	frame, err := capture.DecodeBytes(data, h.decode)
	if err != nil {
		h.fail(w, RouteImage, start, err)
		return
	}
	defer frame.Close()

	resp, err := h.translate(r.Context(), RouteImage, &frame, start)
	if err != nil {
		h.fail(w, RouteImage, start, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Base64 handles {"image_base64": "...", "session_id": "..."} bodies.
func (h *TranslateHandler) Base64(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	start := time.Now()

	var req TranslateRequest
	if err := decodeBody(w, r, h.maxUpload, &req); err != nil {
		h.reject(w, RouteBase64, start, uploadStatus(err), "Invalid JSON body")
		return
	}
	if err := Validate(req); err != nil {
		h.reject(w, RouteBase64, start, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.TranslateBase64(r.Context(), RouteBase64, req.ImageBase64, start)
	if err != nil {
		h.fail(w, RouteBase64, start, err)
		return
	}
	resp.SessionID = req.SessionID
	writeJSON(w, http.StatusOK, resp)
}

// Letter handles {"image_base64": "..."} (or {"image": "..."}) bodies and
// answers {"letter": "A" | null}.
func (h *TranslateHandler) Letter(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.letters == nil {
		writeError(w, http.StatusNotFound, "Letter recognition is disabled")
		return
	}
	start := time.Now()

	var req letterRequest
	if err := decodeBody(w, r, h.maxUpload, &req); err != nil {
		h.reject(w, RouteLetter, start, uploadStatus(err), "Invalid JSON body")
		return
	}
	if err := Validate(req); err != nil {
		h.reject(w, RouteLetter, start, http.StatusBadRequest, err.Error())
		return
	}

	payload := req.ImageBase64
	if payload == "" {
		payload = req.Image
	}
	frame, err := capture.DecodeBase64(payload, h.decode)
	if err != nil {
		h.fail(w, RouteLetter, start, err)
		return
	}
	defer frame.Close()

	letter, err := h.letters.Predict(r.Context(), &frame)
	if err != nil {
		h.fail(w, RouteLetter, start, err)
		return
	}

	outcome := metrics.OutcomeOK
	if letter == nil {
		outcome = metrics.OutcomeNoHand
		h.metrics.ObservePrediction("letter", "")
	} else {
		h.metrics.ObservePrediction("letter", *letter)
	}
	elapsed := time.Since(start)
	h.metrics.ObserveRequest(RouteLetter, outcome, elapsed)

	writeJSON(w, http.StatusOK, letterResponse{Letter: letter, LatencyMs: elapsed.Milliseconds()})
}

// TranslateBase64 decodes payload and runs the recognizer. Latency is
// measured from start. Errors wrap capture.ErrInvalidImage for bad input.
func (h *TranslateHandler) TranslateBase64(ctx context.Context, route, payload string, start time.Time) (TranslateResponse, error) {
	frame, err := capture.DecodeBase64(payload, h.decode)
	if err != nil {
		return TranslateResponse{}, err
	}
	defer frame.Close()

	return h.translate(ctx, route, &frame, start)
}

func (h *TranslateHandler) translate(ctx context.Context, route string, frame *gocv.Mat, start time.Time) (TranslateResponse, error) {
	pred, err := h.translator.Translate(ctx, frame)
	if err != nil {
		return TranslateResponse{}, fmt.Errorf("translate frame: %w", err)
	}

	elapsed := time.Since(start)
	outcome := metrics.OutcomeOK
	if !pred.Detected {
		outcome = metrics.OutcomeNoHand
	}
	h.metrics.ObserveRequest(route, outcome, elapsed)
	h.metrics.ObservePrediction("gesture", string(pred.Tag))

	return TranslateResponse{
		Text:       pred.Text,
		Confidence: pred.Confidence,
		LatencyMs:  elapsed.Milliseconds(),
	}, nil
}

// reject answers a client error.
func (h *TranslateHandler) reject(w http.ResponseWriter, route string, start time.Time, status int, detail string) {
	h.metrics.ObserveRequest(route, metrics.OutcomeInvalid, time.Since(start))
	h.log.Debug("Rejected request", "route", route, "status", status, "detail", detail)
	writeError(w, status, detail)
}

// fail maps err to 400 for bad images and 500 for everything else.
func (h *TranslateHandler) fail(w http.ResponseWriter, route string, start time.Time, err error) {
	if errors.Is(err, capture.ErrInvalidImage) {
		h.reject(w, route, start, http.StatusBadRequest, err.Error())
		return
	}
	h.metrics.ObserveRequest(route, metrics.OutcomeInternal, time.Since(start))
	h.log.Error("Translation failed", "route", route, "error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func formFile(r *http.Request, fields ...string) (multipart.File, error) {
	for _, field := range fields {
		file, _, err := r.FormFile(field)
		if err == nil {
			return file, nil
		}
		if !errors.Is(err, http.ErrMissingFile) {
			return nil, err
		}
	}
	return nil, http.ErrMissingFile
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	return json.NewDecoder(r.Body).Decode(dst)
}

func uploadStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}
