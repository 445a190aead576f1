package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ayusman/ishaara/internal/gesture"
	"github.com/ayusman/ishaara/internal/metrics"
	"github.com/ayusman/ishaara/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.Gray{Y: 200})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func multipartBody(t *testing.T, field string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, "frame.png")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Detail
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

var palm = gesture.Prediction{Tag: gesture.TagPalm, Text: "Thank you", Confidence: 0.5, Detected: true}

func TestTranslateHandler_Image(t *testing.T) {
	t.Run("Should translate an uploaded image", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		translator := mocks.NewMockTranslator(ctrl)
		translator.EXPECT().Translate(gomock.Any(), gomock.Any()).Return(palm, nil)
		h := NewTranslateHandler(TranslateConfig{Translator: translator})

		body, contentType := multipartBody(t, "image", pngBytes(t))
		req := httptest.NewRequest(http.MethodPost, RouteImage, body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Image(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp TranslateResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Thank you", resp.Text)
		assert.Equal(t, 0.5, resp.Confidence)
		assert.GreaterOrEqual(t, resp.LatencyMs, int64(0))
		assert.Nil(t, resp.SessionID)
	})

	t.Run("Should accept the file field name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		translator := mocks.NewMockTranslator(ctrl)
		translator.EXPECT().Translate(gomock.Any(), gomock.Any()).Return(palm, nil)
		h := NewTranslateHandler(TranslateConfig{Translator: translator})

		body, contentType := multipartBody(t, "file", pngBytes(t))
		req := httptest.NewRequest(http.MethodPost, RouteImage, body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Image(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Should reject an upload without an image field", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewTranslateHandler(TranslateConfig{Translator: mocks.NewMockTranslator(ctrl)})

		body, contentType := multipartBody(t, "other", pngBytes(t))
		req := httptest.NewRequest(http.MethodPost, RouteImage, body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Image(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeDetail(t, rec), "No image file provided")
	})

	t.Run("Should reject bytes that are not an image", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := metrics.New()
		h := NewTranslateHandler(TranslateConfig{Translator: mocks.NewMockTranslator(ctrl), Metrics: m})

		body, contentType := multipartBody(t, "image", []byte("definitely not pixels"))
		req := httptest.NewRequest(http.MethodPost, RouteImage, body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Image(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeDetail(t, rec), "invalid image")
		assert.Contains(t, scrape(t, m), `ishaara_translate_requests_total{outcome="invalid",route="/api/translate/image"} 1`)
	})

	t.Run("Should answer 413 for oversized uploads", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewTranslateHandler(TranslateConfig{Translator: mocks.NewMockTranslator(ctrl), MaxUploadBytes: 64})

		body, contentType := multipartBody(t, "image", pngBytes(t))
		req := httptest.NewRequest(http.MethodPost, RouteImage, body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		h.Image(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("Should reject GET", func(t *testing.T) {
		h := NewTranslateHandler(TranslateConfig{})
		rec := httptest.NewRecorder()

		h.Image(rec, httptest.NewRequest(http.MethodGet, RouteImage, nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestTranslateHandler_Base64(t *testing.T) {
	payload := func(t *testing.T) string {
		return base64.StdEncoding.EncodeToString(pngBytes(t))
	}

	t.Run("Should translate a base64 frame and echo the session id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		translator := mocks.NewMockTranslator(ctrl)
		translator.EXPECT().Translate(gomock.Any(), gomock.Any()).Return(palm, nil)
		m := metrics.New()
		h := NewTranslateHandler(TranslateConfig{Translator: translator, Metrics: m})

		reqBody, _ := json.Marshal(map[string]string{"image_base64": payload(t), "session_id": "abc"})
		rec := httptest.NewRecorder()
		h.Base64(rec, httptest.NewRequest(http.MethodPost, RouteBase64, bytes.NewReader(reqBody)))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp TranslateResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, "Thank you", resp.Text)
		require.NotNil(t, resp.SessionID)
		assert.Equal(t, "abc", *resp.SessionID)
	})

	t.Run("Should accept a data URL", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		translator := mocks.NewMockTranslator(ctrl)
		translator.EXPECT().Translate(gomock.Any(), gomock.Any()).Return(palm, nil)
		h := NewTranslateHandler(TranslateConfig{Translator: translator})

		reqBody, _ := json.Marshal(map[string]string{"image_base64": "data:image/png;base64," + payload(t)})
		rec := httptest.NewRecorder()
		h.Base64(rec, httptest.NewRequest(http.MethodPost, RouteBase64, bytes.NewReader(reqBody)))

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Should require image_base64", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewTranslateHandler(TranslateConfig{Translator: mocks.NewMockTranslator(ctrl)})

		rec := httptest.NewRecorder()
		h.Base64(rec, httptest.NewRequest(http.MethodPost, RouteBase64, strings.NewReader(`{"session_id":"x"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "image_base64 is required", decodeDetail(t, rec))
	})

	t.Run("Should reject malformed JSON", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewTranslateHandler(TranslateConfig{Translator: mocks.NewMockTranslator(ctrl)})

		rec := httptest.NewRecorder()
		h.Base64(rec, httptest.NewRequest(http.MethodPost, RouteBase64, strings.NewReader(`{`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid JSON body", decodeDetail(t, rec))
	})

	t.Run("Should reject invalid base64", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		m := metrics.New()
		h := NewTranslateHandler(TranslateConfig{Translator: mocks.NewMockTranslator(ctrl), Metrics: m})

		rec := httptest.NewRecorder()
		h.Base64(rec, httptest.NewRequest(http.MethodPost, RouteBase64, strings.NewReader(`{"image_base64":"@@@"}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, scrape(t, m), `ishaara_translate_requests_total{outcome="invalid",route="/api/translate/base64"} 1`)
	})

	t.Run("Should answer 500 when the recognizer fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		translator := mocks.NewMockTranslator(ctrl)
		translator.EXPECT().Translate(gomock.Any(), gomock.Any()).Return(gesture.Prediction{}, errors.New("boom"))
		h := NewTranslateHandler(TranslateConfig{Translator: translator})

		reqBody, _ := json.Marshal(map[string]string{"image_base64": payload(t)})
		rec := httptest.NewRecorder()
		h.Base64(rec, httptest.NewRequest(http.MethodPost, RouteBase64, bytes.NewReader(reqBody)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, decodeDetail(t, rec), "boom")
	})
}

func TestTranslateHandler_Letter(t *testing.T) {
	payload := func(t *testing.T) string {
		return base64.StdEncoding.EncodeToString(pngBytes(t))
	}

	t.Run("Should answer 404 when letters are disabled", func(t *testing.T) {
		h := NewTranslateHandler(TranslateConfig{})
		assert.False(t, h.LettersEnabled())

		rec := httptest.NewRecorder()
		h.Letter(rec, httptest.NewRequest(http.MethodPost, RouteLetter, strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Should return the predicted letter", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		letters := mocks.NewMockLetterPredictor(ctrl)
		a := "A"
		letters.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(&a, nil)
		h := NewTranslateHandler(TranslateConfig{Letters: letters})
		assert.True(t, h.LettersEnabled())

		reqBody, _ := json.Marshal(map[string]string{"image_base64": payload(t)})
		rec := httptest.NewRecorder()
		h.Letter(rec, httptest.NewRequest(http.MethodPost, RouteLetter, bytes.NewReader(reqBody)))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp letterResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.NotNil(t, resp.Letter)
		assert.Equal(t, "A", *resp.Letter)
	})

	t.Run("Should return null when no hand is found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		letters := mocks.NewMockLetterPredictor(ctrl)
		letters.EXPECT().Predict(gomock.Any(), gomock.Any()).Return(nil, nil)
		h := NewTranslateHandler(TranslateConfig{Letters: letters})

		reqBody, _ := json.Marshal(map[string]string{"image": payload(t)})
		rec := httptest.NewRecorder()
		h.Letter(rec, httptest.NewRequest(http.MethodPost, RouteLetter, bytes.NewReader(reqBody)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"letter":null`)
	})

	t.Run("Should require an image", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := NewTranslateHandler(TranslateConfig{Letters: mocks.NewMockLetterPredictor(ctrl)})

		rec := httptest.NewRecorder()
		h.Letter(rec, httptest.NewRequest(http.MethodPost, RouteLetter, strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "image_base64 is required", decodeDetail(t, rec))
	})
}
