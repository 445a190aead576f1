package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ayusman/ishaara/internal/capture"
	"github.com/ayusman/ishaara/internal/metrics"
	"github.com/ayusman/ishaara/internal/server/api"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const socketWriteWait = 10 * time.Second

type socketError struct {
	Error string `json:"error"`
}

// TranslateSocket serves /ws/translate. Each connection is handled strictly
// in order: one message in, one reply out.
type TranslateSocket struct {
	translate *api.TranslateHandler
	upgrader  websocket.Upgrader
	readLimit int64
	metrics   *metrics.Metrics
	log       *slog.Logger
}

// NewTranslateSocket creates the WebSocket handler. checkOrigin decides
// which browser origins may connect.
func NewTranslateSocket(translate *api.TranslateHandler, readLimit int64, checkOrigin func(*http.Request) bool, m *metrics.Metrics, log *slog.Logger) *TranslateSocket {
	return &TranslateSocket{
		translate: translate,
		upgrader:  websocket.Upgrader{CheckOrigin: checkOrigin},
		readLimit: readLimit,
		metrics:   m,
		log:       log,
	}
}

func (s *TranslateSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("WS upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	if s.readLimit > 0 {
		conn.SetReadLimit(s.readLimit)
	}

	s.metrics.SocketOpened()
	defer s.metrics.SocketClosed()

	log := s.log.With("remote", r.RemoteAddr)
	log.Info("WS client connected")

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				log.Warn("WS connection error", "error", err)
			} else {
				log.Info("WS client disconnected")
			}
			return
		}

		reply := s.handle(r.Context(), raw, log)

		conn.SetWriteDeadline(time.Now().Add(socketWriteWait))
		if err := conn.WriteJSON(reply); err != nil {
			log.Info("WS client disconnected", "error", err)
			return
		}
	}
}

// handle produces the reply for one message. Failures become {"error": ...}
// replies and never close the connection.
func (s *TranslateSocket) handle(ctx context.Context, raw []byte, log *slog.Logger) any {
	start := time.Now()

	var msg api.TranslateRequest
	if err := json.Unmarshal(raw, &msg); err != nil {
		s.metrics.ObserveRequest(api.RouteSocket, metrics.OutcomeInvalid, time.Since(start))
		return socketError{Error: "invalid JSON message: " + err.Error()}
	}
	if err := api.Validate(msg); err != nil {
		s.metrics.ObserveRequest(api.RouteSocket, metrics.OutcomeInvalid, time.Since(start))
		return socketError{Error: err.Error()}
	}

	sessionID := uuid.NewString()
	if msg.SessionID != nil && *msg.SessionID != "" {
		sessionID = *msg.SessionID
	}

	resp, err := s.translate.TranslateBase64(ctx, api.RouteSocket, msg.ImageBase64, start)
	if err != nil {
		if errors.Is(err, capture.ErrInvalidImage) {
			s.metrics.ObserveRequest(api.RouteSocket, metrics.OutcomeInvalid, time.Since(start))
			log.Debug("WS frame rejected", "session_id", sessionID, "error", err)
		} else {
			s.metrics.ObserveRequest(api.RouteSocket, metrics.OutcomeInternal, time.Since(start))
			log.Error("Error handling WS message", "session_id", sessionID, "error", err)
		}
		return socketError{Error: err.Error()}
	}

	resp.SessionID = &sessionID
	return resp
}
