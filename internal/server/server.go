// Package server wires the HTTP routes and the WebSocket endpoint of the
// translation service.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/ayusman/ishaara/internal/capture"
	"github.com/ayusman/ishaara/internal/gesture"
	"github.com/ayusman/ishaara/internal/metrics"
	"github.com/ayusman/ishaara/internal/server/api"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shirou/gopsutil/process"
)

// Name is reported by the root endpoint.
const Name = "Ishaara-AI Backend"

// Config holds the server dependencies.
type Config struct {
	Translator api.Translator
	// Letters is nil when letter recognition is disabled.
	Letters        api.LetterPredictor
	Phrases        *gesture.Phrasebook
	Decode         capture.DecodeOptions
	MaxUploadBytes int64
	WSReadLimit    int64
	AllowedOrigins []string
	Version        string
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
}

// Server is the http.Handler of the service.
type Server struct {
	config  Config
	mux     *http.ServeMux
	handler http.Handler
	start   time.Time
	log     *slog.Logger
}

func New(config Config) *Server {
	if config.Metrics == nil {
		config.Metrics = metrics.New()
	}
	if config.Phrases == nil {
		config.Phrases = gesture.DefaultPhrasebook()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		log:    config.Logger,
	}
	s.setupRoutes()
	s.handler = s.withRequestID(s.withCORS(s.mux))
	return s
}

func (s *Server) setupRoutes() {
	translate := api.NewTranslateHandler(api.TranslateConfig{
		Translator:     s.config.Translator,
		Letters:        s.config.Letters,
		Decode:         s.config.Decode,
		MaxUploadBytes: s.config.MaxUploadBytes,
		Metrics:        s.config.Metrics,
		Logger:         s.log,
	})

	s.mux.HandleFunc("/", s.handleRoot)
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/stats", s.handleStats)
	s.mux.Handle("/api/phrases", api.NewPhrasesHandler(s.config.Phrases))
	s.mux.Handle("/metrics", s.config.Metrics.Handler())

	s.mux.HandleFunc(api.RouteImage, translate.Image)
	s.mux.HandleFunc(api.RouteBase64, translate.Base64)
	if translate.LettersEnabled() {
		s.mux.HandleFunc(api.RouteLetter, translate.Letter)
	}

	s.mux.Handle(api.RouteSocket, NewTranslateSocket(translate, s.config.WSReadLimit, s.checkOrigin, s.config.Metrics, s.log))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]string{"name": Name, "version": s.config.Version})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, map[string]string{"status": "ok"})
}

type statsResponse struct {
	Uptime         string  `json:"uptime"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
	Goroutines     int     `json:"goroutines"`
	RSSBytes       uint64  `json:"rss_bytes"`
	CPUPercent     float64 `json:"cpu_percent"`
	LettersEnabled bool    `json:"letters_enabled"`
}

// handleStats reports process resource usage.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)
	resp := statsResponse{
		Uptime:         uptime.Round(time.Second).String(),
		UptimeSeconds:  uptime.Seconds(),
		Goroutines:     runtime.NumGoroutine(),
		LettersEnabled: s.config.Letters != nil,
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfo(); err == nil {
			resp.RSSBytes = mem.RSS
		}
		if cpu, err := proc.CPUPercent(); err == nil {
			resp.CPUPercent = cpu
		}
	} else {
		s.log.Warn("Process stats unavailable", "error", err)
	}

	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (s *Server) originAllowed(origin string) bool {
	return lo.Contains(s.config.AllowedOrigins, "*") || lo.Contains(s.config.AllowedOrigins, origin)
}

// checkOrigin accepts non-browser clients (no Origin header) and allowed origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || s.originAllowed(origin)
}

// withCORS adds CORS headers for allowed origins and answers preflights.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" || !s.originAllowed(origin) {
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Credentials", "true")
		h.Add("Vary", "Origin")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
			}
			h.Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRequestID tags every request with an X-Request-ID.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		s.log.Debug("HTTP request", "method", r.Method, "path", r.URL.Path, "request_id", id)
		next.ServeHTTP(w, r)
	})
}
