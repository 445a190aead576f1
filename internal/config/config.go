// Package config loads service settings from the environment.
package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/ishaara/internal/capture"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

// DefaultAllowedOrigins are the dev frontend origins.
var DefaultAllowedOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}

const dataDirName = ".ishaara"

type Config struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT,default=8000" validate:"min=1,max=65535"`
	LogLevel string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
	DataDir  string `env:"DATA_DIR"`
	// AllowedOrigins is a comma separated list; "*" allows any origin.
	AllowedOrigins string `env:"ALLOWED_ORIGINS"`

	MaxUploadBytes    int64         `env:"MAX_UPLOAD_BYTES,default=10485760" validate:"min=1024"`
	MaxFrameDimension int           `env:"MAX_FRAME_DIMENSION,default=0" validate:"min=0"`
	AutoOrient        bool          `env:"AUTO_ORIENT,default=false"`
	WSReadLimit       int64         `env:"WS_READ_LIMIT,default=8388608" validate:"min=1024"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s" validate:"min=0"`

	LettersEnabled  bool   `env:"LETTERS_ENABLED,default=false"`
	ModelURL        string `env:"MODEL_URL" validate:"omitempty,url"`
	ModelSHA256     string `env:"MODEL_SHA256" validate:"omitempty,len=64,hexadecimal"`
	ModelPath       string `env:"MODEL_PATH"`
	LabelsPath      string `env:"LABELS_PATH"`
	ONNXLibraryPath string `env:"ONNX_LIBRARY_PATH"`
	ONNXInputName   string `env:"ONNX_INPUT_NAME,default=input" validate:"required"`
	ONNXOutputName  string `env:"ONNX_OUTPUT_NAME,default=output" validate:"required"`
	MediaPipeScript string `env:"MEDIAPIPE_SCRIPT"`
	PythonPath      string `env:"PYTHON_PATH"`
}

var validate = validator.New()

// Load reads an optional .env file, then the environment, fills derived
// defaults and validates the result.
func Load() (Config, error) {
	// A missing .env is the normal case in production.
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	c.LogLevel = strings.ToUpper(strings.TrimSpace(c.LogLevel))

	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		c.DataDir = filepath.Join(home, dataDirName)
	}
	if c.ModelPath == "" {
		c.ModelPath = filepath.Join(c.DataDir, "models", "asl_landmarks.onnx")
	}
	if c.LabelsPath == "" {
		c.LabelsPath = filepath.Join(c.DataDir, "models", "labels.txt")
	}
	if c.MediaPipeScript == "" {
		candidate := filepath.Join(c.DataDir, "scripts", "mediapipe_hands.py")
		if _, err := os.Stat(candidate); err == nil {
			c.MediaPipeScript = candidate
		}
	}
	return nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DBPath returns the SQLite database location.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "ishaara.db")
}

// DecodeOptions returns the frame decoding settings.
func (c Config) DecodeOptions() capture.DecodeOptions {
	return capture.DecodeOptions{MaxDimension: c.MaxFrameDimension, AutoOrient: c.AutoOrient}
}

// Origins returns the CORS allow-list.
func (c Config) Origins() []string {
	if strings.TrimSpace(c.AllowedOrigins) == "" {
		return DefaultAllowedOrigins
	}
	origins := lo.Map(strings.Split(c.AllowedOrigins, ","), func(o string, _ int) string {
		return strings.TrimRight(strings.TrimSpace(o), "/")
	})
	return lo.Uniq(lo.Compact(origins))
}
