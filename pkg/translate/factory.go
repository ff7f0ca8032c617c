package translate

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dasmlab/gtc/pkg/languages"
	"github.com/sirupsen/logrus"
)

// EngineType represents the type of translation engine to use.
type EngineType string

const (
	// EngineGoogle uses the free Google Translate gtx endpoint.
	EngineGoogle EngineType = "google"
)

// Config holds configuration for creating a Translator instance.
type Config struct {
	// Engine specifies which translation engine to use.
	Engine EngineType
	// BaseURL overrides the engine endpoint. Empty selects the default.
	BaseURL string
	// Timeout bounds each request. Zero selects the engine default.
	Timeout time.Duration
	// Catalog resolves and validates language codes. Required.
	Catalog *languages.Catalog
	// Detector is used when the engine does not report the source language.
	Detector Detector
	// Metrics is optional.
	Metrics *MetricsCollector
	// Logger is the logger instance to use. If nil, a default logger is created.
	Logger *logrus.Logger
}

// NewTranslator creates a new Translator instance based on the configuration.
func NewTranslator(cfg Config) (Translator, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Catalog == nil {
		return nil, errors.New("translator needs a language catalog")
	}
	if cfg.Engine == "" {
		cfg.Engine = EngineGoogle
	}

	cfg.Logger.WithFields(logrus.Fields{
		"engine":   cfg.Engine,
		"base_url": cfg.BaseURL,
		"timeout":  cfg.Timeout.String(),
	}).Debug("Creating translator instance")

	switch cfg.Engine {
	case EngineGoogle:
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultGoogleTimeout
		}
		opts := []GoogleOption{
			WithHTTPClient(&http.Client{Timeout: timeout}),
		}
		if cfg.Detector != nil {
			opts = append(opts, WithDetector(cfg.Detector))
		}
		if cfg.Metrics != nil {
			opts = append(opts, WithMetrics(cfg.Metrics))
		}
		return NewGoogleClient(cfg.BaseURL, cfg.Catalog, cfg.Logger, opts...), nil
	default:
		cfg.Logger.WithFields(logrus.Fields{
			"engine": cfg.Engine,
		}).Error("Unknown translation engine")
		return nil, fmt.Errorf("unknown translation engine: %s", cfg.Engine)
	}
}

// ParseEngineType parses a string into an EngineType.
// Returns an error if the string is not a valid engine type.
func ParseEngineType(s string) (EngineType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "google", "gtx", "googlefree":
		return EngineGoogle, nil
	default:
		return "", fmt.Errorf("unknown engine type: %s (supported: google)", s)
	}
}
