package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dasmlab/gtc/pkg/languages"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultGoogleURL is the public gtx endpoint.
	DefaultGoogleURL = "https://translate.googleapis.com/translate_a/single"
	// DefaultGoogleTimeout bounds the single round trip.
	DefaultGoogleTimeout = 10 * time.Second
	// googleClientID is the client identifier accepted without an API key.
	googleClientID = "gtx"
	// maxErrorBody limits how much of an error response is logged.
	maxErrorBody = 512
)

// GoogleClient implements the Translator interface using the free gtx
// endpoint of Google Translate.
type GoogleClient struct {
	baseURL    string
	httpClient *http.Client
	catalog    *languages.Catalog
	detector   Detector
	metrics    *MetricsCollector
	logger     *logrus.Logger
}

// GoogleOption configures a GoogleClient.
type GoogleOption func(*GoogleClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) GoogleOption {
	return func(c *GoogleClient) {
		c.httpClient = hc
	}
}

// WithDetector sets the fallback detector used when the provider does not
// report the detected source language.
func WithDetector(d Detector) GoogleOption {
	return func(c *GoogleClient) {
		c.detector = d
	}
}

// WithMetrics records request metrics on mc.
func WithMetrics(mc *MetricsCollector) GoogleOption {
	return func(c *GoogleClient) {
		c.metrics = mc
	}
}

// NewGoogleClient creates a new gtx client.
// An empty baseURL selects DefaultGoogleURL.
func NewGoogleClient(baseURL string, catalog *languages.Catalog, logger *logrus.Logger, opts ...GoogleOption) *GoogleClient {
	if baseURL == "" {
		baseURL = DefaultGoogleURL
	}
	if logger == nil {
		logger = logrus.New()
	}

	c := &GoogleClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: DefaultGoogleTimeout,
		},
		catalog: catalog,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// normalize validates the request and canonicalizes its language codes.
func (c *GoogleClient) normalize(req Request) (Request, error) {
	if strings.TrimSpace(req.Text) == "" {
		return req, ErrEmptyInput
	}

	if req.AutoDetect() {
		req.SourceLang = AutoDetect
	} else {
		src, ok := c.resolve(req.SourceLang)
		if !ok {
			return req, fmt.Errorf("%w: source %q", ErrValidation, req.SourceLang)
		}
		req.SourceLang = src
	}

	dst, ok := c.resolve(req.TargetLang)
	if !ok {
		return req, fmt.Errorf("%w: target %q", ErrValidation, req.TargetLang)
	}
	req.TargetLang = dst

	return req, nil
}

// resolve returns the catalog code for code. Codes that are already
// canonical skip the pattern match.
func (c *GoogleClient) resolve(code string) (string, bool) {
	if lang, ok := c.catalog.Lookup(code); ok {
		return lang.Code, true
	}
	lang, err := c.catalog.Resolve(code)
	if err != nil {
		return "", false
	}
	return lang.Code, true
}

// BuildRequestURL returns the GET URL for req.
func (c *GoogleClient) BuildRequestURL(req Request) (string, error) {
	req, err := c.normalize(req)
	if err != nil {
		return "", err
	}
	return c.buildURL(req)
}

func (c *GoogleClient) buildURL(req Request) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: invalid endpoint: %v", ErrNetwork, err)
	}

	params := url.Values{}
	params.Set("client", googleClientID)
	params.Set("ie", "UTF-8")
	params.Set("oe", "UTF-8")
	params.Set("sl", req.SourceLang)
	params.Set("tl", req.TargetLang)
	params.Set("dt", "t")
	params.Set("q", req.Text)
	u.RawQuery = params.Encode()

	return u.String(), nil
}

// Translate translates req.Text with a single GET request.
func (c *GoogleClient) Translate(ctx context.Context, req Request) (*Result, error) {
	startTime := time.Now()

	result, bodySize, err := c.translate(ctx, req)

	if c.metrics != nil {
		c.metrics.RecordTranslationRequest(time.Since(startTime), err, len(req.Text), bodySize)
		if err == nil && req.AutoDetect() {
			c.metrics.RecordDetection(result.DetectedBy)
		}
	}

	return result, err
}

func (c *GoogleClient) translate(ctx context.Context, req Request) (*Result, int, error) {
	req, err := c.normalize(req)
	if err != nil {
		c.logger.WithError(err).Debug("Rejected translation request")
		return nil, 0, err
	}

	c.logger.WithFields(logrus.Fields{
		"source_lang": req.SourceLang,
		"target_lang": req.TargetLang,
		"text_length": len(req.Text),
	}).Debug("Translating text with Google")

	reqURL, err := c.buildURL(req)
	if err != nil {
		return nil, 0, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		c.logger.WithError(err).Debug("Failed to create translation request")
		return nil, 0, fmt.Errorf("%w: create request: %v", ErrNetwork, err)
	}
	httpReq.Header.Set("Accept", "*/*")

	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		err = withoutURL(err)
		c.logger.WithError(err).WithFields(logrus.Fields{
			"url":     c.baseURL,
			"timeout": IsTimeout(err),
		}).Debug("Translation request failed")
		return nil, 0, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	duration := time.Since(startTime)
	c.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"duration_ms": duration.Milliseconds(),
	}).Debug("Translation request completed")

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(bodyBytes),
		}).Debug("Translation request returned non-OK status")
		return nil, 0, fmt.Errorf("%w: unexpected status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.WithError(err).Debug("Failed to read translation response")
		return nil, 0, fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	result, err := ParseResponse(body, req, c.catalog)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"body_size": len(body),
		}).Debug("Failed to parse translation response")
		return nil, len(body), err
	}

	if req.AutoDetect() && result.SourceCode == "" {
		c.detectOffline(result, req.Text)
	}

	c.logger.WithFields(logrus.Fields{
		"source_lang": result.SourceCode,
		"target_lang": result.TargetCode,
		"detected_by": result.DetectedBy,
		"duration_ms": duration.Milliseconds(),
	}).Info("Translation completed successfully")

	return result, len(body), nil
}

// detectOffline fills in the source language when the provider did not.
func (c *GoogleClient) detectOffline(result *Result, text string) {
	if c.detector == nil {
		c.logger.Warn("Provider did not report the source language")
		return
	}

	if result.SourceText != "" {
		text = result.SourceText
	}
	code, confidence, ok := c.detector.Detect(text)
	if !ok {
		c.logger.Debug("Could not detect the source language")
		return
	}

	result.SourceCode = code
	result.SourceLang = lookup(c.catalog, code)
	result.DetectedBy = DetectedByOffline
	if result.Confidence == nil {
		result.Confidence = float64Ptr(confidence)
	}

	c.logger.WithFields(logrus.Fields{
		"source_lang": code,
		"confidence":  confidence,
	}).Debug("Detected source language offline")
}

// withoutURL drops the request URL from a transport error. The query
// carries the text being translated.
func withoutURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

// IsTimeout reports whether err was caused by an expired deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
