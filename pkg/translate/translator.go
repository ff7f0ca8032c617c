package translate

import (
	"context"
	"strings"

	"github.com/dasmlab/gtc/pkg/languages"
)

// AutoDetect is the source language value asking the provider to detect
// the language of the input text.
const AutoDetect = "auto"

// Translator defines the interface for machine translation backends.
type Translator interface {
	// Translate sends a single request to the backend and returns the parsed
	// result. Errors wrap one of ErrValidation, ErrEmptyInput, ErrNetwork or
	// ErrParse.
	Translate(ctx context.Context, req Request) (*Result, error)
}

// Request is one unit of text to translate.
type Request struct {
	Text string
	// SourceLang is a catalog code or AutoDetect.
	SourceLang string
	// TargetLang is a catalog code.
	TargetLang string
}

// AutoDetect reports whether the source language should be detected.
func (r Request) AutoDetect() bool {
	return strings.EqualFold(strings.TrimSpace(r.SourceLang), AutoDetect)
}

// Detection methods recorded in Result.DetectedBy.
const (
	DetectedByProvider = "provider"
	DetectedByOffline  = "offline"
)

// Result is the structured outcome of a single translation.
type Result struct {
	// SourceText is the input as segmented and echoed back by the provider.
	SourceText string
	// TargetText is the translated text.
	TargetText string
	// Confidence of the language detection in [0,1]. It is 1 when the source
	// language was given explicitly and nil when the provider did not report it.
	Confidence *float64

	// SourceCode is the detected or explicit source language code.
	SourceCode string
	// TargetCode is the requested target language code.
	TargetCode string
	// SourceLang and TargetLang are nil when the code is not in the catalog.
	SourceLang *languages.Language
	TargetLang *languages.Language

	// DetectedBy is empty when the source language was explicit.
	DetectedBy string
}

func lookup(catalog *languages.Catalog, code string) *languages.Language {
	if catalog == nil || code == "" {
		return nil
	}
	lang, ok := catalog.Lookup(code)
	if !ok {
		return nil
	}
	return &lang
}

func float64Ptr(f float64) *float64 {
	return &f
}
