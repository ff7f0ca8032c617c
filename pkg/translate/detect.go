package translate

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// Detector guesses the language of a text without calling the provider.
type Detector interface {
	// Detect returns an ISO 639-1 code and a confidence in [0,1].
	// ok is false when the text is too short or ambiguous.
	Detect(text string) (code string, confidence float64, ok bool)
}

// whatlangAliases maps ISO 639-1 codes onto the codes the provider uses.
var whatlangAliases = map[string]string{
	"he": "iw",
	"jv": "jw",
	"zh": "zh-CN",
}

// WhatlangDetector is a Detector backed by whatlanggo trigram models.
type WhatlangDetector struct {
	// MinConfidence below which a detection is discarded.
	MinConfidence float64
}

// NewWhatlangDetector creates a detector that accepts any result.
func NewWhatlangDetector() *WhatlangDetector {
	return &WhatlangDetector{}
}

// Detect implements Detector.
func (d *WhatlangDetector) Detect(text string) (string, float64, bool) {
	if strings.TrimSpace(text) == "" {
		return "", 0, false
	}

	info := whatlanggo.Detect(text)
	code := info.Lang.Iso6391()
	if code == "" || info.Confidence < d.MinConfidence {
		return "", 0, false
	}
	if alias, ok := whatlangAliases[code]; ok {
		code = alias
	}

	return code, clamp(info.Confidence), true
}
