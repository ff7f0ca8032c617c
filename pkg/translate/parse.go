package translate

import (
	"bytes"
	"fmt"

	"github.com/dasmlab/gtc/pkg/languages"
	"github.com/tidwall/gjson"
)

// Positions in the outer array of a gtx response, e.g.
//
//	[[["Hola Mundo","Hello World",,,10]],,"en",,,,0.97]
const (
	sentencesIndex  = 0
	detectedIndex   = 2
	confidenceIndex = 6
)

// Positions inside a sentence tuple.
const (
	targetFragmentIndex = 0
	sourceFragmentIndex = 1
)

// fillGaps rewrites empty array slots as explicit nulls so the body becomes
// valid JSON: "[," -> "[null,", ",," -> ",null,", ",]" -> ",null]".
// String literals are copied through untouched.
func fillGaps(body []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(body) + 32)

	var (
		inString bool
		escaped  bool
		// last non-whitespace byte written outside a string literal
		prev byte
	)

	for _, c := range body {
		if inString {
			out.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case ' ', '\t', '\n', '\r':
			out.WriteByte(c)
			continue
		case ',':
			if prev == ',' || prev == '[' {
				out.WriteString("null")
			}
		case ']':
			if prev == ',' {
				out.WriteString("null")
			}
		case '"':
			inString = true
		}

		out.WriteByte(c)
		prev = c
	}

	return out.Bytes()
}

// ParseResponse turns a raw gtx response body into a Result.
// The catalog is only used to resolve language names; unknown codes leave
// SourceLang or TargetLang nil.
func ParseResponse(body []byte, req Request, catalog *languages.Catalog) (*Result, error) {
	normalized := fillGaps(bytes.TrimSpace(body))
	if !gjson.ValidBytes(normalized) {
		return nil, fmt.Errorf("%w: body is not a JSON array", ErrParse)
	}

	root := gjson.ParseBytes(normalized)
	if !root.IsArray() {
		return nil, fmt.Errorf("%w: expected outer array, got %s", ErrParse, root.Type)
	}
	outer := root.Array()
	if len(outer) <= sentencesIndex || !outer[sentencesIndex].IsArray() {
		return nil, fmt.Errorf("%w: missing sentence list", ErrParse)
	}

	result := &Result{
		TargetCode: req.TargetLang,
	}

	var targetText, sourceText bytes.Buffer
	sentences := 0
	for i, sentence := range outer[sentencesIndex].Array() {
		if !sentence.IsArray() {
			return nil, fmt.Errorf("%w: sentence %d is %s, not an array", ErrParse, i, sentence.Type)
		}
		fields := sentence.Array()
		// Rows without translated text (e.g. romanization) carry nothing
		// for either side.
		if len(fields) <= targetFragmentIndex || fields[targetFragmentIndex].Type != gjson.String {
			continue
		}
		targetText.WriteString(fields[targetFragmentIndex].Str)
		if len(fields) > sourceFragmentIndex && fields[sourceFragmentIndex].Type == gjson.String {
			sourceText.WriteString(fields[sourceFragmentIndex].Str)
		}
		sentences++
	}
	if sentences == 0 {
		return nil, fmt.Errorf("%w: no translated sentences", ErrParse)
	}
	result.TargetText = targetText.String()
	result.SourceText = sourceText.String()

	if req.AutoDetect() {
		if len(outer) > detectedIndex && outer[detectedIndex].Type == gjson.String {
			result.SourceCode = outer[detectedIndex].Str
			result.DetectedBy = DetectedByProvider
		}
		if len(outer) > confidenceIndex && outer[confidenceIndex].Type == gjson.Number {
			result.Confidence = float64Ptr(clamp(outer[confidenceIndex].Num))
		}
	} else {
		result.SourceCode = req.SourceLang
		result.Confidence = float64Ptr(1)
	}

	result.SourceLang = lookup(catalog, result.SourceCode)
	result.TargetLang = lookup(catalog, result.TargetCode)

	return result, nil
}

func clamp(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
