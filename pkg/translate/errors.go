package translate

import "errors"

var (
	// ErrValidation is returned for an unknown or misplaced language code.
	ErrValidation = errors.New("invalid language code")
	// ErrEmptyInput is returned when there is no text to translate.
	ErrEmptyInput = errors.New("cannot translate an empty text")
	// ErrNetwork covers transport failures, timeouts and non-200 responses.
	ErrNetwork = errors.New("translation service unavailable")
	// ErrParse is returned when the response body has an unexpected shape.
	ErrParse = errors.New("unexpected translation response")
)

// statusLabel maps an error onto the status label used in metrics.
func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNetwork):
		return "network_error"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrEmptyInput):
		return "empty_input"
	default:
		return "validation_error"
	}
}
