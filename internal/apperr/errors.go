// Package apperr holds the sentinel errors shared by the codec, the controller
// and the transport layers.
package apperr

import "errors"

// Decode-time failures. All of them mean "no shared card".
var (
	ErrUnrecognizedVibe  = errors.New("unrecognized vibe")
	ErrMalformedPayload  = errors.New("malformed payload")
	ErrMissingParameters = errors.New("missing parameters")
)

// Edit-time failures.
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrUnknownField         = errors.New("unknown field")
	ErrInvalidTransition    = errors.New("invalid screen transition")
	ErrUnsupportedPhoto     = errors.New("unsupported photo")
)

// IsDecodeFailure reports whether err is one of the decode-time failures.
func IsDecodeFailure(err error) bool {
	return errors.Is(err, ErrUnrecognizedVibe) ||
		errors.Is(err, ErrMalformedPayload) ||
		errors.Is(err, ErrMissingParameters)
}

// Code returns a stable snake_case identifier for err, suitable for API
// responses. Unknown errors map to "internal".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnrecognizedVibe):
		return "unrecognized_vibe"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrMissingParameters):
		return "missing_parameters"
	case errors.Is(err, ErrMissingRequiredField):
		return "missing_required_field"
	case errors.Is(err, ErrUnknownField):
		return "unknown_field"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrUnsupportedPhoto):
		return "unsupported_photo"
	default:
		return "internal"
	}
}
