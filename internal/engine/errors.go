package engine

import "errors"

var (
	// ErrUnsupportedURL is returned when a link matches no known platform pattern.
	ErrUnsupportedURL = errors.New("unsupported url")

	// ErrNotConfigured is returned when a provider is called without credentials.
	ErrNotConfigured = errors.New("provider not configured")

	// ErrUnparsableResponse is returned when the classifier output holds no valid JSON object.
	ErrUnparsableResponse = errors.New("unparsable model response")
)
