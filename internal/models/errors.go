package models

import "errors"

// These are the only errors the query service lets callers see.
var (
	ErrNotFound        = errors.New("restaurant not found")
	ErrMalformedRecord = errors.New("malformed restaurant record")
	ErrProviderFailure = errors.New("failed to fetch restaurants")
)

const (
	MessageNoResults = "No restaurants found. Try a different search."
	MessageTryAgain  = "Failed to fetch restaurants. Please check your API key and try again."
)

// UserMessage maps an error from the query service to the neutral text shown
// to end users. Diagnostic detail never reaches this text.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return MessageNoResults
	default:
		return MessageTryAgain
	}
}
