package session

import (
	"errors"
	"fmt"

	"chronolens/internal/providers/gemini"
	"chronolens/internal/resolver"
)

// UserMessage maps a workflow failure onto the single human-readable message
// slot shown to the user. Every failure leaves the session retryable.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, gemini.ErrNoImage):
		return "The service did not return an image. Please try generating again."
	case errors.Is(err, resolver.ErrMalformed), errors.Is(err, gemini.ErrEmptyResponse):
		return "Could not understand this location. Please try another spot on the map."
	}

	switch gemini.Classify(err) {
	case gemini.KindRateLimited:
		if hint, ok := gemini.RetryHint(err); ok {
			return fmt.Sprintf("The service is busy. Please wait about %d seconds and try again.", int(hint.Seconds()))
		}
		return "The service is busy. Please wait a moment and try again."
	case gemini.KindInvalidCredential:
		return "Your API key was rejected. Please enter a new key and try again."
	default:
		return "Something went wrong: " + err.Error()
	}
}
