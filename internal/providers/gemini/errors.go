package gemini

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genai"
)

// Kind buckets outbound-call failures into the recovery paths the workflow
// distinguishes between.
type Kind int

const (
	// KindUnclassified covers everything without a dedicated recovery path.
	KindUnclassified Kind = iota
	// KindRateLimited means the service is throttling; retry with backoff.
	KindRateLimited
	// KindInvalidCredential means the key was rejected; never retried.
	KindInvalidCredential
)

var retryHintPattern = regexp.MustCompile(`(?i)retry in (\d+(?:\.\d+)?)s`)

var credentialMarkers = []string{
	"api key not valid",
	"api_key_invalid",
	"invalid api key",
	"api key expired",
	"api_key_expired",
	"api key not found",
	"permission denied",
}

var rateLimitMarkers = []string{
	"resource_exhausted",
	"resource exhausted",
	"rate limit",
	"quota",
	"too many requests",
}

// Classify inspects an error returned by the SDK and assigns it a Kind.
// Status codes are preferred; message markers cover errors that surface as
// plain text.
func Classify(err error) Kind {
	if err == nil {
		return KindUnclassified
	}

	code := 0
	msg := err.Error()
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.Code
		if apiErr.Message != "" {
			msg += " " + apiErr.Message
		}
		if apiErr.Status != "" {
			msg += " " + apiErr.Status
		}
	}
	lower := strings.ToLower(msg)

	if code == 429 || strings.Contains(lower, "429") || containsAny(lower, rateLimitMarkers) {
		return KindRateLimited
	}
	if code >= 400 && code < 500 && containsAny(lower, credentialMarkers) {
		return KindInvalidCredential
	}
	if code == 0 && containsAny(lower, credentialMarkers) {
		return KindInvalidCredential
	}
	return KindUnclassified
}

// RetryHint extracts a server-suggested wait time of the form "retry in 12s"
// from the error message.
func RetryHint(err error) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}
	msg := err.Error()
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg += " " + apiErr.Message
	}
	m := retryHintPattern.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	secs, perr := strconv.ParseFloat(m[1], 64)
	if perr != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs * float64(time.Second)), true
}

func containsAny(s string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
