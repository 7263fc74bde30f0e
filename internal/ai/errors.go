package ai

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sony/gobreaker"
	"google.golang.org/api/googleapi"
)

// IsRateLimited reports whether an error from a Gemini call looks like a
// rate-limit or quota failure. These are the only errors worth retrying
// during ingestion or walking the model fallback list for during
// generation; everything else is treated as permanent.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		return true
	}

	// An open breaker means the primary is unhealthy; let callers fall
	// back the same way they would on a 429.
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(msg), "quota")
}
