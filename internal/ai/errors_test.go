package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sony/gobreaker"
	"google.golang.org/api/googleapi"
)

func TestIsRateLimited(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"googleapi 429", &googleapi.Error{Code: 429, Message: "rate limit"}, true},
		{"wrapped googleapi 429", fmt.Errorf("embed: %w", &googleapi.Error{Code: 429}), true},
		{"googleapi 400", &googleapi.Error{Code: 400, Message: "bad request"}, false},
		{"429 in message", errors.New("googleapi: Error 429: Resource has been exhausted"), true},
		{"resource exhausted status", errors.New("rpc error: code = ResourceExhausted desc = RESOURCE_EXHAUSTED"), true},
		{"quota message", errors.New("Quota exceeded for requests per minute"), true},
		{"breaker open", gobreaker.ErrOpenState, true},
		{"breaker half open", gobreaker.ErrTooManyRequests, true},
		{"permanent error", errors.New("invalid argument"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRateLimited(tc.err); got != tc.want {
				t.Fatalf("IsRateLimited(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
