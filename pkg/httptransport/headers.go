package httptransport

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// HeaderRequestID carries the per-request identifier.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

// RequestID returns a middleware that sets X-Request-ID on every request.
// A valid id already on the request is kept, otherwise a new UUID v4 is
// generated. Valid ids are at most 128 bytes of printable ASCII.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			if isValidRequestID(req.Header.Get(HeaderRequestID)) {
				return next.RoundTrip(req)
			}
			return next.RoundTrip(withHeader(req, HeaderRequestID, uuid.New().String()))
		})
	}
}

func isValidRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return r < ' ' || r > '~'
	}) < 0
}

// ContextHeader returns a middleware that sets header name to fn(ctx) of the
// request context. Nothing is set when fn returns an empty string.
func ContextHeader(name string, fn func(ctx context.Context) string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			v := fn(req.Context())
			if v == "" {
				return next.RoundTrip(req)
			}
			return next.RoundTrip(withHeader(req, name, v))
		})
	}
}

// UserAgent returns a middleware that sets a fixed User-Agent.
func UserAgent(ua string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			return next.RoundTrip(withHeader(req, "User-Agent", ua))
		})
	}
}
