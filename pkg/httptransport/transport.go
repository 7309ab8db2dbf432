// Package httptransport provides composable http.RoundTripper middleware for
// outbound requests.
package httptransport

import "net/http"

// Middleware decorates a RoundTripper.
type Middleware func(next http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(req *http.Request) (*http.Response, error)

// RoundTrip calls f(req).
func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Wrap applies mws to rt so that the first middleware sees the request first.
// A nil rt is replaced with http.DefaultTransport.
func Wrap(rt http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}
	return rt
}

// withHeader returns a shallow copy of req with header name set to value.
// RoundTrippers must not modify the caller's request.
func withHeader(req *http.Request, name, value string) *http.Request {
	r := req.Clone(req.Context())
	r.Header.Set(name, value)
	return r
}
