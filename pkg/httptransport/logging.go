package httptransport

import (
	"net/http"
	"time"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
)

// LogRequests returns a middleware that logs every outbound request at debug
// level with the logger from the request context. Transport failures are
// logged at warn level.
func LogRequests() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(req *http.Request) (*http.Response, error) {
			lg := zctx.From(req.Context())
			start := time.Now()

			resp, err := next.RoundTrip(req)

			fields := []zap.Field{
				zap.String("method", req.Method),
				zap.String("url", req.URL.Redacted()),
				zap.String("request_id", req.Header.Get(HeaderRequestID)),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				lg.Warn("Request failed", append(fields, zap.Error(err))...)
				return nil, err
			}

			lg.Debug("Request completed", append(fields,
				zap.Int("status", resp.StatusCode),
				zap.Int64("content_length", resp.ContentLength),
			)...)
			return resp, nil
		})
	}
}
