package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// InitSentry enables error reporting when a DSN is configured.
// The returned func flushes buffered events and must be called on shutdown.
func InitSentry(dsn, env, release string) (func(), error) {
	if dsn == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	}); err != nil {
		return func() {}, err
	}
	return func() { sentry.Flush(2 * time.Second) }, nil
}

func CaptureErr(err error) {
	if err != nil {
		sentry.CaptureException(err)
	}
}

// CaptureRequestErr reports err tagged with the failing route
func CaptureRequestErr(err error, method, route string) {
	if err == nil {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("http.method", method)
		scope.SetTag("http.route", route)
		sentry.CaptureException(err)
	})
}
