package middleware

import (
	"net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"
	traillog "github.com/ridgepath/traillog"
)

// ReportPanic wraps the http.Handler in a sentryhttp.Handler
// in order to recover and report panics.
//
// In development and testing, NoopAdapter returns and panics surface as usual.
func ReportPanic(env traillog.Environment) Adapter {
	if env.IsDevelopment() || env.IsTesting() {
		return NoopAdapter
	}

	sh := sentryhttp.New(sentryhttp.Options{
		Repanic:         false,
		WaitForDelivery: true,
	})

	return func(handler http.Handler) http.Handler {
		return sh.Handle(handler)
	}
}
