/*
Package middleware defines the Adapter chain the trail log server wraps
every handler in and a set of basic middlewares.

The available middlewares are:
  - CORS
  - CurrentUser
  - ForceHTTPS
  - Idempotent
  - InjectIPAddress
  - InjectSession
  - LogRequest
  - RateLimit
  - ReportPanic
  - RequestID
  - RequireAuthed
  - RequireUnauthed

Due to the amount of configuration required, middleware does not provide
a default chain. Instead, the following can be copy-pasted:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.RateLimit(vs),
		middleware.ForceHTTPS(env),
		middleware.InjectIPAddress(),
		middleware.RequestID(requestIDKey),
		middleware.LogRequest(log),
		middleware.InjectSession(sessionStore, sessionKey),
		middleware.CurrentUser(responder, userStore, sessionKey, userKey),
	}
*/
package middleware
