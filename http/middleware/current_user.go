package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/ridgepath/traillog/http/keyring"
	"github.com/ridgepath/traillog/http/resp"
	"github.com/ridgepath/traillog/http/session"
)

// The User defines attributes about a user in the context of middleware.
type User interface {
	HasAccess() bool
	HomePath() string
}

// UserStorer defines how to retrieve a User by an ID in the context of middleware.
type UserStorer func(id uint) (User, error)

// CurrentUser pulls the User out of the session.UserSessionable stored in the
// *http.Request.Context and stores the User under userKey.
//
// A *resp.Responder is needed to handle cases a CurrentUser cannot be
// retrieved or does not have access; those redirect to the Responder's
// root URL.
//
// If any argument is nil, NoopAdapter returns and this middleware does nothing.
func CurrentUser(d *resp.Responder, storer UserStorer, sessionKey, userKey keyring.Keyable) Adapter {
	if d == nil || storer == nil || sessionKey == nil || userKey == nil {
		return NoopAdapter
	}

	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := r.Context().Value(sessionKey).(session.TrailSessionable)
			if !ok {
				d.Redirect(w, r, resp.Err(session.ErrNotValid))
				return
			}

			uid, err := s.UserID()
			if err != nil {
				// NOTE: there is no User in the session,
				// request may be accessing an unauthenticated endpoint,
				// maybe not, something for access control middlewares to determine
				handler.ServeHTTP(w, r)
				return
			}

			user, err := storer(uid)
			if err != nil {
				if err := s.Delete(w, r); err != nil {
					d.Redirect(w, r, resp.Err(err))
					return
				}

				d.Redirect(w, r, resp.Err(err))
				return
			}

			if !user.HasAccess() {
				s.ClearFlashes(w, r)
				if err := s.DeregisterUser(w, r); err != nil {
					d.Redirect(w, r, resp.Err(err))
					return
				}

				d.Redirect(w, r)
				return
			}

			if err := s.ResetExpiry(w, r); err != nil {
				s.Delete(w, r) // NOTE: ignore delete error
				d.Redirect(w, r, resp.Err(err))
				return
			}

			w.Header().Add("Cache-control", "no-store")
			w.Header().Add("Pragma", "no-cache")

			ctx := context.WithValue(r.Context(), userKey, user)
			handler.ServeHTTP(w, r.Clone(ctx))
		})
	}
}

// RequireUnauthed returns a middleware.Adapter that checks whether a user is
// authenticated and requires they not be.
// When they are not authenticated, RequireUnauthed hands off to the next part
// of the middleware chain.
//
// Authenticated means a User is set in the request context with the provided key.
//
// When the User is authenticated, RequireUnauthed redirects to the User's HomePath.
func RequireUnauthed(key keyring.Keyable) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cu, ok := r.Context().Value(key).(User); ok {
				http.Redirect(w, r, cu.HomePath(), http.StatusTemporaryRedirect)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}

// RequireAuthed returns a middleware.Adapter that checks whether a User is
// authenticated, and requires they be.
// When the User is authenticated, RequireAuthed hands off to the next part
// of the middleware chain.
//
// Authenticated means a User is set in the request context with the provided key.
//
// When the User is not authenticated, RequireAuthed redirects to the provided
// login URL.
// The URL originally requested is appended as a "next" query param
// when the request method is GET and the endpoint is not the logoff URL.
func RequireAuthed(key keyring.Keyable, loginUrl, logoffUrl string) Adapter {
	return func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Value(key).(User); !ok {
				u := loginUrl
				if r.Method == http.MethodGet && r.URL.Path != logoffUrl {
					// NOTE: RequestURI keeps "next" relative even when the
					// request target is in absolute form.
					u += "?next=" + url.QueryEscape(r.URL.RequestURI())
				}

				http.Redirect(w, r, u, http.StatusTemporaryRedirect)
				return
			}

			handler.ServeHTTP(w, r)
		})
	}
}
