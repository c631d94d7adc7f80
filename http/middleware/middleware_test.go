package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	traillog "github.com/ridgepath/traillog"
	"github.com/ridgepath/traillog/http/middleware"
	"github.com/ridgepath/traillog/http/resp"
	"github.com/ridgepath/traillog/http/session"
	"github.com/stretchr/testify/require"
)

func TestChain(t *testing.T) {
	// Arrange
	var order []string
	tag := func(name string) middleware.Adapter {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	handler := http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		order = append(order, "handler")
	})

	// Act
	middleware.Chain(handler, tag("first"), tag("second")).ServeHTTP(w, r)

	// Assert
	require.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRequestID(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)

	// Act
	actual := middleware.RequestID(traillog.RequestIDKey)

	// Assert
	actual(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		val, ok := rx.Context().Value(traillog.RequestIDKey).(string)
		require.True(t, ok)
		require.NotZero(t, val)
	})).ServeHTTP(w, r)
}

func TestInjectSession(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	store := session.NewStub(false)

	// Act
	actual := middleware.InjectSession(store, traillog.SessionKey)

	// Assert
	actual(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		_, ok := rx.Context().Value(traillog.SessionKey).(session.Session)
		require.True(t, ok)
	})).ServeHTTP(w, r)
}

func TestCurrentUser(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	d := resp.NewResponder(resp.WithRootUrl("https://example.com"))
	expected := traillog.User{
		Model:    traillog.Model{ID: 1, CreatedAt: time.Now()},
		Username: "gal",
		Email:    "gal@example.com",
	}
	storer := func(id uint) (middleware.User, error) {
		require.Equal(t, uint(1), id)
		return expected, nil
	}

	handler := middleware.Chain(
		http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
			actual, ok := rx.Context().Value(traillog.CurrentUserKey).(traillog.User)
			require.True(t, ok)
			require.Equal(t, expected.ID, actual.ID)
		}),
		middleware.InjectSession(session.NewStub(true), traillog.SessionKey),
		middleware.CurrentUser(d, storer, traillog.SessionKey, traillog.CurrentUserKey),
	)

	// Act + Assert
	handler.ServeHTTP(w, r)
}

func TestCurrentUserSkipsAnonymous(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
	d := resp.NewResponder(resp.WithRootUrl("https://example.com"))
	storer := func(id uint) (middleware.User, error) {
		t.Fatal("storer should not be called without a session user")
		return nil, nil
	}

	var reached bool
	handler := middleware.Chain(
		http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
			reached = true
			require.Nil(t, rx.Context().Value(traillog.CurrentUserKey))
		}),
		middleware.InjectSession(session.NewStub(false), traillog.SessionKey),
		middleware.CurrentUser(d, storer, traillog.SessionKey, traillog.CurrentUserKey),
	)

	// Act
	handler.ServeHTTP(w, r)

	// Assert
	require.True(t, reached)
}

func TestRequireAuthed(t *testing.T) {
	// Arrange: absolute targets still produce a relative "next"
	tcs := []struct {
		name     string
		target   string
		expected string
	}{
		{"absolute-target", "https://example.com/secret", "/login?next=%2Fsecret"},
		{"relative-target", "/secret", "/login?next=%2Fsecret"},
		{"query-preserved", "https://example.com/secret?tab=2", "/login?next=%2Fsecret%3Ftab%3D2"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, tc.target, nil)
			handler := middleware.RequireAuthed(traillog.CurrentUserKey, "/login", "/logout")(
				http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
					t.Fatal("handler should not be reached")
				}),
			)

			// Act
			handler.ServeHTTP(w, r)

			// Assert
			require.Equal(t, http.StatusTemporaryRedirect, w.Code)
			require.Equal(t, tc.expected, w.Header().Get("Location"))
		})
	}
}

func TestRequireUnauthed(t *testing.T) {
	// Arrange
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/login", nil)
	user := traillog.User{Model: traillog.Model{ID: 1, CreatedAt: time.Now()}}
	r = r.Clone(context.WithValue(r.Context(), traillog.CurrentUserKey, user))

	handler := middleware.RequireUnauthed(traillog.CurrentUserKey)(
		http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
			t.Fatal("handler should not be reached")
		}),
	)

	// Act
	handler.ServeHTTP(w, r)

	// Assert
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	require.Equal(t, "/", w.Header().Get("Location"))
}

func TestGetIPAddress(t *testing.T) {
	// Arrange
	tcs := []struct {
		name     string
		header   http.Header
		expected string
	}{
		{"public", http.Header{"X-Forwarded-For": []string{"93.184.216.34"}}, "93.184.216.34"},
		{"skips-private", http.Header{"X-Forwarded-For": []string{"93.184.216.34, 10.0.0.1"}}, "93.184.216.34"},
		{"none", http.Header{}, "0.0.0.0"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act + Assert
			require.Equal(t, tc.expected, middleware.GetIPAddress(tc.header))
		})
	}
}

func TestRateLimit(t *testing.T) {
	// Arrange
	vs := middleware.NewVisitors()
	handler := middleware.RateLimit(vs)(http.HandlerFunc(func(wx http.ResponseWriter, rx *http.Request) {
		wx.WriteHeader(http.StatusOK)
	}))

	// Act + Assert: bursts allowed, then rejected
	var lastCode int
	for i := 0; i < 25; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "https://example.com", nil)
		r.Header.Set("X-Forwarded-For", "93.184.216.34")
		handler.ServeHTTP(w, r)
		lastCode = w.Code
	}

	require.Equal(t, http.StatusTooManyRequests, lastCode)
}
