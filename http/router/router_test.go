package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	traillog "github.com/ridgepath/traillog"
	"github.com/ridgepath/traillog/http/middleware"
	"github.com/ridgepath/traillog/http/router"
	"github.com/stretchr/testify/require"
)

func newTestRouter() *router.Router {
	return router.New(traillog.Testing, middleware.NoopAdapter)
}

func code(c int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(c) }
}

func TestHandleMatchesMethod(t *testing.T) {
	// Arrange
	r := newTestRouter()
	r.Handle(router.Route{Path: "/ping", Method: http.MethodGet, Handler: code(http.StatusNoContent)})

	// Act + Assert: the registered method matches, others do not
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ping", nil))
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestSubrouterPrefixesRoutes(t *testing.T) {
	// Arrange
	r := newTestRouter()
	sub := r.Subrouter("/api")
	sub.Handle(router.Route{Path: "/ping", Method: http.MethodGet, Handler: code(http.StatusNoContent)})

	// Act + Assert: only the prefixed path reaches the handler
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatchAllFunnelsEveryPath(t *testing.T) {
	// Arrange
	r := newTestRouter()
	r.CatchAll(code(http.StatusServiceUnavailable))

	for _, target := range []string{"/", "/login", "/update/5"} {
		// Act
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

		// Assert
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	}
}

func TestHandleNotFound(t *testing.T) {
	// Arrange
	r := newTestRouter()
	r.Handle(router.Route{Path: "/ping", Method: http.MethodGet, Handler: code(http.StatusNoContent)})
	r.HandleNotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("nothing here"))
	})

	// Act
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	// Assert
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "nothing here", w.Body.String())
}
