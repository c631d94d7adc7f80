package resp_test

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	traillog "github.com/ridgepath/traillog"
	"github.com/ridgepath/traillog/http/resp"
	"github.com/ridgepath/traillog/http/template"
	"github.com/ridgepath/traillog/tmpl"
	"github.com/stretchr/testify/require"
)

func TestRedirectDefaultsToRoot(t *testing.T) {
	// Arrange
	d := resp.NewResponder(resp.WithRootUrl("https://example.com"))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/whatever", nil)

	// Act
	err := d.Redirect(w, r)

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "https://example.com", w.Header().Get("Location"))
}

func TestRedirectCoercesCode(t *testing.T) {
	// Arrange
	tcs := []struct {
		name     string
		code     int
		expected int
	}{
		{"bad-request-becomes-see-other", http.StatusBadRequest, http.StatusSeeOther},
		{"server-error-becomes-temporary", http.StatusInternalServerError, http.StatusTemporaryRedirect},
		{"found-passes-through", http.StatusFound, http.StatusFound},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			d := resp.NewResponder(resp.WithRootUrl("https://example.com"))
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "https://example.com/whatever", nil)

			// Act
			err := d.Redirect(w, r, resp.Code(tc.code))

			// Assert
			require.Nil(t, err)
			require.Equal(t, tc.expected, w.Code)
		})
	}
}

func TestRedirectUrlOverridesRoot(t *testing.T) {
	// Arrange
	d := resp.NewResponder(resp.WithRootUrl("https://example.com"))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/whatever", nil)

	// Act
	err := d.Redirect(w, r, resp.Url("/login"), resp.Param("next", "/secret"))

	// Assert
	require.Nil(t, err)
	require.Equal(t, "/login?next=%2Fsecret", w.Header().Get("Location"))
}

func TestErrWritesServerError(t *testing.T) {
	// Arrange
	d := resp.NewResponder(resp.WithRootUrl("https://example.com"))
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/whatever", nil)

	// Act
	d.Err(w, r, resp.ErrNotFound)

	// Assert
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), resp.ErrNotFound.Error())
}

func TestHtmlRendersUnauthedPage(t *testing.T) {
	// Arrange
	d := resp.NewResponder(
		resp.WithRootUrl("https://example.com"),
		resp.WithParser(template.NewParser(template.WithFS(tmpl.FS))),
		resp.WithUnauthTemplate("layout/unauthenticated_base.tmpl"),
		resp.WithErrTemplate("error.tmpl"),
	)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/login", nil)

	// Act
	err := d.Html(w, r, resp.Unauthed(), resp.Tmpls("login.tmpl"))

	// Assert
	require.Nil(t, err)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), `action="/login"`))
}

func TestHtmlAuthedWithoutUserFails(t *testing.T) {
	// Arrange
	d := resp.NewResponder(
		resp.WithRootUrl("https://example.com"),
		resp.WithParser(template.NewParser(template.WithFS(tmpl.FS))),
		resp.WithAuthTemplate("layout/authenticated_base.tmpl"),
		resp.WithErrTemplate("error.tmpl"),
	)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)

	// Act: no user in the request context
	_ = d.Html(w, r, resp.Authed(), resp.Tmpls("index.tmpl"))

	// Assert: the error page renders instead
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Something went wrong")
}

func TestHtmlConcurrentRenders(t *testing.T) {
	// Arrange
	d := resp.NewResponder(
		resp.WithRootUrl("https://example.com"),
		resp.WithParser(template.NewParser(template.WithFS(tmpl.FS))),
		resp.WithAuthTemplate("layout/authenticated_base.tmpl"),
		resp.WithErrTemplate("error.tmpl"),
	)

	const renders = 8
	errs := make([]error, renders)
	bodies := make([]string, renders)

	// Act: render for many users at once
	var wg sync.WaitGroup
	for i := 0; i < renders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			u := traillog.User{
				Model:    traillog.Model{ID: uint(i + 1), CreatedAt: time.Now()},
				Username: "gal" + strconv.Itoa(i+1),
			}
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "https://example.com/", nil)

			errs[i] = d.Html(w, r, resp.User(u), resp.Authed(), resp.Tmpls("index.tmpl"))
			bodies[i] = w.Body.String()
		}(i)
	}
	wg.Wait()

	// Assert: every render succeeds with its own user
	for i := 0; i < renders; i++ {
		require.Nil(t, errs[i])
		require.Contains(t, bodies[i], "gal"+strconv.Itoa(i+1))
	}
}
