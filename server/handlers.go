package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	traillog "github.com/ridgepath/traillog"
	"github.com/ridgepath/traillog/account"
	"github.com/ridgepath/traillog/http/resp"
	"github.com/ridgepath/traillog/http/session"
	"github.com/ridgepath/traillog/trailop"
)

// flash messages for failed trail mutations
const (
	createFailedMsg = "There was a problem with your submission"
	updateFailedMsg = "There was a problem updating this trail"
	deleteFailedMsg = "There was a problem deleting this trail"
	dateTooLongMsg  = "Date traveled must be 10 characters or fewer"
)

// registerForm and loginForm shape the credential POSTs.
//
// The parser rejects submissions missing a field; whitespace-only values
// get caught by account.Service, which trims before requiring.
type registerForm struct {
	Username string `schema:"username" validate:"required"`
	Email    string `schema:"email" validate:"required"`
	Password string `schema:"password" validate:"required"`
}

type loginForm struct {
	Email    string `schema:"email" validate:"required"`
	Password string `schema:"password" validate:"required"`
}

// Index renders the current User's trail entries, oldest logged first,
// above the create form.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	user, err := s.user(r.Context())
	if err != nil {
		s.Err(w, r, err)
		return
	}

	entries, err := s.trails.ListForUser(user.ID)
	if err != nil {
		s.Err(w, r, err)
		return
	}

	s.Html(w, r, resp.Authed(), resp.Tmpls("index.tmpl"), resp.Data(entries))
}

// CreateEntry handles the create form POST, then redirects home either way.
func (s *Server) CreateEntry(w http.ResponseWriter, r *http.Request) {
	user, err := s.user(r.Context())
	if err != nil {
		s.Err(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: createFailedMsg}))
		return
	}

	var p trailop.EntryParams
	if err := s.parse.ParseForm(r.PostForm, &p); err != nil {
		s.Redirect(w, r,
			resp.Err(err),
			resp.Code(http.StatusSeeOther),
			resp.Flash(session.Flash{Class: session.FlashError, Msg: createFailedMsg}),
		)
		return
	}

	if _, err := s.trails.Create(user.ID, p); err != nil {
		if errors.Is(err, trailop.ErrDateTraveledLen) {
			s.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashWarning, Msg: dateTooLongMsg}))
			return
		}

		if errors.Is(err, traillog.ErrNotValid) {
			s.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashWarning, Msg: session.AllFieldsRequiredMsg}))
			return
		}

		s.Redirect(w, r,
			resp.Err(err),
			resp.Code(http.StatusSeeOther),
			resp.Flash(session.Flash{Class: session.FlashError, Msg: createFailedMsg}),
		)
		return
	}

	s.Redirect(w, r)
}

// ShowUpdate renders the edit form for one of the User's entries.
//
// An ID the User does not own renders a 404,
// never a hint the row exists.
func (s *Server) ShowUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := s.user(r.Context())
	if err != nil {
		s.Err(w, r, err)
		return
	}

	id, err := entryID(r)
	if err != nil {
		s.NotFound(w, r)
		return
	}

	entry, err := s.trails.Fetch(user.ID, id)
	if errors.Is(err, traillog.ErrNotFound) {
		s.NotFound(w, r)
		return
	}

	if err != nil {
		s.Err(w, r, err)
		return
	}

	s.Html(w, r, resp.Authed(), resp.Tmpls("update.tmpl"), resp.Data(entry))
}

// ApplyUpdate handles the edit form POST, then redirects home.
func (s *Server) ApplyUpdate(w http.ResponseWriter, r *http.Request) {
	user, err := s.user(r.Context())
	if err != nil {
		s.Err(w, r, err)
		return
	}

	id, err := entryID(r)
	if err != nil {
		s.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		s.Redirect(w, r, resp.Flash(session.Flash{Class: session.FlashError, Msg: updateFailedMsg}))
		return
	}

	var p trailop.EntryParams
	if err := s.parse.ParseForm(r.PostForm, &p); err != nil {
		s.Redirect(w, r,
			resp.Err(err),
			resp.Code(http.StatusSeeOther),
			resp.Flash(session.Flash{Class: session.FlashError, Msg: updateFailedMsg}),
		)
		return
	}

	err = s.trails.Update(user.ID, id, p)
	switch {
	case errors.Is(err, trailop.ErrDateTraveledLen):
		s.Redirect(w, r,
			resp.Flash(session.Flash{Class: session.FlashWarning, Msg: dateTooLongMsg}),
			resp.Url("/update/"+strconv.FormatUint(uint64(id), 10)),
		)

	case errors.Is(err, traillog.ErrNotValid):
		s.Redirect(w, r,
			resp.Flash(session.Flash{Class: session.FlashWarning, Msg: session.AllFieldsRequiredMsg}),
			resp.Url("/update/"+strconv.FormatUint(uint64(id), 10)),
		)

	case errors.Is(err, traillog.ErrNotFound):
		s.NotFound(w, r)

	case err != nil:
		s.Redirect(w, r,
			resp.Err(err),
			resp.Code(http.StatusSeeOther),
			resp.Flash(session.Flash{Class: session.FlashError, Msg: updateFailedMsg}),
		)

	default:
		s.Redirect(w, r)
	}
}

// DeleteEntry permanently removes one of the User's entries,
// then redirects home.
func (s *Server) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	user, err := s.user(r.Context())
	if err != nil {
		s.Err(w, r, err)
		return
	}

	id, err := entryID(r)
	if err != nil {
		s.NotFound(w, r)
		return
	}

	err = s.trails.Delete(user.ID, id)
	switch {
	case errors.Is(err, traillog.ErrNotFound):
		s.NotFound(w, r)

	case err != nil:
		s.Redirect(w, r,
			resp.Err(err),
			resp.Code(http.StatusSeeOther),
			resp.Flash(session.Flash{Class: session.FlashError, Msg: deleteFailedMsg}),
		)

	default:
		s.Redirect(w, r)
	}
}

// ShowRegister renders the registration form.
func (s *Server) ShowRegister(w http.ResponseWriter, r *http.Request) {
	s.Html(w, r, resp.Unauthed(), resp.Tmpls("register.tmpl"))
}

// Register creates an account from the submitted credentials.
//
// A username or email already claimed flashes the same generic message as
// any other credential problem so responses cannot probe for accounts.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.Redirect(w, r, resp.Url("/register"), resp.Flash(session.Flash{Class: session.FlashError, Msg: session.DefaultErrMsg}))
		return
	}

	var f registerForm
	if err := s.parse.ParseForm(r.PostForm, &f); err != nil {
		if errors.Is(err, traillog.ErrNotValid) {
			s.Redirect(w, r,
				resp.Url("/register"),
				resp.Flash(session.Flash{Class: session.FlashWarning, Msg: session.AllFieldsRequiredMsg}),
			)
			return
		}

		s.Redirect(w, r,
			resp.GenericErr(err),
			resp.Code(http.StatusSeeOther),
			resp.Url("/register"),
		)
		return
	}

	_, err := s.accounts.Register(f.Username, f.Email, f.Password)
	switch {
	case errors.Is(err, traillog.ErrNotValid):
		s.Redirect(w, r,
			resp.Url("/register"),
			resp.Flash(session.Flash{Class: session.FlashWarning, Msg: session.AllFieldsRequiredMsg}),
		)

	case errors.Is(err, traillog.ErrExists):
		s.Redirect(w, r,
			resp.Url("/register"),
			resp.Flash(session.Flash{Class: session.FlashWarning, Msg: session.CredsTakenMsg}),
		)

	case err != nil:
		s.Redirect(w, r,
			resp.GenericErr(err),
			resp.Code(http.StatusSeeOther),
			resp.Url("/register"),
		)

	default:
		s.Redirect(w, r,
			resp.Success("Account created! Please log in."),
			resp.Url("/login"),
		)
	}
}

// ShowLogin renders the login form.
func (s *Server) ShowLogin(w http.ResponseWriter, r *http.Request) {
	s.Html(w, r, resp.Unauthed(), resp.Tmpls("login.tmpl"))
}

// Login authenticates the submitted credentials and stores the User in
// the session.
//
// Bad email and bad password flash identically.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.Redirect(w, r, resp.Url("/login"), resp.Flash(session.Flash{Class: session.FlashError, Msg: session.DefaultErrMsg}))
		return
	}

	var f loginForm
	if err := s.parse.ParseForm(r.PostForm, &f); err != nil {
		if errors.Is(err, traillog.ErrNotValid) {
			s.Redirect(w, r,
				resp.Url("/login"),
				resp.Flash(session.Flash{Class: session.FlashWarning, Msg: session.AllFieldsRequiredMsg}),
			)
			return
		}

		s.Redirect(w, r,
			resp.GenericErr(err),
			resp.Code(http.StatusSeeOther),
			resp.Url("/login"),
		)
		return
	}

	user, err := s.accounts.Authenticate(f.Email, f.Password)
	if errors.Is(err, account.ErrBadCredentials) {
		s.Redirect(w, r,
			resp.Url("/login"),
			resp.Flash(session.Flash{Class: session.FlashWarning, Msg: session.BadCredsMsg}),
		)
		return
	}

	if err != nil {
		s.Redirect(w, r,
			resp.GenericErr(err),
			resp.Code(http.StatusSeeOther),
			resp.Url("/login"),
		)
		return
	}

	sess, err := s.Session(r.Context())
	if err != nil {
		s.Err(w, r, err)
		return
	}

	if err := sess.RegisterUser(w, r, user.ID); err != nil {
		s.Err(w, r, err)
		return
	}

	s.Redirect(w, r)
}

// Logout forgets who the session belongs to and sends the agent to the
// login page.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Session(r.Context())
	if err != nil {
		s.Err(w, r, err)
		return
	}

	if err := sess.DeregisterUser(w, r); err != nil {
		s.Err(w, r, err)
		return
	}

	s.Redirect(w, r,
		resp.Url("/login"),
		resp.Flash(session.Flash{Class: session.FlashInfo, Msg: "You've been logged out."}),
	)
}

// user pulls the traillog.User the CurrentUser middleware stashed on the
// request context.
func (s *Server) user(ctx context.Context) (traillog.User, error) {
	val, err := s.CurrentUser(ctx)
	if err != nil {
		return traillog.User{}, err
	}

	user, ok := val.(traillog.User)
	if !ok {
		return traillog.User{}, fmt.Errorf("%w: current user is %T", traillog.ErrUnexpected, val)
	}

	return user, nil
}

// entryID parses the {id} path variable.
func entryID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: entry id %q", traillog.ErrNotValid, raw)
	}

	return uint(id), nil
}
