package resp

import (
	"net/url"

	"github.com/ridgepath/traillog/http/template"
	"github.com/ridgepath/traillog/logger"
)

// A ResponderOptFn mutates the *Responder under construction in NewResponder.
type ResponderOptFn func(*Responder)

// WithAuthTemplate sets the base template to render
// when a user is logged in.
func WithAuthTemplate(fp string) ResponderOptFn {
	return func(d *Responder) {
		d.templates.authed = fp
	}
}

// WithContactErrMsg sets the error message
// used when a generic error flash is set in a session.
func WithContactErrMsg(msg string) ResponderOptFn {
	return func(d *Responder) {
		d.contactErrMsg = msg
	}
}

// WithErrTemplate sets the template to render
// when an error occurs and no other response can be formed.
func WithErrTemplate(fp string) ResponderOptFn {
	return func(d *Responder) {
		d.templates.err = fp
	}
}

// WithLogger sets the logger the Responder logs with.
func WithLogger(l logger.Logger) ResponderOptFn {
	return func(d *Responder) {
		d.logger = l
	}
}

// WithParser sets the template.Parser the Responder renders HTML with.
func WithParser(p template.Parser) ResponderOptFn {
	return func(d *Responder) {
		d.parser = p
	}
}

// WithRootUrl sets the URL the Responder redirects to by default.
// An invalid URL panics given the Responder cannot function without one.
func WithRootUrl(u string) ResponderOptFn {
	return func(d *Responder) {
		parsed, err := url.ParseRequestURI(u)
		if err != nil {
			panic(err)
		}

		d.rootUrl = parsed
	}
}

// WithUnauthTemplate sets the base template to render
// when a user is not logged in.
func WithUnauthTemplate(fp string) ResponderOptFn {
	return func(d *Responder) {
		d.templates.unauthed = fp
	}
}
