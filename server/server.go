// Package server wires every component of the trail log together and
// runs the web server.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	traillog "github.com/ridgepath/traillog"
	"github.com/ridgepath/traillog/account"
	"github.com/ridgepath/traillog/http/keyring"
	"github.com/ridgepath/traillog/http/middleware"
	"github.com/ridgepath/traillog/http/req"
	"github.com/ridgepath/traillog/http/resp"
	"github.com/ridgepath/traillog/http/router"
	"github.com/ridgepath/traillog/http/session"
	"github.com/ridgepath/traillog/http/template"
	"github.com/ridgepath/traillog/logger"
	"github.com/ridgepath/traillog/postgres"
	"github.com/ridgepath/traillog/tmpl"
	"github.com/ridgepath/traillog/trailop"
)

const shutdownTimeout = 5 * time.Second

// A Server manages and exposes all components of the trail log to one
// another.
type Server struct {
	*resp.Responder

	accounts account.Service
	cancel   context.CancelFunc
	env      traillog.Environment
	kr       keyring.Keyringable
	l        logger.Logger
	parse    *req.Parser
	router   *router.Router
	sessions session.SessionStorer
	srv      *http.Server
	trails   trailop.Service
}

// New constructs a *Server from the Config, connecting to the database
// and running migrations along the way.
func New(cfg *Config) (*Server, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	l := logger.New(logger.WithLevel(cfg.LogLevel))

	gdb, err := postgres.Connect(cfg.DB, migrations, cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to postgres: %s", traillog.ErrBadConfig, err)
	}
	db := postgres.NewDB(gdb)

	kr := keyring.NewKeyring(
		traillog.SessionKey,
		traillog.CurrentUserKey,
		traillog.IpAddrKey,
		traillog.RequestIDKey,
	)

	sessionOpts := []session.ServiceOpt{}
	if cfg.RedisURI != "" {
		sessionOpts = append(sessionOpts, session.WithRedis(cfg.RedisURI, cfg.RedisPass))
	}

	sessions, err := session.NewStoreService(session.Config{
		Env:        cfg.Env,
		AuthKey:    cfg.SessionAuthKey,
		EncryptKey: cfg.SessionEncryptKey,
	}, sessionOpts...)
	if err != nil {
		return nil, err
	}

	parser := template.NewParser(
		template.WithFS(tmpl.FS),
		template.WithFn(template.Env(cfg.Env)),
	)

	d := resp.NewResponder(
		resp.WithLogger(l),
		resp.WithParser(parser),
		resp.WithRootUrl(cfg.BaseURL),
		resp.WithAuthTemplate("layout/authenticated_base.tmpl"),
		resp.WithUnauthTemplate("layout/unauthenticated_base.tmpl"),
		resp.WithErrTemplate("error.tmpl"),
		resp.WithContactErrMsg(session.DefaultErrMsg),
	)

	s := &Server{
		Responder: d,
		accounts:  account.NewService(db, account.WithHashCost(cfg.HashCost)),
		env:       cfg.Env,
		kr:        kr,
		l:         l,
		parse:     req.NewParser(),
		sessions:  sessions,
		trails:    trailop.NewService(db),
	}

	s.router = s.buildRouter(cfg)
	s.srv = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s, nil
}

// buildRouter registers every route behind the appropriate middleware
// stack.
func (s *Server) buildRouter(cfg *Config) *router.Router {
	logReq := middleware.LogRequest(s.l)
	r := router.New(s.env, logReq)

	r.OnEveryRequest(
		middleware.RateLimit(middleware.NewVisitors()),
		middleware.ForceHTTPS(s.env),
		middleware.CORS(cfg.BaseURL),
		middleware.InjectIPAddress(),
		middleware.RequestID(s.kr.Key(traillog.RequestIDKey.Key())),
		logReq,
		middleware.InjectSession(s.sessions, s.kr.SessionKey()),
		middleware.CurrentUser(s.Responder, s.lookupUser, s.kr.SessionKey(), s.kr.CurrentUserKey()),
	)

	var cache middleware.IdempotencyCacher
	if cfg.RedisURI != "" {
		cache = middleware.NewRedisCache(&redis.Options{Addr: cfg.RedisURI, Password: cfg.RedisPass})
	}

	r.AuthedRoutes(s.kr.CurrentUserKey(), "/login", "/logout", []router.Route{
		{Path: "/", Method: http.MethodGet, Handler: s.Index},
		{Path: "/", Method: http.MethodPost, Handler: s.CreateEntry,
			Middlewares: []middleware.Adapter{middleware.Idempotent(cache)}},
		{Path: "/update/{id}", Method: http.MethodGet, Handler: s.ShowUpdate},
		{Path: "/update/{id}", Method: http.MethodPost, Handler: s.ApplyUpdate},
		{Path: "/delete/{id}", Method: http.MethodGet, Handler: s.DeleteEntry},
		{Path: "/logout", Method: http.MethodGet, Handler: s.Logout},
	})

	r.UnauthedRoutes(s.kr.CurrentUserKey(), []router.Route{
		{Path: "/register", Method: http.MethodGet, Handler: s.ShowRegister},
		{Path: "/register", Method: http.MethodPost, Handler: s.Register},
		{Path: "/login", Method: http.MethodGet, Handler: s.ShowLogin},
		{Path: "/login", Method: http.MethodPost, Handler: s.Login},
	})

	r.HandleNotFound(s.NotFound)

	return r
}

// lookupUser adapts the account service to the middleware.UserStorer
// the CurrentUser middleware wants.
func (s *Server) lookupUser(id uint) (middleware.User, error) {
	user, err := s.accounts.Lookup(id)
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Run begins the web server.
//
// These, and (*Server).Shutdown, stop Run:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (s *Server) Run() error {
	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())

	ch := make(chan os.Signal, 1)
	signal.Notify(
		ch,
		os.Interrupt,
		syscall.SIGHUP,
		syscall.SIGINT,
		syscall.SIGQUIT,
		syscall.SIGTERM,
	)

	go func() {
		sig := <-ch
		s.l.Info(fmt.Sprint("received shutdown signal: ", sig), nil)
		s.cancel()
	}()

	go func() {
		s.l.Info(fmt.Sprintf("running web server at %s", s.srv.Addr), nil)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			err = fmt.Errorf("could not listen: %w", err)
			s.l.Error(err.Error(), nil)
			s.cancel()
		}
	}()

	<-ctx.Done()
	return s.Shutdown()
}

// Shutdown drains in-flight requests and stops the web server.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.l.Info("shutting down web server", nil)
	err := s.srv.Shutdown(ctx)
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	s.l.Info("web server shutdown successfully", nil)
	return nil
}
