package http

// this is entry point of the http request handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"gitlab.com/docforge.net/internal/config"
	"gitlab.com/docforge.net/internal/core/ports/primary"
	auth2 "gitlab.com/docforge.net/internal/core/services/auth"
	"gitlab.com/docforge.net/internal/core/services/compile"
	"gitlab.com/docforge.net/internal/core/services/generate"
	"gitlab.com/docforge.net/internal/core/services/job"
	"gitlab.com/docforge.net/internal/handlers"
	"gitlab.com/docforge.net/internal/handlers/auth"
	"gitlab.com/docforge.net/internal/handlers/compiler"
	"gitlab.com/docforge.net/internal/handlers/generator"
	"gitlab.com/docforge.net/internal/handlers/jobs"
	"gitlab.com/docforge.net/internal/metrics"
)

type ServiceProvider struct {
	compileService  compile.ICompileService
	generateService generate.IGenerateService
	jobService      job.IJobService
	authService     auth2.IAuthService
	registry        *prometheus.Registry
}

func NewServiceProvider(
	compileService compile.ICompileService,
	generateService generate.IGenerateService,
	jobService job.IJobService,
	authService auth2.IAuthService,
	registry *prometheus.Registry,
) *ServiceProvider {
	return &ServiceProvider{
		compileService:  compileService,
		generateService: generateService,
		jobService:      jobService,
		authService:     authService,
		registry:        registry,
	}
}

type Server struct {
	router          *mux.Router
	cfg             *config.HTTPConfig
	requireToken    bool
	ServiceProvider ServiceProvider
	logger          primary.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	done     chan struct{}
}

// NewServer builds the server; requireToken puts every /api route behind the JWT middleware
func NewServer(cfg *config.HTTPConfig, requireToken bool, serviceProvider ServiceProvider, logger primary.Logger) *Server {
	return &Server{
		cfg:             cfg,
		requireToken:    requireToken,
		ServiceProvider: serviceProvider,
		logger:          logger,
	}
}

func (s *Server) Init() error {
	sp := s.ServiceProvider
	if sp.compileService == nil || sp.jobService == nil || sp.generateService == nil {
		return errors.New("http server: compile, generate and job services are required")
	}
	if s.requireToken && sp.authService == nil {
		return errors.New("http server: token auth enabled without an auth service")
	}

	mw := handlers.NewMiddlewareProvider(sp.authService, s.logger)
	r := mux.NewRouter()
	r.Use(mw.LoggingMiddleware)

	handlers.NewHealthHandler(s.cfg.ServiceName).RegisterRoutes(r)
	if sp.registry != nil {
		r.Handle("/metrics", metrics.HTTPHandler(sp.registry)).Methods("GET")
	}
	if sp.authService != nil {
		auth.NewHandler(sp.authService, s.logger).RegisterRoutes(r)
	}

	api := r.PathPrefix("/api").Subrouter()
	if s.requireToken {
		api.Use(mw.JWTMiddleware)
	}
	compiler.NewHandler(sp.compileService, s.cfg.MaxBodyBytes, s.logger).RegisterRoutes(api)
	generator.NewHandler(sp.generateService, s.cfg.MaxBodyBytes, s.logger).RegisterRoutes(api)
	jobs.NewJobHandler(sp.jobService, s.logger).RegisterRoutes(api)

	s.router = r
	return nil
}

// Handler exposes the router, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start binds the port and serves in the background
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("http server: Init must be called before Start")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", s.cfg.Port, err)
	}

	writeTimeout := s.cfg.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 2 * time.Minute
	}
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	s.mu.Lock()
	s.srv, s.listener, s.done = srv, ln, make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		defer close(done)
		s.logger.Info("Server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Server error", "error", err)
		}
	}()
	return nil
}

// Addr is the bound address once started
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop drains in-flight requests until ctx ends
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.srv, s.done
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.logger.Info("Shutting down http server...")
	err := srv.Shutdown(ctx)
	<-done
	if err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
