package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/storefront-core/internal/audit"
	"github.com/nerrad567/storefront-core/internal/auth"
	"github.com/nerrad567/storefront-core/internal/catalog"
	"github.com/nerrad567/storefront-core/internal/infrastructure/config"
	"github.com/nerrad567/storefront-core/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// EventPublisher broadcasts state changes on the message bus.
// *mqtt.Client satisfies it.
type EventPublisher interface {
	PublishMaintenance(enabled bool, actorID string) error
	PublishEvent(topic, event, subjectID, actorID string) error
}

// TelemetryWriter records security outcomes as time-series points.
// *influxdb.Client satisfies it.
type TelemetryWriter interface {
	WriteAuthOutcome(outcome string)
	WriteGateRejection(gate, role string)
	WriteMaintenanceChange(enabled bool, actorID string)
}

// HealthChecker is implemented by infrastructure the health endpoint probes.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Deps holds the dependencies required by the API server.
// Events, Telemetry, SystemLogs and DB are optional.
type Deps struct {
	Config      config.APIConfig
	Logger      *logging.Logger
	Users       auth.UserRepository
	Tokens      *auth.TokenService
	Cookies     *auth.SessionCookies
	Maintenance *auth.MaintenanceState
	Categories  catalog.Repository
	SystemLogs  audit.Repository
	Events      EventPublisher
	Telemetry   TelemetryWriter
	DB          HealthChecker
	Version     string
}

// Server is the HTTP API server for Storefront Core.
//
// It is created with New() and started with Start().
type Server struct {
	cfg         config.APIConfig
	logger      *logging.Logger
	users       auth.UserRepository
	tokens      *auth.TokenService
	cookies     *auth.SessionCookies
	authn       *auth.Authenticator
	maintenance *auth.MaintenanceState
	categories  catalog.Repository
	systemLogs  audit.Repository
	events      EventPublisher
	telemetry   TelemetryWriter
	db          HealthChecker
	version     string
	metrics     *metrics
	handler     http.Handler
	server      *http.Server
	auditCh     chan *audit.SystemLog
	auditDone   chan struct{}
	cancel      context.CancelFunc // stops the system log writer on Close()
	now         func() time.Time
}

// New creates a new API server with the given dependencies.
//
// The server is not started until Start() is called, but Handler() is
// usable immediately.
func New(deps Deps) (*Server, error) {
	switch {
	case deps.Logger == nil:
		return nil, errors.New("logger is required")
	case deps.Users == nil:
		return nil, errors.New("user repository is required")
	case deps.Tokens == nil:
		return nil, errors.New("token service is required")
	case deps.Cookies == nil:
		return nil, errors.New("session cookies are required")
	case deps.Maintenance == nil:
		return nil, errors.New("maintenance state is required")
	case deps.Categories == nil:
		return nil, errors.New("category repository is required")
	}

	s := &Server{
		cfg:         deps.Config,
		logger:      deps.Logger,
		users:       deps.Users,
		tokens:      deps.Tokens,
		cookies:     deps.Cookies,
		maintenance: deps.Maintenance,
		categories:  deps.Categories,
		systemLogs:  deps.SystemLogs,
		events:      deps.Events,
		telemetry:   deps.Telemetry,
		db:          deps.DB,
		version:     deps.Version,
		metrics:     newMetrics(),
		now:         time.Now,
	}
	s.authn = auth.NewAuthenticator(deps.Tokens, deps.Cookies, deps.Users,
		deps.Logger.With("component", "auth").Logger)
	if s.systemLogs != nil {
		s.auditCh = make(chan *audit.SystemLog, auditChanSize)
	}
	s.metrics.setMaintenance(s.maintenance.Enabled())
	s.handler = s.buildRouter()

	return s, nil
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start launches the system log writer and the HTTP listener in background
// goroutines. The server can be stopped with Close().
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	if s.auditCh != nil {
		s.auditDone = make(chan struct{})
		go func() {
			defer close(s.auditDone)
			s.drainAuditLog(srvCtx)
		}()
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.handler,
		ReadTimeout:       s.cfg.ReadTimeout(),
		ReadHeaderTimeout: s.cfg.ReadTimeout(),
		WriteTimeout:      s.cfg.WriteTimeout(),
		IdleTimeout:       s.cfg.IdleTimeout(),
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			s.logger.Info("API server starting", "address", s.server.Addr)
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the API server.
//
// It waits up to 10 seconds for in-flight requests to complete, then
// flushes queued system log entries.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	err := s.server.Shutdown(ctx)

	if s.cancel != nil {
		s.cancel()
	}
	if s.auditDone != nil {
		<-s.auditDone
	}

	if err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return errors.New("api server not started")
	}
	return nil
}

// publishEvent broadcasts an event when a publisher is configured.
// Failures are logged; the bus is never on the request's critical path.
func (s *Server) publishEvent(topic, event, subjectID, actorID string) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishEvent(topic, event, subjectID, actorID); err != nil {
		s.logger.Warn("event publish failed", "topic", topic, "event", event, "error", err)
	}
}
