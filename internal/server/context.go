package server

import (
	"context"
	"sync"

	"github.com/modelcal/caldav-mcp/internal/caldav"
	"github.com/modelcal/caldav-mcp/internal/config"
	"github.com/modelcal/caldav-mcp/internal/instrumentation"
	"github.com/modelcal/caldav-mcp/internal/logging"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx       context.Context
	cancel    context.CancelFunc
	registry  *caldav.Registry
	connected bool
	readOnly  bool

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	logger   logging.Logger
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context for the given CalDAV
// accounts. Accounts are not connected here; the first call to Registry
// performs discovery so that a slow or unreachable server does not delay
// startup.
func NewServerContext(ctx context.Context, accounts []config.AccountConfig, logger logging.Logger, readOnly bool) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if logger == nil {
		logger = logging.DefaultLogger()
	}

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		registry: caldav.NewRegistry(accounts, logger),
		readOnly: readOnly,
		logger:   logger,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Registry returns the account registry, connecting the accounts on
// first use. Connection state is cached; a registry where at least one
// account connected successfully is reused for the lifetime of the
// server.
func (sc *ServerContext) Registry(ctx context.Context) (*caldav.Registry, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.connected {
		return sc.registry, nil
	}

	if err := sc.registry.Connect(ctx); err != nil {
		return nil, err
	}

	sc.connected = true
	return sc.registry, nil
}

// ReadOnly reports whether write tools are disabled.
func (sc *ServerContext) ReadOnly() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.readOnly
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() logging.Logger {
	return sc.logger
}

// SetMetrics sets the metrics recorder used by instrumented tool handlers
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
}

// Metrics returns the metrics recorder, or nil if instrumentation is not configured
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger used by instrumented tool handlers
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// AuditLogger returns the audit logger, or nil if audit logging is not configured
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
