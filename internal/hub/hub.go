// ABOUTME: Hub orchestrator that coordinates the gRPC and HTTP servers
// ABOUTME: Manages the store, session table, router, replay, and shutdown lifecycle

package hub

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"

	"github.com/agentmesh/meshhub/internal/auth"
	"github.com/agentmesh/meshhub/internal/config"
	"github.com/agentmesh/meshhub/internal/registry"
	"github.com/agentmesh/meshhub/internal/session"
	"github.com/agentmesh/meshhub/internal/store"
	pb "github.com/agentmesh/meshhub/proto/mesh"
)

// Hub orchestrates the meshhub server components: the gRPC surface agents
// connect to and the HTTP surface serving the query API, SSE, and health.
type Hub struct {
	config     *config.Config
	store      store.Store
	sessions   *session.Table
	router     *Router
	replay     *replayLoop
	tokens     *auth.JWTVerifier
	grpcServer *grpc.Server
	httpServer *http.Server
	logger     *slog.Logger

	// serverID identifies this hub instance
	serverID string
}

// openStore creates the message store selected by config. MESHHUB_DB_PATH
// overrides the configured SQLite path for container deployments.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		s, err := store.NewPostgresStore(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return s, nil
	default:
		path := cfg.Database.Path
		if envPath := os.Getenv("MESHHUB_DB_PATH"); envPath != "" {
			path = envPath
		}
		s, err := store.NewSQLiteStore(path)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return s, nil
	}
}

// newGRPCServer creates the gRPC server with keepalive policy and the
// stream auth interceptor. Registration is the only unary method and is
// deliberately open, so no unary interceptor is installed.
func newGRPCServer(tokens *auth.JWTVerifier, logger *slog.Logger) *grpc.Server {
	return grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    15 * time.Second,
			Timeout: 5 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             5 * time.Second,
			PermitWithoutStream: true,
		}),
		grpc.ChainStreamInterceptor(
			auth.StreamInterceptor(tokens, logger.With("component", "auth")),
		),
	)
}

// New creates a Hub instance with the given configuration.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Hub, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewJWTVerifier([]byte(cfg.Auth.JWTSecret))
	sessions := session.NewTable(cfg.Sessions.QueueSize, logger.With("component", "sessions"))

	h := &Hub{
		config:   cfg,
		store:    st,
		sessions: sessions,
		router:   NewRouter(sessions, logger.With("component", "router")),
		replay:   newReplayLoop(st, cfg.Replay.PollInterval, cfg.Replay.MaxBackoff, logger.With("component", "replay")),
		tokens:   tokens,
		logger:   logger.With("component", "hub"),
		serverID: generateServerID(),
	}

	h.grpcServer = newGRPCServer(tokens, logger)
	registrySvc := registry.NewService(tokens, cfg.Auth.TokenTTL, logger.With("component", "registry"))
	pb.RegisterAgentRegistryServer(h.grpcServer, registrySvc)
	pb.RegisterAgentCommServer(h.grpcServer, newCommServer(h, logger.With("component", "stream")))

	mux := http.NewServeMux()
	h.registerHTTPRoutes(mux)
	h.httpServer = &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return h, nil
}

// setupTCPListeners creates TCP listeners for gRPC and HTTP.
func (h *Hub) setupTCPListeners() (grpcLn, httpLn net.Listener, err error) {
	h.logger.Info("starting hub",
		"server_id", h.serverID,
		"grpc_addr", h.config.Server.GRPCAddr,
		"http_addr", h.config.Server.HTTPAddr,
		"database_driver", h.config.Database.Driver,
	)

	grpcLn, err = net.Listen("tcp", h.config.Server.GRPCAddr)
	if err != nil {
		return nil, nil, fmt.Errorf("listening on gRPC address: %w", err)
	}

	httpLn, err = net.Listen("tcp", h.config.Server.HTTPAddr)
	if err != nil {
		_ = grpcLn.Close()
		return nil, nil, fmt.Errorf("listening on HTTP address: %w", err)
	}

	return grpcLn, httpLn, nil
}

// startServers starts the gRPC and HTTP servers in goroutines, returning
// an error channel.
func (h *Hub) startServers(grpcLn, httpLn net.Listener) chan error {
	errCh := make(chan error, 2)

	go func() {
		h.logger.Info("gRPC server listening", "addr", grpcLn.Addr().String())
		if err := h.grpcServer.Serve(grpcLn); err != nil {
			errCh <- fmt.Errorf("gRPC server: %w", err)
		}
	}()

	go func() {
		h.logger.Info("HTTP server listening", "addr", httpLn.Addr().String())
		if err := h.httpServer.Serve(httpLn); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server: %w", err)
		}
	}()

	return errCh
}

// waitForShutdownSignal waits for context cancellation or a server error.
func (h *Hub) waitForShutdownSignal(ctx context.Context, errCh chan error) error {
	select {
	case <-ctx.Done():
		h.logger.Info("context canceled, initiating shutdown")
		return nil
	case err := <-errCh:
		h.logger.Error("server error", "error", err)
		h.drainErrors(errCh)
		return err
	}
}

// drainErrors drains any remaining errors from the channel.
func (h *Hub) drainErrors(errCh chan error) {
	select {
	case additionalErr := <-errCh:
		h.logger.Error("additional server error", "error", additionalErr)
	default:
	}
}

// Run starts the hub servers and blocks until the context is canceled.
// Returns nil on graceful shutdown, or an error if a server fails.
func (h *Hub) Run(ctx context.Context) error {
	grpcListener, httpListener, err := h.setupTCPListeners()
	if err != nil {
		return err
	}

	errCh := h.startServers(grpcListener, httpListener)
	serverErr := h.waitForShutdownSignal(ctx, errCh)

	shutdownErr := h.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is
// already canceled.
func (h *Hub) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return h.Shutdown(ctx)
}

// shutdownGRPCServer gracefully stops the gRPC server or force-stops on
// context cancel.
func (h *Hub) shutdownGRPCServer(ctx context.Context) {
	stopped := make(chan struct{})
	go func() {
		h.grpcServer.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-ctx.Done():
		h.grpcServer.Stop()
	}
}

// appendCloseError appends an error with label if err is non-nil.
func appendCloseError(errs []error, label string, err error) []error {
	if err != nil {
		return append(errs, fmt.Errorf("%s: %w", label, err))
	}
	return errs
}

// Shutdown gracefully stops the hub servers and releases resources.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.logger.Info("shutting down hub")

	var errs []error
	errs = appendCloseError(errs, "HTTP shutdown", h.httpServer.Shutdown(ctx))

	// Session teardown first: in-flight stream handlers observe Done and
	// return, which lets GracefulStop complete instead of timing out.
	h.sessions.CloseAll()
	h.shutdownGRPCServer(ctx)

	errs = appendCloseError(errs, "store close", h.store.Close())

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	return nil
}

// generateServerID creates a unique identifier for this hub instance.
func generateServerID() string {
	return fmt.Sprintf("meshhub-%d", time.Now().UnixNano()%1000000)
}
