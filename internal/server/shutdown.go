package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"energy-forecast/internal/config"
)

const hookTimeout = 10 * time.Second

// ShutdownHook runs while the server stops, concurrently with the HTTP
// shutdown.
type ShutdownHook func(ctx context.Context) error

// GracefulServer runs an http.Server as a supervised background task. Start
// binds a free port and returns once the accept loop is running; Stop shuts
// it down and waits for the loop to exit.
type GracefulServer struct {
	server *http.Server
	logger *slog.Logger
	config *config.Config

	mu      sync.RWMutex
	hooks   []ShutdownHook
	group   *errgroup.Group
	done    context.Context
	port    int
	started bool
	stopped bool

	stopOnce sync.Once
	stopErr  error
}

func NewGracefulServer(server *http.Server, logger *slog.Logger, config *config.Config) *GracefulServer {
	return &GracefulServer{
		server: server,
		logger: logger,
		config: config,
	}
}

func (gs *GracefulServer) RegisterShutdownHook(fn ShutdownHook) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	gs.hooks = append(gs.hooks, fn)
}

// Start discovers a free port from the configured base port, binds it and
// starts serving in the background.
func (gs *GracefulServer) Start(ctx context.Context) error {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.stopped {
		return errors.New("server stopped")
	}
	if gs.started {
		return errors.New("server already started")
	}

	ln, port, err := Listen(ctx, gs.config.Server.Host, gs.config.Server.BasePort)
	if err != nil {
		return fmt.Errorf("bind server: %w", err)
	}
	if port != gs.config.Server.BasePort {
		gs.logger.Info("base port busy, using next free port", "base_port", gs.config.Server.BasePort, "port", port)
	}

	gs.port = port
	gs.server.Addr = ln.Addr().String()
	gs.group, gs.done = errgroup.WithContext(context.Background())
	gs.started = true

	gs.group.Go(func() error {
		gs.logger.Info("serving dashboard", "addr", gs.server.Addr)
		if err := gs.server.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	return nil
}

func (gs *GracefulServer) Port() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()
	return gs.port
}

// URL returns the http URL of path on the bound address.
func (gs *GracefulServer) URL(path string) string {
	host := net.JoinHostPort(gs.config.Server.Host, strconv.Itoa(gs.Port()))
	return "http://" + host + "/" + path
}

// Run blocks until ctx is cancelled or the serve loop fails, then stops the
// server within the configured shutdown timeout.
func (gs *GracefulServer) Run(ctx context.Context) error {
	gs.mu.RLock()
	started, done := gs.started, gs.done
	gs.mu.RUnlock()
	if !started {
		return errors.New("server not started")
	}

	select {
	case <-done.Done():
		gs.logger.Error("serve loop exited unexpectedly")
	case <-ctx.Done():
		gs.logger.Info("stop requested", "reason", context.Cause(ctx))
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), gs.config.Server.ShutdownTimeout)
	defer cancel()
	return gs.Stop(stopCtx)
}

// Stop shuts the server down and waits for the serve loop. Later calls
// return the first result. A stopped server cannot be started again, even
// when Stop ran before Start.
func (gs *GracefulServer) Stop(ctx context.Context) error {
	gs.mu.Lock()
	gs.stopped = true
	started := gs.started
	gs.mu.Unlock()
	if !started {
		return nil
	}

	gs.stopOnce.Do(func() {
		err := gs.shutdown(ctx)
		gs.stopErr = errors.Join(err, gs.group.Wait())
	})
	return gs.stopErr
}

func (gs *GracefulServer) shutdown(ctx context.Context) error {
	gs.mu.RLock()
	hooks := append([]ShutdownHook(nil), gs.hooks...)
	gs.mu.RUnlock()

	gs.logger.Info("stopping server", "addr", gs.server.Addr, "hooks", len(hooks))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	record := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	for i, hook := range hooks {
		wg.Go(func() {
			hookCtx, cancel := context.WithTimeout(ctx, hookTimeout)
			defer cancel()
			if err := hook(hookCtx); err != nil {
				gs.logger.Error("shutdown hook failed", "hook", i, "error", err)
				record(fmt.Errorf("shutdown hook %d: %w", i, err))
			}
		})
	}

	wg.Go(func() {
		if err := gs.server.Shutdown(ctx); err != nil {
			// Connections still open past the deadline are cut.
			gs.server.Close()
			record(fmt.Errorf("http shutdown: %w", err))
		}
	})

	finished := make(chan struct{})
	go func() {
		wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
	case <-ctx.Done():
		gs.logger.Warn("shutdown deadline exceeded, closing connections")
		gs.server.Close()
		return ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	if len(errs) == 0 {
		gs.logger.Info("server stopped")
	}
	return errors.Join(errs...)
}
