package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/thejerf/suture/v4"

	"newznepal/internal/pkg/logger"
)

// HTTPServer runs an *http.Server as a suture service.
type HTTPServer struct {
	server          *http.Server
	shutdownTimeout time.Duration
}

func NewHTTPServer(server *http.Server, shutdownTimeout time.Duration) *HTTPServer {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServer{server: server, shutdownTimeout: shutdownTimeout}
}

func (h *HTTPServer) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", h.server.Addr).Msg("http server listening")
		if err := h.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
		defer cancel()
		if err := h.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

func (h *HTTPServer) String() string { return "http-server" }

// Supervisor builds the process tree: the HTTP server plus the task queue,
// the live hub and the cleanup scheduler.
func (a *App) Supervisor() *suture.Supervisor {
	root := suture.New("newznepal", suture.Spec{
		EventHook:        logEvent,
		FailureThreshold: 5,
		FailureDecay:     30,
		FailureBackoff:   15 * time.Second,
		Timeout:          10 * time.Second,
	})

	root.Add(a.Tasks)
	root.Add(a.Hub)
	root.Add(a.Scheduler)
	root.Add(NewHTTPServer(&http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           a.router,
		ReadHeaderTimeout: 10 * time.Second,
	}, 10*time.Second))

	return root
}

func logEvent(e suture.Event) {
	ev := logger.Warn()
	if e.Type() == suture.EventTypeResume {
		ev = logger.Info()
	}
	ev.Fields(e.Map()).Msg(e.String())
}
