// Package keepalive answers hosting-platform health probes so free-tier
// deployments are not idled out between ticks.
package keepalive

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// Serve blocks serving a single health route on addr until ctx is
// cancelled, then drains in-flight probes and shuts down.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "Bot is running!")
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	log.Printf("[keepalive] listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("[keepalive] shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
