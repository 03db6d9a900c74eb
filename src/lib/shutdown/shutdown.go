package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/relaypoint-io/relaypoint/src/lib/slog"
)

var (
	fns []func(context.Context) error
	mux sync.Mutex
)

// Subscribe registers a clean up function. Functions run in reverse
// registration order, so resources are released before their dependencies.
func Subscribe(fn func(ctx context.Context) error) {
	mux.Lock()
	defer mux.Unlock()
	fns = append(fns, fn)
}

// Wait blocks until the process receives SIGINT or SIGTERM, or until the
// given context is done, and then runs the clean up functions.
func Wait(ctx context.Context, timeout time.Duration) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	Shutdown(timeout)
}

// Shutdown runs the clean up functions, giving them at most timeout to finish.
func Shutdown(timeout time.Duration) {
	slog.Info("running clean up operations")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	mux.Lock()
	hooks := fns
	fns = nil
	mux.Unlock()

	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			slog.Errorf("error while shutting down: %s", err.Error())
		}
	}
}
