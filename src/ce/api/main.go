package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/relaypoint-io/relaypoint/src/ce/api/router"
	"github.com/relaypoint-io/relaypoint/src/lib/config"
	"github.com/relaypoint-io/relaypoint/src/lib/shttp/limiter"
	"github.com/relaypoint-io/relaypoint/src/lib/shutdown"
	"github.com/relaypoint-io/relaypoint/src/lib/slog"
	"github.com/relaypoint-io/relaypoint/src/lib/tracking"
)

const shutdownTimeout = 15 * time.Second

// serve starts the server in the background and registers its graceful shutdown.
func serve(name string, srv *http.Server) {
	go func() {
		slog.Infof("%s listening on %s", name, srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Errorf("%s stopped: %s", name, err.Error())
			shutdown.Shutdown(shutdownTimeout)
		}
	}()

	shutdown.Subscribe(srv.Shutdown)
}

func main() {
	c := config.Get()

	slog.SetConfig(&slog.Config{
		Colorful: config.IsDevelopment(),
		JSON:     config.IsProduction(),
	})

	r, err := router.Get(c)

	if err != nil {
		slog.Errorf("cannot build router: %s", err.Error())
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	go limiter.Cleanup(ctx, time.Minute)

	shutdown.Subscribe(func(context.Context) error {
		cancel()
		return slog.Sync()
	})

	if c.Tracking.Prometheus {
		serve("prometheus", tracking.Server(c.Tracking.PrometheusPort))
	}

	serve("api server", &http.Server{
		Addr:         fmt.Sprintf(":%s", c.HTTPPort),
		ReadTimeout:  c.HTTPTimeouts.ReadTimeout,
		WriteTimeout: c.HTTPTimeouts.WriteTimeout,
		IdleTimeout:  c.HTTPTimeouts.IdleTimeout,
		Handler:      r.WithContext().WithGzip().Handler(),
	})

	shutdown.Wait(ctx, shutdownTimeout)
}
