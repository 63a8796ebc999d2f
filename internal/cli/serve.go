package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lazypower/halflife/internal/logging"
	"github.com/lazypower/halflife/internal/server"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

// Sessions left open this long are abandoned by the janitor.
const staleSession = 12 * time.Hour

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.For("serve")

	eng, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()
	eng.StartJanitor(time.Hour, staleSession)

	srv := server.New(eng, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":  addr,
			"db":    eng.DB.Path,
			"decks": cfg.Decks.Dir,
		}).Info("halflife serving")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-done:
	case err := <-errCh:
		return err
	}
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
