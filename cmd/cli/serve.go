package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (and the scheduler when enabled)",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(loadConfig())
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}
		defer app.Close()

		srv := &http.Server{
			Addr:    ":" + app.Config.Port,
			Handler: app.Handler().Router(),
		}

		sched := app.Scheduler()
		if sched != nil {
			sched.Start()
		}

		errChan := make(chan error, 1)
		go func() {
			log.Printf("Server starting on port %s", app.Config.Port)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errChan <- err
			}
			close(errChan)
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigChan:
			log.Println("Shutting down gracefully...")
		case err := <-errChan:
			if sched != nil {
				sched.Stop()
			}
			return err
		}

		if sched != nil {
			sched.Stop()
		}

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		log.Println("Server stopped")
		return nil
	},
}
