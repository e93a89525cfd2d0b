package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/prometheus"
	httpapi "github.com/Hamaduzi123/ip/internal/interfaces/http"
)

func newServeCommand(app *appContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over the REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics := prometheus.New()
			svc, err := app.buildService(metrics)
			if err != nil {
				return err
			}

			server := httpapi.NewServer(app.cfg.Server, httpapi.RouterConfig{
				Pipeline: svc,
				Metrics:  metrics,
				Logger:   app.logger,
			})

			errCh := make(chan error, 1)
			go func() { errCh <- server.Start() }()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				app.logger.Info("shutdown signal received", logging.String("signal", sig.String()))
			}

			ctx, cancel := context.WithTimeout(context.Background(), app.cfg.Server.ShutdownTimeout)
			defer cancel()
			return server.Stop(ctx)
		},
	}
}
