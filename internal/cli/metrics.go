package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/translation-desk/internal/app"
	"github.com/heartmarshall/translation-desk/internal/transport/rest"
)

func newMetricsCmd(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Run the desk headless and serve metrics and health probes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx, opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			a.Start(ctx)

			health := rest.NewHealthHandler(a, a.Channel, a, app.BuildVersion())
			srv := &http.Server{
				Addr:              addr,
				Handler:           rest.NewOpsHandler(a.Logger(), a.Metrics().Handler(), health),
				ReadHeaderTimeout: 5 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.Logger().Info("ops server listening", slog.String("addr", addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return writeErr(cmd, fmt.Errorf("metrics server: %w", err))
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9464", "Listen address")
	return cmd
}
