package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/torneoops/matchday/internal/core/domain"
	"github.com/torneoops/matchday/pkg/logger"
)

// watchCmd keeps the process alive so the expiration timers actually run:
// the near-expiry warning and the at-expiry teardown both happen while
// watching. With MATCHDAY_METRICS_ADDR set it also serves /metrics.
func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Hold the session open and react to expiry timers",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context())
			if err != nil {
				return err
			}
			if !a.session.CurrentState().Authenticated {
				return fmt.Errorf("no session to watch; run `matchday login` first")
			}

			unsubscribe := a.session.Subscribe(func(st domain.AuthState) {
				fmt.Printf("session: phase=%s authenticated=%t\n", st.Phase, st.Authenticated)
			})
			defer unsubscribe()

			if addr := a.cfg.MetricsAddr; addr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				go func() {
					log := logger.Component("metrics")
					log.Info().Str("addr", addr).Msg("serving metrics")
					if err := http.ListenAndServe(addr, mux); err != nil {
						log.Error().Err(err).Msg("metrics server stopped")
					}
				}()
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			for {
				select {
				case <-stop:
					fmt.Println("bye")
					return nil
				case <-cmd.Context().Done():
					return nil
				}
			}
		},
	}
}
