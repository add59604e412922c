package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/altuslabsxyz/revwallet/internal/output"
)

func NewWatchCmd() *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the network for confirmations of pending transactions",
		Long: `Run the confirmation poller in the foreground. Every poll interval it
resolves pending transactions against the indexer and recent blocks,
evicts confirmed entries and refreshes cached balances. Stops after
three consecutive connectivity failures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}

			if metricsAddr != "" {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.Handler())
				go func() {
					if err := http.ListenAndServe(metricsAddr, mux); err != nil {
						output.Warn("metrics server stopped: %v", err)
					}
				}()
				output.Info("serving metrics on %s/metrics", metricsAddr)
			}

			app.Service.StartPolling()
			output.Info("watching %s for confirmations (ctrl-c to stop)", app.Network.Name)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			app.Service.StopPolling()
			if app.Poller.Tripped() {
				output.Error("poller stopped: too many consecutive connectivity failures")
			} else {
				output.Success("poller stopped")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	return cmd
}
