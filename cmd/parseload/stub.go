package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/parseload/internal/exitcode"
	"github.com/gyeh/parseload/internal/logging"
	"github.com/gyeh/parseload/internal/stubserver"
)

var stubDelay time.Duration

var stubCmd = &cobra.Command{
	Use:   "stub",
	Short: "Serve a stand-in parse endpoint for local smoke runs",
	RunE:  runStub,
}

func init() {
	f := stubCmd.Flags()
	f.StringVar(&cfg.ListenAddr, "listen", cfg.ListenAddr, "Listen address")
	f.DurationVar(&stubDelay, "delay", 0, "Hold every parse request this long before answering")
	rootCmd.AddCommand(stubCmd)
}

func runStub(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	srv := stubserver.New(stubserver.WithDelay(stubDelay))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.ListenAddr)
	}()
	log.Info().Str("addr", cfg.ListenAddr).Msg("stub parse service listening")

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("stub server failed")
			os.Exit(exitcode.UsageError)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("stub server shutdown")
		}
	}

	log.Info().Int64("requests", srv.Requests()).Int64("peak_in_flight", srv.PeakInFlight()).Msg("stub parse service stopped")
	return nil
}
