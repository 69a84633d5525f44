package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tinytelemetry/campus/internal/dashboard"
	"github.com/tinytelemetry/campus/internal/httpserver"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard as a JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts.configPath, cmd.Flags())
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("api-addr", "", "listen address (default 127.0.0.1:<api-port>)")
	cmd.Flags().Int("api-port", defaultAPIPort, "listen port when api-addr is unset")
	return cmd
}

// runServe serves the API until ctx is cancelled or the listener fails.
func runServe(ctx context.Context, cfg appConfig, out io.Writer) error {
	log, closeLog := openLogger(cfg)
	defer closeLog()

	source, closeSource, err := openSource(cfg, log)
	if err != nil {
		return err
	}
	defer closeSource()

	srv := httpserver.NewServer(cfg.APIAddr, source, dashboard.SlogTracer{Logger: log}, log)
	if err := srv.Start(); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	fmt.Fprintf(out, "campus API listening on http://%s\n", srv.Addr())
	log.Info("api server started", "addr", srv.Addr(), "source", cfg.DataSource)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case err, ok := <-srv.Err():
			if ok {
				return fmt.Errorf("API server: %w", err)
			}
		case <-gctx.Done():
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("api server stopping")
		return srv.Stop()
	})
	return g.Wait()
}
