package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mockd/mockd/internal/config"
)

const shutdownTimeout = 10 * time.Second

func ServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve mock responses for every operation in an OpenAPI document",
		RunE:  runServe,
	}
	config.BindServeFlags(cmd)
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	_, log, srv, err := setup(cmd)
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		return err
	}
	log.Info("serving", "addr", srv.Addr())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
