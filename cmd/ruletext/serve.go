package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/nihei9/ruletext/server"
	"github.com/spf13/cobra"
)

var serveFlags = struct {
	addr         *string
	allowOrigins *[]string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the codecs as a JSON REST API",
		Example: `  ruletext serve --addr :8080 --allow-origin https://example.com`,
		Args:    cobra.NoArgs,
		RunE:    runServe,
	}
	serveFlags.addr = cmd.Flags().String("addr", ":8080", "listen address")
	serveFlags.allowOrigins = cmd.Flags().StringSlice("allow-origin", nil, "origin allowed by CORS (default any origin)")
	rootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	srv := &http.Server{
		Addr: *serveFlags.addr,
		Handler: server.New(server.Config{
			AllowedOrigins: *serveFlags.allowOrigins,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("ruletext API listening on %s", srv.Addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
