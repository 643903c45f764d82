package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/config"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/pipeline"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/server"
	"github.com/robotsgoodorbad/quickwin-pitch-kit-sub000/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes REST endpoints for analysis jobs, ideas and build plans.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.Open(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer st.Close()

	service := pipeline.NewService(cfg, st)
	srv := server.New(server.Config{Port: servePort}, service)
	return srv.Start()
}
