package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/skillforge/skillforge/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.New(server.Config{
		Port:      a.cfg.Port,
		DB:        a.db,
		Engine:    a.engine,
		Ingestion: a.ingestion,
		Logger:    a.log,
	})
	if err != nil {
		return err
	}

	return srv.Start()
}
