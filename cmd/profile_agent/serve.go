package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-analyzer/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local analysis server",
	Long:  `Start an HTTP server that speaks the analysis service wire contract, producing deterministic rule-based feedback for local development and testing.`,
	RunE:  runServe,
}

var (
	servePort       int
	serveChunkSize  int
	serveConfigPath string
	serveVerbose    bool
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8000, "Port to listen on")
	serveCmd.Flags().IntVar(&serveChunkSize, "chunk-size", 0, "Stream chunk size in characters (0 uses the default)")
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to config JSON file")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed request information")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(serveConfigPath)
	if err != nil {
		return err
	}

	// The flag wins when given explicitly; otherwise a configured port applies.
	port := servePort
	if !cmd.Flags().Changed("port") && cfg.Port != 0 {
		port = cfg.Port
	}

	chunkSize := serveChunkSize
	if chunkSize == 0 {
		chunkSize = cfg.StreamChunkSize
	}

	srv, err := server.New(server.Config{
		Port:            port,
		StreamChunkSize: chunkSize,
		Verbose:         serveVerbose || cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
