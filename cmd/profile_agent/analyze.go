package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-analyzer/internal/client"
	"github.com/jonathan/profile-analyzer/internal/observability"
	"github.com/jonathan/profile-analyzer/internal/validation"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run profile analysis",
	Long:  "Validate the profile, then request persona-targeted feedback from the analysis service. Streaming is used when available, with a single fallback to blocking analysis.",
	RunE:  runAnalyze,
}

var (
	analyzeProfilePath string
	analyzeConfigPath  string
	analyzeServerURL   string
	analyzeNoStream    bool
	analyzeVerbose     bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeProfilePath, "profile", "p", "", "Path to profile JSON file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeConfigPath, "config", "c", "", "Path to config JSON file")
	analyzeCmd.Flags().StringVar(&analyzeServerURL, "server", "", "Analysis service base URL (overrides config)")
	analyzeCmd.Flags().BoolVar(&analyzeNoStream, "no-stream", false, "Skip streaming and use blocking analysis directly")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print detailed progress information")

	analyzeCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadCLIConfig(analyzeConfigPath)
	if err != nil {
		return err
	}
	if analyzeServerURL != "" {
		cfg.ServerURL = analyzeServerURL
	}
	if analyzeNoStream {
		cfg.DisableStreaming = true
	}
	if analyzeVerbose {
		cfg.Verbose = true
	}

	profile, err := loadProfile(analyzeProfilePath)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)

	// Gate the request exactly the way the form does: no analysis until every
	// step passes.
	step, outcome := validation.ValidateAll(profile)
	printer.PrintValidationOutcome(step, outcome)
	if !outcome.Passed {
		return fmt.Errorf("profile failed validation at step %d", step)
	}

	printer.PrintProfileSummary(profile)

	var fallbackTimeout time.Duration
	if cfg.FallbackTimeoutSeconds > 0 {
		fallbackTimeout = time.Duration(cfg.FallbackTimeoutSeconds) * time.Second
	}

	c, err := client.New(client.Options{
		BaseURL:         cfg.ServerURL,
		FallbackTimeout: fallbackTimeout,
		Verbose:         cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	session := client.NewSession(c)
	attempt := session.StartAnalysis(cmd.Context(), profile, client.AttemptOptions{
		DisableStreaming: cfg.DisableStreaming,
		OnProgress: func(p client.Progress) {
			if p.Status != "" {
				fmt.Fprintf(os.Stderr, "%s\n", p.Status)
			}
		},
	})

	result, err := attempt.Wait(cmd.Context())
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printer.PrintAnalysisResult(result, attempt.Aggregator.ActivePersona())
	printer.PrintWarnings(attempt.Aggregator.Warnings())
	return nil
}
