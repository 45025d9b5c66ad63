package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-analyzer/internal/observability"
	"github.com/jonathan/profile-analyzer/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a profile against the form step gates",
	Long:  "Run the step-by-step validation gate against a profile file without contacting the analysis service.",
	RunE:  runValidate,
}

var (
	validateProfilePath string
	validateStep        int
)

func init() {
	validateCmd.Flags().StringVarP(&validateProfilePath, "profile", "p", "", "Path to profile JSON file (required)")
	validateCmd.Flags().IntVar(&validateStep, "step", 0, "Validate a single step (1-4); 0 runs all steps")

	validateCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	profile, err := loadProfile(validateProfilePath)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(os.Stdout)

	if validateStep > 0 {
		outcome := validation.ValidateStep(profile, validateStep)
		printer.PrintValidationOutcome(validateStep, outcome)
		if !outcome.Passed {
			return fmt.Errorf("step %d failed", validateStep)
		}
		return nil
	}

	step, outcome := validation.ValidateAll(profile)
	printer.PrintValidationOutcome(step, outcome)
	if !outcome.Passed {
		return fmt.Errorf("profile failed validation at step %d", step)
	}
	return nil
}
