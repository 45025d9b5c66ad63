package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/profile-analyzer/internal/fetch"
)

var ingestJobCmd = &cobra.Command{
	Use:   "ingest-job",
	Short: "Add a target job description from a text file or URL",
	Long:  "Fetch a job posting from a URL or read it from a text file, extract the posting text, and append it to the profile's target job descriptions for job-seeking mode.",
	RunE:  runIngestJob,
}

var (
	ingestTextFile    string
	ingestURL         string
	ingestProfilePath string
	ingestUseBrowser  bool
	ingestVerbose     bool
)

func init() {
	ingestJobCmd.Flags().StringVarP(&ingestTextFile, "text-file", "t", "", "Path to text file containing job posting")
	ingestJobCmd.Flags().StringVarP(&ingestURL, "url", "u", "", "URL to fetch job posting from")
	ingestJobCmd.Flags().StringVarP(&ingestProfilePath, "profile", "p", "", "Path to profile JSON file to update (required)")
	ingestJobCmd.Flags().BoolVar(&ingestUseBrowser, "browser", false, "Render the page in a headless browser when plain fetching yields too little text")
	ingestJobCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "Print detailed fetch information")

	ingestJobCmd.MarkFlagRequired("profile")

	rootCmd.AddCommand(ingestJobCmd)
}

func runIngestJob(cmd *cobra.Command, _ []string) error {
	// Validate mutually exclusive flags
	if ingestTextFile == "" && ingestURL == "" {
		return fmt.Errorf("either --text-file or --url must be provided")
	}
	if ingestTextFile != "" && ingestURL != "" {
		return fmt.Errorf("--text-file and --url are mutually exclusive; provide only one")
	}

	var text string
	if ingestTextFile != "" {
		data, err := os.ReadFile(ingestTextFile)
		if err != nil {
			return fmt.Errorf("failed to read job posting file: %w", err)
		}
		text = strings.TrimSpace(string(data))
	} else {
		result, err := fetch.JobPosting(cmd.Context(), ingestURL, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch job posting: %w", err)
		}
		text = result.Text

		if fetch.ShouldUseBrowser(text) && ingestUseBrowser {
			html, err := fetch.BrowserSimple(cmd.Context(), ingestURL, ingestVerbose)
			if err != nil {
				return fmt.Errorf("browser fetch failed: %w", err)
			}
			text, err = fetch.ExtractJobText(html)
			if err != nil {
				return fmt.Errorf("failed to extract text from rendered page: %w", err)
			}
		}
	}

	if text == "" {
		return fmt.Errorf("job posting contained no extractable text")
	}

	profile, err := loadProfile(ingestProfilePath)
	if err != nil {
		return err
	}

	// Replace a lone placeholder entry rather than appending next to it.
	if len(profile.TargetJobDescriptions) == 1 && strings.TrimSpace(profile.TargetJobDescriptions[0]) == "" {
		profile.TargetJobDescriptions[0] = text
	} else {
		profile.TargetJobDescriptions = append(profile.TargetJobDescriptions, text)
	}
	profile.IsJobSeeking = true

	if err := saveProfile(ingestProfilePath, profile); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Added job description (%d characters) to %s\n", len(text), ingestProfilePath)
	fmt.Fprintf(os.Stdout, "Profile now has %d target job description(s)\n", len(profile.TargetJobDescriptions))

	return nil
}
