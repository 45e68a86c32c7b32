package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"instalytics/pkg/logger"
	"instalytics/pkg/pipeline"
)

var (
	// Analyze command flags
	analyzePost   bool
	analyzeWindow int
	prettyOutput  bool
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <account-ref>",
	Short: "Analyze an Instagram account and print the report",
	Long: `Analyze an Instagram account's recent posts and print the full
engagement report as JSON.

The account reference can be a profile URL, an @-handle or a bare handle:

  https://instagram.com/username
  @username
  username

With --post the reference is treated as a post URL or shortcode and the
report covers that single post.`,
	Example: `  # Analyze by handle
  instalytics analyze natgeo

  # Analyze by profile URL with a smaller window
  instalytics analyze https://instagram.com/natgeo --window 6

  # Analyze a single post
  instalytics analyze https://instagram.com/p/abc123/ --post`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().BoolVar(&analyzePost, "post", false, "treat the reference as a post URL or shortcode")
	analyzeCmd.Flags().IntVar(&analyzeWindow, "window", 0, "number of recent posts to analyze (default from config)")
	analyzeCmd.Flags().BoolVar(&prettyOutput, "pretty", true, "indent the JSON output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ref := strings.TrimSpace(args[0])

	flags := make(map[string]interface{})
	if analyzeWindow > 0 {
		flags["window"] = analyzeWindow
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	if err := applyCredentials(cfg); err != nil {
		return err
	}

	svc := newPipelineService(cfg)

	mode := pipeline.ModeProfile
	if analyzePost {
		mode = pipeline.ModePost
	}

	result := svc.Analyze(context.Background(), pipeline.AnalyzeRequest{AccountRef: ref, Mode: mode})
	if !result.Success {
		logger.GetLogger().ErrorWithFields("Analysis failed", map[string]interface{}{
			"ref":   ref,
			"error": result.Error,
		})
		return fmt.Errorf("%s", result.Error)
	}

	encoder := json.NewEncoder(os.Stdout)
	if prettyOutput {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(result.Data)
}
