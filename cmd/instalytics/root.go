package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"instalytics/pkg/auth"
	"instalytics/pkg/config"
	"instalytics/pkg/instagram"
	"instalytics/pkg/logger"
	"instalytics/pkg/pipeline"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	// Global flags
	configFile  string
	logLevel    string
	accountName string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "instalytics",
	Short: "Instagram account analytics from the command line",
	Long: `Instalytics turns an Instagram handle or profile URL into an engagement
report: average likes and comments, engagement rate, top hashtags and
mentions, posting cadence, media mix and best posting times.

Features:
  - Accepts profile URLs, @handles and bare handles
  - Concurrent multi-account refresh with partial-failure tolerance
  - Secure credential storage using the system keychain
  - Pluggable snapshot storage (memory, MongoDB, PostgreSQL)
  - HTTP API mode for service deployments`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default is $HOME/.instalytics.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "", "use specific stored account")

	rootCmd.SetVersionTemplate(`Instalytics {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig resolves configuration from file, environment and the given
// command-line flag overrides, then initializes the global logger.
func loadConfig(flags map[string]interface{}) (*config.Config, error) {
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Initialize(&cfg.Logging)
	return cfg, nil
}

// applyCredentials fills the provider credentials from the credential store
// when the config does not already carry them.
func applyCredentials(cfg *config.Config) error {
	if accountName == "" && cfg.Instagram.SessionID != "" {
		return nil
	}

	manager, err := auth.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize credential manager: %w", err)
	}

	var account *auth.Account
	if accountName != "" {
		account, err = manager.Retrieve(accountName)
		if err != nil {
			return fmt.Errorf("stored account %q not found: %w", accountName, err)
		}
	} else {
		accounts, listErr := manager.List()
		if listErr != nil || len(accounts) == 0 {
			// Anonymous access still works for public profiles
			return nil
		}
		account, err = manager.Retrieve(accounts[0].Username)
		if err != nil {
			return nil
		}
	}

	cfg.Instagram.SessionID = account.SessionID
	cfg.Instagram.CSRFToken = account.CSRFToken
	if account.UserAgent != "" {
		cfg.Instagram.UserAgent = account.UserAgent
	}
	logger.WithField("account", account.Username).Info("Using stored credentials")
	return nil
}

// newPipelineService wires the provider client into a pipeline service
func newPipelineService(cfg *config.Config) *pipeline.Service {
	log := logger.GetLogger()
	client := instagram.NewClientWithConfig(cfg, log)
	return pipeline.NewService(cfg, client, log)
}
