// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"envlaunch-cli/internal/config"
	"envlaunch-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose diagnostic output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// logger writes structured diagnostics to stderr. Verbose mode lowers
	// the level to Debug in initRootConfig.
	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "envlaunch",
	})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "envlaunch",
		Short: "A deterministic environment launcher for interactive Python sessions",
		Long: TitleStyle.Render("envlaunch") + SubtitleStyle.Render(" - deterministic environment launcher") + `

envlaunch replaces ad-hoc launcher shell scripts: it resolves its own
install location, activates a named runtime environment (conda-style
bundle), builds a reproducible process environment, sources a site
dependency script, and hands control to an interactive interpreter.

The launched interpreter's exit code becomes envlaunch's exit code.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'envlaunch config init' to create a config file
  2. Point 'env_name' and 'envs_dir' at your environment bundles
  3. Launch with: envlaunch launch

` + SubtitleStyle.Render("Examples:") + `
  envlaunch launch                      Launch the configured session
  envlaunch launch --dry-run            Show what would run, launch nothing
  envlaunch launch --env sxr-dev        Launch a specific environment
  envlaunch env show                    List resolvable environments
  envlaunch env check pcds-5.8.3        Verify an environment is launchable
  envlaunch config show                 Show current configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/envlaunch/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig applies early configuration that affects all commands.
func initRootConfig() {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}

	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
}

// loadConfig loads the configuration honoring the --config flag.
func loadConfig(ctx context.Context) (*config.Config, error) {
	return config.NewProvider().Load(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderIssue prints the knowledge-base article for an issue id to stderr.
func renderIssue(id issue.Id) {
	rendered, err := issue.Get(id).Render(colorSchemeStylePath())
	if err != nil {
		return
	}
	fmt.Fprint(os.Stderr, rendered)
}

// colorSchemeStylePath maps the configured color scheme to a glamour style.
func colorSchemeStylePath() string {
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil || cfg == nil {
		return "dark"
	}
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		return "auto"
	}
}
