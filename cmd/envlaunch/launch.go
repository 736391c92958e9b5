// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"envlaunch-cli/internal/bootstrap"
	"envlaunch-cli/internal/config"
	"envlaunch-cli/internal/issue"
	"envlaunch-cli/internal/launcher"
	"envlaunch-cli/internal/registry"
	"envlaunch-cli/pkg/fspath"
	"envlaunch-cli/pkg/types"

	"github.com/spf13/cobra"
)

var (
	launchEnvName         string
	launchEntryScript     string
	launchDryRun          bool
	launchCapture         bool
	launchHeadless        bool
	launchOnMissingSource string
	launchEnvVars         []string
	launchEnvFiles        []string

	launchCmd = &cobra.Command{
		Use:   "launch",
		Short: "Build the environment and start the interactive session",
		Long: `Build the environment and start the interactive interpreter session.

The launch pipeline:
  1. Resolve the launcher's own (symlink-free) location
  2. Resolve the named runtime environment bundle
  3. Build the process environment (PYTHONPATH, PATH, conda identifiers)
  4. Source the configured dependency script in-process
  5. Start the interpreter with the entry script and wait for it

The interpreter's exit code becomes envlaunch's exit code.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLaunch(cmd.Context(), cmd.Flags().Changed("capture"))
		},
	}
)

func init() {
	launchCmd.Flags().StringVar(&launchEnvName, "env", "", "runtime environment name (overrides env_name)")
	launchCmd.Flags().StringVar(&launchEntryScript, "entry", "", "entry script (overrides entry_script)")
	launchCmd.Flags().BoolVar(&launchDryRun, "dry-run", false, "show the launch plan without launching")
	launchCmd.Flags().BoolVar(&launchCapture, "capture", false, "tee the session to a log file")
	launchCmd.Flags().BoolVar(&launchHeadless, "headless", false, "force off-screen Qt rendering")
	launchCmd.Flags().StringVar(&launchOnMissingSource, "on-missing-source", "",
		"policy for a missing dependency script: abort or continue")
	launchCmd.Flags().StringArrayVar(&launchEnvVars, "env-var", nil,
		"additional KEY=VALUE environment variable (highest priority, repeatable)")
	launchCmd.Flags().StringArrayVar(&launchEnvFiles, "env-file", nil,
		"additional dotenv file, relative to the working directory (repeatable)")
}

func runLaunch(ctx context.Context, captureFlagSet bool) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}
	applyLaunchFlags(cfg)

	plan, buildResult, err := assemblePlan(ctx, cfg)
	if err != nil {
		return err
	}

	if buildResult.SourceSkipped {
		logger.Warn("dependency script missing, continuing without it",
			"script", cfg.SourceScript)
	}
	if buildResult.SourcedScript != "" {
		logger.Debug("sourced dependency script", "script", buildResult.SourcedScript)
	}

	if launchDryRun {
		printLaunchPlan(plan, buildResult)
		return nil
	}

	l := &launcher.Launcher{}

	if captureEnabled(cfg, captureFlagSet) {
		logPath := sessionLogPath(cfg, plan)
		logger.Debug("capturing session", "log", logPath)
		code, err := l.LaunchCaptured(ctx, plan, logPath)
		return finishLaunch(code, err)
	}

	logger.Debug("launching", "command", plan.CommandLine())
	code, err := l.Launch(ctx, plan)
	return finishLaunch(code, err)
}

// captureEnabled decides whether the session is captured. An explicitly
// passed --capture flag wins over the config in either direction, so
// --capture=false turns a config-enabled capture off.
func captureEnabled(cfg *config.Config, flagSet bool) bool {
	if flagSet {
		return launchCapture
	}
	return cfg.Capture.Enabled
}

// applyLaunchFlags folds flag overrides into the loaded config so the rest
// of the pipeline has a single source of truth.
func applyLaunchFlags(cfg *config.Config) {
	if launchEnvName != "" {
		cfg.EnvName = launchEnvName
	}
	if launchEntryScript != "" {
		cfg.EntryScript = launchEntryScript
	}
	if launchOnMissingSource != "" {
		cfg.OnMissingSource = config.MissingSourcePolicy(launchOnMissingSource)
	}
	if launchHeadless {
		cfg.Headless = true
	}
}

// assemblePlan runs the launch pipeline up to (but not including) the spawn.
func assemblePlan(ctx context.Context, cfg *config.Config) (*launcher.Plan, *bootstrap.BuildResult, error) {
	if err := cfg.Validate(); err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return nil, nil, err
	}

	baseDir, err := bootstrap.ResolveBaseDir(cfg.BaseDir)
	if err != nil {
		renderIssue(issue.SelfPathUnresolvableId)
		return nil, nil, err
	}
	logger.Debug("resolved base directory", "base_dir", baseDir)

	bundle, err := resolveBundle(cfg)
	if err != nil {
		if errors.Is(err, registry.ErrEnvNotFound) {
			renderIssue(issue.EnvNotFoundId)
		}
		return nil, nil, err
	}
	logger.Debug("resolved environment", "name", bundle.Name, "root", bundle.Root)

	flagVars, err := parseEnvVarFlags(launchEnvVars)
	if err != nil {
		return nil, nil, err
	}

	builder := &bootstrap.Builder{
		Config:       cfg,
		Env:          bundle,
		BaseDir:      baseDir,
		Sourcer:      &bootstrap.ShellSourcer{Stdout: os.Stdout, Stderr: os.Stderr, Dir: string(baseDir)},
		Headless:     launchHeadless,
		FlagEnvFiles: launchEnvFiles,
		FlagEnvVars:  flagVars,
	}
	if err := builder.Validate(); err != nil {
		return nil, nil, err
	}

	buildResult, err := builder.Build(ctx)
	if err != nil {
		switch {
		case errors.Is(err, bootstrap.ErrSourceScriptMissing):
			renderIssue(issue.SourceScriptMissingId)
		case errors.Is(err, bootstrap.ErrSourceScriptFailed):
			renderIssue(issue.SourceScriptFailedId)
		}
		return nil, nil, err
	}

	plan := &launcher.Plan{
		Interpreter: cfg.Interpreter,
		Args:        append([]string{}, cfg.InterpreterArgs...),
		Env:         buildResult.Env,
		WorkDir:     string(baseDir),
	}
	if cfg.EntryScript != "" {
		entry := cfg.EntryScript
		if !fspath.IsAbs(types.FilesystemPath(entry)) {
			entry = string(fspath.JoinStr(baseDir, entry))
		}
		plan.EntryScript = entry
		plan.Args = append(plan.Args, entry)
	}

	if err := plan.Validate(); err != nil {
		if errors.Is(err, launcher.ErrEntryScriptMissing) {
			renderIssue(issue.EntryScriptMissingId)
		}
		return nil, nil, err
	}

	return plan, buildResult, nil
}

// resolveBundle looks up the configured environment in the registry.
func resolveBundle(cfg *config.Config) (*registry.Environment, error) {
	if cfg.EnvName == "" {
		return nil, fmt.Errorf("no environment configured: set env_name or pass --env")
	}

	manifestPath := cfg.ManifestPath
	if manifestPath == "" {
		defaultPath, err := config.DefaultManifestPath()
		if err != nil {
			return nil, err
		}
		manifestPath = defaultPath
	}

	reg, err := registry.New(manifestPath, cfg.EnvsDir)
	if err != nil {
		return nil, err
	}
	return reg.Lookup(types.EnvName(cfg.EnvName))
}

// finishLaunch converts a session exit code into the process exit code.
func finishLaunch(code types.ExitCode, err error) error {
	if err != nil {
		switch {
		case errors.Is(err, launcher.ErrInterpreterNotFound):
			renderIssue(issue.InterpreterNotFoundId)
		case errors.Is(err, launcher.ErrSessionLogFailed):
			renderIssue(issue.SessionLogFailedId)
		}
		return err
	}
	if !code.IsSuccess() {
		if code.IsSignaled() {
			logger.Debug("session ended by signal", "exit_code", code)
		}
		return &ExitError{Code: code}
	}
	return nil
}

// sessionLogPath picks the log file for a capture session.
func sessionLogPath(cfg *config.Config, plan *launcher.Plan) string {
	logDir := cfg.Capture.LogDir
	if logDir == "" {
		logDir = string(fspath.JoinStr(types.FilesystemPath(plan.WorkDir), "logs"))
	}
	return launcher.SessionLogPath(logDir, types.EnvName(cfg.EnvName), time.Now())
}

// parseEnvVarFlags parses repeated KEY=VALUE flag values.
func parseEnvVarFlags(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid --env-var value %q (expected KEY=VALUE)", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

// printLaunchPlan renders the dry-run view: what would run, where, and with
// which environment.
func printLaunchPlan(plan *launcher.Plan, buildResult *bootstrap.BuildResult) {
	fmt.Println(TitleStyle.Render("Launch Plan") + SubtitleStyle.Render(" (dry run, nothing launched)"))
	fmt.Println()
	fmt.Printf("%s: %s\n", SubtitleStyle.Render("Command"), ValueStyle.Render(plan.CommandLine()))
	fmt.Printf("%s: %s\n", SubtitleStyle.Render("Workdir"), ValueStyle.Render(plan.WorkDir))
	switch {
	case buildResult.SourcedScript != "":
		fmt.Printf("%s: %s\n", SubtitleStyle.Render("Sourced"), ValueStyle.Render(buildResult.SourcedScript))
	case buildResult.SourceSkipped:
		fmt.Printf("%s: %s\n", SubtitleStyle.Render("Sourced"), WarningStyle.Render("(skipped, script missing)"))
	}
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Environment:"))
	for _, entry := range bootstrap.ToSlice(plan.Env) {
		fmt.Println("  " + entry)
	}
}
