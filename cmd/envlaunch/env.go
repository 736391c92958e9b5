// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"envlaunch-cli/internal/bootstrap"
	"envlaunch-cli/internal/config"
	"envlaunch-cli/internal/issue"
	"envlaunch-cli/internal/launcher"
	"envlaunch-cli/internal/registry"
	"envlaunch-cli/pkg/fspath"
	"envlaunch-cli/pkg/types"

	"github.com/spf13/cobra"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect runtime environments",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	envCmd.AddCommand(&cobra.Command{
		Use:   "show [name]",
		Short: "List resolvable environments, or show one environment's launch view",
		Long: `Without a name, lists every environment resolvable through the manifest
and the environments directory. With a name, shows the environment the way
a launch would see it: root, bin directory, and the built PYTHONPATH.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return showEnvList(cmd.Context())
			}
			return showEnv(cmd.Context(), types.EnvName(args[0]))
		},
	})

	envCmd.AddCommand(&cobra.Command{
		Use:   "check [name]",
		Short: "Verify an environment is launchable",
		Long: `Checks that the environment resolves, its root and bin directories
exist, and the configured interpreter is present. Without a name, checks
the configured env_name. Exits non-zero when any check fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return checkEnv(cmd.Context(), name)
		},
	})
}

// buildRegistry constructs the registry from the loaded config.
func buildRegistry(cfg *config.Config) (*registry.Registry, error) {
	manifestPath := cfg.ManifestPath
	if manifestPath == "" {
		defaultPath, err := config.DefaultManifestPath()
		if err != nil {
			return nil, err
		}
		manifestPath = defaultPath
	}
	return registry.New(manifestPath, cfg.EnvsDir)
}

func showEnvList(ctx context.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	envs, err := reg.List()
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("Environments"))
	fmt.Println()
	if len(envs) == 0 {
		fmt.Println(SubtitleStyle.Render("(none found - check envs_dir and the manifest)"))
		return nil
	}

	for _, env := range envs {
		marker := "  "
		if env.Name.String() == cfg.EnvName {
			marker = SuccessStyle.Render("* ")
		}
		line := marker + ValueStyle.Render(env.Name.String()) + "  " + SubtitleStyle.Render(string(env.Root))
		if env.Description != "" {
			line += "  " + SubtitleStyle.Render("("+env.Description+")")
		}
		fmt.Println(line)
	}
	return nil
}

func showEnv(ctx context.Context, name types.EnvName) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	env, err := reg.Lookup(name)
	if err != nil {
		if errors.Is(err, registry.ErrEnvNotFound) {
			renderIssue(issue.EnvNotFoundId)
		}
		return err
	}

	baseDir, err := bootstrap.ResolveBaseDir(cfg.BaseDir)
	if err != nil {
		renderIssue(issue.SelfPathUnresolvableId)
		return err
	}

	fmt.Println(TitleStyle.Render("Environment: " + env.Name.String()))
	fmt.Println()
	fmt.Printf("%s: %s\n", SubtitleStyle.Render("Root"), ValueStyle.Render(string(env.Root)))
	fmt.Printf("%s: %s\n", SubtitleStyle.Render("Bin"), ValueStyle.Render(string(env.BinDir())))
	if env.Description != "" {
		fmt.Printf("%s: %s\n", SubtitleStyle.Render("Description"), env.Description)
	}

	// Build the environment exactly the way a launch would, sourcing
	// included, so what is shown is what the session would see.
	builder := &bootstrap.Builder{
		Config:  cfg,
		Env:     env,
		BaseDir: baseDir,
		Sourcer: &bootstrap.ShellSourcer{Dir: string(baseDir)},
	}
	buildResult, err := builder.Build(ctx)
	if err != nil {
		switch {
		case errors.Is(err, bootstrap.ErrSourceScriptMissing):
			renderIssue(issue.SourceScriptMissingId)
		case errors.Is(err, bootstrap.ErrSourceScriptFailed):
			renderIssue(issue.SourceScriptFailedId)
		}
		return err
	}
	if buildResult.SourceSkipped {
		fmt.Printf("%s: %s\n", SubtitleStyle.Render("Sourced"), WarningStyle.Render("(skipped, script missing)"))
	}

	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Built environment:"))
	for _, entry := range bootstrap.ToSlice(buildResult.Env) {
		fmt.Println("  " + entry)
	}
	return nil
}

func checkEnv(ctx context.Context, nameArg string) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	name := nameArg
	if name == "" {
		name = cfg.EnvName
	}
	if name == "" {
		return fmt.Errorf("no environment to check: set env_name or pass a name")
	}

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	failed := false
	pass := func(label string, detail string) {
		fmt.Printf("%s %s %s\n", SuccessStyle.Render("ok  "), label, SubtitleStyle.Render(detail))
	}
	fail := func(label string, detail string) {
		failed = true
		fmt.Printf("%s %s %s\n", ErrorStyle.Render("FAIL"), label, SubtitleStyle.Render(detail))
	}

	env, err := reg.Lookup(types.EnvName(name))
	if err != nil {
		fail("resolve environment", err.Error())
		if errors.Is(err, registry.ErrEnvNotFound) {
			renderIssue(issue.EnvNotFoundId)
		}
		return &ExitError{Code: 1, Err: err}
	}
	pass("resolve environment", string(env.Root))

	binDir := string(env.BinDir())
	if info, statErr := os.Stat(binDir); statErr == nil && info.IsDir() {
		pass("bin directory", binDir)
	} else {
		fail("bin directory", binDir)
	}

	plan := &launcher.Plan{
		Interpreter: cfg.Interpreter,
		Env:         map[string]string{bootstrap.EnvVarPath: binDir},
	}
	if binary, resolveErr := plan.ResolveInterpreter(); resolveErr == nil {
		pass("interpreter "+cfg.Interpreter, binary)
	} else {
		fail("interpreter "+cfg.Interpreter, "not found in "+binDir)
	}

	baseDir, baseErr := bootstrap.ResolveBaseDir(cfg.BaseDir)
	if baseErr != nil {
		fail("base directory", baseErr.Error())
	} else {
		pass("base directory", string(baseDir))

		if cfg.SourceScript != "" {
			script := cfg.SourceScript
			if !fspath.IsAbs(types.FilesystemPath(script)) {
				script = string(fspath.JoinStr(baseDir, script))
			}
			if info, statErr := os.Stat(script); statErr == nil && !info.IsDir() {
				pass("dependency script", script)
			} else if cfg.OnMissingSource == config.MissingSourceContinue {
				fmt.Printf("%s %s %s\n", WarningStyle.Render("skip"), "dependency script",
					SubtitleStyle.Render(script+" (missing, continue policy)"))
			} else {
				fail("dependency script", script)
			}
		}

		if cfg.EntryScript != "" {
			entry := cfg.EntryScript
			if !fspath.IsAbs(types.FilesystemPath(entry)) {
				entry = string(fspath.JoinStr(baseDir, entry))
			}
			if info, statErr := os.Stat(entry); statErr == nil && !info.IsDir() {
				pass("entry script", entry)
			} else {
				fail("entry script", entry)
			}
		}
	}

	if failed {
		return &ExitError{Code: 1}
	}
	return nil
}
