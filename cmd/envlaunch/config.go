// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"envlaunch-cli/internal/config"
	"envlaunch-cli/internal/issue"

	"github.com/spf13/cobra"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage envlaunch configuration",
	Long: `Manage envlaunch configuration.

Configuration is stored in:
  - Linux: ~/.config/envlaunch/config.cue
  - macOS: ~/Library/Application Support/envlaunch/config.cue
  - Windows: %APPDATA%\envlaunch\config.cue`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showConfig(cmd.Context())
		},
	})

	configInitCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(configInitForce)
		},
	}
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false,
		"overwrite an existing config file with the defaults")
	configCmd.AddCommand(configInitCmd)

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				renderIssue(issue.ConfigLoadFailedId)
				return err
			}
			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig(ctx context.Context) error {
	cfg, resolvedPath, err := config.ResolvedPath(ctx, config.LoadOptions{ConfigFilePath: cfgFile})
	if err != nil {
		renderIssue(issue.ConfigLoadFailedId)
		return err
	}

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	if resolvedPath != "" {
		fmt.Printf("%s: %s\n", ValueStyle.Render("Config file"), resolvedPath)
	} else {
		fmt.Printf("%s: %s\n", ValueStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	printValue := func(key, value string) {
		if value == "" {
			value = SubtitleStyle.Render("(unset)")
		} else {
			value = SuccessStyle.Render(value)
		}
		fmt.Printf("%s: %s\n", ValueStyle.Render(key), value)
	}

	printValue("env_name", cfg.EnvName)
	printValue("envs_dir", cfg.EnvsDir)
	printValue("manifest_path", cfg.ManifestPath)
	printValue("base_dir", cfg.BaseDir)
	printValue("entry_script", cfg.EntryScript)
	printValue("interpreter", cfg.Interpreter)
	printValue("interpreter_args", strings.Join(cfg.InterpreterArgs, " "))
	printValue("source_script", cfg.SourceScript)
	printValue("on_missing_source", string(cfg.OnMissingSource))
	printValue("headless", fmt.Sprintf("%v", cfg.Headless))
	printValue("env_inherit.mode", string(cfg.EnvInherit.Mode))
	printValue("capture.enabled", fmt.Sprintf("%v", cfg.Capture.Enabled))
	printValue("capture.log_dir", cfg.Capture.LogDir)
	printValue("ui.color_scheme", string(cfg.UI.ColorScheme))
	printValue("ui.verbose", fmt.Sprintf("%v", cfg.UI.Verbose))

	return nil
}

func initConfig(force bool) error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}

	if force {
		if err := config.Save(config.DefaultConfig()); err != nil {
			return err
		}
	} else if err := config.CreateDefaultConfig(); err != nil {
		return err
	}

	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Println(SuccessStyle.Render("Configuration ready: ") +
		filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Println(filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}
