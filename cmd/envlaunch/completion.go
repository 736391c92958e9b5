// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for envlaunch.

To enable shell completions, run one of the following commands:

` + SubtitleStyle.Render("Bash:") + `
  # Add to ~/.bashrc:
  eval "$(envlaunch completion bash)"

  # Or install system-wide:
  envlaunch completion bash > /etc/bash_completion.d/envlaunch

` + SubtitleStyle.Render("Zsh:") + `
  # Add to ~/.zshrc:
  eval "$(envlaunch completion zsh)"

  # Or install to fpath:
  envlaunch completion zsh > "${fpath[1]}/_envlaunch"

` + SubtitleStyle.Render("Fish:") + `
  envlaunch completion fish > ~/.config/fish/completions/envlaunch.fish

` + SubtitleStyle.Render("PowerShell:") + `
  envlaunch completion powershell | Out-String | Invoke-Expression

  # Or add to $PROFILE:
  envlaunch completion powershell >> $PROFILE
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
		}
		return nil
	},
}
