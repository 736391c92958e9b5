// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

const usageDoc = `
# envlaunch

envlaunch is a deterministic replacement for per-instrument launcher shell
scripts. One binary, one config file, one pipeline:

1. **Resolve self** - the launcher finds its own symlink-free location and
   derives the base directory from it (never from the working directory).
2. **Resolve environment** - the configured environment name is looked up in
   the manifest (envs.toml) or probed under the environments directory.
3. **Build environment** - PYTHONPATH points at the base directory plus its
   dev overlay, PATH gets the environment's bin directory prepended, the
   conda identifiers are set, and LD_LIBRARY_PATH is dropped no matter what
   the parent shell had in it.
4. **Source dependencies** - the configured site setup script runs in an
   in-process POSIX shell and its exported variables are merged in.
5. **Launch** - the interpreter starts with the entry script and keeps the
   session interactive. Its exit code becomes envlaunch's exit code.

## Everyday commands

~~~
$ envlaunch launch                 # the whole pipeline
$ envlaunch launch --dry-run       # show the plan, launch nothing
$ envlaunch launch --env sxr-dev   # one-off environment override
$ envlaunch env show               # list resolvable environments
$ envlaunch env check              # is the configured environment launchable?
$ envlaunch config show            # effective configuration
~~~

## Configuration

The config file is CUE, validated against a schema at load time:

~~~cue
env_name:      "pcds-5.8.3"
envs_dir:      "/opt/conda/envs"
entry_script:  "sxr_python.py"
source_script: "/reg/g/pcds/setup/epicsenv.sh"

env_inherit: {
	mode: "all"
	deny: ["PYTHONSTARTUP"]
}
~~~

Run 'envlaunch config init' to generate a starting point, and
'envlaunch config path' to see where it lives on this platform.

## Environment precedence

Higher levels win:

1. Host environment (filtered by env_inherit, LD_LIBRARY_PATH always dropped)
2. Bootstrap variables (PYTHONPATH, PATH, CONDA_*, QT_QPA_PLATFORM)
3. Variables exported by the sourced dependency script
4. env_files (dotenv, '?' suffix marks a file optional)
5. env_vars
6. --env-file flag files
7. --env-var flag values
`

var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Show the rendered usage guide",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		rendered, err := glamour.Render(usageDoc, colorSchemeStylePath())
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
