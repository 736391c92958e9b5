// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	EnvNotFoundId Id = iota + 1
	SourceScriptMissingId
	SourceScriptFailedId
	InterpreterNotFoundId
	EntryScriptMissingId
	ConfigLoadFailedId
	SelfPathUnresolvableId
	SessionLogFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // optional links to envlaunch documentation pages
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	envNotFoundIssue = &Issue{
		id: EnvNotFoundId,
		mdMsg: `
# Runtime environment not found!

The environment name you configured does not resolve to an installed
environment bundle.

## Things you can try:
- List the environments known to the registry:
~~~
$ envlaunch env check
~~~

- Check 'env_name' in your config:
~~~
$ envlaunch config show
~~~

- Verify the environment root exists on disk (a conda-style layout is
  expected: ` + "`<envs_dir>/<name>/bin`" + `)`,
	}

	sourceScriptMissingIssue = &Issue{
		id: SourceScriptMissingId,
		mdMsg: `
# Dependency script missing!

The secondary environment-setup script configured in 'source_script' was
not found, and the missing-source policy is set to 'abort'.

## Things you can try:
- Verify the path in your config:
~~~
$ envlaunch config show
~~~

- If launching without the site setup is acceptable, switch the policy:
~~~cue
on_missing_source: "continue"
~~~

- Or pass it for a single launch:
~~~
$ envlaunch launch --on-missing-source continue
~~~`,
	}

	sourceScriptFailedIssue = &Issue{
		id: SourceScriptFailedId,
		mdMsg: `
# Dependency script failed!

The dependency script was found but exited with an error while being
sourced. Nothing was launched.

## Things you can try:
- Run the script manually in a shell to see its diagnostics
- Check that every path it references exists on this host
- Run with verbose mode to see the harvested environment so far:
~~~
$ envlaunch --verbose env show
~~~`,
	}

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Interpreter not found!

The configured interpreter was not found in the environment's binary path
or on the inherited PATH.

## Things you can try:
- Check 'interpreter' in your config (default: ipython)
- Verify the environment bundle actually ships the interpreter:
~~~
$ ls <envs_dir>/<env_name>/bin
~~~

- Point 'interpreter' at an absolute path if the binary lives elsewhere`,
	}

	entryScriptMissingIssue = &Issue{
		id: EntryScriptMissingId,
		mdMsg: `
# Entry script missing!

The Python entry script that pre-loads the interactive session was not
found next to the launcher (or at the configured path).

## Things you can try:
- Check 'entry_script' in your config
- Verify the launcher's base directory contains the script:
~~~
$ envlaunch env show
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your config file contains syntax errors or invalid values.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- Invalid values for known fields (e.g. a bad 'on_missing_source' policy)

## Things you can try:
- Check the error message above for the specific line/column
- Regenerate a default config:
~~~
$ envlaunch config init
~~~`,
	}

	selfPathUnresolvableIssue = &Issue{
		id: SelfPathUnresolvableId,
		mdMsg: `
# Cannot resolve launcher path!

The launcher could not determine its own symlink-resolved location, which
is needed to derive the module search path.

## Things you can try:
- Check for dangling symlinks along the launcher's install path
- Set 'base_dir' in your config to pin the base directory explicitly`,
	}

	sessionLogFailedIssue = &Issue{
		id: SessionLogFailedId,
		mdMsg: `
# Cannot open session log!

Session capture is enabled but the log file could not be created.

## Things you can try:
- Check that 'capture.log_dir' exists and is writable
- Disable capture for this launch:
~~~
$ envlaunch launch --capture=false
~~~`,
	}

	issues = map[Id]*Issue{
		envNotFoundIssue.Id():          envNotFoundIssue,
		sourceScriptMissingIssue.Id():  sourceScriptMissingIssue,
		sourceScriptFailedIssue.Id():   sourceScriptFailedIssue,
		interpreterNotFoundIssue.Id():  interpreterNotFoundIssue,
		entryScriptMissingIssue.Id():   entryScriptMissingIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		selfPathUnresolvableIssue.Id(): selfPathUnresolvableIssue,
		sessionLogFailedIssue.Id():     sessionLogFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
