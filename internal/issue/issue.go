// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	RiotfileNotFoundId Id = iota + 1
	RiotfileParseErrorId
	InterpreterNotFoundId
	VirtualenvFailedId
	DevInstallFailedId
	ConfigLoadFailedId
	ShellNotFoundId
	InvalidPatternId
	EnvFileNotFoundId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to lookup the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

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

// Render renders the issue Markdown with the glamour style at stylePath
// ("dark", "light", "notty" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	riotfileNotFoundIssue = &Issue{
		id: RiotfileNotFoundId,
		mdMsg: `
# No riotfile found!

riot reads its environment matrix from a CUE riotfile, by default
` + "`riotfile.cue`" + ` in the current directory.

## Things you can try:
- Run riot from your project root
- Point riot at the file explicitly:
~~~
$ riot -f path/to/riotfile.cue list
~~~

## Minimal riotfile:
~~~cue
venv: {
	pys: ["3.8", "3.9"]
	pkgs: pytest: [""]
	venvs: [{
		name:    "test"
		command: "pytest {cmdargs}"
	}]
}
~~~`,
	}

	riotfileParseErrorIssue = &Issue{
		id: RiotfileParseErrorId,
		mdMsg: `
# Failed to parse the riotfile!

The riotfile is not valid CUE or does not match the riotfile schema.

## Common mistakes:
- Interpreter versions written as numbers: use ` + "`pys: [\"3.8\"]`" + `, not ` + "`pys: [3.8]`" + `
- A package or env var given a single value instead of a list
- An unknown field name (fields are ` + "`name`, `command`, `pys`, `pkgs`, `env`, `venvs`" + `)

## Things you can try:
- Check the file with the CUE tool:
~~~
$ cue vet riotfile.cue
~~~`,
	}

	interpreterNotFoundIssue = &Issue{
		id: InterpreterNotFoundId,
		mdMsg: `
# Python interpreter not found!

riot looks up ` + "`python<version>`" + ` on your PATH to create each base environment.

## Things you can try:
- Install the missing version (pyenv, your package manager, or python.org builds)
- Restrict the run to the versions you have:
~~~
$ riot run -p 3.11
~~~`,
	}

	virtualenvFailedIssue = &Issue{
		id: VirtualenvFailedId,
		mdMsg: `
# Failed to create a virtual environment!

## Things you can try:
- Make sure virtualenv is installed:
~~~
$ python -m pip install virtualenv
~~~

- Recreate the environments from scratch:
~~~
$ riot generate -r
~~~`,
	}

	devInstallFailedIssue = &Issue{
		id: DevInstallFailedId,
		mdMsg: `
# Installing your project failed!

riot installs the project under test into every base environment with
` + "`pip install -e .`" + `. Every instance would run against a broken
environment, so the run was aborted.

## Things you can try:
- Run riot from the directory containing setup.py or pyproject.toml
- Look at the pip output above for the failing requirement
- Skip the install if your commands do not need the project:
~~~
$ riot run -s
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Check the CUE syntax of your config file
- Print the effective configuration:
~~~
$ riot config show
~~~

- Remove the file to fall back to the defaults`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

Commands run through the shell configured under ` + "`shell`" + ` (default /bin/bash).

## Things you can try:
- Install bash, or set another POSIX shell that supports ` + "`source`" + `
- Use the embedded interpreter instead:
~~~cue
executor: "virtual"
~~~`,
	}

	invalidPatternIssue = &Issue{
		id: InvalidPatternId,
		mdMsg: `
# Invalid name pattern!

The pattern is a regular expression matched against the start of each venv name.

## Examples:
~~~
$ riot run test        # every venv whose name starts with "test"
$ riot run 'unit|lint'
~~~`,
	}

	envFileNotFoundIssue = &Issue{
		id: EnvFileNotFoundId,
		mdMsg: `
# Env file not found!

## Things you can try:
- Check the path given to --env-file (relative to the current directory)
- Mark the file optional with a trailing question mark:
~~~
$ riot run --env-file '.env.local?'
~~~`,
	}

	issues = map[Id]*Issue{
		riotfileNotFoundIssue.Id():    riotfileNotFoundIssue,
		riotfileParseErrorIssue.Id():  riotfileParseErrorIssue,
		interpreterNotFoundIssue.Id(): interpreterNotFoundIssue,
		virtualenvFailedIssue.Id():    virtualenvFailedIssue,
		devInstallFailedIssue.Id():    devInstallFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		shellNotFoundIssue.Id():       shellNotFoundIssue,
		invalidPatternIssue.Id():      invalidPatternIssue,
		envFileNotFoundIssue.Id():     envFileNotFoundIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
