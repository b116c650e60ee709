// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Id identifies an entry of the issue catalog.
type Id int

const (
	ModuleNotResolvedId Id = iota + 1
	EmptyExportId
	InvalidExportShapeId
	InvalidPropertyShapeId
	InvalidVarValueId
	UnsupportedFileTypeId
	UnsupportedModuleId
	ModuleDecodeFailedId
	ConfigLoadFailedId
	StylesheetNotFoundId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the issue text with its links appended.
func (i *Issue) Markdown() string {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return sb.String()
}

// Render renders the issue for the terminal with the given glamour style
// ("dark", "light", "notty", "auto" or a path to a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	sassVariablesLink HttpLink = "https://sass-lang.com/documentation/variables/"
	lessVariablesLink HttpLink = "https://lesscss.org/features/#variables-feature"

	moduleNotResolvedIssue = &Issue{
		id: ModuleNotResolvedId,
		mdMsg: `
# Data module not found

A directive references a module that could not be resolved.

## How references are resolved
- ` + "`\"vars.js\"`" + ` and ` + "`\"./vars.js\"`" + ` are relative to the stylesheet's directory
- ` + "`\"~pkg/vars.js\"`" + ` is searched in the configured module directories (node_modules by default), walking up
- ` + "`\"/vars.js\"`" + ` is absolute, or relative to the configured ` + "`root`" + `

When the ` + "`.js`" + ` file itself is missing, sibling data files with the same name
(` + "`.json`, `.cue`, `.yaml`, `.toml`, `.hcl`, `.env`" + `) are tried in order.

## Things you can try
- Check the spelling and extension of the module reference
- Set ` + "`modules`" + ` or ` + "`root`" + ` in your stylevars configuration`,
	}

	emptyExportIssue = &Issue{
		id: EmptyExportId,
		mdMsg: `
# Data module is empty

The module exists but exports nothing usable.

## Things you can try
- Export an object: ` + "`module.exports = { primary: '#fff' };`" + `
- Make sure the file is saved and not blank`,
	}

	invalidExportShapeIssue = &Issue{
		id: InvalidExportShapeId,
		mdMsg: `
# Data module must export an object

The module's export is a string, number, boolean or list, but only objects
can be turned into style variables.

## Example
~~~js
module.exports = {
  colors: { primary: '#fff', secondary: '#000' },
};
~~~`,
	}

	invalidPropertyShapeIssue = &Issue{
		id: InvalidPropertyShapeId,
		mdMsg: `
# Selected property must be an object

A directive such as ` + "`@import \"vars.js\".colors;`" + ` selects a property of the
export. The property is missing, or is not an object.

## Things you can try
- Check the property path for typos; nested paths use dots: ` + "`.theme.colors`" + `
- Remove the property suffix to import the whole export`,
	}

	invalidVarValueIssue = &Issue{
		id: InvalidVarValueId,
		mdMsg: `
# Variable values must be strings or numbers

Every value of the imported object becomes one variable declaration, so
nested objects, lists, booleans and null values are rejected.

## Things you can try
- Select the nested object with a property path instead: ` + "`@import \"vars.js\".colors;`" + `
- Convert the value to a string`,
		extLinks: []HttpLink{sassVariablesLink, lessVariablesLink},
	}

	unsupportedFileTypeIssue = &Issue{
		id: UnsupportedFileTypeId,
		mdMsg: `
# Unsupported stylesheet type

Only Sass (` + "`.scss`, `.sass`" + `) and Less (` + "`.less`" + `) stylesheets can be
transformed. The extension is matched case-sensitively.`,
		extLinks: []HttpLink{sassVariablesLink, lessVariablesLink},
	}

	unsupportedModuleIssue = &Issue{
		id: UnsupportedModuleId,
		mdMsg: `
# Unsupported data module format

The resolved module has an extension no codec is registered for.

## Supported formats
- ` + "`.js`, `.cjs`, `.mjs`" + ` (CommonJS exports)
- ` + "`.json`, `.cue`, `.yaml`, `.yml`, `.toml`, `.hcl`, `.env`",
	}

	moduleDecodeFailedIssue = &Issue{
		id: ModuleDecodeFailedId,
		mdMsg: `
# Data module could not be decoded

JavaScript modules are evaluated as CommonJS without Node built-ins.
The module may compute its export and require sibling files, but it must
finish within a few seconds and must not throw.

## Things you can try
- Check the module for syntax errors or uncaught exceptions
- Replace ` + "`require(\"fs\")`" + ` and other built-ins with plain data
- Move the data to a ` + "`.json`" + ` or ` + "`.yaml`" + ` file next to the module`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

## Lookup order
1. The file passed with ` + "`--config`" + `
2. ` + "`config.cue`" + ` in the user configuration directory
3. ` + "`stylevars.cue`" + ` in the working directory

Environment variables prefixed with ` + "`STYLEVARS_`" + ` override file values.

## Things you can try
~~~
$ stylevars config show
~~~
prints the effective configuration, which is also a valid starting file.`,
	}

	stylesheetNotFoundIssue = &Issue{
		id: StylesheetNotFoundId,
		mdMsg: `
# Stylesheet not found

The input stylesheet could not be read.

## Things you can try
- Check the path passed on the command line
- Run the command from the project directory`,
	}

	issues = map[Id]*Issue{
		moduleNotResolvedIssue.Id():    moduleNotResolvedIssue,
		emptyExportIssue.Id():          emptyExportIssue,
		invalidExportShapeIssue.Id():   invalidExportShapeIssue,
		invalidPropertyShapeIssue.Id(): invalidPropertyShapeIssue,
		invalidVarValueIssue.Id():      invalidVarValueIssue,
		unsupportedFileTypeIssue.Id():  unsupportedFileTypeIssue,
		unsupportedModuleIssue.Id():    unsupportedModuleIssue,
		moduleDecodeFailedIssue.Id():   moduleDecodeFailedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		stylesheetNotFoundIssue.Id():   stylesheetNotFoundIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
