// SPDX-License-Identifier: MPL-2.0

package directive

import (
	"iter"
	"regexp"
	"slices"
	"strings"
)

// ModuleSuffix is the file suffix every directive module reference must carry.
const ModuleSuffix = ".js"

// pattern matches one directive. RE2 has no back-references, so the two quote
// styles are separate alternations; exactly one of the module groups is set.
var pattern = regexp.MustCompile(`(?im)@import\s*(?:"([\w.~/]+\.js)"|'([\w.~/]+\.js)')((?:\.[\w-]+)*);?`)

const (
	groupDoubleQuoted = 1
	groupSingleQuoted = 2
	groupProperty     = 3
)

// Directive is a single import directive found in stylesheet text.
// Start and End are byte offsets of the whole match, End exclusive.
type Directive struct {
	Start int
	End   int

	// Quote is the quote character that delimited the module reference.
	Quote byte

	// Module is the module reference as written, including the ".js" suffix.
	Module string

	// Property is the raw property suffix as written, including its leading
	// dot (".colors.primary"). Empty when the directive has no property.
	Property string
}

// PropertyPath returns the dotted property path used for lookup, with the
// leading dot dropped: ".colors.primary" becomes "colors.primary".
func (d Directive) PropertyPath() string {
	return strings.TrimPrefix(d.Property, ".")
}

// HasProperty reports whether the directive narrows the module export.
func (d Directive) HasProperty() bool {
	return d.Property != ""
}

// Len returns the byte length of the matched directive text.
func (d Directive) Len() int {
	return d.End - d.Start
}

// String returns a compact description used in logs and error messages.
func (d Directive) String() string {
	return d.Module + d.Property
}

// Matches yields the directives of text lazily, in order of their first byte offset.
func Matches(text string) iter.Seq[Directive] {
	return func(yield func(Directive) bool) {
		rest := text
		offset := 0
		for len(rest) > 0 {
			loc := pattern.FindStringSubmatchIndex(rest)
			if loc == nil {
				return
			}
			d := fromSubmatch(rest, loc, offset)
			if !yield(d) {
				return
			}
			// Patterns always consume at least "@import", so progress is guaranteed.
			offset += loc[1]
			rest = rest[loc[1]:]
		}
	}
}

// Scan returns every directive of text in document order.
func Scan(text string) []Directive {
	return slices.Collect(Matches(text))
}

// Contains reports whether text holds at least one directive.
func Contains(text string) bool {
	return pattern.MatchString(text)
}

func fromSubmatch(s string, loc []int, offset int) Directive {
	group := func(n int) (string, bool) {
		start, end := loc[2*n], loc[2*n+1]
		if start < 0 {
			return "", false
		}
		return s[start:end], true
	}

	d := Directive{
		Start: offset + loc[0],
		End:   offset + loc[1],
	}
	if module, ok := group(groupDoubleQuoted); ok {
		d.Module = module
		d.Quote = '"'
	} else if module, ok := group(groupSingleQuoted); ok {
		d.Module = module
		d.Quote = '\''
	}
	d.Property, _ = group(groupProperty)
	return d
}
