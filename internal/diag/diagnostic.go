package diag

import (
	"fmt"

	"mend/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Tag carries presentation hints. Tags never change what a fix does.
type Tag uint8

const (
	// TagUnnecessary marks faded code that belongs to another (primary)
	// diagnostic of the same defect.
	TagUnnecessary Tag = 1 << iota
	// TagDeprecated marks usages of deprecated constructs.
	TagDeprecated
)

func (t Tag) Has(o Tag) bool { return t&o != 0 }

func (t Tag) String() string {
	switch {
	case t == 0:
		return ""
	case t == TagUnnecessary:
		return "unnecessary"
	case t == TagDeprecated:
		return "deprecated"
	case t == TagUnnecessary|TagDeprecated:
		return "unnecessary,deprecated"
	}
	return fmt.Sprintf("tag(%d)", uint8(t))
}

type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Primary    source.Span
	Notes      []Note
	Tags       Tag
	Properties map[string]string
}

// Unnecessary reports whether d only marks a faded range.
func (d Diagnostic) Unnecessary() bool {
	return d.Tags.Has(TagUnnecessary)
}

// Property returns an analyzer property, "" when absent.
func (d Diagnostic) Property(key string) string {
	if d.Properties == nil {
		return ""
	}
	return d.Properties[key]
}

// Key is a stable identity within one FileSet: code, span and tags.
func (d Diagnostic) Key() string {
	return fmt.Sprintf("%s@%d:%d-%d#%d", d.Code.ID(), d.Primary.File, d.Primary.Start, d.Primary.End, d.Tags)
}
