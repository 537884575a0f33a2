package diag

import (
	"maps"
	"slices"

	"mend/internal/source"
)

func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return New(SevWarning, code, primary, msg)
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(slices.Clip(d.Notes), Note{Span: sp, Msg: msg})
	return d
}

func (d Diagnostic) WithTag(t Tag) Diagnostic {
	d.Tags |= t
	return d
}

func (d Diagnostic) WithProperty(key, value string) Diagnostic {
	props := make(map[string]string, len(d.Properties)+1)
	maps.Copy(props, d.Properties)
	props[key] = value
	d.Properties = props
	return d
}

func (d Diagnostic) WithSeverity(sev Severity) Diagnostic {
	d.Severity = sev
	return d
}

// WithSpan rebinds the diagnostic to another span, typically a span in a
// newer version of the same file.
func (d Diagnostic) WithSpan(sp source.Span) Diagnostic {
	d.Primary = sp
	return d
}
