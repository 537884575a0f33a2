package token

import (
	"strings"

	"mend/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
	// Missing marks a token synthesized by the parser during recovery; it has
	// no text and an empty span.
	Missing bool
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// LeadingText concatenates the text of all leading trivia.
func (t Token) LeadingText() string {
	if len(t.Leading) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, tr := range t.Leading {
		sb.WriteString(tr.Text)
	}
	return sb.String()
}

// FullText returns leading trivia followed by the token text.
func (t Token) FullText() string {
	return t.LeadingText() + t.Text
}
