package syntax

import (
	"golang.org/x/text/unicode/norm"
)

// Equal reports structural equality: same kinds, token kinds, text and
// trivia text. Spans are ignored.
func Equal(a, b *Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind != b.Kind || len(a.Children) != len(b.Children) {
		return false
	}
	if a.Kind.IsLeaf() {
		ta, tb := a.Token, b.Token
		if ta.Kind != tb.Kind || ta.Text != tb.Text || ta.Missing != tb.Missing || len(ta.Leading) != len(tb.Leading) {
			return false
		}
		for i := range ta.Leading {
			if ta.Leading[i].Kind != tb.Leading[i].Kind || ta.Leading[i].Text != tb.Leading[i].Text {
				return false
			}
		}
		return true
	}
	for i := range a.Children {
		if !Equal(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// EquivalentExpr compares expressions ignoring trivia; names are compared
// in NFC so that differently composed identifiers are the same variable.
func EquivalentExpr(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind || len(a.Children) != len(b.Children) {
		return false
	}
	if a.Kind.IsLeaf() {
		if a.Token.Kind != b.Token.Kind {
			return false
		}
		if a.Kind == KindName {
			return SameName(a.Token.Text, b.Token.Text)
		}
		return a.Token.Text == b.Token.Text
	}
	for i := range a.Children {
		if !EquivalentExpr(a.Children[i], b.Children[i]) {
			return false
		}
	}
	return true
}

// SameName compares identifiers after NFC normalisation.
func SameName(a, b string) bool {
	if a == b {
		return true
	}
	return norm.NFC.String(a) == norm.NFC.String(b)
}
