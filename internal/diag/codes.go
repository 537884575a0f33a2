package diag

import (
	"fmt"
	"strings"
)

type Code uint16

const (
	// Unknown
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	// Синтаксические
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedParen    Code = 2002
	SynExpectSemicolon  Code = 2003
	SynExpectIdentifier Code = 2004
	SynExpectExpression Code = 2005
	SynExpectAssign     Code = 2006

	// Lint rules (3000-3999)
	LintInfo            Code = 3000
	LintRedundantParens Code = 3001
	LintDoubleNegation  Code = 3002
	LintIdentityArith   Code = 3003
	LintBoolCompare     Code = 3004
	LintSelfCompare     Code = 3005

	// I/O
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Project configuration
	ProjInfo        Code = 5000
	ProjBadConfig   Code = 5001
	ProjUnknownRule Code = 5002
	ProjBadSeverity Code = 5003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexUnknownChar:              "Unknown character",
		LexUnterminatedString:       "Unterminated string",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Bad number literal",
		SynInfo:                     "Syntax information",
		SynUnexpectedToken:          "Unexpected token",
		SynUnclosedParen:            "Unclosed parenthesis",
		SynExpectSemicolon:          "Expected semicolon",
		SynExpectIdentifier:         "Expected identifier",
		SynExpectExpression:         "Expected expression",
		SynExpectAssign:             "Expected '='",
		LintInfo:                    "Lint information",
		LintRedundantParens:         "Redundant parentheses",
		LintDoubleNegation:          "Double negation",
		LintIdentityArith:           "Identity arithmetic",
		LintBoolCompare:             "Comparison with boolean literal",
		LintSelfCompare:             "Comparison of an expression with itself",
		IOLoadFileError:             "I/O load file error",
		IOCacheError:                "Diagnostics cache error",
		ProjInfo:                    "Project information",
		ProjBadConfig:               "Invalid project configuration",
		ProjUnknownRule:             "Unknown rule in configuration",
		ProjBadSeverity:             "Unknown severity in configuration",
	}

	// короткие имена правил для конфига и CLI
	ruleNames = map[Code]string{
		SynExpectSemicolon:  "missing-semicolon",
		LintRedundantParens: "redundant-parens",
		LintDoubleNegation:  "double-negation",
		LintIdentityArith:   "identity-arith",
		LintBoolCompare:     "bool-compare",
		LintSelfCompare:     "self-compare",
	}
)

func (c Code) ID() string {
	ic := int(c)
	switch {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("LNT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

// Rule returns the short rule name ("redundant-parens") or "" when the code
// is not a configurable rule.
func (c Code) Rule() string {
	return ruleNames[c]
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

// Rules lists every configurable rule code in ascending order.
func Rules() []Code {
	return []Code{
		SynExpectSemicolon,
		LintRedundantParens,
		LintDoubleNegation,
		LintIdentityArith,
		LintBoolCompare,
		LintSelfCompare,
	}
}

// ParseCode resolves either a code id ("LNT3001") or a rule name
// ("redundant-parens").
func ParseCode(s string) (Code, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownCode, false
	}
	for c, name := range ruleNames {
		if strings.EqualFold(name, s) {
			return c, true
		}
	}
	up := strings.ToUpper(s)
	for c := range codeDescription {
		if c != UnknownCode && c.ID() == up {
			return c, true
		}
	}
	return UnknownCode, false
}
