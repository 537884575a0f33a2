package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident
	// IntLit is a decimal integer literal.
	IntLit
	// StringLit is a double-quoted string literal.
	StringLit

	KwLet   // let
	KwTrue  // true
	KwFalse // false

	Plus    // +
	Minus   // -
	Star    // *
	Slash   // /
	Percent // %
	Assign  // =
	EqEq    // ==
	Bang    // !
	BangEq  // !=
	Lt      // <
	LtEq    // <=
	Gt      // >
	GtEq    // >=
	AndAnd  // &&
	OrOr    // ||

	LParen    // (
	RParen    // )
	Comma     // ,
	Semicolon // ;
)

var kindNames = [...]string{
	Invalid:   "Invalid",
	EOF:       "EOF",
	Ident:     "Ident",
	IntLit:    "IntLit",
	StringLit: "StringLit",
	KwLet:     "KwLet",
	KwTrue:    "KwTrue",
	KwFalse:   "KwFalse",
	Plus:      "Plus",
	Minus:     "Minus",
	Star:      "Star",
	Slash:     "Slash",
	Percent:   "Percent",
	Assign:    "Assign",
	EqEq:      "EqEq",
	Bang:      "Bang",
	BangEq:    "BangEq",
	Lt:        "Lt",
	LtEq:      "LtEq",
	Gt:        "Gt",
	GtEq:      "GtEq",
	AndAnd:    "AndAnd",
	OrOr:      "OrOr",
	LParen:    "LParen",
	RParen:    "RParen",
	Comma:     "Comma",
	Semicolon: "Semicolon",
}

var kindSpelling = map[Kind]string{
	KwLet:     "let",
	KwTrue:    "true",
	KwFalse:   "false",
	Plus:      "+",
	Minus:     "-",
	Star:      "*",
	Slash:     "/",
	Percent:   "%",
	Assign:    "=",
	EqEq:      "==",
	Bang:      "!",
	BangEq:    "!=",
	Lt:        "<",
	LtEq:      "<=",
	Gt:        ">",
	GtEq:      ">=",
	AndAnd:    "&&",
	OrOr:      "||",
	LParen:    "(",
	RParen:    ")",
	Comma:     ",",
	Semicolon: ";",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// Spelling returns the fixed source text for keywords and punctuation,
// or "" for kinds whose text varies (identifiers, literals).
func (k Kind) Spelling() string {
	return kindSpelling[k]
}

// IsOperator reports whether the kind is a unary or binary operator.
func (k Kind) IsOperator() bool {
	switch k {
	case Plus, Minus, Star, Slash, Percent, Assign, EqEq, Bang, BangEq,
		Lt, LtEq, Gt, GtEq, AndAnd, OrOr:
		return true
	default:
		return false
	}
}
