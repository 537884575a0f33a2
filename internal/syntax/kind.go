package syntax

type Kind uint8

const (
	KindInvalid Kind = iota
	// KindFile: statements..., EOF token
	KindFile
	// KindLet: 'let' Name '=' expr ';'
	KindLet
	// KindExprStmt: expr ';'
	KindExprStmt
	// KindBinary: lhs op rhs
	KindBinary
	// KindUnary: op operand
	KindUnary
	// KindParen: '(' expr ')'
	KindParen
	// KindCall: callee '(' [arg {',' arg}] ')'
	KindCall
	// leaves
	KindName
	KindLiteral
	KindToken
	// KindError: tokens the parser could not place
	KindError
)

var kindNames = [...]string{
	KindInvalid:  "Invalid",
	KindFile:     "File",
	KindLet:      "Let",
	KindExprStmt: "ExprStmt",
	KindBinary:   "Binary",
	KindUnary:    "Unary",
	KindParen:    "Paren",
	KindCall:     "Call",
	KindName:     "Name",
	KindLiteral:  "Literal",
	KindToken:    "Token",
	KindError:    "Error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsLeaf reports whether nodes of this kind carry a Token and no children.
func (k Kind) IsLeaf() bool {
	return k == KindName || k == KindLiteral || k == KindToken
}

// IsExpr reports whether the kind can stand in expression position.
func (k Kind) IsExpr() bool {
	switch k {
	case KindBinary, KindUnary, KindParen, KindCall, KindName, KindLiteral, KindError:
		return true
	}
	return false
}

// IsList reports whether children of this kind may be inserted or removed.
func (k Kind) IsList() bool {
	return k == KindFile
}
