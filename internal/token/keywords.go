package token

var keywords = map[string]Kind{
	"let":   KwLet,
	"true":  KwTrue,
	"false": KwFalse,
}

// LookupKeyword returns the keyword kind for ident, if it is one.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
