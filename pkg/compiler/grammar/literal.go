package grammar

import "strings"

// LiteralKind is the value category of a symbol operand.
type LiteralKind string

// Literal kinds. KindVar marks a symbol that is a variable reference.
const (
	KindInt    LiteralKind = "int"
	KindBool   LiteralKind = "bool"
	KindString LiteralKind = "string"
	KindNil    LiteralKind = "nil"
	KindVar    LiteralKind = "var"
)

// Literal is a classified symbol operand.
//
// Payload is the raw text after the first '@' (the whole token for
// variables). Escape sequences such as \065 are not decoded and no XML
// escaping is applied, so the same value can feed both serialization and
// statistics.
type Literal struct {
	Kind    LiteralKind
	Payload string
}

// Classify determines the literal kind of a symbol token.
// It returns false when the token is neither a variable nor a valid literal.
func Classify(token string) (Literal, bool) {
	if IsVariable(token) {
		return Literal{Kind: KindVar, Payload: token}, true
	}

	prefix, _, found := strings.Cut(token, "@")
	if !found {
		return Literal{}, false
	}

	var ok bool
	kind := LiteralKind(prefix)
	switch kind {
	case KindInt:
		ok = token != "int@" && isIntLiteral(token)
	case KindBool:
		ok = token == "bool@true" || token == "bool@false"
	case KindNil:
		ok = token == "nil@nil"
	case KindString:
		ok = stringRe.MatchString(token)
	}
	if !ok {
		return Literal{}, false
	}

	return Literal{Kind: kind, Payload: TextOf(token)}, true
}

// TextOf returns the textual content of an operand: the part after the
// literal prefix for int@, bool@, string@ and nil@ tokens, the token
// itself otherwise.
func TextOf(token string) string {
	for _, prefix := range []string{"int@", "bool@", "string@", "nil@"} {
		if strings.HasPrefix(token, prefix) {
			return strings.TrimSpace(token[len(prefix):])
		}
	}
	return token
}

var entities = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// Escape replaces the XML-significant characters &, < and > with entities.
func Escape(s string) string {
	return entities.Replace(s)
}
