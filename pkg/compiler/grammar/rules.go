// Package grammar provides the lexical rules of IPPcode24 operands.
//
// Every recognizer is total: it never fails, it only answers whether the
// whole token matches. Partial (prefix or substring) matches are never
// accepted, so "int@12abc" is not an integer literal.
package grammar

import "regexp"

// identifier characters shared by variables and labels
const (
	identStart = `[A-Za-z_&%*$!?-]`
	identRest  = `[A-Za-z0-9_&%*$!?-]*`
)

var (
	opcodeRe   = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	variableRe = regexp.MustCompile(`^[GLT]F@` + identStart + identRest + `$`)
	labelRe    = regexp.MustCompile(`^` + identStart + identRest + `$`)

	decimalRe = regexp.MustCompile(`^int@[-+]?[0-9](_?[0-9])*$`)
	octalRe   = regexp.MustCompile(`^int@[-+]?0[oO](_?[0-7])+$`)
	hexRe     = regexp.MustCompile(`^int@[-+]?0[xX](_?[0-9a-fA-F])+$`)
	stringRe  = regexp.MustCompile(`^string@(?:[^#\\]|\\[0-9]{3})*$`)
)

// Type names accepted by READ.
var typeNames = map[string]bool{
	"int":    true,
	"bool":   true,
	"string": true,
	"nil":    true,
}

// IsOpcode reports whether token is one or more ASCII alphanumerics.
func IsOpcode(token string) bool {
	return opcodeRe.MatchString(token)
}

// IsVariable reports whether token is a frame-qualified variable (GF@, LF@ or TF@).
func IsVariable(token string) bool {
	return variableRe.MatchString(token)
}

// IsLabel reports whether token is a valid label name.
func IsLabel(token string) bool {
	return labelRe.MatchString(token)
}

// IsType reports whether token is exactly one of the type names.
func IsType(token string) bool {
	return typeNames[token]
}

// IsSymbol reports whether token is a variable or a well-formed literal.
func IsSymbol(token string) bool {
	_, ok := Classify(token)
	return ok
}

// isIntLiteral matches the three integer notations.
func isIntLiteral(token string) bool {
	return decimalRe.MatchString(token) || octalRe.MatchString(token) || hexRe.MatchString(token)
}
