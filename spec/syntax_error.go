package spec

import "fmt"

type SyntaxError struct {
	message string
}

func newSyntaxError(message string) *SyntaxError {
	return &SyntaxError{
		message: message,
	}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: %s", e.message)
}

var (
	// lexical errors
	synErrEmptyTerminal = newSyntaxError("a terminal must have at least one character")

	// syntax errors
	synErrInvalidToken           = newSyntaxError("invalid token")
	synErrNoProduction           = newSyntaxError("a grammar must have at least one production")
	synErrNoProductionName       = newSyntaxError("a production must begin with a non-terminal")
	synErrNoDerives              = newSyntaxError("'::=' must follow the LHS of a production")
	synErrEmptyAlternative       = newSyntaxError("an alternative needs at least one element; use '#' for an empty alternative")
	synErrEpsilonWithOtherSymbol = newSyntaxError("'#' cannot be combined with other elements")
	synErrProdNoNewline          = newSyntaxError("a production must be followed by a newline")
)
