package casefile

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
	// layout errors
	synErrPartCount = newSyntaxError("a case consists of a description, directives, a source and an optional expectation")

	// directive errors
	synErrInvalidToken       = newSyntaxError("invalid token")
	synErrNoDirectiveName    = newSyntaxError("a line must start with a directive name")
	synErrUnknownDirective   = newSyntaxError("unknown directive")
	synErrDuplicateDirective = newSyntaxError("a directive can appear only once")
	synErrNoDirectiveParam   = newSyntaxError("a directive needs a parameter")
	synErrNoCodec            = newSyntaxError("the #codec directive is missing")
	synErrNoRuleType         = newSyntaxError("the #rule-type directive is missing")
	synErrInvalidParam       = newSyntaxError("invalid directive parameter")

	// source errors
	synErrInvalidLiteral = newSyntaxError("a source line must be a Go string literal")

	// expectation errors
	synErrUnknownExpectation = newSyntaxError("the expectation must be ok, malformed or invariant")
)
