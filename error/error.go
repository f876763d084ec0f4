package error

import (
	"fmt"
	"strings"
)

// Cause classifies a codec failure. Codecs never attempt partial decoding, so every cause is final for the
// record that produced it.
type Cause struct {
	message string
}

func newCause(message string) *Cause {
	return &Cause{
		message: message,
	}
}

func (c *Cause) Error() string {
	return c.message
}

var (
	// MalformedInput means the text doesn't match the token or field cardinality expected for the declared
	// rule type and subtype.
	MalformedInput = newCause("malformed input")

	// InvariantViolation means the decoded state is internally inconsistent, e.g., a line matched more than one
	// transformation kind or a table has the wrong number of cells.
	InvariantViolation = newCause("invariant violation")
)

type CodecError struct {
	Cause  *Cause
	Detail string

	// Line is a 1-based line number within the structure text. Zero means the error isn't tied to a line.
	Line int

	// Text is the offending line or segment, if any.
	Text string

	// Context lists the enclosing parts from the outermost, e.g., "layer 2", "row 1", "structure 3".
	Context []string

	// Record names the record the text came from. The codecs leave it empty; the batch layer fills it in.
	Record string
}

func Malformed(format string, a ...interface{}) *CodecError {
	return &CodecError{
		Cause:  MalformedInput,
		Detail: fmt.Sprintf(format, a...),
	}
}

func Invariant(format string, a ...interface{}) *CodecError {
	return &CodecError{
		Cause:  InvariantViolation,
		Detail: fmt.Sprintf(format, a...),
	}
}

// At sets the line number and the line text and returns the error itself.
func (e *CodecError) At(line int, text string) *CodecError {
	e.Line = line
	e.Text = text
	return e
}

// In prepends an enclosing part to the context and returns the error itself.
func (e *CodecError) In(part string) *CodecError {
	e.Context = append([]string{part}, e.Context...)
	return e
}

func (e *CodecError) Error() string {
	var b strings.Builder
	if e.Record != "" {
		fmt.Fprintf(&b, "%v: ", e.Record)
	}
	for _, c := range e.Context {
		fmt.Fprintf(&b, "%v: ", c)
	}
	if e.Line != 0 {
		fmt.Fprintf(&b, "line %v: ", e.Line)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %v", e.Detail)
	}
	if e.Text != "" {
		fmt.Fprintf(&b, "\n    %q", e.Text)
	}

	return b.String()
}

func (e *CodecError) Unwrap() error {
	return e.Cause
}

type CodecErrors []*CodecError

func (e CodecErrors) Error() string {
	if len(e) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%v", e[0])
	for _, err := range e[1:] {
		fmt.Fprintf(&b, "\n%v", err)
	}

	return b.String()
}
