// Package casefile parses golden case files.
//
// A case file consists of parts separated by lines of three or more dashes:
//
//	description
//	---
//	#codec input-structures
//	#rule-type Rules_Transfer
//	---
//	"a~|1\r\n"
//	"-*-b~|2\r\n"
//	---
//	ok
//
// The directive part names the codec, the rule type and, for spellout tables, the subtype. Each line of the source
// part is a Go string literal; the literals are concatenated. The last part is optional and is one of ok, malformed
// and invariant.
package casefile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/nihei9/ruletext/codec"
	verr "github.com/nihei9/ruletext/error"
	"github.com/nihei9/ruletext/ruletype"
)

type Expectation string

const (
	ExpectOK        = Expectation("ok")
	ExpectMalformed = Expectation("malformed")
	ExpectInvariant = Expectation("invariant")
)

// Cause returns the error cause the expectation stands for, or nil for ExpectOK.
func (e Expectation) Cause() error {
	switch e {
	case ExpectMalformed:
		return verr.MalformedInput
	case ExpectInvariant:
		return verr.InvariantViolation
	}
	return nil
}

type Case struct {
	Description string
	Codec       codec.Kind
	Options     codec.Options
	Source      string
	Expect      Expectation
}

// Parse reads a case. Syntax errors are returned as *verr.CaseError.
func Parse(r io.Reader) (*Case, error) {
	parts, err := splitIntoParts(r)
	if err != nil {
		return nil, err
	}
	if len(parts) != 3 && len(parts) != 4 {
		return nil, &verr.CaseError{
			Cause: synErrPartCount,
		}
	}

	offset := parts[0].lineCount + 1
	k, opts, err := parseDirectives(parts[1].buf, offset)
	if err != nil {
		return nil, err
	}

	offset += parts[1].lineCount + 1
	src, err := parseSource(parts[2].buf, offset)
	if err != nil {
		return nil, err
	}

	expect := ExpectOK
	if len(parts) == 4 {
		offset += parts[2].lineCount + 1
		expect, err = parseExpectation(parts[3].buf, offset)
		if err != nil {
			return nil, err
		}
	}

	return &Case{
		Description: string(parts[0].buf),
		Codec:       k,
		Options:     opts,
		Source:      src,
		Expect:      expect,
	}, nil
}

type directive struct {
	name     string
	param    string
	row      int
	col      int
	paramCol int
}

func parseDirectives(src []byte, rowOffset int) (codec.Kind, codec.Options, error) {
	var opts codec.Options

	dirs, err := readDirectives(src, rowOffset)
	if err != nil {
		return "", opts, err
	}

	var k codec.Kind
	seen := map[string]struct{}{}
	for _, dir := range dirs {
		if _, ok := seen[dir.name]; ok {
			return "", opts, &verr.CaseError{
				Cause: synErrDuplicateDirective,
				Row:   dir.row,
				Col:   dir.col,
			}
		}
		seen[dir.name] = struct{}{}

		var err error
		switch dir.name {
		case "codec":
			k, err = codec.ParseKind(dir.param)
		case "rule-type":
			opts.RuleType, err = ruletype.Parse(dir.param)
		case "subtype":
			opts.Subtype, err = ruletype.ParseSubtype(dir.param)
		default:
			return "", opts, &verr.CaseError{
				Cause: synErrUnknownDirective,
				Row:   dir.row,
				Col:   dir.col,
			}
		}
		if err != nil {
			return "", opts, &verr.CaseError{
				Cause: fmt.Errorf("%w: %v", synErrInvalidParam, err),
				Row:   dir.row,
				Col:   dir.paramCol,
			}
		}
	}
	if _, ok := seen["codec"]; !ok {
		return "", opts, &verr.CaseError{
			Cause: synErrNoCodec,
		}
	}
	if _, ok := seen["rule-type"]; !ok {
		return "", opts, &verr.CaseError{
			Cause: synErrNoRuleType,
		}
	}

	return k, opts, nil
}

// readDirectives reads lines of the form "#name value...". Values are joined with single spaces, so a parameter
// like "Phrase Builder" needs no quoting.
func readDirectives(src []byte, rowOffset int) ([]*directive, error) {
	l, err := newLexer(bytes.NewReader(src), rowOffset)
	if err != nil {
		return nil, err
	}

	var dirs []*directive
	var cur *directive
	var params []string
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenKindInvalid:
			return nil, &verr.CaseError{
				Cause: synErrInvalidToken,
				Row:   tok.row,
				Col:   tok.col,
			}
		case tokenKindDirective:
			if cur != nil {
				return nil, &verr.CaseError{
					Cause: synErrNoDirectiveName,
					Row:   tok.row,
					Col:   tok.col,
				}
			}
			cur = &directive{
				name: tok.text,
				row:  tok.row,
				col:  tok.col,
			}
			continue
		case tokenKindValue:
			if cur == nil {
				return nil, &verr.CaseError{
					Cause: synErrNoDirectiveName,
					Row:   tok.row,
					Col:   tok.col,
				}
			}
			if len(params) == 0 {
				cur.paramCol = tok.col
			}
			params = append(params, tok.text)
			continue
		}

		// newline or EOF
		if cur != nil {
			if len(params) == 0 {
				return nil, &verr.CaseError{
					Cause: synErrNoDirectiveParam,
					Row:   cur.row,
					Col:   cur.col,
				}
			}
			cur.param = strings.Join(params, " ")
			dirs = append(dirs, cur)
			cur = nil
			params = nil
		}
		if tok.kind == tokenKindEOF {
			return dirs, nil
		}
	}
}

func parseSource(src []byte, rowOffset int) (string, error) {
	var b strings.Builder
	for i, line := range strings.Split(string(src), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s, err := strconv.Unquote(line)
		if err != nil {
			return "", &verr.CaseError{
				Cause: synErrInvalidLiteral,
				Row:   rowOffset + i + 1,
			}
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func parseExpectation(src []byte, rowOffset int) (Expectation, error) {
	switch e := Expectation(strings.TrimSpace(string(src))); e {
	case ExpectOK, ExpectMalformed, ExpectInvariant:
		return e, nil
	}
	return "", &verr.CaseError{
		Cause: synErrUnknownExpectation,
		Row:   rowOffset + 1,
	}
}

type casePart struct {
	buf       []byte
	lineCount int
}

func splitIntoParts(r io.Reader) ([]*casePart, error) {
	var bufs []*casePart
	s := bufio.NewScanner(r)
	for {
		buf, lineCount, err := readPart(s)
		if err != nil {
			return nil, err
		}
		if buf == nil {
			break
		}
		bufs = append(bufs, &casePart{
			buf:       buf,
			lineCount: lineCount,
		})
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return bufs, nil
}

var reDelim = regexp.MustCompile(`^\s*---+\s*$`)

func readPart(s *bufio.Scanner) ([]byte, int, error) {
	if !s.Scan() {
		return nil, 0, s.Err()
	}
	buf := &bytes.Buffer{}
	line := s.Bytes()
	if reDelim.Match(line) {
		// Return an empty slice because (*bytes.Buffer).Bytes() returns nil if we have never written data.
		return []byte{}, 0, nil
	}
	_, err := buf.Write(line)
	if err != nil {
		return nil, 0, err
	}
	lineCount := 1
	for s.Scan() {
		line := s.Bytes()
		if reDelim.Match(line) {
			return buf.Bytes(), lineCount, nil
		}
		_, err := buf.Write([]byte("\n"))
		if err != nil {
			return nil, 0, err
		}
		_, err = buf.Write(line)
		if err != nil {
			return nil, 0, err
		}
		lineCount++
	}
	if err := s.Err(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), lineCount, nil
}
