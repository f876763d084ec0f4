package casefile

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	mlcompiler "github.com/nihei9/maleeni/compiler"
	mldriver "github.com/nihei9/maleeni/driver"
	mlspec "github.com/nihei9/maleeni/spec"
)

type tokenKind string

const (
	tokenKindDirective = tokenKind("directive")
	tokenKindValue     = tokenKind("value")
	tokenKindNewline   = tokenKind("newline")
	tokenKindEOF       = tokenKind("eof")
	tokenKindInvalid   = tokenKind("invalid")
)

type token struct {
	kind tokenKind
	text string
	row  int
	col  int
}

// The directive part is lexed with these kinds. A directive name is "#" followed by lower-case words joined with
// '-'; a value is any run of characters other than white spaces and '#'.
func directiveLexSpec() *mlspec.LexSpec {
	return &mlspec.LexSpec{
		Name: "directive",
		Entries: []*mlspec.LexEntry{
			{
				Kind:    mlspec.LexKindName("white_space"),
				Pattern: mlspec.LexPattern(`[\u{0009}\u{0020}]+`),
			},
			{
				Kind:    mlspec.LexKindName("newline"),
				Pattern: mlspec.LexPattern(`\u{000A}|\u{000D}\u{000A}`),
			},
			{
				Kind:    mlspec.LexKindName("directive"),
				Pattern: mlspec.LexPattern(mlspec.EscapePattern("#") + `[a-z]+(\u{002D}[a-z]+)*`),
			},
			{
				Kind:    mlspec.LexKindName("value"),
				Pattern: mlspec.LexPattern(`[^\u{0009}\u{000A}\u{000D}\u{0020}\u{0023}]+`),
			},
		},
	}
}

var (
	compileOnce     sync.Once
	compiledLexSpec *mlspec.CompiledLexSpec
	compileErr      error
)

func compileLexSpec() (*mlspec.CompiledLexSpec, error) {
	compileOnce.Do(func() {
		s, err, cErrs := mlcompiler.Compile(directiveLexSpec(), mlcompiler.CompressionLevel(mlcompiler.CompressionLevelMax))
		if err != nil {
			if len(cErrs) > 0 {
				var b strings.Builder
				writeCompileError(&b, cErrs[0])
				for _, cerr := range cErrs[1:] {
					fmt.Fprintf(&b, "\n")
					writeCompileError(&b, cerr)
				}
				compileErr = errors.New(b.String())
				return
			}
			compileErr = err
			return
		}
		compiledLexSpec = s
	})
	return compiledLexSpec, compileErr
}

func writeCompileError(w io.Writer, cErr *mlcompiler.CompileError) {
	if cErr.Fragment {
		fmt.Fprintf(w, "fragment ")
	}
	fmt.Fprintf(w, "%v: %v", cErr.Kind, cErr.Cause)
	if cErr.Detail != "" {
		fmt.Fprintf(w, ": %v", cErr.Detail)
	}
}

type lexer struct {
	kindNames []mlspec.LexKindName
	d         *mldriver.Lexer
	rowOffset int
}

// newLexer returns a lexer for a directive part. rowOffset is the number of lines preceding the part in the file.
func newLexer(src io.Reader, rowOffset int) (*lexer, error) {
	s, err := compileLexSpec()
	if err != nil {
		return nil, err
	}
	d, err := mldriver.NewLexer(mldriver.NewLexSpec(s), src)
	if err != nil {
		return nil, err
	}
	return &lexer{
		kindNames: s.KindNames,
		d:         d,
		rowOffset: rowOffset,
	}, nil
}

func (l *lexer) next() (*token, error) {
	for {
		tok, err := l.d.Next()
		if err != nil {
			return nil, err
		}
		row := l.rowOffset + tok.Row + 1
		col := tok.Col + 1
		if tok.Invalid {
			return &token{
				kind: tokenKindInvalid,
				text: string(tok.Lexeme),
				row:  row,
				col:  col,
			}, nil
		}
		if tok.EOF {
			return &token{
				kind: tokenKindEOF,
				row:  row,
				col:  col,
			}, nil
		}

		switch l.kindNames[tok.KindID].String() {
		case "white_space":
			continue
		case "newline":
			return &token{
				kind: tokenKindNewline,
				row:  row,
				col:  col,
			}, nil
		case "directive":
			return &token{
				kind: tokenKindDirective,
				text: strings.TrimPrefix(string(tok.Lexeme), "#"),
				row:  row,
				col:  col,
			}, nil
		default:
			return &token{
				kind: tokenKindValue,
				text: string(tok.Lexeme),
				row:  row,
				col:  col,
			}, nil
		}
	}
}
