package error

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// CaseError is an error in a case file. When FilePath is set, Error quotes the offending line and, when Col is
// set, marks the offending column under it.
type CaseError struct {
	Cause      error
	FilePath   string
	SourceName string
	Row        int

	// Col is 1-based and counts characters. Zero means the whole line.
	Col int
}

func (e *CaseError) Error() string {
	var b strings.Builder
	if e.SourceName != "" {
		fmt.Fprintf(&b, "%v: ", e.SourceName)
	}
	switch {
	case e.Row != 0 && e.Col != 0:
		fmt.Fprintf(&b, "%v:%v: ", e.Row, e.Col)
	case e.Row != 0:
		fmt.Fprintf(&b, "%v: ", e.Row)
	}
	fmt.Fprintf(&b, "error: %v", e.Cause)

	line := readLine(e.FilePath, e.Row)
	if line != "" {
		fmt.Fprintf(&b, "\n    %v", line)
		if e.Col > 0 {
			fmt.Fprintf(&b, "\n    %v^", marginOf(line, e.Col))
		}
	}

	return b.String()
}

func (e *CaseError) Unwrap() error {
	return e.Cause
}

// marginOf returns the blank run that puts a marker under the col-th character of line. Tabs are kept so the
// marker lines up however the line is displayed.
func marginOf(line string, col int) string {
	var b strings.Builder
	i := 1
	for _, c := range line {
		if i >= col {
			break
		}
		if c == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
		i++
	}
	return b.String()
}

func readLine(filePath string, row int) string {
	if filePath == "" || row <= 0 {
		return ""
	}

	f, err := os.Open(filePath)
	if err != nil {
		return ""
	}
	defer f.Close()

	i := 1
	s := bufio.NewScanner(f)
	for s.Scan() {
		if i == row {
			return s.Text()
		}
		i++
	}

	return ""
}
