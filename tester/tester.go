package tester

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nihei9/ruletext/casefile"
	"github.com/nihei9/ruletext/codec"
	verr "github.com/nihei9/ruletext/error"
)

type TestResult struct {
	TestCasePath string
	Error        error
	Diffs        []*Diff
}

// Diff describes where the re-encoded text first departs from the source.
type Diff struct {
	Offset   int
	Expected string
	Actual   string
}

func (r *TestResult) String() string {
	if r.Error != nil {
		const indent1 = "    "
		const indent2 = indent1 + indent1

		msgLines := strings.Split(r.Error.Error(), "\n")
		msg := fmt.Sprintf("Failed %v:\n%v%v", r.TestCasePath, indent1, strings.Join(msgLines, "\n"+indent1))
		if len(r.Diffs) == 0 {
			return msg
		}
		var diffLines []string
		for _, diff := range r.Diffs {
			diffLines = append(diffLines, fmt.Sprintf("first difference at byte %v", diff.Offset))
			diffLines = append(diffLines, fmt.Sprintf("%vexpected: %q", indent1, diff.Expected))
			diffLines = append(diffLines, fmt.Sprintf("%vactual:   %q", indent1, diff.Actual))
		}
		return fmt.Sprintf("%v\n%v%v", msg, indent2, strings.Join(diffLines, "\n"+indent2))
	}
	return fmt.Sprintf("Passed %v", r.TestCasePath)
}

type TestCaseWithMetadata struct {
	TestCase *casefile.Case
	FilePath string
	Error    error
}

func ListTestCases(testPath string) []*TestCaseWithMetadata {
	fi, err := os.Stat(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	if !fi.IsDir() {
		c, err := parseTestCase(testPath)
		return []*TestCaseWithMetadata{
			{
				TestCase: c,
				FilePath: testPath,
				Error:    err,
			},
		}
	}

	es, err := os.ReadDir(testPath)
	if err != nil {
		return []*TestCaseWithMetadata{
			{
				FilePath: testPath,
				Error:    err,
			},
		}
	}
	var cases []*TestCaseWithMetadata
	for _, e := range es {
		cs := ListTestCases(filepath.Join(testPath, e.Name()))
		cases = append(cases, cs...)
	}
	return cases
}

func parseTestCase(testCasePath string) (*casefile.Case, error) {
	f, err := os.Open(testCasePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := casefile.Parse(f)
	if err != nil {
		var caseErr *verr.CaseError
		if errors.As(err, &caseErr) {
			caseErr.FilePath = testCasePath
			caseErr.SourceName = testCasePath
		}
		return nil, err
	}
	return c, nil
}

type Tester struct {
	Cases []*TestCaseWithMetadata
}

func (t *Tester) Run() []*TestResult {
	var rs []*TestResult
	for _, c := range t.Cases {
		rs = append(rs, runTest(c))
	}
	return rs
}

func runTest(c *TestCaseWithMetadata) *TestResult {
	if c.Error != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        c.Error,
		}
	}

	tc := c.TestCase
	v, err := codec.Decode(tc.Codec, tc.Source, tc.Options)
	if want := tc.Expect.Cause(); want != nil {
		if err == nil {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("decoding must fail with %v, but it succeeded", want),
			}
		}
		if !errors.Is(err, want) {
			return &TestResult{
				TestCasePath: c.FilePath,
				Error:        fmt.Errorf("decoding must fail with %v: %w", want, err),
			}
		}
		return &TestResult{
			TestCasePath: c.FilePath,
		}
	}
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	text, err := codec.Encode(tc.Codec, v, tc.Options)
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}
	if text != tc.Source {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        fmt.Errorf("output mismatch"),
			Diffs: []*Diff{
				diffText(tc.Source, text),
			},
		}
	}

	// The full round trip also re-decodes the text.
	_, err = codec.RoundTrip(tc.Codec, tc.Source, tc.Options)
	if err != nil {
		return &TestResult{
			TestCasePath: c.FilePath,
			Error:        err,
		}
	}

	return &TestResult{
		TestCasePath: c.FilePath,
	}
}

const diffContext = 16

func diffText(expected, actual string) *Diff {
	i := 0
	for i < len(expected) && i < len(actual) && expected[i] == actual[i] {
		i++
	}
	return &Diff{
		Offset:   i,
		Expected: excerpt(expected, i),
		Actual:   excerpt(actual, i),
	}
}

func excerpt(s string, from int) string {
	if from+diffContext < len(s) {
		return s[from : from+diffContext]
	}
	return s[from:]
}
