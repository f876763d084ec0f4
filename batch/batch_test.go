package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"testing"

	verr "github.com/nihei9/ruletext/error"
)

const jobsSrc = `{"name":"lex-1","codec":"input-structure","rule_type":"Rules_Lexical","text":"*cat~|2-m\r\n"}

{"name":"tr-1","codec":"output-structure","rule_type":"10","text":"Copy0~|~|Delete~|1\r\n"}
{"codec":"spellout-table","rule_type":"Rules_Spellout","subtype":"Simple","text":"w1>|<2|2|>|<>|<10|20|a@x|30|b@y|c1|c2|c3|c4|"}
{"name":"bad-codec","codec":"table","rule_type":"Rules_Spellout","text":""}
`

func TestReadJobs(t *testing.T) {
	jobs, err := ReadJobs(strings.NewReader(jobsSrc))
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 4 {
		t.Fatalf("unexpected job count; want: 4, got: %v", len(jobs))
	}
	if jobs[2].Name != "line 4" {
		t.Fatalf("a job without a name must be named after its line: %q", jobs[2].Name)
	}
	if jobs[0].Text != "*cat~|2-m\r\n" {
		t.Fatalf("unexpected text: %q", jobs[0].Text)
	}

	_, err = ReadJobs(strings.NewReader("{\"name\":\"a\"}\n{\n"))
	if err == nil || !strings.HasPrefix(err.Error(), "line 2: ") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunner_Run(t *testing.T) {
	jobs, err := ReadJobs(strings.NewReader(jobsSrc))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		workers int
	}{
		{workers: 0},
		{workers: 1},
		{workers: 3},
	}
	for i, tt := range tests {
		t.Run(fmt.Sprintf("#%v", i), func(t *testing.T) {
			var logs bytes.Buffer
			r := &Runner{
				Workers: tt.workers,
				Logger:  log.New(&logs, "fail: ", 0),
			}
			rs, err := r.Run(context.Background(), jobs)
			if err != nil {
				t.Fatal(err)
			}
			if len(rs) != len(jobs) {
				t.Fatalf("unexpected result count; want: %v, got: %v", len(jobs), len(rs))
			}
			for j, res := range rs {
				if res.Job != jobs[j] {
					t.Fatalf("results must be in job order")
				}
			}
			if !rs[0].OK() || !rs[2].OK() {
				t.Fatalf("unexpected failure: %v, %v", rs[0].Error, rs[2].Error)
			}
			if !errors.Is(rs[1].Error, verr.InvariantViolation) {
				t.Fatalf("unexpected error; want: %v, got: %v", verr.InvariantViolation, rs[1].Error)
			}
			if rs[3].OK() {
				t.Fatalf("an unknown codec must fail")
			}

			s := Summarize(rs)
			if s != (Summary{Total: 4, Passed: 2, Failed: 2}) {
				t.Fatalf("unexpected summary: %+v", s)
			}
			errs := CodecErrors(rs)
			if len(errs) != 1 || errs[0].Record != "tr-1" {
				t.Fatalf("unexpected codec errors: %v", errs)
			}
			if !strings.HasPrefix(errs.Error(), "tr-1: line 1: error: invariant violation") {
				t.Fatalf("unexpected message: %v", errs)
			}
			// A codec error spans two lines because it quotes the offending text.
			if n := strings.Count(logs.String(), "fail: "); n != 2 {
				t.Fatalf("every failure must be logged once; got %v entries:\n%v", n, logs.String())
			}
			if !strings.Contains(logs.String(), "fail: bad-codec: unknown codec: table") {
				t.Fatalf("unexpected log:\n%v", logs.String())
			}
		})
	}
}

func TestRunner_Run_FailFast(t *testing.T) {
	jobs := []*Job{
		{
			Name:     "bad",
			Codec:    "output-structure",
			RuleType: "Rules_Transfer",
			Text:     "a~|b~|c~|d~|e\r\n",
		},
	}
	for i := 0; i < 10; i++ {
		jobs = append(jobs, &Job{
			Name:     fmt.Sprintf("good-%v", i),
			Codec:    "input-structure",
			RuleType: "Rules_Lexical",
			Text:     "*cat~|2-m\r\n",
		})
	}

	r := &Runner{
		Workers:  1,
		FailFast: true,
	}
	rs, err := r.Run(context.Background(), jobs)
	if !errors.Is(err, verr.MalformedInput) {
		t.Fatalf("unexpected error; want: %v, got: %v", verr.MalformedInput, err)
	}
	if len(rs) != len(jobs) {
		t.Fatalf("unexpected result count; want: %v, got: %v", len(jobs), len(rs))
	}
	s := Summarize(rs)
	if s.Failed != 1 || s.Skipped == 0 {
		t.Fatalf("jobs after the failure must be skipped: %+v", s)
	}
}
