// Package batch round-trips many independent records in parallel.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/nihei9/ruletext/codec"
	verr "github.com/nihei9/ruletext/error"
)

// Job is one line of a JSON Lines job file.
type Job struct {
	Name     string `json:"name"`
	Codec    string `json:"codec"`
	RuleType string `json:"rule_type"`
	Subtype  string `json:"subtype,omitempty"`
	Text     string `json:"text"`
}

func (j *Job) options() (codec.Kind, codec.Options, error) {
	k, err := codec.ParseKind(j.Codec)
	if err != nil {
		return "", codec.Options{}, err
	}
	opts, err := codec.ParseOptions(j.RuleType, j.Subtype)
	if err != nil {
		return "", codec.Options{}, err
	}
	return k, opts, nil
}

// A single record may hold a whole spellout table document.
const maxLineSize = 16 * 1024 * 1024

// ReadJobs reads one job per line. Blank lines are skipped.
func ReadJobs(r io.Reader) ([]*Job, error) {
	var jobs []*Job
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	row := 0
	for s.Scan() {
		row++
		line := s.Bytes()
		if len(line) == 0 {
			continue
		}
		job := &Job{}
		err := json.Unmarshal(line, job)
		if err != nil {
			return nil, fmt.Errorf("line %v: %w", row, err)
		}
		if job.Name == "" {
			job.Name = fmt.Sprintf("line %v", row)
		}
		jobs = append(jobs, job)
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}

type Result struct {
	Job   *Job
	Error error

	// Skipped is set for jobs that never ran because an earlier job failed in fail-fast mode.
	Skipped bool
}

func (r *Result) OK() bool {
	return r.Error == nil && !r.Skipped
}

type Runner struct {
	// Workers is the number of jobs running at once. Zero or less means GOMAXPROCS.
	Workers int

	// FailFast stops starting new jobs after the first failure.
	FailFast bool

	// Logger receives one line per failed job. Nil means no logging.
	Logger *log.Logger
}

// Run round-trips every job and returns the results in job order. The returned error is the first failure in
// fail-fast mode and nil otherwise; per-job failures are in the results.
func (r *Runner) Run(ctx context.Context, jobs []*Job) ([]*Result, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res := runJob(job)
			results[i] = res
			if res.Error == nil {
				return nil
			}
			r.logf("%v", res.Error)
			if r.FailFast {
				return res.Error
			}
			return nil
		})
	}
	err := g.Wait()

	for i, res := range results {
		if res == nil {
			results[i] = &Result{
				Job:     jobs[i],
				Skipped: true,
			}
		}
	}
	return results, err
}

func (r *Runner) logf(format string, a ...interface{}) {
	if r.Logger == nil {
		return
	}
	r.Logger.Printf(format, a...)
}

func runJob(job *Job) *Result {
	k, opts, err := job.options()
	if err != nil {
		return &Result{
			Job:   job,
			Error: fmt.Errorf("%v: %w", job.Name, err),
		}
	}
	_, err = codec.RoundTrip(k, job.Text, opts)
	if err != nil {
		var cerr *verr.CodecError
		if errors.As(err, &cerr) {
			cerr.Record = job.Name
			return &Result{
				Job:   job,
				Error: cerr,
			}
		}
		return &Result{
			Job:   job,
			Error: fmt.Errorf("%v: %w", job.Name, err),
		}
	}
	return &Result{
		Job: job,
	}
}

type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

func Summarize(results []*Result) Summary {
	s := Summary{
		Total: len(results),
	}
	for _, r := range results {
		switch {
		case r.Skipped:
			s.Skipped++
		case r.Error != nil:
			s.Failed++
		default:
			s.Passed++
		}
	}
	return s
}

// CodecErrors collects the codec failures of the results in job order.
func CodecErrors(results []*Result) verr.CodecErrors {
	var errs verr.CodecErrors
	for _, r := range results {
		var cerr *verr.CodecError
		if errors.As(r.Error, &cerr) {
			errs = append(errs, cerr)
		}
	}
	return errs
}
