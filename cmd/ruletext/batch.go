package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/nihei9/ruletext/batch"
	"github.com/spf13/cobra"
)

var batchFlags = struct {
	workers  *int
	failFast *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "batch [<jobs file path>]",
		Short: "Round-trip many records in parallel",
		Long: `batch reads a JSON Lines file, one job per line:
  {"name":"...","codec":"...","rule_type":"...","subtype":"...","text":"..."}
and round-trips every job. Failures are logged to stderr and a summary is printed to stdout.`,
		Example: `  ruletext batch jobs.jsonl -w 8`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runBatch,
	}
	batchFlags.workers = cmd.Flags().IntP("workers", "w", 0, "number of jobs running at once (default GOMAXPROCS)")
	batchFlags.failFast = cmd.Flags().Bool("fail-fast", false, "stop starting new jobs after the first failure")
	rootCmd.AddCommand(cmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	var jobs []*batch.Job
	{
		src := os.Stdin
		if len(args) > 0 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("Cannot open the jobs file %s: %w", args[0], err)
			}
			defer f.Close()
			src = f
		}
		var err error
		jobs, err = batch.ReadJobs(src)
		if err != nil {
			return fmt.Errorf("Cannot read jobs: %w", err)
		}
	}

	r := &batch.Runner{
		Workers:  *batchFlags.workers,
		FailFast: *batchFlags.failFast,
		Logger:   log.New(os.Stderr, "", 0),
	}
	rs, err := r.Run(context.Background(), jobs)
	s := batch.Summarize(rs)
	fmt.Fprintf(os.Stdout, "total: %v, passed: %v, failed: %v, skipped: %v\n", s.Total, s.Passed, s.Failed, s.Skipped)
	if err != nil {
		return fmt.Errorf("Batch stopped: %w", err)
	}
	if s.Failed > 0 {
		return errors.New("Batch failed")
	}
	return nil
}
