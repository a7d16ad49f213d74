package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/ruvdl/ruvdl/log"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var commandContext = exec.CommandContext

// Launcher runs one job to completion.
type Launcher interface {
	Launch(ctx context.Context, job *Job) (output []byte, err error)
}

// Exec launches each job as a child process of Executable.
type Exec struct {
	// Executable defaults to the running binary.
	Executable string
	OutputDir  string
	// Extra arguments added to every child, e.g. --no-download.
	Extra []string
}

// Args returns the command line of a child.
func (e *Exec) Args(job *Job) []string {
	args := []string{job.URL}
	if job.Limit > 0 {
		args = append(args, "--limit", strconv.Itoa(job.Limit))
	}
	if e.OutputDir != "" {
		args = append(args, "--output-dir", e.OutputDir)
	}
	return append(args, e.Extra...)
}

func (e *Exec) Launch(ctx context.Context, job *Job) ([]byte, error) {
	executable := e.Executable
	if executable == "" {
		self, err := os.Executable()
		if err != nil {
			return nil, err
		}
		executable = self
	}

	var output bytes.Buffer
	cmd := commandContext(ctx, executable, e.Args(job)...) //nolint:gosec
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	return output.Bytes(), err
}

// Result is the outcome of one child.
type Result struct {
	Job      *Job
	Err      error
	ExitCode int
	Output   []byte
	Duration time.Duration
}

func (r *Result) OK() bool {
	return r.Err == nil
}

// Run launches every job, at most parallel at a time (0 means all at once),
// and waits for all of them. Results follow the order of jobs.
// A failing job never stops the others.
func Run(ctx context.Context, jobs []*Job, launcher Launcher, parallel int) []*Result {
	results := make([]*Result, len(jobs))

	var group errgroup.Group
	if parallel > 0 {
		group.SetLimit(parallel)
	}

	var mu sync.Mutex
	for i, job := range jobs {
		group.Go(func() error {
			started := time.Now()
			output, err := launcher.Launch(ctx, job)

			result := &Result{
				Job:      job,
				Err:      err,
				ExitCode: exitCode(err),
				Output:   output,
				Duration: time.Since(started),
			}

			entry := log.Fields(logrus.Fields{"series": job.URL, "exit": result.ExitCode})
			if err != nil {
				entry.Error(err)
			} else {
				entry.Info("finished")
			}

			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}

	_ = group.Wait()
	return results
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
