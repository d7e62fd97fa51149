// Package health runs the doctor battery: independent probes for the
// tools and services loclaude depends on, aggregated into one report.
package health

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// Status is the outcome class of a single check.
type Status string

const (
	StatusOK      Status = "ok"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Result is what one probe reports.
type Result struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	Version string `json:"version,omitempty"`
	Hint    string `json:"hint,omitempty"`

	// Duration is how long the probe took. Set by the Checker.
	Duration time.Duration `json:"-"`
}

// Check defines a single named probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) Result
}

// Checker runs a fixed list of checks.
type Checker struct {
	checks []Check
}

// NewChecker creates a checker for checks, reported in the given order.
func NewChecker(checks ...Check) *Checker {
	return &Checker{checks: checks}
}

// Checks returns the names of the configured checks.
func (c *Checker) Checks() []string {
	names := make([]string, len(c.checks))
	for i, check := range c.checks {
		names[i] = check.Name
	}
	return names
}

// Run executes every check concurrently and waits for all of them. A
// panicking probe is reported as an error result for that check only.
func (c *Checker) Run(ctx context.Context) Report {
	results := make([]Result, len(c.checks))

	var wg sync.WaitGroup
	for i, check := range c.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = runOne(ctx, check)
		}()
	}
	wg.Wait()

	return Report{Results: results, CheckedAt: time.Now()}
}

func runOne(ctx context.Context, check Check) (res Result) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.WithField("check", check.Name).Errorf("probe panicked: %v", r)
			res = Result{
				Name:    check.Name,
				Status:  StatusError,
				Message: fmt.Sprintf("check failed: %v", r),
			}
		}
		res.Duration = time.Since(start)
	}()

	res = check.Probe(ctx)
	if res.Name == "" {
		res.Name = check.Name
	}
	log.WithFields(log.Fields{
		"check":    check.Name,
		"status":   res.Status,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("health check done")
	return res
}

// ─── Report ─────────────────────────────────────────────────────────────────

// Report is the aggregated outcome of a Checker run.
type Report struct {
	Results   []Result  `json:"checks"`
	CheckedAt time.Time `json:"checked_at"`
}

// Errors returns the results with error status.
func (r Report) Errors() []Result { return r.filter(StatusError) }

// Warnings returns the results with warning status.
func (r Report) Warnings() []Result { return r.filter(StatusWarning) }

// Overall is error if any result is an error, else warning if any is a
// warning, else ok.
func (r Report) Overall() Status {
	switch {
	case len(r.Errors()) > 0:
		return StatusError
	case len(r.Warnings()) > 0:
		return StatusWarning
	default:
		return StatusOK
	}
}

// ExitCode is 1 when any check failed with an error, 0 otherwise.
// Warnings alone do not fail the run.
func (r Report) ExitCode() int {
	if r.Overall() == StatusError {
		return 1
	}
	return 0
}

func (r Report) filter(s Status) []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == s {
			out = append(out, res)
		}
	}
	return out
}
