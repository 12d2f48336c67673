package exec_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/exec"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

func TestTimeLimiter_Budget(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		now = now.Add(40 * time.Millisecond)
		return now
	}
	limiter := exec.NewTimeLimiter(100*time.Millisecond, exec.WithClock(clock))
	root := &code.Root{Body: code.Block{text("a"), text("b"), text("c"), text("d"), text("e")}}

	ctx := exec.New(value.Null(), exec.WithSafeExecution(true), exec.WithLimiter(limiter))
	err := ctx.Run(root)

	var execErr *exec.ExecuteError
	if !errors.As(err, &execErr) || execErr.Info.Kind != exec.ErrTimeLimitReached {
		t.Fatalf("expected time limit failure, got %v", err)
	}
	// start, +40, +80 pass; +120 fails on the fourth step.
	if ctx.Output() != "ab" {
		t.Fatalf("output: got %q", ctx.Output())
	}
}

func TestLimiters_FirstErrorWins(t *testing.T) {
	steps := exec.NewStepLimiter(100)
	deny := exec.LimiterFunc(func(c *exec.Context) error {
		return &exec.ExecuteError{Info: c.Error(exec.ErrCodeLimitReached).WithData("deny")}
	})

	ctx := exec.New(value.Null(), exec.WithLimiter(exec.Limiters(steps, nil, deny)))
	err := ctx.Run(text("a"))
	var execErr *exec.ExecuteError
	if !errors.As(err, &execErr) || execErr.Info.Data != "deny" {
		t.Fatalf("expected deny failure, got %v", err)
	}
	if steps.Steps() != 1 {
		t.Fatalf("step limiter should have been consulted once, got %d", steps.Steps())
	}
}
