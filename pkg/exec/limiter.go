package exec

import "time"

// Limiter approves each step before it runs. Returning an *ExecuteError aborts
// the render in both modes; any other error fails only the current
// instruction.
type Limiter interface {
	Check(c *Context) error
}

// LimiterFunc adapts a function to Limiter.
type LimiterFunc func(c *Context) error

func (f LimiterFunc) Check(c *Context) error { return f(c) }

// NoopLimiter approves every step.
type NoopLimiter struct{}

func (NoopLimiter) Check(*Context) error { return nil }

// StepLimiter caps the number of instructions a render may execute.
type StepLimiter struct {
	max   int
	steps int
}

// NewStepLimiter allows at most max steps. A StepLimiter counts across calls,
// so it must not be shared between renders.
func NewStepLimiter(max int) *StepLimiter {
	return &StepLimiter{max: max}
}

func (l *StepLimiter) Check(c *Context) error {
	l.steps++
	if l.steps <= l.max {
		return nil
	}
	return &ExecuteError{Info: c.Error(ErrCodeLimitReached).WithData(l.max)}
}

// Steps reports how many steps were checked so far.
func (l *StepLimiter) Steps() int { return l.steps }

// TimeLimiterOption configures a TimeLimiter.
type TimeLimiterOption func(*TimeLimiter)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) TimeLimiterOption {
	return func(l *TimeLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// TimeLimiter aborts a render once its time budget is spent. The clock starts
// on the first check.
type TimeLimiter struct {
	budget  time.Duration
	now     func() time.Time
	started time.Time
}

func NewTimeLimiter(budget time.Duration, opts ...TimeLimiterOption) *TimeLimiter {
	l := &TimeLimiter{budget: budget, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

func (l *TimeLimiter) Check(c *Context) error {
	now := l.now()
	if l.started.IsZero() {
		l.started = now
		return nil
	}
	if now.Sub(l.started) <= l.budget {
		return nil
	}
	return &ExecuteError{Info: c.Error(ErrTimeLimitReached).WithData(l.budget.String())}
}

// Limiters chains limiters; the first error wins.
func Limiters(limiters ...Limiter) Limiter {
	return LimiterFunc(func(c *Context) error {
		for _, l := range limiters {
			if l == nil {
				continue
			}
			if err := l.Check(c); err != nil {
				return err
			}
		}
		return nil
	})
}
