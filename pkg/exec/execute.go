package exec

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-jsontemplate/pkg/code"
)

// Status classifies the outcome of a single step.
type Status uint8

const (
	StatusOK Status = iota
	// StatusRecoverable is swallowed in safe mode and aborts in strict mode.
	StatusRecoverable
	// StatusFatal aborts the render in both modes.
	StatusFatal
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusRecoverable:
		return "recoverable"
	case StatusFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Result is the outcome of one step.
type Result struct {
	Status Status
	Info   ErrorInfo
	Err    error
}

var okResult = Result{Status: StatusOK}

// Execute runs a single instruction. In safe mode recoverable failures are
// recorded and nil is returned; fatal failures are always returned.
func (c *Context) Execute(inst code.Instruction) error {
	if inst == nil {
		return nil
	}
	return c.settle(c.step(inst))
}

// ExecuteAll runs block in order, stopping at the first returned error.
func (c *Context) ExecuteAll(block code.Block) error {
	for _, inst := range block {
		if err := c.Execute(inst); err != nil {
			return err
		}
	}
	return nil
}

// Run executes a top-level tree. In safe mode a fatal failure is also appended
// to the error list, so Errors reflects every diagnostic of the render.
func (c *Context) Run(root code.Instruction) error {
	err := c.Execute(root)
	if err == nil {
		return nil
	}
	if c.safe {
		var execErr *ExecuteError
		if errors.As(err, &execErr) {
			c.AddError(execErr.Info)
		}
	}
	return err
}

// step checks the limiter and invokes inst. On failure the frame tip and the
// output buffer are restored to where they were before the step.
func (c *Context) step(inst code.Instruction) (res Result) {
	prev := c.current
	mark := c.cur
	buf := c.buf
	c.current = inst
	defer func() {
		if r := recover(); r != nil {
			res = c.unexpected(inst, fmt.Errorf("%w: %v", errPanic, r))
		}
		if res.Status != StatusOK {
			c.cur = mark
			c.buf = buf
		}
		c.current = prev
	}()

	if err := c.limiter.Check(c); err != nil {
		return c.classify(inst, err)
	}
	if err := c.invoke(inst); err != nil {
		return c.classify(inst, err)
	}
	return okResult
}

// classify maps an error to a step result. ExecuteErrors raised by limiters,
// strict-mode checks or nested steps pass through as fatal.
func (c *Context) classify(inst code.Instruction, err error) Result {
	var execErr *ExecuteError
	if errors.As(err, &execErr) {
		return Result{Status: StatusFatal, Info: execErr.Info, Err: execErr}
	}
	return c.unexpected(inst, err)
}

func (c *Context) unexpected(inst code.Instruction, err error) Result {
	info := c.Error(ErrUnexpected).
		WithName(errorName(err)).
		WithData(err.Error()).
		WithRepr(code.Repr(inst))
	return Result{Status: StatusRecoverable, Info: info, Err: err}
}

func (c *Context) settle(res Result) error {
	switch res.Status {
	case StatusOK:
		return nil
	case StatusFatal:
		return res.Err
	}

	failure := &ExecuteError{Info: res.Info, Cause: res.Err}
	if c.hook != nil {
		c.hook.Log(failure)
	}
	if c.safe {
		c.AddError(res.Info)
		return nil
	}
	return failure
}
