package plugins

import (
	"math"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/exec"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

// operand resolves a predicate argument. References that resolve to nothing
// are read as JSON literals, and failing that as bare strings.
func operand(c *exec.Context, arg string) value.Value {
	if v := c.ResolvePath(code.ParsePath(arg)); !v.IsMissing() {
		return v
	}
	if v := value.ParseLenient(arg); !v.IsMissing() {
		return v
	}
	return value.String(arg)
}

// subject is the first argument when given, otherwise the current node.
func subject(c *exec.Context, args []string, v value.Value) value.Value {
	if len(args) > 0 {
		return operand(c, args[0])
	}
	return v
}

// equal compares two arguments, or the current node with a single argument.
func equal(c *exec.Context, args []string, v value.Value) (bool, error) {
	switch len(args) {
	case 0:
		return false, nil
	case 1:
		return v.Equal(operand(c, args[0])), nil
	default:
		return operand(c, args[0]).Equal(operand(c, args[1])), nil
	}
}

func integral(v value.Value) (int64, bool) {
	f, ok := v.Float()
	if !ok || !v.IsNumber() || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}

func even(c *exec.Context, args []string, v value.Value) (bool, error) {
	n, ok := integral(subject(c, args, v))
	return ok && n%2 == 0, nil
}

func odd(c *exec.Context, args []string, v value.Value) (bool, error) {
	n, ok := integral(subject(c, args, v))
	return ok && n%2 != 0, nil
}

func plural(c *exec.Context, args []string, v value.Value) (bool, error) {
	n, ok := integral(subject(c, args, v))
	return ok && n > 1, nil
}

func singular(c *exec.Context, args []string, v value.Value) (bool, error) {
	n, ok := integral(subject(c, args, v))
	return ok && n == 1, nil
}
