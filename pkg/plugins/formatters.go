package plugins

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-jsontemplate/pkg/exec"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

var (
	// ErrMissingArgument is returned when a formatter requires an argument.
	ErrMissingArgument = errors.New("plugins: missing argument")

	stripPolicyOnce sync.Once
	stripPolicy     *bluemonday.Policy
)

func htmlEscape(_ *exec.Context, _ []string, v value.Value) (value.Value, error) {
	return value.String(html.EscapeString(v.Text())), nil
}

func stripTags(_ *exec.Context, _ []string, v value.Value) (value.Value, error) {
	cleaned := tagStripper().Sanitize(v.Text())
	return value.String(strings.TrimSpace(html.UnescapeString(cleaned))), nil
}

func tagStripper() *bluemonday.Policy {
	stripPolicyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()
	})
	return stripPolicy
}

func jsonEncode(_ *exec.Context, _ []string, v value.Value) (value.Value, error) {
	if v.IsMissing() {
		return value.String(""), nil
	}
	b, err := v.MarshalJSON()
	if err != nil {
		return value.Missing(), fmt.Errorf("plugins: json: %w", err)
	}
	return value.String(string(b)), nil
}

func size(_ *exec.Context, _ []string, v value.Value) (value.Value, error) {
	switch v.Kind() {
	case value.KindArray, value.KindObject:
		return value.Int(int64(v.Len())), nil
	case value.KindString:
		return value.Int(int64(len([]rune(v.Text())))), nil
	default:
		return value.Int(0), nil
	}
}

// truncate shortens text to N runes, appending an ellipsis ("..." unless a
// second argument overrides it).
func truncate(_ *exec.Context, args []string, v value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Missing(), fmt.Errorf("%w: truncate length", ErrMissingArgument)
	}
	limit, err := strconv.Atoi(args[0])
	if err != nil || limit < 0 {
		return value.Missing(), fmt.Errorf("plugins: truncate length %q is invalid", args[0])
	}
	ellipsis := "..."
	if len(args) > 1 {
		ellipsis = args[1]
	}

	runes := []rune(v.Text())
	if len(runes) <= limit {
		return value.String(string(runes)), nil
	}
	return value.String(string(runes[:limit]) + ellipsis), nil
}

// applyPartial renders a partial scoped to v and returns its output as text.
// The render goes through the context so macros, caching and the recursion
// guard all apply.
func applyPartial(c *exec.Context, args []string, v value.Value) (value.Value, error) {
	if len(args) == 0 {
		return value.Missing(), fmt.Errorf("%w: apply partial name", ErrMissingArgument)
	}
	private := len(args) > 1 && args[1] == "private"

	capture := &strings.Builder{}
	prev := c.SwapBuffer(capture)
	err := c.RenderPartial(args[0], v, private)
	c.SwapBuffer(prev)
	if err != nil {
		return value.Missing(), err
	}
	return value.String(capture.String()), nil
}
