package plugins

import (
	"strings"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/exec"
	"github.com/goliatone/go-jsontemplate/pkg/locale"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

// money formats a money object ({decimalValue, currencyCode} or
// {value, currency}). A code given as argument overrides the object's own.
// Unknown currencies fall back to plain decimal formatting.
func money(c *exec.Context, args []string, v value.Value) (value.Value, error) {
	amount, unit := locale.CurrencyArgs(v)
	if len(args) > 0 {
		unit = args[0]
	}
	formats := c.Formats()
	if unit == "" {
		return value.String(formats.Decimal(amount)), nil
	}
	out, err := formats.Currency(amount, unit)
	if err != nil {
		return value.String(formats.Decimal(amount)), nil
	}
	return value.String(out), nil
}

func decimal(c *exec.Context, _ []string, v value.Value) (value.Value, error) {
	return value.String(c.Formats().Decimal(locale.AsDecimal(v))), nil
}

func percent(c *exec.Context, _ []string, v value.Value) (value.Value, error) {
	return value.String(c.Formats().Percent(locale.AsDecimal(v))), nil
}

// datetime formats epoch milliseconds. Arguments name a style (short, medium,
// long, full, date, time) or a "layout:" Go layout.
func datetime(c *exec.Context, args []string, v value.Value) (value.Value, error) {
	if !v.IsNumber() {
		return value.String(""), nil
	}
	return value.String(c.Formats().DateTime(locale.AsTime(v), strings.Join(args, " "))), nil
}

// message evaluates the node as a message format. Each argument is a variable
// reference resolved in the current scope and bound positionally.
func message(c *exec.Context, args []string, v value.Value) (value.Value, error) {
	resolved := make([]value.Value, len(args))
	for i, arg := range args {
		resolved[i] = c.ResolvePath(code.ParsePath(arg))
	}
	return value.String(locale.Message(c.Formats(), v.Text(), resolved)), nil
}
