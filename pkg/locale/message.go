package locale

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-jsontemplate/pkg/value"
)

// Message expands a message format against positional arguments.
//
// Placeholders take the form {N} or {N type options...} where type is one of
// money, currency, number, decimal, percent, datetime and datetime-interval
// (which consumes arguments N and N+1). Placeholders that reference a missing
// argument render empty; malformed placeholders are copied through verbatim.
func Message(f Formats, format string, args []value.Value) string {
	var b strings.Builder
	b.Grow(len(format))

	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '{' {
			b.WriteByte(ch)
			continue
		}
		end := strings.IndexByte(format[i+1:], '}')
		if end < 0 {
			b.WriteString(format[i:])
			break
		}
		body := format[i+1 : i+1+end]
		rendered, ok := placeholder(f, body, args)
		if !ok {
			b.WriteString(format[i : i+2+end])
		} else {
			b.WriteString(rendered)
		}
		i += end + 1
	}
	return b.String()
}

func placeholder(f Formats, body string, args []value.Value) (string, bool) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return "", false
	}
	idx, err := strconv.Atoi(fields[0])
	if err != nil || idx < 0 {
		return "", false
	}
	arg := func(n int) value.Value {
		if n < len(args) {
			return args[n]
		}
		return value.Missing()
	}

	if len(fields) == 1 {
		return AsString(arg(idx)), true
	}

	opts := fields[2:]
	switch strings.ToLower(fields[1]) {
	case "money", "currency":
		amount, code := CurrencyArgs(arg(idx))
		out, err := f.Currency(amount, code)
		if err != nil {
			return f.Decimal(amount), true
		}
		return out, true
	case "number", "decimal":
		return f.Decimal(AsDecimal(arg(idx))), true
	case "percent":
		return f.Percent(AsDecimal(arg(idx))), true
	case "datetime":
		return f.DateTime(AsTime(arg(idx)), strings.Join(opts, " ")), true
	case "datetime-interval":
		style := strings.Join(opts, " ")
		start := f.DateTime(AsTime(arg(idx)), style)
		end := f.DateTime(AsTime(arg(idx+1)), style)
		return start + " – " + end, true
	default:
		return "", false
	}
}

// currencyNode returns the amount member of a money object, preferring
// decimalValue over value.
func currencyNode(v value.Value) value.Value {
	if d := v.Key("decimalValue"); !d.IsMissing() {
		return d
	}
	return v.Key("value")
}

// CurrencyArgs extracts the amount and ISO code from a money object shaped as
// {decimalValue, currencyCode} or {value, currency}.
func CurrencyArgs(v value.Value) (float64, string) {
	amount := v.Key("decimalValue")
	code := v.Key("currencyCode")
	if amount.IsMissing() || code.IsMissing() {
		amount = v.Key("value")
		code = v.Key("currency")
	}
	return AsDecimal(amount), AsString(code)
}

// AsDecimal converts an argument to a number. Money objects contribute their
// amount; booleans map to 0/1; anything unparseable is zero.
func AsDecimal(v value.Value) float64 {
	if d := currencyNode(v); !d.IsMissing() {
		v = d
	}
	switch v.Kind() {
	case value.KindNumber, value.KindString, value.KindBool:
		f, ok := v.Float()
		if !ok {
			return 0
		}
		return f
	default:
		return 0
	}
}

// AsString converts an argument to display text. Money objects contribute
// their amount.
func AsString(v value.Value) string {
	if d := currencyNode(v); !d.IsMissing() {
		return d.Text()
	}
	switch v.Kind() {
	case value.KindNull, value.KindMissing:
		return ""
	case value.KindArray, value.KindObject:
		return v.String()
	default:
		return v.Text()
	}
}

// AsTime interprets a number as epoch milliseconds.
func AsTime(v value.Value) time.Time {
	ms, ok := v.Int64()
	if !ok {
		ms = 0
	}
	return time.UnixMilli(ms)
}
