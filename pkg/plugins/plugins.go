// Package plugins provides the default formatter and predicate set.
package plugins

import (
	"github.com/goliatone/go-jsontemplate/pkg/exec"
)

// Register installs the default formatters and predicates into reg. It fails
// if any name is already taken.
func Register(reg *exec.Registry) error {
	for name, f := range formatters() {
		if err := reg.RegisterFormatter(name, f); err != nil {
			return err
		}
	}
	for name, p := range predicates() {
		if err := reg.RegisterPredicate(name, p); err != nil {
			return err
		}
	}
	return nil
}

// Defaults returns a new registry holding the default plugins.
func Defaults() *exec.Registry {
	reg := exec.NewRegistry()
	if err := Register(reg); err != nil {
		panic(err)
	}
	return reg
}

func formatters() map[string]exec.Formatter {
	return map[string]exec.Formatter{
		"html":       exec.FormatterFunc(htmlEscape),
		"strip-tags": exec.FormatterFunc(stripTags),
		"json":       exec.FormatterFunc(jsonEncode),
		"size":       exec.FormatterFunc(size),
		"truncate":   exec.FormatterFunc(truncate),
		"apply":      exec.FormatterFunc(applyPartial),
		"money":      exec.FormatterFunc(money),
		"currency":   exec.FormatterFunc(money),
		"decimal":    exec.FormatterFunc(decimal),
		"number":     exec.FormatterFunc(decimal),
		"percent":    exec.FormatterFunc(percent),
		"datetime":   exec.FormatterFunc(datetime),
		"message":    exec.FormatterFunc(message),
	}
}

func predicates() map[string]exec.Predicate {
	return map[string]exec.Predicate{
		"equal?":    exec.PredicateFunc(equal),
		"even?":     exec.PredicateFunc(even),
		"odd?":      exec.PredicateFunc(odd),
		"plural?":   exec.PredicateFunc(plural),
		"singular?": exec.PredicateFunc(singular),
	}
}
