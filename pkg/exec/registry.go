package exec

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-jsontemplate/pkg/value"
)

// Formatter transforms a value. args are the raw arguments written after the
// formatter name.
type Formatter interface {
	Apply(c *Context, args []string, v value.Value) (value.Value, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc func(c *Context, args []string, v value.Value) (value.Value, error)

func (f FormatterFunc) Apply(c *Context, args []string, v value.Value) (value.Value, error) {
	return f(c, args, v)
}

// Predicate tests a value.
type Predicate interface {
	Test(c *Context, args []string, v value.Value) (bool, error)
}

// PredicateFunc adapts a function to Predicate.
type PredicateFunc func(c *Context, args []string, v value.Value) (bool, error)

func (f PredicateFunc) Test(c *Context, args []string, v value.Value) (bool, error) {
	return f(c, args, v)
}

// Registry stores formatters and predicates by name. It is safe for
// concurrent use, so one registry can serve every render of an engine.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
	predicates map[string]Predicate
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
		predicates: make(map[string]Predicate),
	}
}

// RegisterFormatter adds a formatter. Duplicate names return an error.
func (r *Registry) RegisterFormatter(name string, f Formatter) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("exec: formatter name is required")
	}
	if f == nil {
		return fmt.Errorf("exec: formatter %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.formatters[name]; exists {
		return fmt.Errorf("exec: formatter %q already registered", name)
	}
	r.formatters[name] = f
	return nil
}

// MustRegisterFormatter panics on registration failure.
func (r *Registry) MustRegisterFormatter(name string, f Formatter) {
	if err := r.RegisterFormatter(name, f); err != nil {
		panic(err)
	}
}

// RegisterPredicate adds a predicate. Duplicate names return an error.
func (r *Registry) RegisterPredicate(name string, p Predicate) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("exec: predicate name is required")
	}
	if p == nil {
		return fmt.Errorf("exec: predicate %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.predicates[name]; exists {
		return fmt.Errorf("exec: predicate %q already registered", name)
	}
	r.predicates[name] = p
	return nil
}

// MustRegisterPredicate panics on registration failure.
func (r *Registry) MustRegisterPredicate(name string, p Predicate) {
	if err := r.RegisterPredicate(name, p); err != nil {
		panic(err)
	}
}

func (r *Registry) Formatter(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[name]
	return f, ok
}

func (r *Registry) Predicate(name string) (Predicate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.predicates[name]
	return p, ok
}

// Formatters returns the sorted formatter names.
func (r *Registry) Formatters() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.formatters)
}

// Predicates returns the sorted predicate names.
func (r *Registry) Predicates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.predicates)
}

func sortedKeys[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
