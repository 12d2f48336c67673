// Package exec runs compiled instruction trees against JSON-like data.
//
// A Context serves exactly one render on one goroutine: it owns the frame
// arena, the output buffer, collected errors and the per-render partial and
// injectable caches. Compiled trees are immutable and may be shared between
// any number of contexts.
package exec

import (
	"strings"
	"time"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/locale"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

// DefaultMaxPartialDepth bounds partial nesting when no limit is configured.
const DefaultMaxPartialDepth = 16

// Option configures a Context before the first instruction runs.
type Option func(*Context)

// WithSafeExecution switches the context to collect-and-continue mode.
func WithSafeExecution(safe bool) Option {
	return func(c *Context) {
		c.safe = safe
	}
}

// WithPreprocess marks the render as a preprocessing pass. The flag is
// forwarded to the compiler when partials are compiled.
func WithPreprocess(preprocess bool) Option {
	return func(c *Context) {
		c.preprocess = preprocess
	}
}

// WithMaxPartialDepth caps total partial nesting. Negative values clamp to 0,
// which disallows partials entirely.
func WithMaxPartialDepth(depth int) Option {
	return func(c *Context) {
		if depth < 0 {
			depth = 0
		}
		c.maxPartialDepth = depth
	}
}

// WithCompiler sets the capability used to compile partial sources.
func WithCompiler(compiler Compiler) Option {
	return func(c *Context) {
		c.compiler = compiler
	}
}

// WithLimiter sets the per-step resource limiter.
func WithLimiter(limiter Limiter) Option {
	return func(c *Context) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// WithLoggingHook sets the diagnostic sink notified of unexpected failures.
func WithLoggingHook(hook LoggingHook) Option {
	return func(c *Context) {
		c.hook = hook
	}
}

// WithLocale sets the BCP 47 tag used to build the default Formats.
func WithLocale(tag string) Option {
	return func(c *Context) {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			c.locale = trimmed
		}
	}
}

// WithFormats supplies a ready formatting service, bypassing lazy
// construction from the locale tag.
func WithFormats(formats locale.Formats) Option {
	return func(c *Context) {
		c.formats = formats
	}
}

// WithNow fixes the render clock.
func WithNow(now time.Time) Option {
	return func(c *Context) {
		c.now = now
	}
}

// WithRegistry sets the formatter and predicate registry.
func WithRegistry(registry *Registry) Option {
	return func(c *Context) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithBuffer sets the initial output buffer.
func WithBuffer(buf *strings.Builder) Option {
	return func(c *Context) {
		if buf != nil {
			c.buf = buf
		}
	}
}

// WithPartials sets the raw partial sources, an object of name to template
// source text.
func WithPartials(partials value.Value) Option {
	return func(c *Context) {
		c.SetPartials(partials)
	}
}

// WithInjectables sets the raw injectables, an object of name to JSON text.
func WithInjectables(injectables value.Value) Option {
	return func(c *Context) {
		c.SetInjectables(injectables)
	}
}

// Context holds the state of one render.
type Context struct {
	frames []frame
	cur    FrameID

	buf    *strings.Builder
	errors []ErrorInfo

	rawPartials      value.Value
	partialsSet      bool
	compiledPartials map[string]code.Instruction
	partialDepth     int
	maxPartialDepth  int
	compiler         Compiler

	rawInjectables    value.Value
	injectablesSet    bool
	parsedInjectables map[string]value.Value
	decodeInjectable  func(string) value.Value

	current    code.Instruction
	safe       bool
	preprocess bool
	limiter    Limiter
	hook       LoggingHook

	locale   string
	formats  locale.Formats
	now      time.Time
	registry *Registry
}

// New creates a context whose root frame is scoped to root.
func New(root value.Value, opts ...Option) *Context {
	c := &Context{
		frames:           make([]frame, 0, 16),
		cur:              noFrame,
		buf:              &strings.Builder{},
		maxPartialDepth:  DefaultMaxPartialDepth,
		limiter:          NoopLimiter{},
		locale:           locale.DefaultTag,
		decodeInjectable: value.ParseLenient,
	}
	c.Push(root)

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.registry == nil {
		c.registry = NewRegistry()
	}
	if c.now.IsZero() {
		c.now = time.Now()
	}
	return c
}

// SetPartials replaces the raw partial sources and clears the compiled cache.
func (c *Context) SetPartials(partials value.Value) {
	c.rawPartials = partials
	c.partialsSet = !partials.IsMissing()
	c.compiledPartials = nil
}

// SetInjectables replaces the raw injectables and clears the parsed cache.
func (c *Context) SetInjectables(injectables value.Value) {
	c.rawInjectables = injectables
	c.injectablesSet = !injectables.IsMissing()
	c.parsedInjectables = nil
}

// Buffer returns the active output buffer.
func (c *Context) Buffer() *strings.Builder { return c.buf }

// SwapBuffer installs buf as the output buffer and returns the previous one,
// letting formatters capture nested output.
func (c *Context) SwapBuffer(buf *strings.Builder) *strings.Builder {
	prev := c.buf
	if buf == nil {
		buf = &strings.Builder{}
	}
	c.buf = buf
	return prev
}

// Output returns the text rendered into the active buffer.
func (c *Context) Output() string { return c.buf.String() }

// Emit appends text to the active buffer.
func (c *Context) Emit(text string) { c.buf.WriteString(text) }

// Error builds an ErrorInfo attributed to the executing instruction.
func (c *Context) Error(kind ErrorKind) ErrorInfo {
	info := ErrorInfo{Kind: kind}
	if c.current != nil {
		pos := c.current.Pos()
		info.Line = pos.Line
		info.Column = pos.Column
	}
	return info
}

// AddError records a diagnostic.
func (c *Context) AddError(info ErrorInfo) {
	c.errors = append(c.errors, info)
}

// Errors returns the collected diagnostics in order. It never returns nil.
func (c *Context) Errors() []ErrorInfo {
	if c.errors == nil {
		return []ErrorInfo{}
	}
	return c.errors
}

// Current returns the instruction being executed, if any.
func (c *Context) Current() code.Instruction { return c.current }

func (c *Context) SafeExecution() bool { return c.safe }

func (c *Context) Preprocess() bool { return c.preprocess }

// PartialDepth is the number of partials currently entered.
func (c *Context) PartialDepth() int { return c.partialDepth }

func (c *Context) MaxPartialDepth() int { return c.maxPartialDepth }

func (c *Context) Compiler() Compiler { return c.compiler }

func (c *Context) Registry() *Registry { return c.registry }

func (c *Context) Locale() string { return c.locale }

// Now returns the render clock.
func (c *Context) Now() time.Time { return c.now }

// Formats returns the formatting service, building it from the locale tag on
// first use. An unparseable tag falls back to the default locale.
func (c *Context) Formats() locale.Formats {
	if c.formats != nil {
		return c.formats
	}
	svc, err := locale.New(c.locale)
	if err != nil {
		svc = locale.MustNew(locale.DefaultTag)
	}
	c.formats = svc
	return c.formats
}
