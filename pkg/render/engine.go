// Package render compiles programs once and renders them many times against
// different data. An Engine is safe for concurrent use; every render runs on
// its own exec.Context.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/exec"
	"github.com/goliatone/go-jsontemplate/pkg/plugins"
	"github.com/goliatone/go-jsontemplate/pkg/program"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

// ErrTemplateNotFound is returned for names that are neither registered nor
// loadable.
var ErrTemplateNotFound = errors.New("render: template not found")

// Result is the outcome of one render. Errors lists the diagnostics collected
// in safe mode, including compile errors of the rendered program.
type Result struct {
	Output string
	Errors []exec.ErrorInfo
}

type compiled struct {
	root *code.Root
	errs []exec.ErrorInfo
}

// Engine renders named programs.
type Engine struct {
	mu sync.RWMutex

	cfg         config
	programs    map[string]compiled
	files       fs.FS
	partials    value.Value
	injectables value.Value
}

// New constructs an Engine using the provided configuration options.
func New(options ...Option) (*Engine, error) {
	cfg := config{
		maxPartialDepth: exec.DefaultMaxPartialDepth,
		extension:       ".yaml",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.compiler == nil {
		cfg.compiler = program.NewCompiler()
	}
	if cfg.registry == nil {
		cfg.registry = plugins.Defaults()
	}

	engine := &Engine{
		cfg:      cfg,
		programs: make(map[string]compiled),
		files:    cfg.templates,
	}
	if engine.files == nil && cfg.baseDir != "" {
		info, err := os.Stat(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("render: base dir: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("render: base dir %q is not a directory", cfg.baseDir)
		}
		engine.files = os.DirFS(cfg.baseDir)
	}

	var err error
	if engine.partials, err = stringMap(cfg.partials); err != nil {
		return nil, fmt.Errorf("render: partials: %w", err)
	}
	if engine.injectables, err = stringMap(cfg.injectables); err != nil {
		return nil, fmt.Errorf("render: injectables: %w", err)
	}
	return engine, nil
}

// Compile compiles source and registers it under name, replacing any
// previous program of that name.
func (e *Engine) Compile(name, source string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("render: template name is required")
	}
	prog, err := e.compile(source)
	if err != nil {
		return fmt.Errorf("render: compile %q: %w", name, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.programs[name] = prog
	return nil
}

// Register stores an already compiled program under name.
func (e *Engine) Register(name string, root *code.Root) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("render: template name is required")
	}
	if root == nil {
		return fmt.Errorf("render: template %q is nil", name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.programs[name] = compiled{root: root}
	return nil
}

// Has reports whether name is registered.
func (e *Engine) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.programs[name]
	return ok
}

// List returns the sorted names of registered programs.
func (e *Engine) List() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.programs))
	for name := range e.programs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render executes the program registered as name, loading it from the
// configured directory or fs.FS on first use. The output is also written to
// every writer in out.
func (e *Engine) Render(name string, data any, out ...io.Writer) (Result, error) {
	prog, err := e.getProgram(name)
	if err != nil {
		return Result{}, err
	}
	return e.execute(prog, data, out...)
}

// RenderSource compiles and executes source without registering it.
func (e *Engine) RenderSource(source string, data any, out ...io.Writer) (Result, error) {
	prog, err := e.compile(source)
	if err != nil {
		return Result{}, fmt.Errorf("render: compile source: %w", err)
	}
	return e.execute(prog, data, out...)
}

func (e *Engine) compile(source string) (compiled, error) {
	res, err := e.cfg.compiler.Compile(source, exec.CompileOptions{
		Safe:       e.cfg.safe,
		Preprocess: e.cfg.preprocess,
	})
	if err != nil {
		return compiled{}, err
	}
	root := res.Code
	if root == nil {
		root = &code.Root{}
	}
	return compiled{root: root, errs: res.Errors}, nil
}

func (e *Engine) getProgram(name string) (compiled, error) {
	e.mu.RLock()
	if prog, ok := e.programs[name]; ok {
		e.mu.RUnlock()
		return prog, nil
	}
	e.mu.RUnlock()

	if e.files == nil {
		return compiled{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if prog, ok := e.programs[name]; ok {
		return prog, nil
	}

	path := name
	if !strings.HasSuffix(path, e.cfg.extension) {
		path += e.cfg.extension
	}
	source, err := fs.ReadFile(e.files, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return compiled{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
		return compiled{}, fmt.Errorf("render: load template %q: %w", path, err)
	}
	prog, err := e.compile(string(source))
	if err != nil {
		return compiled{}, fmt.Errorf("render: compile %q: %w", path, err)
	}
	e.programs[name] = prog
	return prog, nil
}

func (e *Engine) execute(prog compiled, data any, out ...io.Writer) (Result, error) {
	root, err := toValue(data)
	if err != nil {
		return Result{}, fmt.Errorf("render: convert data: %w", err)
	}

	opts := []exec.Option{
		exec.WithSafeExecution(e.cfg.safe),
		exec.WithPreprocess(e.cfg.preprocess),
		exec.WithMaxPartialDepth(e.cfg.maxPartialDepth),
		exec.WithCompiler(e.cfg.compiler),
		exec.WithRegistry(e.cfg.registry),
		exec.WithLocale(e.cfg.locale),
		exec.WithLoggingHook(e.cfg.hook),
		exec.WithPartials(e.partials),
		exec.WithInjectables(e.injectables),
	}
	if e.cfg.limiters != nil {
		opts = append(opts, exec.WithLimiter(e.cfg.limiters()))
	}
	if e.cfg.now != nil {
		opts = append(opts, exec.WithNow(e.cfg.now()))
	}

	ctx := exec.New(root, opts...)
	for _, info := range prog.errs {
		ctx.AddError(info)
	}
	if err := ctx.Run(prog.root); err != nil {
		return Result{Errors: ctx.Errors()}, fmt.Errorf("render: execute: %w", err)
	}

	rendered := ctx.Output()
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return Result{}, err
		}
	}
	return Result{Output: rendered, Errors: ctx.Errors()}, nil
}

// toValue accepts a value.Value, raw JSON or any Go data.
func toValue(data any) (value.Value, error) {
	switch v := data.(type) {
	case nil:
		return value.Null(), nil
	case value.Value:
		return v, nil
	case json.RawMessage:
		return value.Parse(v)
	case []byte:
		return value.Parse(v)
	default:
		return value.FromAny(v)
	}
}

func stringMap(in map[string]string) (value.Value, error) {
	if len(in) == 0 {
		return value.Missing(), nil
	}
	raw := make(map[string]any, len(in))
	for k, v := range in {
		raw[k] = v
	}
	return value.FromAny(raw)
}
