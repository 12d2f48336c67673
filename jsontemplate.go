package jsontemplate

import (
	"io"

	"github.com/goliatone/go-jsontemplate/pkg/exec"
	"github.com/goliatone/go-jsontemplate/pkg/render"
)

// Engine aliases render.Engine so callers can depend on the root package only.
type Engine = render.Engine

// Option configures an Engine.
type Option = render.Option

// Result is the output of a render plus any diagnostics collected in safe mode.
type Result = render.Result

// ErrorInfo describes one diagnostic.
type ErrorInfo = exec.ErrorInfo

// NewEngine exposes the render engine constructor from the top-level module.
func NewEngine(options ...Option) (*Engine, error) {
	return render.New(options...)
}

// Render compiles source and executes it once against data. It is the
// simplest entry point for callers that do not need to cache programs.
func Render(source string, data any, options ...Option) (Result, error) {
	engine, err := render.New(options...)
	if err != nil {
		return Result{}, err
	}
	return engine.RenderSource(source, data)
}

// RenderTo behaves like Render and also writes the output to out.
func RenderTo(out io.Writer, source string, data any, options ...Option) (Result, error) {
	engine, err := render.New(options...)
	if err != nil {
		return Result{}, err
	}
	return engine.RenderSource(source, data, out)
}
