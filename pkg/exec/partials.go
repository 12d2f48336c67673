package exec

import (
	"fmt"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

// CompileOptions are forwarded to the compiler for partial sources.
type CompileOptions struct {
	Safe       bool
	Preprocess bool
}

// Compiled is the output of a compile. In safe mode Errors lists the problems
// the compiler recovered from; Code holds whatever could be compiled.
type Compiled struct {
	Code   *code.Root
	Errors []ErrorInfo
}

// Compiler turns template source into an instruction tree.
type Compiler interface {
	Compile(source string, opts CompileOptions) (Compiled, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(source string, opts CompileOptions) (Compiled, error)

func (f CompilerFunc) Compile(source string, opts CompileOptions) (Compiled, error) {
	return f(source, opts)
}

// GetPartial resolves name to a macro bound in scope or, failing that, to a
// compiled partial. It returns nil when neither exists. Compiled partials are
// cached for the lifetime of the context.
func (c *Context) GetPartial(name string) (code.Instruction, error) {
	if inst := c.ResolveMacro(name); inst != nil {
		return inst, nil
	}
	if !c.partialsSet {
		return nil, nil
	}
	if inst, ok := c.compiledPartials[name]; ok {
		return inst, nil
	}

	source := c.rawPartials.Key(name)
	if !source.IsString() {
		return nil, nil
	}
	if c.compiler == nil {
		return nil, fmt.Errorf("%w: partial %q", ErrNoCompiler, name)
	}

	compiled, err := c.compiler.Compile(source.Text(), CompileOptions{
		Safe:       c.safe,
		Preprocess: c.preprocess,
	})
	if err != nil {
		return nil, fmt.Errorf("exec: compile partial %q: %w", name, err)
	}
	if len(compiled.Errors) > 0 {
		c.AddError(c.Error(ErrCompilePartialSyntax).
			WithName(name).
			WithChildren(compiled.Errors))
	}

	var inst code.Instruction
	if compiled.Code != nil {
		inst = compiled.Code
	} else {
		inst = &code.Root{}
	}
	if c.compiledPartials == nil {
		c.compiledPartials = make(map[string]code.Instruction)
	}
	c.compiledPartials[name] = inst
	return inst, nil
}

// EnterPartial increments the nesting depth. When the maximum is exceeded the
// depth is left unchanged and false is returned; safe mode records the
// violation while strict mode returns an ExecuteError.
func (c *Context) EnterPartial(name string) (bool, error) {
	c.partialDepth++
	if c.partialDepth <= c.maxPartialDepth {
		return true, nil
	}
	c.partialDepth--

	info := c.Error(ErrPartialRecursionDepth).
		WithName(name).
		WithData(c.maxPartialDepth)
	if c.safe {
		c.AddError(info)
		return false, nil
	}
	return false, &ExecuteError{Info: info}
}

// ExitPartial decrements the nesting depth.
func (c *Context) ExitPartial(name string) {
	if c.partialDepth > 0 {
		c.partialDepth--
	}
}

// RenderPartial executes the macro or partial name scoped to node. Private
// partials see nothing outside their own frame. A missing partial renders
// nothing.
func (c *Context) RenderPartial(name string, node value.Value, private bool) error {
	inst, err := c.GetPartial(name)
	if err != nil || inst == nil {
		return err
	}

	entered, err := c.EnterPartial(name)
	if !entered {
		return err
	}
	defer c.ExitPartial(name)

	c.Push(node)
	if private {
		c.SetStopResolution(true)
	}
	err = c.Execute(inst)
	c.Pop()
	return err
}
