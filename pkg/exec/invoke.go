package exec

import (
	"fmt"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

// invoke is the single dispatch point over the closed instruction set.
func (c *Context) invoke(inst code.Instruction) error {
	switch n := inst.(type) {
	case *code.Root:
		return c.ExecuteAll(n.Body)

	case *code.Text:
		c.buf.WriteString(n.Text)
		return nil

	case *code.Variable:
		v, err := c.Format(c.ResolvePath(n.Path), n.Formatters)
		if err != nil {
			return err
		}
		c.emitValue(v)
		return nil

	case *code.Section:
		c.PushSection(n.Path)
		block := n.Else
		if c.Node().Truthy() {
			block = n.Body
		}
		err := c.ExecuteAll(block)
		c.Pop()
		return err

	case *code.Repeated:
		return c.repeat(n)

	case *code.Predicate:
		pred, ok := c.registry.Predicate(n.Name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownPredicate, n.Name)
		}
		matched, err := pred.Test(c, n.Args, c.Node())
		if err != nil {
			return fmt.Errorf("exec: predicate %q: %w", n.Name, err)
		}
		if matched {
			return c.ExecuteAll(n.Body)
		}
		return c.ExecuteAll(n.Else)

	case *code.If:
		if c.evalIf(n) {
			return c.ExecuteAll(n.Body)
		}
		return c.ExecuteAll(n.Else)

	case *code.BindVar:
		v, err := c.Format(c.ResolvePath(n.Path), n.Formatters)
		if err != nil {
			return err
		}
		c.SetVar(n.Name, v)
		return nil

	case *code.Macro:
		body := n.Body
		if body == nil {
			body = &code.Root{Position: n.Position}
		}
		c.SetMacro(n.Name, body)
		return nil

	case *code.Apply:
		return c.RenderPartial(n.Name, c.ResolvePath(n.Path), n.Private)

	case *code.Inject:
		c.SetVar(n.Name, c.GetInjectable(n.Key))
		return nil

	case *code.Comment:
		return nil

	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedInstruction, inst)
	}
}

func (c *Context) repeat(n *code.Repeated) error {
	c.PushSection(n.Path)
	defer c.Pop()

	if !c.InitIteration() {
		return c.ExecuteAll(n.Else)
	}
	for c.HasNext() {
		if c.CurrentIndex() > 0 {
			if err := c.ExecuteAll(n.AlternatesWith); err != nil {
				return err
			}
		}
		c.PushNext()
		err := c.ExecuteAll(n.Body)
		c.Pop()
		if err != nil {
			return err
		}
		c.Increment()
	}
	return nil
}

func (c *Context) evalIf(n *code.If) bool {
	if len(n.Paths) == 0 {
		return false
	}
	for _, path := range n.Paths {
		truthy := c.ResolvePath(path).Truthy()
		if n.Op == code.OpOr && truthy {
			return true
		}
		if n.Op == code.OpAnd && !truthy {
			return false
		}
	}
	return n.Op == code.OpAnd
}

// Format pipes v through a formatter chain.
func (c *Context) Format(v value.Value, calls []code.FormatterCall) (value.Value, error) {
	for _, call := range calls {
		f, ok := c.registry.Formatter(call.Name)
		if !ok {
			return value.Missing(), fmt.Errorf("%w: %q", ErrUnknownFormatter, call.Name)
		}
		out, err := f.Apply(c, call.Args, v)
		if err != nil {
			return value.Missing(), fmt.Errorf("exec: formatter %q: %w", call.Name, err)
		}
		v = out
	}
	return v, nil
}

// emitValue writes scalar text. Missing, null and containers emit nothing.
func (c *Context) emitValue(v value.Value) {
	switch v.Kind() {
	case value.KindString, value.KindNumber, value.KindBool:
		c.buf.WriteString(v.Text())
	}
}
