package exec

import (
	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

// FrameID addresses a frame in the context's frame arena.
type FrameID int

const noFrame FrameID = -1

// frame is one scope. Frames live in an append-only arena for the lifetime of
// the render; parent links are arena handles, never pointers.
type frame struct {
	parent         FrameID
	node           value.Value
	index          int
	vars           map[string]value.Value
	macros         map[string]code.Instruction
	stopResolution bool
}

func (f *frame) getVar(name string) (value.Value, bool) {
	if f.vars == nil {
		return value.Missing(), false
	}
	v, ok := f.vars[name]
	return v, ok
}

// Frame returns the handle of the current frame.
func (c *Context) Frame() FrameID { return c.cur }

// Node returns the value the current frame is scoped to.
func (c *Context) Node() value.Value { return c.frames[c.cur].node }

// Push opens a new scope over node.
func (c *Context) Push(node value.Value) {
	c.frames = append(c.frames, frame{parent: c.cur, node: node, index: -1})
	c.cur = FrameID(len(c.frames) - 1)
}

// PushPath resolves path through the stack and pushes the result.
func (c *Context) PushPath(path code.Path) {
	c.Push(c.ResolvePath(path))
}

// PushSection resolves path strictly downward from the current frame's node,
// without consulting ancestors, and pushes the result.
func (c *Context) PushSection(path code.Path) {
	if len(path) == 0 {
		c.Push(c.Node())
		return
	}
	node := c.resolveIn(path[0], c.cur)
	for _, seg := range path[1:] {
		if node.IsMissing() {
			break
		}
		node = node.Path(seg)
	}
	c.Push(node)
}

// PushNext pushes the element at the current iteration index. Explicit nulls
// are replaced with Missing.
func (c *Context) PushNext() {
	f := &c.frames[c.cur]
	node := f.node.Index(f.index)
	if node.IsNull() {
		node = value.Missing()
	}
	c.Push(node)
}

// Pop closes the current scope. The root frame is never popped.
func (c *Context) Pop() {
	if parent := c.frames[c.cur].parent; parent != noFrame {
		c.cur = parent
	}
}

// SetStopResolution marks the current frame as a lookup boundary: stack lookups
// that reach it do not continue to its ancestors.
func (c *Context) SetStopResolution(stop bool) {
	c.frames[c.cur].stopResolution = stop
}

// InitIteration starts iterating the current node. It succeeds only for a
// non-empty array.
func (c *Context) InitIteration() bool {
	f := &c.frames[c.cur]
	if !f.node.IsArray() || f.node.Len() == 0 {
		return false
	}
	f.index = 0
	return true
}

// CurrentIndex is the 0-based iteration index of the current frame, or -1.
func (c *Context) CurrentIndex() int { return c.frames[c.cur].index }

// HasNext reports whether the iteration index is still within the array.
func (c *Context) HasNext() bool {
	f := &c.frames[c.cur]
	return f.index < f.node.Len()
}

// ArraySize returns the length of the current frame's array.
func (c *Context) ArraySize() int { return c.frames[c.cur].node.Len() }

// Increment advances the iteration index of the current frame.
func (c *Context) Increment() { c.frames[c.cur].index++ }

// SetVar binds a local variable on the current frame.
func (c *Context) SetVar(name string, v value.Value) {
	f := &c.frames[c.cur]
	if f.vars == nil {
		f.vars = make(map[string]value.Value)
	}
	f.vars[name] = v
}

// SetMacro binds a macro body on the current frame.
func (c *Context) SetMacro(name string, inst code.Instruction) {
	if inst == nil {
		return
	}
	f := &c.frames[c.cur]
	if f.macros == nil {
		f.macros = make(map[string]code.Instruction)
	}
	f.macros[name] = inst
}

// ResolveMacro searches the current frame and all ancestors for a macro.
// Lookup boundaries do not apply to macros.
func (c *Context) ResolveMacro(name string) code.Instruction {
	for id := c.cur; id != noFrame; id = c.frames[id].parent {
		if inst, ok := c.frames[id].macros[name]; ok {
			return inst
		}
	}
	return nil
}

// Resolve looks up a single name or index through the frame stack.
func (c *Context) Resolve(name any) value.Value {
	return c.lookupStack(name, c.cur)
}

// ResolvePath resolves a dotted reference from the current frame.
func (c *Context) ResolvePath(path code.Path) value.Value {
	return c.ResolveFrom(path, c.cur)
}

// ResolveFrom resolves a reference starting at an arbitrary frame, which lets
// plugins skip frames they pushed themselves. Only the first segment searches
// the stack; later segments descend directly and stop at Missing or null.
func (c *Context) ResolveFrom(path code.Path, start FrameID) value.Value {
	if start < 0 || int(start) >= len(c.frames) {
		return value.Missing()
	}
	if len(path) == 0 {
		return c.frames[start].node
	}

	node := c.lookupStack(path[0], start)
	for _, seg := range path[1:] {
		if node.IsMissing() || node.IsNull() {
			return value.Missing()
		}
		node = node.Path(seg)
	}
	return node
}

func (c *Context) lookupStack(name any, start FrameID) value.Value {
	if name == "@" {
		return c.frames[start].node
	}
	for id := start; id != noFrame; id = c.frames[id].parent {
		node := c.resolveIn(name, id)
		if !node.IsMissing() {
			return node
		}
		if c.frames[id].stopResolution {
			break
		}
	}
	return value.Missing()
}

// resolveIn evaluates name against one frame.
//
//	@        the frame's own node
//	@index   1-based iteration position
//	@index0  0-based iteration position
//	@other   local variable bound on this frame
func (c *Context) resolveIn(name any, id FrameID) value.Value {
	f := &c.frames[id]
	if s, ok := name.(string); ok && len(s) > 0 && s[0] == '@' {
		switch s {
		case "@":
			return f.node
		case "@index", "@index0":
			if f.index == -1 {
				return value.Missing()
			}
			if s == "@index" {
				return value.Int(int64(f.index + 1))
			}
			return value.Int(int64(f.index))
		}
		v, _ := f.getVar(s)
		return v
	}
	return f.node.Path(name)
}
