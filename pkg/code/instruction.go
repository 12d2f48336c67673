// Package code defines the compiled instruction tree executed by pkg/exec.
//
// The set of instruction kinds is closed: Instruction carries an unexported
// marker method, so only the types declared here satisfy it and the executor
// can dispatch over them with a single type switch. Trees are immutable once
// built and may be shared by any number of concurrent renders.
package code

import "github.com/goliatone/go-jsontemplate/internal/names"

// Kind enumerates instruction variants.
type Kind uint8

const (
	KindRoot Kind = iota
	KindText
	KindVariable
	KindSection
	KindRepeated
	KindPredicate
	KindIf
	KindBindVar
	KindMacro
	KindApply
	KindInject
	KindComment
)

var kindNames = [...]string{
	KindRoot:      "ROOT",
	KindText:      "TEXT",
	KindVariable:  "VARIABLE",
	KindSection:   "SECTION",
	KindRepeated:  "REPEATED",
	KindPredicate: "PREDICATE",
	KindIf:        "IF",
	KindBindVar:   "BINDVAR",
	KindMacro:     "MACRO",
	KindApply:     "APPLY",
	KindInject:    "INJECT",
	KindComment:   "COMMENT",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// Position is the source location of an instruction.
type Position struct {
	Line   int
	Column int
}

// Pos returns the position itself so embedding types satisfy Instruction.
func (p Position) Pos() Position { return p }

// Instruction is one node of a compiled template.
type Instruction interface {
	Kind() Kind
	Pos() Position
	instruction()
}

// Block is an ordered instruction sequence.
type Block []Instruction

// Path is a parsed variable reference: string keys and int indices. A nil Path
// refers to the current scope.
type Path []any

// ParsePath splits a dotted reference.
func ParsePath(raw string) Path {
	return Path(names.Split(raw))
}

func (p Path) String() string {
	return names.Join(p)
}

// FormatterCall names a formatter plugin and its raw arguments.
type FormatterCall struct {
	Name string
	Args []string
}

// LogicalOp combines If conditions.
type LogicalOp uint8

const (
	OpAnd LogicalOp = iota
	OpOr
)

// Root is the top of a compiled template, partial or macro body.
type Root struct {
	Position
	Body Block
}

// Text emits literal output.
type Text struct {
	Position
	Text string
}

// Variable resolves a reference, pipes it through formatters and emits it.
type Variable struct {
	Position
	Path       Path
	Formatters []FormatterCall
}

// Section scopes Body to the value at Path, rendering Else when it is falsy.
type Section struct {
	Position
	Path Path
	Body Block
	Else Block
}

// Repeated iterates Body over the array at Path. AlternatesWith renders
// between consecutive elements.
type Repeated struct {
	Position
	Path           Path
	Body           Block
	AlternatesWith Block
	Else           Block
}

// Predicate renders Body when the named predicate plugin accepts the current
// node.
type Predicate struct {
	Position
	Name string
	Args []string
	Body Block
	Else Block
}

// If renders Body when the truthiness of Paths, combined with Op, holds.
type If struct {
	Position
	Op    LogicalOp
	Paths []Path
	Body  Block
	Else  Block
}

// BindVar binds a local "@name" variable on the current frame.
type BindVar struct {
	Position
	Name       string
	Path       Path
	Formatters []FormatterCall
}

// Macro binds Body under Name on the current frame. Macros shadow partials of
// the same name.
type Macro struct {
	Position
	Name string
	Body *Root
}

// Apply invokes a macro or partial named Name against the value at Path.
// Private partials cannot see variables outside their own scope.
type Apply struct {
	Position
	Name    string
	Path    Path
	Private bool
}

// Inject binds the parsed injectable Key to the local variable Name.
type Inject struct {
	Position
	Name string
	Key  string
}

// Comment produces no output.
type Comment struct {
	Position
	Text      string
	Multiline bool
}

func (*Root) Kind() Kind      { return KindRoot }
func (*Text) Kind() Kind      { return KindText }
func (*Variable) Kind() Kind  { return KindVariable }
func (*Section) Kind() Kind   { return KindSection }
func (*Repeated) Kind() Kind  { return KindRepeated }
func (*Predicate) Kind() Kind { return KindPredicate }
func (*If) Kind() Kind        { return KindIf }
func (*BindVar) Kind() Kind   { return KindBindVar }
func (*Macro) Kind() Kind     { return KindMacro }
func (*Apply) Kind() Kind     { return KindApply }
func (*Inject) Kind() Kind    { return KindInject }
func (*Comment) Kind() Kind   { return KindComment }

func (*Root) instruction()      {}
func (*Text) instruction()      {}
func (*Variable) instruction()  {}
func (*Section) instruction()   {}
func (*Repeated) instruction()  {}
func (*Predicate) instruction() {}
func (*If) instruction()        {}
func (*BindVar) instruction()   {}
func (*Macro) instruction()     {}
func (*Apply) instruction()     {}
func (*Inject) instruction()    {}
func (*Comment) instruction()   {}
