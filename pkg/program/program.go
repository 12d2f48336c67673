// Package program reads instruction trees from YAML (or JSON) documents and
// implements exec.Compiler on top of that format.
//
// A program is a sequence of items, or a mapping with a "body" sequence. Each
// item is a mapping keyed by exactly one instruction key:
//
//	- text: "Hello "
//	- var: user.name
//	  formatters: ["html", "truncate 10"]
//	- section: user
//	  body: [...]
//	  else: [...]
//	- repeat: items
//	  body: [...]
//	  alternates: [...]
//	- if: [a, b]
//	  op: or
//	- predicate: equal?
//	  args: [a, b]
//	- bind: "@title"
//	  value: user.name
//	- macro: card
//	  body: [...]
//	- apply: card
//	  scope: item
//	  private: true
//	- inject: "@config"
//	  name: config
//	- comment: "note"
//
// A bare string item is shorthand for a text item. Items flagged
// "preprocess: true" only compile when the compile runs in
// preprocess mode.
package program

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/exec"
)

// SyntaxError reports every problem found in a program compiled in strict
// mode.
type SyntaxError struct {
	Errors []exec.ErrorInfo
}

func (e *SyntaxError) Error() string {
	if len(e.Errors) == 0 {
		return "program: syntax error"
	}
	first := e.Errors[0]
	msg := fmt.Sprintf("program: line %d:%d: %s", first.Line, first.Column, first.Message())
	if extra := len(e.Errors) - 1; extra > 0 {
		msg += fmt.Sprintf(" (and %d more)", extra)
	}
	return msg
}

// ErrEmptyDocument is returned by Parse for documents with no content when a
// program is required.
var ErrEmptyDocument = errors.New("program: empty document")

// Compiler implements exec.Compiler for the YAML program format.
type Compiler struct{}

var _ exec.Compiler = Compiler{}

// NewCompiler returns the YAML program compiler.
func NewCompiler() Compiler { return Compiler{} }

// Compile parses source. In safe mode malformed items are skipped and
// reported through Compiled.Errors; in strict mode they fail the compile with
// a *SyntaxError. An empty source compiles to an empty program.
func (Compiler) Compile(source string, opts exec.CompileOptions) (exec.Compiled, error) {
	root, errs, err := Parse([]byte(source), opts)
	if errors.Is(err, ErrEmptyDocument) {
		return exec.Compiled{Code: &code.Root{}}, nil
	}
	if err != nil {
		return exec.Compiled{}, err
	}
	return exec.Compiled{Code: root, Errors: errs}, nil
}

// Parse decodes a program. Unparseable YAML is always an error.
func Parse(data []byte, opts exec.CompileOptions) (*code.Root, []exec.ErrorInfo, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("program: decode: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil, ErrEmptyDocument
	}

	p := &parser{opts: opts}
	node := doc.Content[0]
	root := &code.Root{Position: position(node)}

	switch node.Kind {
	case yaml.SequenceNode:
		root.Body = p.block(node)
	case yaml.MappingNode:
		body := lookup(node, "body")
		if body == nil {
			p.fail(node, "", "program mapping requires a body")
			break
		}
		root.Body = p.block(body)
	default:
		p.fail(node, "", "program must be a sequence of items")
	}

	if len(p.errs) > 0 && !opts.Safe {
		return nil, nil, &SyntaxError{Errors: p.errs}
	}
	return root, p.errs, nil
}

// ParseString is Parse for string input.
func ParseString(source string, opts exec.CompileOptions) (*code.Root, []exec.ErrorInfo, error) {
	return Parse([]byte(source), opts)
}

// MustParse panics on any error. Intended for fixtures.
func MustParse(source string) *code.Root {
	root, _, err := ParseString(source, exec.CompileOptions{})
	if err != nil {
		panic(err)
	}
	return root
}

func position(node *yaml.Node) code.Position {
	return code.Position{Line: node.Line, Column: node.Column}
}

func lookup(mapping *yaml.Node, key string) *yaml.Node {
	if mapping == nil || mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

func keys(mapping *yaml.Node) []string {
	out := make([]string, 0, len(mapping.Content)/2)
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		out = append(out, mapping.Content[i].Value)
	}
	return out
}

func describe(node *yaml.Node) string {
	switch node.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return strings.TrimPrefix(node.ShortTag(), "!!")
	}
}
