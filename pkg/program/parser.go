package program

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/exec"
)

// instruction keys, in the order they are checked.
var itemKeys = []string{
	"text", "var", "section", "repeat", "if", "predicate",
	"bind", "macro", "apply", "inject", "comment",
}

// fields each item kind accepts besides its own key and "preprocess".
var itemFields = map[string][]string{
	"text":      nil,
	"var":       {"formatters"},
	"section":   {"body", "else"},
	"repeat":    {"body", "alternates", "else"},
	"if":        {"op", "body", "else"},
	"predicate": {"args", "body", "else"},
	"bind":      {"value", "formatters"},
	"macro":     {"body"},
	"apply":     {"scope", "private"},
	"inject":    {"name"},
	"comment":   {"multiline"},
}

type parser struct {
	opts exec.CompileOptions
	errs []exec.ErrorInfo
}

func (p *parser) fail(node *yaml.Node, name, format string, args ...any) {
	p.errs = append(p.errs, exec.ErrorInfo{
		Kind:   exec.ErrSyntax,
		Line:   node.Line,
		Column: node.Column,
		Name:   name,
		Data:   fmt.Sprintf(format, args...),
	})
}

func (p *parser) block(node *yaml.Node) code.Block {
	if node == nil {
		return nil
	}
	if node.Kind != yaml.SequenceNode {
		p.fail(node, "", "expected a sequence of items, got %s", describe(node))
		return nil
	}
	out := make(code.Block, 0, len(node.Content))
	for _, item := range node.Content {
		if inst := p.item(item); inst != nil {
			out = append(out, inst)
		}
	}
	return out
}

// item parses one instruction. It returns nil for skipped or malformed items.
func (p *parser) item(node *yaml.Node) code.Instruction {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!str" {
		return &code.Text{Position: position(node), Text: node.Value}
	}
	if node.Kind != yaml.MappingNode {
		p.fail(node, "", "expected an item mapping, got %s", describe(node))
		return nil
	}

	kind := ""
	for _, key := range itemKeys {
		if lookup(node, key) == nil {
			continue
		}
		if kind != "" {
			p.fail(node, key, "item declares both %q and %q", kind, key)
			return nil
		}
		kind = key
	}
	if kind == "" {
		p.fail(node, "", "item has no instruction key (have %s)", strings.Join(keys(node), ", "))
		return nil
	}
	if !p.checkFields(node, kind) {
		return nil
	}

	if flag := lookup(node, "preprocess"); flag != nil {
		pre, ok := p.boolean(flag, kind)
		if !ok {
			return nil
		}
		if pre && !p.opts.Preprocess {
			return nil
		}
	}

	head := lookup(node, kind)
	pos := position(node)
	switch kind {
	case "text":
		text, ok := p.scalar(head, kind)
		if !ok {
			return nil
		}
		return &code.Text{Position: pos, Text: text}

	case "var":
		path, ok := p.path(head, kind)
		if !ok {
			return nil
		}
		return &code.Variable{Position: pos, Path: path, Formatters: p.formatters(lookup(node, "formatters"))}

	case "section":
		path, ok := p.path(head, kind)
		if !ok {
			return nil
		}
		return &code.Section{
			Position: pos,
			Path:     path,
			Body:     p.block(lookup(node, "body")),
			Else:     p.block(lookup(node, "else")),
		}

	case "repeat":
		path, ok := p.path(head, kind)
		if !ok {
			return nil
		}
		return &code.Repeated{
			Position:       pos,
			Path:           path,
			Body:           p.block(lookup(node, "body")),
			AlternatesWith: p.block(lookup(node, "alternates")),
			Else:           p.block(lookup(node, "else")),
		}

	case "if":
		return p.ifItem(node, head, pos)

	case "predicate":
		name, ok := p.scalar(head, kind)
		if !ok {
			return nil
		}
		args, ok := p.stringList(lookup(node, "args"), kind)
		if !ok {
			return nil
		}
		return &code.Predicate{
			Position: pos,
			Name:     name,
			Args:     args,
			Body:     p.block(lookup(node, "body")),
			Else:     p.block(lookup(node, "else")),
		}

	case "bind":
		name, ok := p.variableName(head, kind)
		if !ok {
			return nil
		}
		var path code.Path
		if v := lookup(node, "value"); v != nil {
			if path, ok = p.path(v, kind); !ok {
				return nil
			}
		}
		return &code.BindVar{Position: pos, Name: name, Path: path, Formatters: p.formatters(lookup(node, "formatters"))}

	case "macro":
		name, ok := p.scalar(head, kind)
		if !ok {
			return nil
		}
		body := &code.Root{Position: pos, Body: p.block(lookup(node, "body"))}
		return &code.Macro{Position: pos, Name: name, Body: body}

	case "apply":
		name, ok := p.scalar(head, kind)
		if !ok {
			return nil
		}
		apply := &code.Apply{Position: pos, Name: name}
		if scope := lookup(node, "scope"); scope != nil {
			if apply.Path, ok = p.path(scope, kind); !ok {
				return nil
			}
		}
		if private := lookup(node, "private"); private != nil {
			if apply.Private, ok = p.boolean(private, kind); !ok {
				return nil
			}
		}
		return apply

	case "inject":
		name, ok := p.variableName(head, kind)
		if !ok {
			return nil
		}
		keyNode := lookup(node, "name")
		if keyNode == nil {
			p.fail(node, kind, "inject requires a name")
			return nil
		}
		key, ok := p.scalar(keyNode, kind)
		if !ok {
			return nil
		}
		return &code.Inject{Position: pos, Name: name, Key: key}

	case "comment":
		text, ok := p.scalar(head, kind)
		if !ok {
			return nil
		}
		comment := &code.Comment{Position: pos, Text: text}
		if multi := lookup(node, "multiline"); multi != nil {
			if comment.Multiline, ok = p.boolean(multi, kind); !ok {
				return nil
			}
		}
		return comment
	}
	return nil
}

func (p *parser) ifItem(node, head *yaml.Node, pos code.Position) code.Instruction {
	var raw []string
	if head.Kind == yaml.ScalarNode {
		raw = []string{head.Value}
	} else {
		var ok bool
		if raw, ok = p.stringList(head, "if"); !ok {
			return nil
		}
	}
	if len(raw) == 0 {
		p.fail(head, "if", "if requires at least one condition")
		return nil
	}

	op := code.OpAnd
	if opNode := lookup(node, "op"); opNode != nil {
		switch strings.ToLower(strings.TrimSpace(opNode.Value)) {
		case "and", "&&":
		case "or", "||":
			op = code.OpOr
		default:
			p.fail(opNode, "if", "unknown operator %q", opNode.Value)
			return nil
		}
	}

	paths := make([]code.Path, 0, len(raw))
	for _, r := range raw {
		paths = append(paths, code.ParsePath(strings.TrimSpace(r)))
	}
	return &code.If{
		Position: pos,
		Op:       op,
		Paths:    paths,
		Body:     p.block(lookup(node, "body")),
		Else:     p.block(lookup(node, "else")),
	}
}

func (p *parser) checkFields(node *yaml.Node, kind string) bool {
	allowed := map[string]bool{kind: true, "preprocess": true}
	for _, f := range itemFields[kind] {
		allowed[f] = true
	}
	ok := true
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if !allowed[key.Value] {
			p.fail(key, kind, "unknown field %q", key.Value)
			ok = false
		}
	}
	return ok
}

func (p *parser) scalar(node *yaml.Node, name string) (string, bool) {
	if node.Kind != yaml.ScalarNode {
		p.fail(node, name, "expected a scalar, got %s", describe(node))
		return "", false
	}
	return node.Value, true
}

func (p *parser) boolean(node *yaml.Node, name string) (bool, bool) {
	var b bool
	if node.Kind != yaml.ScalarNode || node.Decode(&b) != nil {
		p.fail(node, name, "expected a boolean, got %q", node.Value)
		return false, false
	}
	return b, true
}

func (p *parser) path(node *yaml.Node, name string) (code.Path, bool) {
	raw, ok := p.scalar(node, name)
	if !ok {
		return nil, false
	}
	return code.ParsePath(strings.TrimSpace(raw)), true
}

func (p *parser) variableName(node *yaml.Node, name string) (string, bool) {
	raw, ok := p.scalar(node, name)
	if !ok {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '@' {
		p.fail(node, name, "variable name %q must start with @", raw)
		return "", false
	}
	return raw, true
}

func (p *parser) stringList(node *yaml.Node, name string) ([]string, bool) {
	if node == nil {
		return nil, true
	}
	if node.Kind != yaml.SequenceNode {
		p.fail(node, name, "expected a sequence, got %s", describe(node))
		return nil, false
	}
	out := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		s, ok := p.scalar(item, name)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// formatters reads a formatter chain. Each entry is either "name arg..." or a
// sequence [name, arg...]. Malformed entries are reported and dropped.
func (p *parser) formatters(node *yaml.Node) []code.FormatterCall {
	if node == nil {
		return nil
	}
	entries := []*yaml.Node{node}
	if node.Kind == yaml.SequenceNode {
		entries = node.Content
	}

	calls := make([]code.FormatterCall, 0, len(entries))
	for _, entry := range entries {
		var fields []string
		switch entry.Kind {
		case yaml.ScalarNode:
			fields = strings.Fields(entry.Value)
		case yaml.SequenceNode:
			var ok bool
			if fields, ok = p.stringList(entry, "formatters"); !ok {
				continue
			}
		default:
			p.fail(entry, "formatters", "expected a formatter, got %s", describe(entry))
			continue
		}
		if len(fields) == 0 || fields[0] == "" {
			p.fail(entry, "formatters", "formatter name is required")
			continue
		}
		calls = append(calls, code.FormatterCall{Name: fields[0], Args: fields[1:]})
	}
	return calls
}
