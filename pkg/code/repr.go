package code

import (
	"strings"
)

// Repr renders the opening tag of an instruction in template syntax. Nested
// bodies are not emitted; the result identifies the instruction in error
// records.
func Repr(inst Instruction) string {
	var b strings.Builder
	writeRepr(&b, inst)
	return b.String()
}

func writeRepr(b *strings.Builder, inst Instruction) {
	switch n := inst.(type) {
	case nil:
	case *Root:
	case *Text:
		b.WriteString(n.Text)
	case *Variable:
		b.WriteByte('{')
		b.WriteString(n.Path.String())
		writeFormatters(b, n.Formatters)
		b.WriteByte('}')
	case *Section:
		b.WriteString("{.section ")
		b.WriteString(n.Path.String())
		b.WriteByte('}')
	case *Repeated:
		b.WriteString("{.repeated section ")
		b.WriteString(n.Path.String())
		b.WriteByte('}')
	case *Predicate:
		b.WriteString("{.")
		b.WriteString(n.Name)
		for _, arg := range n.Args {
			b.WriteByte(' ')
			b.WriteString(arg)
		}
		b.WriteByte('}')
	case *If:
		b.WriteString("{.if ")
		sep := " && "
		if n.Op == OpOr {
			sep = " || "
		}
		for i, p := range n.Paths {
			if i > 0 {
				b.WriteString(sep)
			}
			b.WriteString(p.String())
		}
		b.WriteByte('}')
	case *BindVar:
		b.WriteString("{.var ")
		b.WriteString(n.Name)
		b.WriteByte(' ')
		b.WriteString(n.Path.String())
		writeFormatters(b, n.Formatters)
		b.WriteByte('}')
	case *Macro:
		b.WriteString("{.macro ")
		b.WriteString(n.Name)
		b.WriteByte('}')
	case *Apply:
		b.WriteByte('{')
		b.WriteString(n.Path.String())
		b.WriteString("|apply ")
		b.WriteString(n.Name)
		if n.Private {
			b.WriteString(" private")
		}
		b.WriteByte('}')
	case *Inject:
		b.WriteString("{.inject ")
		b.WriteString(n.Name)
		b.WriteByte(' ')
		b.WriteString(n.Key)
		b.WriteByte('}')
	case *Comment:
		if n.Multiline {
			b.WriteString("{##")
			b.WriteString(n.Text)
			b.WriteString("##}")
			return
		}
		b.WriteString("{#")
		b.WriteString(n.Text)
		b.WriteByte('}')
	}
}

func writeFormatters(b *strings.Builder, calls []FormatterCall) {
	for _, call := range calls {
		b.WriteByte('|')
		b.WriteString(call.Name)
		for _, arg := range call.Args {
			b.WriteByte(' ')
			b.WriteString(arg)
		}
	}
}
