package code_test

import (
	"testing"

	"github.com/goliatone/go-jsontemplate/pkg/code"
)

func TestRepr(t *testing.T) {
	cases := []struct {
		inst code.Instruction
		want string
	}{
		{&code.Text{Text: "hello"}, "hello"},
		{&code.Variable{Path: code.ParsePath("a.b"), Formatters: []code.FormatterCall{{Name: "html"}, {Name: "truncate", Args: []string{"10"}}}}, "{a.b|html|truncate 10}"},
		{&code.Variable{}, "{@}"},
		{&code.Section{Path: code.ParsePath("user")}, "{.section user}"},
		{&code.Repeated{Path: code.ParsePath("items"), Body: code.Block{&code.Text{Text: "x"}}}, "{.repeated section items}"},
		{&code.Predicate{Name: "equal?", Args: []string{"a", "b"}}, "{.equal? a b}"},
		{&code.If{Op: code.OpOr, Paths: []code.Path{code.ParsePath("a"), code.ParsePath("b")}}, "{.if a || b}"},
		{&code.BindVar{Name: "@x", Path: code.ParsePath("a.0")}, "{.var @x a.0}"},
		{&code.Macro{Name: "card"}, "{.macro card}"},
		{&code.Apply{Name: "card", Private: true}, "{@|apply card private}"},
		{&code.Inject{Name: "@cfg", Key: "config"}, "{.inject @cfg config}"},
		{&code.Comment{Text: " note"}, "{# note}"},
		{&code.Comment{Text: "block", Multiline: true}, "{##block##}"},
		{&code.Root{}, ""},
	}
	for _, tc := range cases {
		if got := code.Repr(tc.inst); got != tc.want {
			t.Errorf("Repr(%s) = %q, want %q", tc.inst.Kind(), got, tc.want)
		}
	}
}

func TestPositionPromotion(t *testing.T) {
	inst := &code.Variable{Position: code.Position{Line: 3, Column: 7}}
	if got := inst.Pos(); got.Line != 3 || got.Column != 7 {
		t.Fatalf("position: got %+v", got)
	}
	if inst.Kind().String() != "VARIABLE" {
		t.Fatalf("kind name: got %s", inst.Kind())
	}
}
