package exec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/exec"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

func TestResolve_AtIsFrameNode(t *testing.T) {
	ctx := exec.New(value.MustParse(`{"name": "root"}`))

	ctx.Push(value.String("child"))
	if got := ctx.Resolve("@"); got.Text() != "child" {
		t.Fatalf("@ in child: got %v", got)
	}

	ctx.Push(value.Missing())
	if got := ctx.Resolve("@"); !got.IsMissing() {
		t.Fatalf("@ on missing frame should stay missing, got %v", got)
	}
}

func TestResolve_IndexOutsideIteration(t *testing.T) {
	ctx := exec.New(value.MustParse(`[1, 2]`))
	for _, name := range []string{"@index", "@index0"} {
		if got := ctx.Resolve(name); !got.IsMissing() {
			t.Fatalf("%s: expected missing, got %v", name, got)
		}
	}
}

func TestIteration_IndexSequence(t *testing.T) {
	ctx := exec.New(value.MustParse(`{"items": ["a", "b", "c"]}`))
	ctx.PushSection(code.ParsePath("items"))
	if !ctx.InitIteration() {
		t.Fatalf("expected iteration to start")
	}

	var zero, one []int64
	var elems []string
	for ctx.HasNext() {
		ctx.PushNext()
		i0, _ := ctx.Resolve("@index0").Int64()
		i1, _ := ctx.Resolve("@index").Int64()
		zero = append(zero, i0)
		one = append(one, i1)
		elems = append(elems, ctx.Resolve("@").Text())
		ctx.Pop()
		ctx.Increment()
	}

	if diff := cmp.Diff([]int64{0, 1, 2}, zero); diff != "" {
		t.Fatalf("@index0 mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int64{1, 2, 3}, one); diff != "" {
		t.Fatalf("@index mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, elems); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}
	if ctx.ArraySize() != 3 {
		t.Fatalf("array size: got %d", ctx.ArraySize())
	}
}

func TestInitIteration_RejectsEmptyAndScalars(t *testing.T) {
	for _, raw := range []string{`[]`, `{"a": 1}`, `"text"`, `null`} {
		ctx := exec.New(value.MustParse(raw))
		if ctx.InitIteration() {
			t.Fatalf("%s: expected iteration to be refused", raw)
		}
		if ctx.CurrentIndex() != -1 {
			t.Fatalf("%s: index should stay -1, got %d", raw, ctx.CurrentIndex())
		}
	}
}

func TestPushNext_NullBecomesMissing(t *testing.T) {
	ctx := exec.New(value.MustParse(`[null]`))
	ctx.InitIteration()
	ctx.PushNext()
	if !ctx.Node().IsMissing() {
		t.Fatalf("expected missing element frame, got %v", ctx.Node().Kind())
	}
}

func TestResolve_Shadowing(t *testing.T) {
	ctx := exec.New(value.MustParse(`{"name": "parent", "only": "outer"}`))
	parent := ctx.Frame()
	ctx.Push(value.MustParse(`{"name": "child"}`))

	if got := ctx.Resolve("name").Text(); got != "child" {
		t.Fatalf("child lookup: got %q", got)
	}
	if got := ctx.ResolveFrom(code.ParsePath("name"), parent).Text(); got != "parent" {
		t.Fatalf("parent lookup: got %q", got)
	}
	if got := ctx.Resolve("only").Text(); got != "outer" {
		t.Fatalf("ancestor fallback: got %q", got)
	}
}

func TestResolve_StopResolutionBoundary(t *testing.T) {
	ctx := exec.New(value.MustParse(`{"secret": "s"}`))
	ctx.SetMacro("card", &code.Root{})
	ctx.Push(value.MustParse(`{"own": 1}`))
	ctx.SetStopResolution(true)

	if got := ctx.Resolve("secret"); !got.IsMissing() {
		t.Fatalf("expected boundary to hide ancestor value, got %v", got)
	}
	if got := ctx.Resolve("own"); got.IsMissing() {
		t.Fatalf("own value should resolve")
	}
	if ctx.ResolveMacro("card") == nil {
		t.Fatalf("macros resolve across boundaries")
	}
}

func TestResolvePath_NullShortCircuits(t *testing.T) {
	ctx := exec.New(value.MustParse(`{"a": null, "b": {"c": [10, 20]}}`))

	if got := ctx.ResolvePath(code.ParsePath("a.x")); !got.IsMissing() {
		t.Fatalf("null must not be traversed, got %v", got)
	}
	if got := ctx.ResolvePath(code.ParsePath("b.c.1")).Text(); got != "20" {
		t.Fatalf("indexed path: got %q", got)
	}
	if got := ctx.ResolvePath(code.ParsePath("missing.x")); !got.IsMissing() {
		t.Fatalf("expected missing, got %v", got)
	}
}

func TestPushSection_DoesNotSearchAncestors(t *testing.T) {
	ctx := exec.New(value.MustParse(`{"x": {"v": 1}}`))
	ctx.Push(value.MustParse(`{"y": 2}`))

	ctx.PushSection(code.ParsePath("x"))
	if !ctx.Node().IsMissing() {
		t.Fatalf("section lookup leaked to ancestor: %v", ctx.Node())
	}
	ctx.Pop()

	if got := ctx.ResolvePath(code.ParsePath("x.v")).Text(); got != "1" {
		t.Fatalf("stack lookup should still find x: got %q", got)
	}
}

func TestVariables_BoundPerFrame(t *testing.T) {
	ctx := exec.New(value.MustParse(`{}`))
	ctx.SetVar("@title", value.String("outer"))
	ctx.Push(value.MustParse(`{}`))
	ctx.SetVar("@title", value.String("inner"))

	if got := ctx.Resolve("@title").Text(); got != "inner" {
		t.Fatalf("inner binding: got %q", got)
	}
	ctx.Pop()
	if got := ctx.Resolve("@title").Text(); got != "outer" {
		t.Fatalf("outer binding: got %q", got)
	}
}

func TestPop_KeepsRootFrame(t *testing.T) {
	ctx := exec.New(value.String("root"))
	root := ctx.Frame()
	ctx.Pop()
	ctx.Pop()
	if ctx.Frame() != root || ctx.Node().Text() != "root" {
		t.Fatalf("root frame was popped")
	}
}
