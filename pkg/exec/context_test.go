package exec_test

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/exec"
	"github.com/goliatone/go-jsontemplate/pkg/locale"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

func TestNew_Defaults(t *testing.T) {
	ctx := exec.New(value.Null())
	if ctx.SafeExecution() || ctx.Preprocess() {
		t.Fatalf("modes should default to off")
	}
	if ctx.MaxPartialDepth() != exec.DefaultMaxPartialDepth {
		t.Fatalf("max depth: got %d", ctx.MaxPartialDepth())
	}
	if errs := ctx.Errors(); errs == nil || len(errs) != 0 {
		t.Fatalf("errors should be an empty slice, got %#v", errs)
	}
	if ctx.Locale() != locale.DefaultTag || ctx.Formats().Tag() != locale.DefaultTag {
		t.Fatalf("locale: got %q / %q", ctx.Locale(), ctx.Formats().Tag())
	}
	if ctx.Now().IsZero() {
		t.Fatalf("clock should default to now")
	}
}

func TestFormats_LazyFromLocale(t *testing.T) {
	ctx := exec.New(value.Null(), exec.WithLocale("fr-FR"))
	if got := ctx.Formats().Tag(); got != "fr-FR" {
		t.Fatalf("tag: got %q", got)
	}
	if ctx.Formats() != ctx.Formats() {
		t.Fatalf("formats should be built once")
	}

	ctx = exec.New(value.Null(), exec.WithLocale("not a tag!!"))
	if got := ctx.Formats().Tag(); got != locale.DefaultTag {
		t.Fatalf("bad tag should fall back, got %q", got)
	}

	svc := locale.MustNew("de-DE")
	ctx = exec.New(value.Null(), exec.WithFormats(svc))
	if ctx.Formats() != svc {
		t.Fatalf("explicit formats not used")
	}
}

func TestOptions_ClampAndClock(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ctx := exec.New(value.Null(), exec.WithMaxPartialDepth(-3), exec.WithNow(now))
	if ctx.MaxPartialDepth() != 0 {
		t.Fatalf("negative depth should clamp to 0, got %d", ctx.MaxPartialDepth())
	}
	if !ctx.Now().Equal(now) {
		t.Fatalf("clock: got %v", ctx.Now())
	}
}

func TestSwapBuffer_CapturesNestedOutput(t *testing.T) {
	outer := &strings.Builder{}
	ctx := exec.New(value.MustParse(`{"a": "x"}`), exec.WithBuffer(outer))

	ctx.Emit("before ")
	capture := &strings.Builder{}
	prev := ctx.SwapBuffer(capture)
	if err := ctx.Execute(&code.Variable{Path: code.ParsePath("a")}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	ctx.SwapBuffer(prev)
	ctx.Emit("after")

	if capture.String() != "x" {
		t.Fatalf("capture: got %q", capture.String())
	}
	if outer.String() != "before after" || ctx.Output() != "before after" {
		t.Fatalf("outer: got %q", outer.String())
	}
}

func TestError_StampsCurrentPosition(t *testing.T) {
	var info exec.ErrorInfo
	reg := exec.NewRegistry()
	reg.MustRegisterPredicate("probe?", exec.PredicateFunc(func(c *exec.Context, _ []string, _ value.Value) (bool, error) {
		info = c.Error(exec.ErrSyntax)
		return false, nil
	}))
	ctx := exec.New(value.Null(), exec.WithRegistry(reg))
	if err := ctx.Run(&code.Predicate{Position: code.Position{Line: 7, Column: 9}, Name: "probe?"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if info.Line != 7 || info.Column != 9 {
		t.Fatalf("position: %+v", info)
	}
	if ctx.Current() != nil {
		t.Fatalf("current instruction should be cleared after run")
	}
}
