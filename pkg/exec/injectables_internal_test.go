package exec

import (
	"testing"

	"github.com/goliatone/go-jsontemplate/pkg/value"
)

func TestGetInjectable_Memoizes(t *testing.T) {
	ctx := New(value.Null(), WithInjectables(value.MustParse(`{
		"config": "{\"theme\": \"dark\"}",
		"broken": "{not json",
		"inline": {"a": 1}
	}`)))

	parses := 0
	ctx.decodeInjectable = func(raw string) value.Value {
		parses++
		return value.ParseLenient(raw)
	}

	first := ctx.GetInjectable("config")
	second := ctx.GetInjectable("config")
	if parses != 1 {
		t.Fatalf("expected one parse, got %d", parses)
	}
	if first.Key("theme").Text() != "dark" || !first.Equal(second) {
		t.Fatalf("unexpected injectable %v / %v", first, second)
	}

	if got := ctx.GetInjectable("absent"); !got.IsMissing() {
		t.Fatalf("absent: got %v", got)
	}
	if got := ctx.GetInjectable("absent"); !got.IsMissing() {
		t.Fatalf("absent (cached): got %v", got)
	}
	if parses != 1 {
		t.Fatalf("missing names must not parse, got %d parses", parses)
	}

	if got := ctx.GetInjectable("broken"); !got.IsMissing() {
		t.Fatalf("broken json should be missing, got %v", got)
	}
	ctx.GetInjectable("broken")
	if parses != 2 {
		t.Fatalf("broken payload should parse once, got %d", parses)
	}

	if got := ctx.GetInjectable("inline").Key("a").Text(); got != "1" {
		t.Fatalf("inline injectable: got %q", got)
	}
}

func TestGetInjectable_Unconfigured(t *testing.T) {
	ctx := New(value.Null())
	if got := ctx.GetInjectable("x"); !got.IsMissing() {
		t.Fatalf("expected missing, got %v", got)
	}
}
