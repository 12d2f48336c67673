package jsontemplate_test

import (
	"bytes"
	"testing"

	jsontemplate "github.com/goliatone/go-jsontemplate"
	"github.com/goliatone/go-jsontemplate/pkg/render"
)

const greeting = `
- "Hello, "
- var: name
- "!"
`

func TestRender(t *testing.T) {
	res, err := jsontemplate.Render(greeting, map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Output != "Hello, Ada!" {
		t.Fatalf("unexpected output %q", res.Output)
	}
}

func TestRenderTo(t *testing.T) {
	var buf bytes.Buffer
	_, err := jsontemplate.RenderTo(&buf, greeting, map[string]any{"name": "Bob"}, render.WithSafeMode(true))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "Hello, Bob!" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNewEngine(t *testing.T) {
	engine, err := jsontemplate.NewEngine()
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if err := engine.Compile("greeting", greeting); err != nil {
		t.Fatalf("compile: %v", err)
	}
	res, err := engine.Render("greeting", []byte(`{"name":"Cy"}`))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if res.Output != "Hello, Cy!" {
		t.Fatalf("unexpected output %q", res.Output)
	}
}
