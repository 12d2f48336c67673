package render_test

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsontemplate/pkg/exec"
	"github.com/goliatone/go-jsontemplate/pkg/render"
	"github.com/goliatone/go-jsontemplate/pkg/testsupport"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

func mustEngine(t *testing.T, opts ...render.Option) *render.Engine {
	t.Helper()
	engine, err := render.New(opts...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_GoldenOrder(t *testing.T) {
	engine := mustEngine(t, render.WithBaseDir(filepath.Join("testdata", "programs")))
	data := testsupport.MustLoadData(t, filepath.Join("testdata", "data", "order.json"))

	result, err := engine.Render("order", data)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	goldenPath := filepath.Join("testdata", "golden", "order.txt")
	if testsupport.WriteMaybeGolden(t, goldenPath, []byte(result.Output)) {
		return
	}
	want := testsupport.MustReadGoldenString(t, goldenPath)
	if diff := testsupport.CompareGolden(want, result.Output); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if !engine.Has("order") {
		t.Fatalf("loaded program should be cached")
	}
}

func TestEngine_CompileRegisterList(t *testing.T) {
	engine := mustEngine(t)
	if err := engine.Compile("b", `- text: b`); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := engine.Compile("a", `- var: name`); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := engine.Compile(" ", `- text: x`); err == nil {
		t.Fatalf("expected name error")
	}
	if err := engine.Compile("bad", `- bogus: 1`); err == nil {
		t.Fatalf("strict compile should fail")
	}
	if err := engine.Register("c", nil); err == nil {
		t.Fatalf("expected nil program error")
	}

	if diff := cmp.Diff([]string{"a", "b"}, engine.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	result, err := engine.Render("a", map[string]any{"name": "Ada"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Output != "Ada" {
		t.Fatalf("output: got %q", result.Output)
	}
}

func TestEngine_RenderUnknown(t *testing.T) {
	engine := mustEngine(t)
	if _, err := engine.Render("ghost", nil); !errors.Is(err, render.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}

	engine = mustEngine(t, render.WithFS(fstest.MapFS{}))
	if _, err := engine.Render("ghost", nil); !errors.Is(err, render.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound from fs, got %v", err)
	}
}

func TestEngine_WritesToOutputs(t *testing.T) {
	engine := mustEngine(t)
	rendered, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		result, err := engine.RenderSource(`["hello ", {var: who}]`, []byte(`{"who": "world"}`), w)
		return result.Output, err
	})
	if rendered != "hello world" || written != rendered {
		t.Fatalf("rendered %q, written %q", rendered, written)
	}
}

func TestEngine_FSWithExtension(t *testing.T) {
	files := fstest.MapFS{
		"mail/welcome.tpl.yml": {Data: []byte(`["Welcome ", {var: user.name}]`)},
	}
	engine := mustEngine(t, render.WithFS(files), render.WithExtension("tpl.yml"))

	result, err := engine.Render("mail/welcome", struct {
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	}{User: struct {
		Name string `json:"name"`
	}{Name: "Ada"}})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Output != "Welcome Ada" {
		t.Fatalf("output: got %q", result.Output)
	}
}

func TestEngine_SafeModeCollectsErrors(t *testing.T) {
	engine := mustEngine(t, render.WithSafeMode(true))
	source := `
- text: "a"
- bogus: true
- var: x
  formatters: [nope]
- text: "b"
`
	result, err := engine.RenderSource(source, value.MustParse(`{"x": 1}`))
	if err != nil {
		t.Fatalf("safe render: %v", err)
	}
	if result.Output != "ab" {
		t.Fatalf("output: got %q", result.Output)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected a compile and a runtime error, got %v", result.Errors)
	}
	if result.Errors[0].Kind != exec.ErrSyntax || result.Errors[1].Kind != exec.ErrUnexpected {
		t.Fatalf("error kinds: %v", result.Errors)
	}
}

func TestEngine_StrictModeFails(t *testing.T) {
	engine := mustEngine(t)
	_, err := engine.RenderSource(`[{var: x, formatters: [nope]}]`, nil)
	if !errors.Is(err, exec.ErrUnknownFormatter) {
		t.Fatalf("expected unknown formatter failure, got %v", err)
	}
}

func TestEngine_PartialsCompiledOncePerRender(t *testing.T) {
	counter := testsupport.NewCountingCompiler(nil)
	row := `[{var: "@"}, ";"]`
	engine := mustEngine(t,
		render.WithCompiler(counter),
		render.WithPartials(map[string]string{"row": row}),
	)
	if err := engine.Compile("list", `[{repeat: items, body: [{apply: row}]}]`); err != nil {
		t.Fatalf("compile: %v", err)
	}

	for i := 1; i <= 2; i++ {
		result, err := engine.Render("list", value.MustParse(`{"items": [1, 2, 3]}`))
		if err != nil {
			t.Fatalf("render: %v", err)
		}
		if result.Output != "1;2;3;" {
			t.Fatalf("output: got %q", result.Output)
		}
		if got := counter.Count(row); got != i {
			t.Fatalf("render %d: expected %d partial compiles, got %d", i, i, got)
		}
	}
}

func TestEngine_Injectables(t *testing.T) {
	engine := mustEngine(t, render.WithInjectables(map[string]string{
		"site": `{"title": "Shop"}`,
	}))
	result, err := engine.RenderSource(`[{inject: "@site", name: site}, {var: "@site.title"}]`, nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result.Output != "Shop" {
		t.Fatalf("output: got %q", result.Output)
	}
}

func TestEngine_Limits(t *testing.T) {
	engine := mustEngine(t, render.WithLimits(3, 0), render.WithSafeMode(true))
	result, err := engine.RenderSource(`[a, b, c, d]`, nil)

	var execErr *exec.ExecuteError
	if !errors.As(err, &execErr) || execErr.Info.Kind != exec.ErrCodeLimitReached {
		t.Fatalf("expected code limit failure, got %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("safe mode should report the limit, got %v", result.Errors)
	}

	// Limiters are built per render, so earlier steps do not count here.
	if _, err := engine.RenderSource(`[a]`, nil); err != nil {
		t.Fatalf("short render should pass: %v", err)
	}
}

func TestEngine_ConcurrentRenders(t *testing.T) {
	engine := mustEngine(t, render.WithPartials(map[string]string{
		"greet": `["hi ", {var: name}]`,
	}))
	if err := engine.Compile("page", `[{apply: greet}]`); err != nil {
		t.Fatalf("compile: %v", err)
	}

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("user-%d", i)
			result, err := engine.Render("page", map[string]any{"name": name})
			if err != nil {
				errs <- err
				return
			}
			if result.Output != "hi "+name {
				errs <- fmt.Errorf("worker %d: got %q", i, result.Output)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
