package testsupport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsontemplate/pkg/code"
	"github.com/goliatone/go-jsontemplate/pkg/exec"
	"github.com/goliatone/go-jsontemplate/pkg/program"
	"github.com/goliatone/go-jsontemplate/pkg/value"
)

// LoadProgram reads a YAML program fixture. Testing helpers fail the test on
// error to keep table tests concise.
func LoadProgram(t *testing.T, path string) *code.Root {
	t.Helper()

	root, err := LoadProgramFromPath(path)
	if err != nil {
		t.Fatalf("load program: %v", err)
	}
	return root
}

// LoadProgramFromPath returns a compiled program without requiring testing.T.
func LoadProgramFromPath(path string) (*code.Root, error) {
	if path == "" {
		return nil, errors.New("testsupport: program path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read program: %w", err)
	}
	root, _, err := program.Parse(data, exec.CompileOptions{})
	if err != nil {
		return nil, fmt.Errorf("testsupport: parse program: %w", err)
	}
	return root, nil
}

// MustLoadData reads a JSON data fixture.
func MustLoadData(t *testing.T, path string) value.Value {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("load data: %v", err)
	}
	v, err := value.Parse(data)
	if err != nil {
		t.Fatalf("parse data: %v", err)
	}
	return v
}

// WriteGolden writes arbitrary data as JSON to a golden file when
// UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, v any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	WriteMaybeGolden(t, path, payload)
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// CountingCompiler wraps a compiler and counts compiles per source. It is
// safe for concurrent use.
type CountingCompiler struct {
	Next exec.Compiler

	mu     sync.Mutex
	counts map[string]int
}

var _ exec.Compiler = (*CountingCompiler)(nil)

// NewCountingCompiler wraps next, defaulting to the YAML program compiler.
func NewCountingCompiler(next exec.Compiler) *CountingCompiler {
	if next == nil {
		next = program.NewCompiler()
	}
	return &CountingCompiler{Next: next, counts: make(map[string]int)}
}

func (c *CountingCompiler) Compile(source string, opts exec.CompileOptions) (exec.Compiled, error) {
	c.mu.Lock()
	c.counts[source]++
	c.mu.Unlock()
	return c.Next.Compile(source, opts)
}

// Count reports how many times source was compiled.
func (c *CountingCompiler) Count(source string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[source]
}

// Total reports the number of compiles across all sources.
func (c *CountingCompiler) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}
