package exec_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-jsontemplate/pkg/exec"
)

func TestErrorInfo_Chaining(t *testing.T) {
	base := exec.ErrorInfo{Kind: exec.ErrCompilePartialSyntax, Line: 3, Column: 1}
	child := exec.ErrorInfo{Kind: exec.ErrSyntax, Line: 1, Column: 2, Data: "bad tag"}

	info := base.WithName("card").WithChildren([]exec.ErrorInfo{child})
	if base.Name != "" || len(base.Children) != 0 {
		t.Fatalf("chaining must not mutate the receiver")
	}
	if info.Message() != `partial "card" has 1 syntax error(s)` {
		t.Fatalf("message: %q", info.Message())
	}

	lines := strings.Split(info.String(), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "  SYNTAX line 1:2") {
		t.Fatalf("nested rendering: %q", info.String())
	}
}

func TestErrorInfo_JSON(t *testing.T) {
	info := exec.ErrorInfo{Kind: exec.ErrPartialRecursionDepth, Line: 2, Column: 4, Name: "loop", Data: 16}
	payload, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := map[string]any{
		"kind":   "APPLY_PARTIAL_RECURSION_DEPTH",
		"line":   float64(2),
		"column": float64(4),
		"name":   "loop",
		"data":   float64(16),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestExecuteError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &exec.ExecuteError{Info: exec.ErrorInfo{Kind: exec.ErrUnexpected, Name: "x"}, Cause: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("cause not reachable")
	}
	if !strings.HasPrefix(err.Error(), "exec: UNEXPECTED_ERROR") {
		t.Fatalf("error text: %q", err.Error())
	}
}
