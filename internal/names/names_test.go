package names

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	cases := map[string][]any{
		"":               nil,
		"@":              nil,
		"title":          {"title"},
		"items.0.title":  {"items", 0, "title"},
		"@index":         {"@index"},
		" a.b ":          {"a", "b"},
		"a.-1":           {"a", "-1"},
		"website.1x.url": {"website", "1x", "url"},
	}
	for raw, want := range cases {
		if diff := cmp.Diff(want, Split(raw)); diff != "" {
			t.Errorf("Split(%q) mismatch (-want +got):\n%s", raw, diff)
		}
	}
}

func TestJoinRoundTrip(t *testing.T) {
	for _, raw := range []string{"@", "a", "items.0.title"} {
		if got := Join(Split(raw)); got != raw {
			t.Errorf("Join(Split(%q)) = %q", raw, got)
		}
	}
}
