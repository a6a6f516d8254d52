package markdown_test

import (
	"strings"
	"testing"

	"mdt8/internal/platform/markdown"
)

func TestRenderKeepsFieldOrderAndDecodesBack(t *testing.T) {
	t.Parallel()
	out, err := markdown.Render([]markdown.Field{
		{Key: "year", Value: 2026},
		{Key: "date", Value: "2026-10-19"},
		{Key: "goal_met", Value: true},
	}, "# Day\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.HasPrefix(out, "---\nyear: 2026\ndate: \"2026-10-19\"\ngoal_met: true\n---\n\n# Day\n") {
		t.Fatalf("unexpected rendering:\n%s", out)
	}

	var meta struct {
		Year    int    `yaml:"year"`
		Date    string `yaml:"date"`
		GoalMet bool   `yaml:"goal_met"`
	}
	body, found, err := markdown.Decode(out, &meta)
	if err != nil || !found {
		t.Fatalf("decode: found=%v err=%v", found, err)
	}
	if meta.Year != 2026 || !meta.GoalMet || meta.Date != "2026-10-19" {
		t.Fatalf("unexpected meta %+v", meta)
	}
	if body != "\n# Day\n" {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestDecodeWithoutFrontmatter(t *testing.T) {
	t.Parallel()
	meta := map[string]any{}
	body, found, err := markdown.Decode("plain", &meta)
	if err != nil || found || len(meta) != 0 || body != "plain" {
		t.Fatalf("expected passthrough, got %v %q %v %v", meta, body, found, err)
	}
	if _, _, err := markdown.Decode("---\nyear: 1\n", &meta); err == nil {
		t.Fatalf("missing closing separator should fail")
	}
}
