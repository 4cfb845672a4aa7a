package pongo

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formstruct/pkg/structure"
)

func newEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	files := fstest.MapFS{
		"step.tpl":   {Data: []byte(`{{ step.step_number }}. {{ step.title|trim }}{% if not step.is_visible %} (hidden){% endif %}`)},
		"global.tpl": {Data: []byte(`{{ product }}/{{ category|slug }}`)},
	}
	engine, err := New(append([]Option{WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplateUsesWireNames(t *testing.T) {
	engine := newEngine(t)
	step := structure.Step{StepNumber: "3", Title: "  Scope  "}

	var sink strings.Builder
	got, err := engine.RenderTemplate("step", map[string]any{"step": step}, &sink)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "3. Scope (hidden)"
	if got != want || sink.String() != want {
		t.Fatalf("render mismatch\nwant: %q\n got: %q (writer %q)", want, got, sink.String())
	}
}

func TestEngine_Globals(t *testing.T) {
	engine := newEngine(t, WithGlobals(map[string]any{"product": "formstruct"}))
	got, err := engine.Render("global", map[string]any{"category": "Information Management"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "formstruct/information-management" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RenderString(t *testing.T) {
	engine := newEngine(t)
	got, err := engine.Render("{{ a }}-{{ b }}", map[string]any{"a": 1, "b": "two"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "1-two" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngine_RequiresSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatalf("expected error without templates")
	}
}

func TestEngine_MissingTemplate(t *testing.T) {
	engine := newEngine(t)
	if _, err := engine.RenderTemplate("nope", nil); err == nil || !strings.Contains(err.Error(), "nope.tpl") {
		t.Fatalf("expected load error naming the template, got %v", err)
	}
}
