package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstruct/pkg/fieldtypes"
	"github.com/goliatone/go-formstruct/pkg/render"
	"github.com/goliatone/go-formstruct/pkg/structure"
	"github.com/goliatone/go-formstruct/pkg/testsupport"
)

type stubDriver struct {
	inputs    []string
	selectIdx []int
	multiIdx  [][]int
	confirm   []bool
	textAreas []string
	messages  []string
	prompts   []string
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if len(s.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[0]
	s.inputs = s.inputs[1:]
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if len(s.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[0]
	s.confirm = s.confirm[1:]
	return val, nil
}

func (s *stubDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if len(s.selectIdx) == 0 {
		return -1, errors.New("no select scripted")
	}
	val := s.selectIdx[0]
	s.selectIdx = s.selectIdx[1:]
	return val, nil
}

func (s *stubDriver) MultiSelect(_ context.Context, cfg SelectConfig) ([]int, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if len(s.multiIdx) == 0 {
		return nil, errors.New("no multiselect scripted")
	}
	val := s.multiIdx[0]
	s.multiIdx = s.multiIdx[1:]
	return val, nil
}

func (s *stubDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	s.prompts = append(s.prompts, cfg.Message)
	if len(s.textAreas) == 0 {
		return "", errors.New("no textarea scripted")
	}
	val := s.textAreas[0]
	s.textAreas = s.textAreas[1:]
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.messages = append(s.messages, msg)
	return nil
}

func newRenderer(t *testing.T, driver PromptDriver, opts ...Option) *Renderer {
	t.Helper()
	r, err := New(append([]Option{WithPromptDriver(driver)}, opts...)...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestFill_VisibleStepsWithNumbers(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{" Tower "},
		textAreas: []string{"<p>Mixed use</p>"},
		selectIdx: []int{1},
	}
	r := newRenderer(t, driver)

	values, err := r.Fill(context.Background(), structure.Flatten(testsupport.Template()), nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := map[string]any{
		"projectName":        "Tower",
		"projectDescription": "<p>Mixed use</p>",
		"projectType":        "Residential",
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	wantPrompts := []string{"1.1 Project Name", "1.2 Project Description", "1.3 Project Type"}
	if diff := cmp.Diff(wantPrompts, driver.prompts); diff != "" {
		t.Fatalf("prompts mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"1. Project Info"}, driver.messages); diff != "" {
		t.Fatalf("hidden step must not be announced (-want +got):\n%s", diff)
	}
}

func TestFillStep_RepromptsRequired(t *testing.T) {
	driver := &stubDriver{inputs: []string{"  ", "Tower"}}
	r := newRenderer(t, driver, WithTheme(Theme{ErrorPrefix: "! "}))
	step := structure.Step{ID: "s", StepNumber: "1", Title: "Info", IsVisible: true}
	fields := []structure.Field{{ID: "f", StepID: "s", FieldID: "name", Label: "Name", Type: "text", IsRequired: true, IsVisible: true}}

	values, err := r.FillStep(context.Background(), step, fields, map[string]any{"keep": 1})
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"keep": 1, "name": "Tower"}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if len(driver.messages) != 2 || driver.messages[1] != "! Name is required" {
		t.Fatalf("expected a required notice, got %v", driver.messages)
	}
}

func TestFillStep_UnknownTypeUsesTextInput(t *testing.T) {
	driver := &stubDriver{inputs: []string{"value"}}
	r := newRenderer(t, driver)
	step := structure.Step{ID: "s", StepNumber: "2", IsVisible: true}
	fields := []structure.Field{{ID: "f", StepID: "s", FieldID: "odd", Label: "Odd", Type: "hologram", IsVisible: true}}

	values, err := r.FillStep(context.Background(), step, fields, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if values["odd"] != "value" {
		t.Fatalf("expected fallback input to collect value, got %v", values)
	}
}

func TestFillStep_ComponentsAndDecorations(t *testing.T) {
	driver := &stubDriver{
		multiIdx: [][]int{{0, 2}},
		inputs:   []string{"Lead", "Sam", "QA", "Kim"},
		confirm:  []bool{true, false},
	}
	r := newRenderer(t, driver)
	step := structure.Step{ID: "s", StepNumber: "3", IsVisible: true}
	fields := []structure.Field{
		{ID: "a", StepID: "s", FieldID: "hdr", Label: "Scope", Type: fieldtypes.TypeSectionHeader, IsVisible: true},
		{ID: "b", StepID: "s", FieldID: "uses", Label: "Uses", Type: fieldtypes.TypeCheckbox, OrderIndex: 1, IsVisible: true,
			Config: structure.Config{"options": []any{"A", "B", "C"}}},
		{ID: "c", StepID: "s", FieldID: "team", Label: "Team", Type: fieldtypes.TypeTable, OrderIndex: 2, IsVisible: true,
			Config: structure.Config{"columns": []any{"Role", "Name"}}},
	}

	values, err := r.FillStep(context.Background(), step, fields, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	want := map[string]any{
		"uses": []any{"A", "C"},
		"team": []any{
			map[string]any{"Role": "Lead", "Name": "Sam"},
			map[string]any{"Role": "QA", "Name": "Kim"},
		},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(strings.Join(driver.messages, "\n"), "== Scope ==") {
		t.Fatalf("section header not printed: %v", driver.messages)
	}
}

func TestWithComponent_Override(t *testing.T) {
	driver := &stubDriver{}
	r := newRenderer(t, driver, WithComponent(fieldtypes.ComponentOrgChart, func(_ context.Context, _ PromptDriver, props render.Props) error {
		props.Change(map[string]any{"root": props.Number})
		return nil
	}))
	step := structure.Step{ID: "s", StepNumber: "5", IsVisible: true}
	fields := []structure.Field{{ID: "f", StepID: "s", FieldID: "org", Label: "Org", Type: fieldtypes.TypeOrgChart, IsVisible: true}}

	values, err := r.FillStep(context.Background(), step, fields, nil)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"org": map[string]any{"root": "5.1"}}, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_Formats(t *testing.T) {
	values := map[string]any{"name": "Tower", "uses": []any{"A", "B"}}

	form := newRenderer(t, &stubDriver{}, WithOutputFormat(OutputFormatFormURLEncoded))
	out, err := form.Encode(values)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := string(out); got != "name=Tower&uses%5B%5D=A&uses%5B%5D=B" {
		t.Fatalf("unexpected form payload %q", got)
	}

	pretty := newRenderer(t, &stubDriver{}, WithOutputFormat(OutputFormatPrettyText))
	out, _ = pretty.Encode(values)
	if got := string(out); got != "name=Tower\nuses[0]=A\nuses[1]=B\n" {
		t.Fatalf("unexpected pretty payload %q", got)
	}
	if pretty.ContentType() != "text/plain" {
		t.Fatalf("unexpected content type %q", pretty.ContentType())
	}
}

func TestFillStep_ExternalComponentKeepsValue(t *testing.T) {
	driver := &stubDriver{}
	r := newRenderer(t, driver)
	step := structure.Step{ID: "s", StepNumber: "6", IsVisible: true}
	fields := []structure.Field{{ID: "f", StepID: "s", FieldID: "org", Label: "Org", Type: fieldtypes.TypeOrgChart, IsRequired: true, IsVisible: true}}
	seed := map[string]any{"org": map[string]any{"name": "Lead"}}

	values, err := r.FillStep(context.Background(), step, fields, seed)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}
	if diff := cmp.Diff(seed, values); diff != "" {
		t.Fatalf("external value changed (-want +got):\n%s", diff)
	}
	if len(driver.prompts) != 0 {
		t.Fatalf("external component must not prompt, got %v", driver.prompts)
	}
	if !strings.Contains(driver.messages[1], "value kept") {
		t.Fatalf("expected notice, got %v", driver.messages)
	}
}
