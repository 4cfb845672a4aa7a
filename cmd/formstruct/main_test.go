package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstruct/internal/devserver"
	"github.com/goliatone/go-formstruct/pkg/renderers/tui"
)

func startBackend(t *testing.T) string {
	t.Helper()
	seed, err := devserver.DefaultSeed()
	require.NoError(t, err)
	memory, err := devserver.NewMemory(seed)
	require.NoError(t, err)
	srv, err := devserver.New(memory, devserver.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts.URL
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

type scriptedDriver struct {
	inputs  []string
	selects []int
	confirm []bool
	infos   []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	value := d.inputs[0]
	d.inputs = d.inputs[1:]
	return value, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	if len(d.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	value := d.confirm[0]
	d.confirm = d.confirm[1:]
	return value, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	if len(d.selects) == 0 {
		return -1, errors.New("no select scripted")
	}
	value := d.selects[0]
	d.selects = d.selects[1:]
	return value, nil
}

func (d *scriptedDriver) MultiSelect(context.Context, tui.SelectConfig) ([]int, error) {
	return nil, errors.New("no multiselect scripted")
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return "", errors.New("no textarea scripted")
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func useDriver(t *testing.T, driver tui.PromptDriver) {
	t.Helper()
	previous := newPromptDriver
	newPromptDriver = func(io.Writer) tui.PromptDriver { return driver }
	t.Cleanup(func() { newPromptDriver = previous })
}

func TestRun_UnknownCommand(t *testing.T) {
	_, err := execute(t, "publish")
	assert.ErrorIs(t, err, errUsage)

	_, err = execute(t)
	assert.ErrorIs(t, err, errUsage)
}

func TestOpenAPI_PrintsContract(t *testing.T) {
	out, err := execute(t, "openapi", "-prefix", "/api/structure")
	require.NoError(t, err)
	assert.Contains(t, out, `"/api/structure/steps-reorder"`)
	assert.Contains(t, out, `"/api/structure/fields/{id}/move"`)
}

func TestTypes_ListsCatalogue(t *testing.T) {
	out, err := execute(t, "types")
	require.NoError(t, err)
	assert.Contains(t, out, "introTable")
	assert.Contains(t, out, "section-header")
}

func TestMap_PrintsTemplate(t *testing.T) {
	url := startBackend(t)

	out, err := execute(t, "map", "-api", url, "-log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Commercial\n")
	assert.Contains(t, out, "  1. BEP Type & Project Info\n")
	assert.Contains(t, out, "Project Name [text]")
}

func TestMap_UnreachableBackend(t *testing.T) {
	_, err := execute(t, "map", "-api", "http://127.0.0.1:1", "-timeout", "1s", "-log-level", "error")
	assert.Error(t, err)
}

func TestEdit_AddsStep(t *testing.T) {
	url := startBackend(t)
	driver := &scriptedDriver{
		// Add step, pick Management, then Quit.
		selects: []int{0, 1, 6},
		inputs:  []string{"Closing"},
	}
	useDriver(t, driver)

	_, err := execute(t, "edit", "-api", url, "-log-level", "error")
	require.NoError(t, err)
	assert.Empty(t, driver.infos)

	out, err := execute(t, "map", "-api", url, "-log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "15. Closing")
}

func TestEdit_ReportsRejectedInput(t *testing.T) {
	url := startBackend(t)
	driver := &scriptedDriver{
		// Add step with an empty title, then Quit.
		selects: []int{0, 0, 6},
		inputs:  []string{""},
	}
	useDriver(t, driver)

	_, err := execute(t, "edit", "-api", url, "-log-level", "error")
	require.NoError(t, err)
	require.Len(t, driver.infos, 1)
	assert.Contains(t, driver.infos[0], "Title is required")
}

func TestRender_WritesFile(t *testing.T) {
	url := startBackend(t)
	target := filepath.Join(t.TempDir(), "form.html")

	out, err := execute(t, "render", "-api", url, "-step", "1", "-output", target, "-log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, target)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Project Name")
}

func TestRender_UnknownStep(t *testing.T) {
	url := startBackend(t)
	_, err := execute(t, "render", "-api", url, "-step", "99", "-log-level", "error")
	assert.ErrorContains(t, err, `step "99" not found`)
}
