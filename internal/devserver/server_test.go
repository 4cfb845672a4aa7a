package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formstruct/pkg/apidoc"
	"github.com/goliatone/go-formstruct/pkg/structure"
	"github.com/goliatone/go-formstruct/pkg/transport"
)

type response struct {
	Status int
	Body   structure.Envelope
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := New(newTestMemory(t), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return srv
}

func call(t *testing.T, srv http.Handler, method, path string, body any) response {
	t.Helper()
	var reader io.Reader
	switch typed := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(typed)
	default:
		raw, err := json.Marshal(typed)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, transport.DefaultPrefix+path, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var env structure.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return response{Status: rec.Code, Body: env}
}

func TestServer_TemplateCountsAndFilters(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodGet, "/template", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.True(t, resp.Body.Success)
	assert.Equal(t, 3, resp.Body.Count)

	resp = call(t, srv, http.MethodGet, "/template?documentType=post-appointment", nil)
	assert.Equal(t, 2, resp.Body.Count)

	var trees []structure.StepTree
	require.NoError(t, json.Unmarshal(resp.Body.Data, &trees))
	assert.True(t, trees[0].Visible(), "0/1 flags decode as booleans")
	require.Len(t, trees[0].Fields, 2)
	assert.True(t, trees[0].Fields[0].Required())
}

func TestServer_DraftReportsCustomStructure(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodGet, "/draft/d1", nil)
	assert.False(t, resp.Body.HasCustomStructure)

	resp = call(t, srv, http.MethodPost, "/clone-to-draft", map[string]string{"draftId": "d1"})
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "Template cloned to draft successfully", resp.Body.Message)

	resp = call(t, srv, http.MethodGet, "/draft/d1", nil)
	assert.True(t, resp.Body.HasCustomStructure)

	resp = call(t, srv, http.MethodPost, "/clone-to-draft", map[string]string{"draftId": "d1"})
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.False(t, resp.Body.Success)
	assert.Equal(t, "Draft already has custom structure. Use reset endpoint to start fresh.", resp.Body.Error)

	resp = call(t, srv, http.MethodPost, "/reset-draft/d1", nil)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "Draft reset to default template", resp.Body.Message)
}

func TestServer_ValidationMessages(t *testing.T) {
	srv := newTestServer(t)
	cases := []struct {
		name    string
		method  string
		path    string
		body    any
		status  int
		message string
	}{
		{"step requires title", http.MethodPost, "/steps", map[string]any{"title": "x"}, http.StatusBadRequest, "title and step_number are required"},
		{"field requires ids", http.MethodPost, "/fields", map[string]any{"label": "x"}, http.StatusBadRequest, "step_id, field_id, label, and type are required"},
		{"reorder needs array", http.MethodPut, "/steps-reorder", map[string]any{"orders": "nope"}, http.StatusBadRequest, "orders must be an array of { id, order_index }"},
		{"field reorder needs array", http.MethodPut, "/fields-reorder", map[string]any{}, http.StatusBadRequest, "orders must be an array of { id, order_index }"},
		{"move needs target", http.MethodPut, "/fields/x/move", map[string]any{}, http.StatusBadRequest, "newStepId is required"},
		{"clone needs project", http.MethodPost, "/clone-template", map[string]any{}, http.StatusBadRequest, "projectId is required"},
		{"unknown step", http.MethodPut, "/steps/missing", map[string]any{"title": "x"}, http.StatusNotFound, "Step not found"},
		{"unknown field toggle", http.MethodPut, "/fields/missing/visibility", nil, http.StatusNotFound, "Field not found"},
		{"broken json", http.MethodPost, "/steps", "{", http.StatusBadRequest, "invalid JSON body"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := call(t, srv, tc.method, tc.path, tc.body)
			assert.Equal(t, tc.status, resp.Status)
			assert.Equal(t, tc.message, resp.Body.Error)
		})
	}
}

func TestServer_StepLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := call(t, srv, http.MethodPost, "/steps", map[string]any{"step_number": 4, "title": "Extra"})
	require.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "Step created successfully", resp.Body.Message)
	var created structure.Step
	require.NoError(t, json.Unmarshal(resp.Body.Data, &created))
	assert.Equal(t, structure.Text("4"), created.StepNumber)
	assert.Equal(t, structure.DocumentBoth, created.BEPType)

	resp = call(t, srv, http.MethodPut, "/steps/"+created.ID+"/visibility", nil)
	require.Equal(t, http.StatusOK, resp.Status)
	var toggled structure.Step
	require.NoError(t, json.Unmarshal(resp.Body.Data, &toggled))
	assert.False(t, toggled.Visible())

	resp = call(t, srv, http.MethodDelete, "/steps/"+created.ID, nil)
	assert.Equal(t, "Step deleted successfully", resp.Body.Message)

	resp = call(t, srv, http.MethodGet, "/template", nil)
	assert.Equal(t, 3, resp.Body.Count)
}

func TestServer_FieldTypes(t *testing.T) {
	srv := newTestServer(t)
	resp := call(t, srv, http.MethodGet, "/field-types", nil)

	var types []structure.FieldTypeInfo
	require.NoError(t, json.Unmarshal(resp.Body.Data, &types))
	assert.Equal(t, len(types), resp.Body.Count)
	assert.NotEmpty(t, types)
}

func TestServer_RoutesMatchContract(t *testing.T) {
	srv := newTestServer(t)
	raw, err := apidoc.JSON(transport.DefaultPrefix)
	require.NoError(t, err)
	declared, err := apidoc.Routes(context.Background(), raw)
	require.NoError(t, err)

	var want []string
	for _, route := range declared {
		want = append(want, route.Method+" "+route.Path)
	}
	var got []string
	err = chi.Walk(srv.Router(), func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		if strings.HasPrefix(route, transport.DefaultPrefix) {
			got = append(got, method+" "+strings.TrimSuffix(route, "/"))
		}
		return nil
	})
	require.NoError(t, err)
	sort.Strings(want)
	sort.Strings(got)
	assert.Equal(t, want, got)
}

func TestServer_ServesOpenAPI(t *testing.T) {
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.json", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	routes, err := apidoc.Routes(context.Background(), rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, routes, 19)
}
