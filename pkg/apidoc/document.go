package apidoc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Version is the contract version reported in the document info.
const Version = "1.0.0"

// Route is one declared operation.
type Route struct {
	Method      string
	Path        string
	OperationID string
}

type route struct {
	Route
	summary  string
	params   []string
	query    bool
	body     string
	data     *openapi3.Schema
	created  bool
	withFlag bool
}

func routes(schemas openapi3.Schemas) []route {
	stepList := openapi3.NewArraySchema().WithItems(schemas["StepTree"].Value)
	fieldTypes := openapi3.NewArraySchema().WithItems(schemas["FieldType"].Value)
	step := schemas["Step"].Value
	field := schemas["Field"].Value

	return []route{
		{Route: Route{http.MethodGet, "/template", "getTemplate"}, summary: "Default structure for a document type", query: true, data: stepList},
		{Route: Route{http.MethodGet, "/draft/{draftId}", "getDraftStructure"}, summary: "Draft scoped structure", params: []string{"draftId"}, query: true, data: stepList, withFlag: true},
		{Route: Route{http.MethodGet, "/project/{projectId}", "getProjectStructure"}, summary: "Project scoped structure (deprecated)", params: []string{"projectId"}, query: true, data: stepList, withFlag: true},
		{Route: Route{http.MethodGet, "/field-types", "listFieldTypes"}, summary: "Field type catalogue", data: fieldTypes},

		{Route: Route{http.MethodPost, "/steps", "createStep"}, summary: "Create a step", body: "Step", data: step, created: true},
		{Route: Route{http.MethodPut, "/steps/{id}", "updateStep"}, summary: "Update a step", params: []string{"id"}, body: "Step", data: step},
		{Route: Route{http.MethodDelete, "/steps/{id}", "deleteStep"}, summary: "Delete a step and its fields", params: []string{"id"}},
		{Route: Route{http.MethodPut, "/steps-reorder", "reorderSteps"}, summary: "Reorder steps", body: "ReorderRequest"},
		{Route: Route{http.MethodPut, "/steps/{id}/visibility", "toggleStepVisibility"}, summary: "Toggle step visibility", params: []string{"id"}, data: step},

		{Route: Route{http.MethodPost, "/fields", "createField"}, summary: "Create a field", body: "Field", data: field, created: true},
		{Route: Route{http.MethodPut, "/fields/{id}", "updateField"}, summary: "Update a field", params: []string{"id"}, body: "Field", data: field},
		{Route: Route{http.MethodDelete, "/fields/{id}", "deleteField"}, summary: "Delete a field", params: []string{"id"}},
		{Route: Route{http.MethodPut, "/fields-reorder", "reorderFields"}, summary: "Reorder fields", body: "ReorderRequest"},
		{Route: Route{http.MethodPut, "/fields/{id}/visibility", "toggleFieldVisibility"}, summary: "Toggle field visibility", params: []string{"id"}, data: field},
		{Route: Route{http.MethodPut, "/fields/{id}/move", "moveField"}, summary: "Move a field to another step", params: []string{"id"}, body: "MoveRequest", data: field},

		{Route: Route{http.MethodPost, "/clone-to-draft", "cloneToDraft"}, summary: "Copy the template into a draft", body: "CloneDraftBody", data: stepList, created: true},
		{Route: Route{http.MethodPost, "/clone-template", "cloneToProject"}, summary: "Copy the template into a project", body: "CloneProjectBody", data: stepList, created: true},
		{Route: Route{http.MethodPost, "/reset-draft/{draftId}", "resetDraft"}, summary: "Drop a draft customisation and clone again", params: []string{"draftId"}, data: stepList},
		{Route: Route{http.MethodPost, "/reset/{projectId}", "resetProject"}, summary: "Drop a project customisation and clone again", params: []string{"projectId"}, data: stepList},
	}
}

// Document builds the contract. prefix is prepended to every path, for
// example "/api/form-structure".
func Document(prefix string) *openapi3.T {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	schemas := components()

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "Form Structure API",
			Description: "Steps and fields of wizard form documents, per template, draft or project.",
			Version:     Version,
		},
		Components: &openapi3.Components{Schemas: schemas},
		Paths:      openapi3.NewPaths(),
	}

	for _, r := range routes(schemas) {
		path := prefix + r.Path
		item := doc.Paths.Value(path)
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths.Set(path, item)
		}
		item.SetOperation(r.Method, operation(r, schemas))
	}
	return doc
}

func operation(r route, schemas openapi3.Schemas) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = r.OperationID
	op.Summary = r.summary
	op.Tags = []string{tag(r.Path)}

	for _, name := range r.params {
		op.AddParameter(openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema()))
	}
	if r.query {
		op.AddParameter(openapi3.NewQueryParameter("documentType").
			WithSchema(openapi3.NewStringSchema().WithEnum("pre-appointment", "post-appointment")))
	}
	if r.body != "" {
		op.RequestBody = &openapi3.RequestBodyRef{
			Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(ref(r.body, schemas)),
		}
	}

	success := envelopeSchema()
	if r.data != nil {
		success.WithProperty("data", r.data)
	}
	if !r.withFlag {
		delete(success.Properties, "hasCustomStructure")
	}
	status := http.StatusOK
	if r.created {
		status = http.StatusCreated
	}

	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(status, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Success envelope").WithJSONSchema(success),
		}),
		openapi3.WithName("default", openapi3.NewResponse().
			WithDescription("Failure envelope with an error message").
			WithJSONSchemaRef(ref("Envelope", schemas))),
	)
	return op
}

func tag(path string) string {
	switch {
	case strings.HasPrefix(path, "/steps"):
		return "steps"
	case strings.HasPrefix(path, "/fields"):
		return "fields"
	case path == "/field-types":
		return "catalogue"
	default:
		return "structure"
	}
}

// JSON renders Document(prefix) indented.
func JSON(prefix string) ([]byte, error) {
	raw, err := json.MarshalIndent(Document(prefix), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("apidoc: encode: %w", err)
	}
	return raw, nil
}

// Validate checks doc against the OpenAPI 3 rules.
func Validate(ctx context.Context, doc *openapi3.T) error {
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("apidoc: validate: %w", err)
	}
	return nil
}

// Routes loads a serialized contract and lists its operations sorted by path
// then method.
func Routes(ctx context.Context, raw []byte) ([]Route, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("apidoc: document payload is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("apidoc: load document: %w", err)
	}
	if err := Validate(ctx, doc); err != nil {
		return nil, err
	}

	var out []Route
	for path, item := range doc.Paths.Map() {
		for method, op := range item.Operations() {
			out = append(out, Route{Method: method, Path: path, OperationID: op.OperationID})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Method < out[j].Method
	})
	return out, nil
}
