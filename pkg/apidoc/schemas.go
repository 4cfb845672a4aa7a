package apidoc

import (
	"github.com/getkin/kin-openapi/openapi3"
)

const schemaPrefix = "#/components/schemas/"

func flagSchema() *openapi3.Schema {
	return openapi3.NewOneOfSchema(openapi3.NewBoolSchema(), openapi3.NewIntegerSchema().WithMin(0).WithMax(1))
}

func textSchema() *openapi3.Schema {
	return openapi3.NewOneOfSchema(openapi3.NewStringSchema(), openapi3.NewFloat64Schema())
}

func configSchema() *openapi3.Schema {
	schema := openapi3.NewOneOfSchema(
		openapi3.NewObjectSchema().WithAnyAdditionalProperties(),
		openapi3.NewStringSchema(),
	)
	schema.Nullable = true
	schema.Description = "Object, or a JSON encoded object"
	return schema
}

func timestamps(schema *openapi3.Schema) *openapi3.Schema {
	return schema.
		WithProperty("created_at", openapi3.NewStringSchema()).
		WithProperty("updated_at", openapi3.NewStringSchema())
}

func stepSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("step_number", textSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("description", openapi3.NewStringSchema()).
		WithProperty("category", openapi3.NewStringSchema()).
		WithProperty("order_index", openapi3.NewIntegerSchema()).
		WithProperty("is_visible", flagSchema()).
		WithProperty("bep_type", openapi3.NewStringSchema().WithEnum("pre-appointment", "post-appointment", "both")).
		WithProperty("icon", openapi3.NewStringSchema()).
		WithProperty("project_id", openapi3.NewStringSchema().WithNullable()).
		WithProperty("draft_id", openapi3.NewStringSchema().WithNullable()).
		WithRequired([]string{"id", "title"})
	return timestamps(schema)
}

func fieldSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("step_id", openapi3.NewStringSchema()).
		WithProperty("field_id", openapi3.NewStringSchema()).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("order_index", openapi3.NewIntegerSchema()).
		WithProperty("is_required", flagSchema()).
		WithProperty("is_visible", flagSchema()).
		WithProperty("placeholder", openapi3.NewStringSchema()).
		WithProperty("help_text", openapi3.NewStringSchema()).
		WithProperty("config", configSchema()).
		WithProperty("default_value", openapi3.NewStringSchema()).
		WithProperty("bep_type", openapi3.NewStringSchema()).
		WithProperty("number", textSchema()).
		WithProperty("project_id", openapi3.NewStringSchema().WithNullable()).
		WithProperty("draft_id", openapi3.NewStringSchema().WithNullable()).
		WithRequired([]string{"id", "step_id", "field_id", "label", "type"})
	return timestamps(schema)
}

func stepTreeSchema() *openapi3.Schema {
	schema := stepSchema()
	schema.WithPropertyRef("fields", openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(fieldSchema())))
	return schema
}

func fieldTypeSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("category", openapi3.NewStringSchema()).
		WithProperty("icon", openapi3.NewStringSchema()).
		WithProperty("hasPlaceholder", openapi3.NewBoolSchema()).
		WithProperty("hasOptions", openapi3.NewBoolSchema()).
		WithProperty("hasColumns", openapi3.NewBoolSchema()).
		WithProperty("isFormField", openapi3.NewBoolSchema())
}

func envelopeSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("success", openapi3.NewBoolSchema()).
		WithProperty("data", &openapi3.Schema{Nullable: true}).
		WithProperty("count", openapi3.NewIntegerSchema()).
		WithProperty("hasCustomStructure", openapi3.NewBoolSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("error", openapi3.NewStringSchema()).
		WithRequired([]string{"success"})
}

func reorderSchema() *openapi3.Schema {
	order := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("order_index", openapi3.NewIntegerSchema()).
		WithRequired([]string{"id", "order_index"})
	return openapi3.NewObjectSchema().
		WithProperty("orders", openapi3.NewArraySchema().WithItems(order)).
		WithRequired([]string{"orders"})
}

func moveSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("newStepId", openapi3.NewStringSchema()).
		WithProperty("newOrderIndex", openapi3.NewIntegerSchema()).
		WithRequired([]string{"newStepId"})
}

func cloneSchema(key string) *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty(key, openapi3.NewStringSchema()).
		WithRequired([]string{key})
}

func components() openapi3.Schemas {
	return openapi3.Schemas{
		"Step":             openapi3.NewSchemaRef("", stepSchema()),
		"Field":            openapi3.NewSchemaRef("", fieldSchema()),
		"StepTree":         openapi3.NewSchemaRef("", stepTreeSchema()),
		"FieldType":        openapi3.NewSchemaRef("", fieldTypeSchema()),
		"Envelope":         openapi3.NewSchemaRef("", envelopeSchema()),
		"ReorderRequest":   openapi3.NewSchemaRef("", reorderSchema()),
		"MoveRequest":      openapi3.NewSchemaRef("", moveSchema()),
		"CloneDraftBody":   openapi3.NewSchemaRef("", cloneSchema("draftId")),
		"CloneProjectBody": openapi3.NewSchemaRef("", cloneSchema("projectId")),
	}
}

// ref points at a component schema, keeping the value so the document
// validates without a resolve pass.
func ref(name string, schemas openapi3.Schemas) *openapi3.SchemaRef {
	return &openapi3.SchemaRef{Ref: schemaPrefix + name, Value: schemas[name].Value}
}
