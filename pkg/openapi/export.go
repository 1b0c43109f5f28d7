package openapi

import (
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-contentdef/pkg/template"
)

const (
	ExtensionTemplate = "x-template"
	ExtensionOrder    = "x-order"
	ExtensionType     = "x-type"
	ExtensionTags     = "x-tags"
	ExtensionParams   = "x-params"
)

// Schema converts a definition into an object schema. Each property becomes
// a schema property; mandatory properties are listed as required and
// repeatable properties (maxOccurs above one or unbounded) become arrays.
func Schema(def template.Definition) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Title = def.Key
	schema.Extensions = map[string]any{
		ExtensionTemplate: map[string]any{
			"key":           def.Key,
			"view":          def.View,
			"controller":    def.Controller,
			"cacheLifetime": def.CacheLifetime,
		},
	}

	order := make([]string, 0, len(def.Properties))
	for _, prop := range def.OrderedProperties() {
		order = append(order, prop.Name)
		schema.WithProperty(prop.Name, propertySchema(prop))
		if prop.Mandatory {
			schema.Required = append(schema.Required, prop.Name)
		}
	}
	schema.Extensions[ExtensionOrder] = order
	return schema
}

// Document bundles several definitions as component schemas keyed by
// template key.
func Document(title, version string, defs []template.Definition) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: make(openapi3.Schemas, len(defs)),
		},
	}
	for _, def := range defs {
		doc.Components.Schemas[def.Key] = openapi3.NewSchemaRef("", Schema(def))
	}
	return doc
}

func propertySchema(prop template.Property) *openapi3.Schema {
	item := scalarSchema(prop.Type)
	item.Title = prop.Title

	schema := item
	if repeatable(prop.MaxOccurs) {
		schema = openapi3.NewArraySchema().WithItems(item)
		schema.Title = prop.Title
		if minItems, ok := occurs(prop.MinOccurs); ok {
			schema.WithMinItems(int64(minItems))
		}
		if maxItems, ok := occurs(prop.MaxOccurs); ok {
			schema.WithMaxItems(int64(maxItems))
		}
	}

	schema.Extensions = map[string]any{ExtensionType: prop.Type}
	if len(prop.Tags) > 0 {
		tags := make([]map[string]string, 0, len(prop.Tags))
		for _, tag := range prop.Tags {
			tags = append(tags, map[string]string{"name": tag.Name, "priority": tag.Priority})
		}
		schema.Extensions[ExtensionTags] = tags
	}
	if len(prop.Params) > 0 {
		params := make(map[string]string, len(prop.Params))
		for _, param := range prop.Params {
			params[param.Name] = param.Value
		}
		schema.Extensions[ExtensionParams] = params
	}
	return schema
}

// scalarSchema maps content property types onto JSON types. Unknown types
// fall back to strings.
func scalarSchema(propertyType string) *openapi3.Schema {
	switch strings.ToLower(strings.TrimSpace(propertyType)) {
	case "checkbox":
		return openapi3.NewBoolSchema()
	case "number":
		return openapi3.NewFloat64Schema()
	case "date":
		return openapi3.NewStringSchema().WithFormat("date")
	case "time":
		return openapi3.NewStringSchema().WithFormat("time")
	case "email":
		return openapi3.NewStringSchema().WithFormat("email")
	case "url", "resource_locator":
		return openapi3.NewStringSchema().WithFormat("uri-reference")
	case "color":
		return openapi3.NewStringSchema().WithPattern("^#[0-9a-fA-F]{3,8}$")
	default:
		return openapi3.NewStringSchema()
	}
}

func repeatable(maxOccurs string) bool {
	if strings.TrimSpace(maxOccurs) == "unbounded" {
		return true
	}
	n, ok := occurs(maxOccurs)
	return ok && n > 1
}

func occurs(value string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
