package openapi

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-contentdef/pkg/template"
)

func fixture() template.Definition {
	return template.Definition{
		Key:           "overview",
		View:          "page.html.twig",
		Controller:    "Default:index",
		CacheLifetime: "2400",
		Properties: map[string]template.Property{
			"title": {
				Name: "title", Title: "Title", Type: "text_line", Mandatory: true,
				Tags:   []template.Tag{{Name: "sulu.node.name", Priority: "1"}},
				Params: []template.Param{{Name: "placeholder", Value: "Title"}},
			},
			"images": {Name: "images", Title: "Images", Type: "media_selection", MinOccurs: "1", MaxOccurs: "unbounded"},
			"blocks": {Name: "blocks", Title: "Blocks", Type: "text_editor", MinOccurs: "2", MaxOccurs: "4"},
			"public": {Name: "public", Title: "Public", Type: "checkbox"},
		},
		PropertyOrder: []string{"title", "images", "blocks", "public"},
	}
}

func TestSchema(t *testing.T) {
	schema := Schema(fixture())

	if schema.Title != "overview" {
		t.Fatalf("unexpected title %q", schema.Title)
	}
	if diff := cmp.Diff([]string{"title"}, schema.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"title", "images", "blocks", "public"}, schema.Extensions[ExtensionOrder]); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	title := schema.Properties["title"].Value
	if !title.Type.Is("string") || title.Title != "Title" {
		t.Fatalf("unexpected title schema %#v", title)
	}
	if diff := cmp.Diff(map[string]string{"placeholder": "Title"}, title.Extensions[ExtensionParams]); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}

	images := schema.Properties["images"].Value
	if !images.Type.Is("array") || images.MinItems != 1 || images.MaxItems != nil {
		t.Fatalf("unexpected images schema %#v", images)
	}

	blocks := schema.Properties["blocks"].Value
	if !blocks.Type.Is("array") || blocks.MinItems != 2 || blocks.MaxItems == nil || *blocks.MaxItems != 4 {
		t.Fatalf("unexpected blocks schema %#v", blocks)
	}

	if !schema.Properties["public"].Value.Type.Is("boolean") {
		t.Fatalf("checkbox should map to boolean")
	}

	if err := schema.Validate(context.Background()); err != nil {
		t.Fatalf("exported schema is invalid: %v", err)
	}
}

func TestDocument(t *testing.T) {
	other := fixture()
	other.Key = "default"
	doc := Document("templates", "1.0", []template.Definition{fixture(), other})

	if len(doc.Components.Schemas) != 2 {
		t.Fatalf("expected two component schemas, got %d", len(doc.Components.Schemas))
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["openapi"] != "3.0.3" {
		t.Fatalf("unexpected openapi version %v", decoded["openapi"])
	}
}

func TestSchemaWithoutOrder(t *testing.T) {
	def := fixture()
	def.PropertyOrder = nil
	if got := len(Schema(def).Properties); got != 4 {
		t.Fatalf("expected 4 properties, got %d", got)
	}
	if diff := cmp.Diff([]string{"blocks", "images", "public", "title"}, Schema(def).Extensions[ExtensionOrder]); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}
