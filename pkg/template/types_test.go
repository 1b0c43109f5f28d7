package template

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleDefinition() Definition {
	return Definition{
		Key:           "overview",
		View:          "page.html.twig",
		Controller:    "Default:index",
		CacheLifetime: "2400",
		Properties: map[string]Property{
			"title":    {Name: "title", Tags: []Tag{{Name: "sulu.node.name", Priority: "10"}}},
			"subtitle": {Name: "subtitle", Tags: []Tag{{Name: "sulu.node.name", Priority: "2"}}},
			"body":     {Name: "body", Params: []Param{{Name: "height", Value: "300"}}},
		},
		PropertyOrder: []string{"title", "body", "subtitle"},
	}
}

func TestOrderedProperties(t *testing.T) {
	var names []string
	for _, prop := range sampleDefinition().OrderedProperties() {
		names = append(names, prop.Name)
	}
	if diff := cmp.Diff([]string{"title", "body", "subtitle"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderedPropertiesAfterJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(sampleDefinition())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Definition
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.PropertyOrder) != 0 {
		t.Fatalf("property order is not serialized, got %v", decoded.PropertyOrder)
	}

	var names []string
	for _, prop := range decoded.OrderedProperties() {
		names = append(names, prop.Name)
	}
	if diff := cmp.Diff([]string{"body", "subtitle", "title"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	names = names[:0]
	for _, prop := range decoded.TaggedProperties("sulu.node.name") {
		names = append(names, prop.Name)
	}
	if diff := cmp.Diff([]string{"subtitle", "title"}, names); diff != "" {
		t.Fatalf("tagged mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderedPropertiesPartialOrder(t *testing.T) {
	def := sampleDefinition()
	def.PropertyOrder = []string{"subtitle", "missing", "subtitle"}

	var names []string
	for _, prop := range def.OrderedProperties() {
		names = append(names, prop.Name)
	}
	if diff := cmp.Diff([]string{"subtitle", "body", "title"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestTaggedPropertiesSortsNumerically(t *testing.T) {
	var names []string
	for _, prop := range sampleDefinition().TaggedProperties("sulu.node.name") {
		names = append(names, prop.Name)
	}
	if diff := cmp.Diff([]string{"subtitle", "title"}, names); diff != "" {
		t.Fatalf("tagged mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinitionMap(t *testing.T) {
	m := sampleDefinition().Map()
	if m["cacheLifetime"] != "2400" {
		t.Fatalf("unexpected map: %#v", m)
	}
	props := m["properties"].(map[string]any)
	body := props["body"].(map[string]any)
	want := []map[string]string{{"name": "height", "value": "300"}}
	if diff := cmp.Diff(want, body["params"]); diff != "" {
		t.Fatalf("params mismatch (-want +got):\n%s", diff)
	}
}

func TestPropertyHelpers(t *testing.T) {
	def := sampleDefinition()
	body, ok := def.Property("body")
	if !ok {
		t.Fatalf("body not found")
	}
	if v, ok := body.Param("height"); !ok || v != "300" {
		t.Fatalf("unexpected param lookup %q %v", v, ok)
	}
	if body.HasTag("sulu.node.name") {
		t.Fatalf("body carries no tags")
	}
	if _, ok := (Definition{}).Property("body"); ok {
		t.Fatalf("empty definition has no properties")
	}
}
