package template

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultRequiredTags lists the tags every template must declare at least once.
var DefaultRequiredTags = []string{"sulu.node.name"}

// Definition is the in-memory form of a template definition document.
type Definition struct {
	Key           string              `json:"key" yaml:"key"`
	View          string              `json:"view" yaml:"view"`
	Controller    string              `json:"controller" yaml:"controller"`
	CacheLifetime string              `json:"cacheLifetime" yaml:"cacheLifetime"`
	Properties    map[string]Property `json:"properties" yaml:"properties"`
	// PropertyOrder holds property names in the order they first appeared.
	PropertyOrder []string `json:"-" yaml:"-"`
}

// Property describes a single field of a template.
type Property struct {
	Name      string  `json:"name" yaml:"name"`
	Title     string  `json:"title" yaml:"title"`
	Type      string  `json:"type" yaml:"type"`
	MinOccurs string  `json:"minOccurs" yaml:"minOccurs"`
	MaxOccurs string  `json:"maxOccurs" yaml:"maxOccurs"`
	Mandatory bool    `json:"mandatory" yaml:"mandatory"`
	Tags      []Tag   `json:"tags" yaml:"tags"`
	Params    []Param `json:"params" yaml:"params"`
}

// Tag marks a property with a structural role. Priorities are unique per tag
// name across the whole document.
type Tag struct {
	Name     string `json:"name" yaml:"name"`
	Priority string `json:"priority" yaml:"priority"`
}

// Param is a free-form name/value pair attached to a property.
type Param struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Property looks up a property by name.
func (d Definition) Property(name string) (Property, bool) {
	if d.Properties == nil {
		return Property{}, false
	}
	prop, ok := d.Properties[name]
	return prop, ok
}

// OrderedProperties returns the properties following document order.
// Properties missing from PropertyOrder, as in definitions decoded from JSON
// or YAML, follow in name order.
func (d Definition) OrderedProperties() []Property {
	if len(d.Properties) == 0 {
		return nil
	}
	out := make([]Property, 0, len(d.Properties))
	seen := make(map[string]struct{}, len(d.Properties))
	for _, name := range d.PropertyOrder {
		prop, ok := d.Properties[name]
		if !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, prop)
	}
	if len(out) == len(d.Properties) {
		return out
	}

	rest := make([]string, 0, len(d.Properties)-len(out))
	for name := range d.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, d.Properties[name])
	}
	return out
}

// TaggedProperties returns every property carrying the named tag, ordered by
// ascending tag priority (numeric when both priorities parse as integers).
func (d Definition) TaggedProperties(tag string) []Property {
	type hit struct {
		prop     Property
		priority string
	}
	var hits []hit
	for _, prop := range d.OrderedProperties() {
		for _, t := range prop.Tags {
			if t.Name == tag {
				hits = append(hits, hit{prop: prop, priority: t.Priority})
			}
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return priorityLess(hits[i].priority, hits[j].priority)
	})
	out := make([]Property, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.prop)
	}
	return out
}

// Map returns the associative representation consumed by content-type
// registries: scalar fields plus a "properties" map of property maps.
func (d Definition) Map() map[string]any {
	props := make(map[string]any, len(d.Properties))
	for name, prop := range d.Properties {
		props[name] = prop.Map()
	}
	return map[string]any{
		"key":           d.Key,
		"view":          d.View,
		"controller":    d.Controller,
		"cacheLifetime": d.CacheLifetime,
		"properties":    props,
	}
}

// Map returns the associative representation of the property.
func (p Property) Map() map[string]any {
	tags := make([]map[string]string, 0, len(p.Tags))
	for _, tag := range p.Tags {
		tags = append(tags, map[string]string{"name": tag.Name, "priority": tag.Priority})
	}
	params := make([]map[string]string, 0, len(p.Params))
	for _, param := range p.Params {
		params = append(params, map[string]string{"name": param.Name, "value": param.Value})
	}
	return map[string]any{
		"name":      p.Name,
		"title":     p.Title,
		"type":      p.Type,
		"minOccurs": p.MinOccurs,
		"maxOccurs": p.MaxOccurs,
		"mandatory": p.Mandatory,
		"tags":      tags,
		"params":    params,
	}
}

// Param returns the value of the first param with the given name.
func (p Property) Param(name string) (string, bool) {
	for _, param := range p.Params {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// HasTag reports whether the property carries the named tag.
func (p Property) HasTag(name string) bool {
	for _, tag := range p.Tags {
		if tag.Name == name {
			return true
		}
	}
	return false
}

func priorityLess(a, b string) bool {
	ai, aerr := strconv.Atoi(strings.TrimSpace(a))
	bi, berr := strconv.Atoi(strings.TrimSpace(b))
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return strings.Compare(a, b) < 0
}
