package template

import (
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/goliatone/go-contentdef/pkg/template/schema"
)

// walker turns a template element tree into a Definition. It lives for a
// single load.
type walker struct {
	source string
	strict bool
	logger *zap.Logger
	tags   *tagTracker
}

func (w *walker) definition(root *etree.Element) (Definition, error) {
	def := Definition{
		Key:           scalar(root, "key"),
		View:          scalar(root, "view"),
		Controller:    scalar(root, "controller"),
		CacheLifetime: scalar(root, "cacheLifetime"),
	}

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"key", def.Key},
		{"view", def.View},
		{"controller", def.Controller},
		{"cacheLifetime", def.CacheLifetime},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return Definition{}, &InvalidDocumentError{Source: w.source, Reason: ReasonMissingField, Fields: missing}
	}

	props, order, err := w.properties(child(root, "properties"))
	if err != nil {
		return Definition{}, err
	}
	def.Properties = props
	def.PropertyOrder = order

	if remaining := w.tags.missing(); len(remaining) > 0 {
		return Definition{}, &InvalidDocumentError{Source: w.source, Reason: ReasonMissingRequiredTag, Tags: remaining}
	}
	return def, nil
}

// properties reads the direct property children of the container. Sections
// and any other sibling elements are skipped.
func (w *walker) properties(container *etree.Element) (map[string]Property, []string, error) {
	props := make(map[string]Property)
	var order []string

	for _, el := range children(container, "property") {
		prop, err := w.property(el)
		if err != nil {
			return nil, nil, err
		}

		if _, exists := props[prop.Name]; exists {
			if w.strict {
				return nil, nil, &InvalidDocumentError{Source: w.source, Reason: ReasonDuplicateProperty, Property: prop.Name}
			}
			w.logger.Warn("template property redefined, later definition wins",
				zap.String("source", w.source),
				zap.String("property", prop.Name),
				zap.Int("position", len(order)),
			)
		} else {
			order = append(order, prop.Name)
		}
		props[prop.Name] = prop
	}
	return props, order, nil
}

func (w *walker) property(el *etree.Element) (Property, error) {
	prop := Property{
		Name:      el.SelectAttrValue("name", ""),
		Title:     el.SelectAttrValue("title", ""),
		Type:      el.SelectAttrValue("type", ""),
		MinOccurs: el.SelectAttrValue("minOccurs", ""),
		MaxOccurs: el.SelectAttrValue("maxOccurs", ""),
		Mandatory: el.SelectAttrValue("mandatory", "") == "true",
		Tags:      []Tag{},
		Params:    []Param{},
	}

	for _, tagEl := range children(el, "tag") {
		tag := Tag{
			Name:     tagEl.SelectAttrValue("name", ""),
			Priority: tagEl.SelectAttrValue("priority", ""),
		}
		if err := w.tags.observe(tag); err != nil {
			if invalid, ok := err.(*InvalidDocumentError); ok {
				invalid.Source = w.source
				invalid.Property = prop.Name
			}
			return Property{}, err
		}
		prop.Tags = append(prop.Tags, tag)
	}

	for _, paramEl := range children(child(el, "params"), "param") {
		prop.Params = append(prop.Params, Param{
			Name:  paramEl.SelectAttrValue("name", ""),
			Value: paramEl.SelectAttrValue("value", ""),
		})
	}
	return prop, nil
}

// children returns the direct child elements named local in the template
// namespace, in document order. A nil parent has none.
func children(parent *etree.Element, local string) []*etree.Element {
	if parent == nil {
		return nil
	}
	var out []*etree.Element
	for _, el := range parent.ChildElements() {
		if el.Tag == local && el.NamespaceURI() == schema.Namespace {
			out = append(out, el)
		}
	}
	return out
}

func child(parent *etree.Element, local string) *etree.Element {
	if found := children(parent, local); len(found) > 0 {
		return found[0]
	}
	return nil
}

// scalar is the whitespace-trimmed text of a direct child element. Blank and
// absent elements both yield "".
func scalar(root *etree.Element, name string) string {
	el := child(root, name)
	if el == nil {
		return ""
	}
	return strings.TrimSpace(el.Text())
}
