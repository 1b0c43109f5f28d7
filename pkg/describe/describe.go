// Package describe renders human-readable summaries of template definitions
// as plain text, Markdown or HTML.
package describe

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-contentdef/pkg/template"
)

// Format selects the output template.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

//go:embed templates/*.tpl
var embedded embed.FS

// ParseFormat maps user input onto a Format.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("describe: unknown format %q", raw)
	}
}

// Option configures a Renderer.
type Option func(*config)

type config struct {
	templates fs.FS
}

// WithTemplates overrides the bundled templates. The filesystem must contain
// text.tpl, markdown.tpl and html.tpl at its root.
func WithTemplates(files fs.FS) Option {
	return func(cfg *config) {
		if files != nil {
			cfg.templates = files
		}
	}
}

// Renderer renders definitions through pongo2 templates. Safe for
// concurrent use.
type Renderer struct {
	mu        sync.RWMutex
	set       *pongo2.TemplateSet
	templates map[Format]*pongo2.Template
}

// New constructs a Renderer.
func New(options ...Option) (*Renderer, error) {
	cfg := &config{}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.templates == nil {
		sub, err := fs.Sub(embedded, "templates")
		if err != nil {
			return nil, fmt.Errorf("describe: embedded templates: %w", err)
		}
		cfg.templates = sub
	}

	registerFilters()
	return &Renderer{
		set:       pongo2.NewSet("contentdef-describe", pongo2.NewFSLoader(cfg.templates)),
		templates: make(map[Format]*pongo2.Template),
	}, nil
}

// Render writes the summary of def in the requested format.
func (r *Renderer) Render(w io.Writer, def template.Definition, format Format) error {
	if r == nil || r.set == nil {
		return fmt.Errorf("describe: renderer is nil")
	}
	tmpl, err := r.template(format)
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteWriter(viewContext(def), w); err != nil {
		return fmt.Errorf("describe: render %s: %w", format, err)
	}
	return nil
}

// String renders def into a string.
func (r *Renderer) String(def template.Definition, format Format) (string, error) {
	var b strings.Builder
	if err := r.Render(&b, def, format); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *Renderer) template(format Format) (*pongo2.Template, error) {
	switch format {
	case FormatText, FormatMarkdown, FormatHTML:
	default:
		return nil, fmt.Errorf("describe: unknown format %q", format)
	}

	r.mu.RLock()
	tmpl, ok := r.templates[format]
	r.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if tmpl, ok := r.templates[format]; ok {
		return tmpl, nil
	}
	tmpl, err := r.set.FromFile(string(format) + ".tpl")
	if err != nil {
		return nil, fmt.Errorf("describe: load template %q: %w", format, err)
	}
	r.templates[format] = tmpl
	return tmpl, nil
}

func viewContext(def template.Definition) pongo2.Context {
	props := make([]map[string]any, 0, len(def.Properties))
	for _, prop := range def.OrderedProperties() {
		tags := make([]map[string]any, 0, len(prop.Tags))
		for _, tag := range prop.Tags {
			tags = append(tags, map[string]any{"name": tag.Name, "priority": tag.Priority})
		}
		params := make([]map[string]any, 0, len(prop.Params))
		for _, param := range prop.Params {
			params = append(params, map[string]any{"name": param.Name, "value": param.Value})
		}
		props = append(props, map[string]any{
			"name":      prop.Name,
			"title":     prop.Title,
			"type":      prop.Type,
			"occurs":    occurs(prop),
			"mandatory": prop.Mandatory,
			"tags":      tags,
			"params":    params,
		})
	}
	return pongo2.Context{
		"key":           def.Key,
		"view":          def.View,
		"controller":    def.Controller,
		"cacheLifetime": def.CacheLifetime,
		"properties":    props,
	}
}

func occurs(prop template.Property) string {
	if prop.MinOccurs == "" && prop.MaxOccurs == "" {
		return ""
	}
	lo, hi := prop.MinOccurs, prop.MaxOccurs
	if lo == "" {
		lo = "0"
	}
	if hi == "" {
		hi = "1"
	}
	return lo + ".." + hi
}
