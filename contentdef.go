// Package contentdef loads content template definitions. The root package
// re-exports the common entry points; the subpackages under pkg/ hold the
// full API.
package contentdef

import (
	"context"
	"os"

	"github.com/goliatone/go-contentdef/pkg/describe"
	"github.com/goliatone/go-contentdef/pkg/store"
	"github.com/goliatone/go-contentdef/pkg/template"
)

// Definition aliases template.Definition.
type Definition = template.Definition

// Property aliases template.Property.
type Property = template.Property

// Tag aliases template.Tag.
type Tag = template.Tag

// Param aliases template.Param.
type Param = template.Param

// Option aliases template.Option so callers can configure readers without
// importing the template package directly.
type Option = template.Option

// NewReader exposes the template reader constructor from the top-level module.
func NewReader(options ...Option) (*template.Reader, error) {
	return template.NewReader(options...)
}

// Load reads a single definition from any supported source.
func Load(ctx context.Context, src template.Source, options ...Option) (Definition, error) {
	r, err := template.NewReader(options...)
	if err != nil {
		return Definition{}, err
	}
	return r.Load(ctx, src)
}

// LoadFile reads a single definition from disk.
func LoadFile(ctx context.Context, path string, options ...Option) (Definition, error) {
	return template.LoadFile(ctx, path, options...)
}

// LoadDir loads every *.xml template below dir and indexes them by key.
func LoadDir(ctx context.Context, dir string, options ...Option) (*store.Store, error) {
	r, err := template.NewReader(options...)
	if err != nil {
		return nil, err
	}
	return store.LoadFS(ctx, os.DirFS(dir), r)
}

// Describe renders a plain text summary of def with the bundled templates.
func Describe(def Definition) (string, error) {
	r, err := describe.New()
	if err != nil {
		return "", err
	}
	return r.String(def, describe.FormatText)
}
