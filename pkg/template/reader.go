package template

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/goliatone/go-contentdef/internal/template/loader"
	"github.com/goliatone/go-contentdef/pkg/template/schema"
)

// Reader loads template definition documents. A Reader holds configuration
// only; every load builds its own working state, so one Reader may serve
// concurrent callers.
type Reader struct {
	cfg   config
	fetch *loader.Loader
}

// NewReader constructs a Reader. When schema validation is enabled the
// embedded schema is compiled up front so configuration mistakes surface here.
func NewReader(options ...Option) (*Reader, error) {
	cfg := defaultConfig()
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.schemaValidation {
		if _, err := schema.Compiled(); err != nil {
			return nil, fmt.Errorf("template: %w", err)
		}
	}

	return &Reader{
		cfg: cfg,
		fetch: loader.New(loader.Config{
			FileSystem:     cfg.fileSystem,
			HTTPClient:     cfg.httpClient,
			AllowHTTP:      cfg.allowHTTP,
			RequestTimeout: cfg.timeout,
			MaxSize:        cfg.maxSize,
		}),
	}, nil
}

// LoadFile reads a single template from disk with a one-off Reader.
func LoadFile(ctx context.Context, path string, options ...Option) (Definition, error) {
	r, err := NewReader(options...)
	if err != nil {
		return Definition{}, err
	}
	return r.Load(ctx, SourceFromFile(path))
}

// RequiredTags returns the tags every document must declare.
func (r *Reader) RequiredTags() []string {
	return append([]string(nil), r.cfg.requiredTags...)
}

// Load fetches the document behind src and converts it into a Definition.
func (r *Reader) Load(ctx context.Context, src Source) (Definition, error) {
	if src == nil {
		return Definition{}, errors.New("template: source is nil")
	}
	if src.Kind() == SourceKindStream {
		return Definition{}, fmt.Errorf("template: stream source %s must be loaded with LoadReader", src.Location())
	}

	data, err := r.fetch.Load(ctx, string(src.Kind()), src.Location())
	if err != nil {
		return Definition{}, fmt.Errorf("template: load %s: %w", src.Location(), err)
	}

	doc, err := NewDocument(src, data)
	if err != nil {
		return Definition{}, malformed(src.Location(), err)
	}
	return r.LoadDocument(ctx, doc)
}

// LoadReader reads a document from a stream. name identifies the stream in
// errors and logs.
func (r *Reader) LoadReader(ctx context.Context, name string, in io.Reader) (Definition, error) {
	if in == nil {
		return Definition{}, errors.New("template: reader is nil")
	}
	data, err := r.fetch.ReadAll(in)
	if err != nil {
		return Definition{}, fmt.Errorf("template: read %s: %w", name, err)
	}
	doc, err := NewDocument(SourceFromStream(name), data)
	if err != nil {
		return Definition{}, malformed(name, err)
	}
	return r.LoadDocument(ctx, doc)
}

// LoadDocument converts a parsed document. The document's tree is only read,
// so the same Document can be loaded again or concurrently.
func (r *Reader) LoadDocument(ctx context.Context, doc Document) (Definition, error) {
	if err := ctx.Err(); err != nil {
		return Definition{}, err
	}
	location := doc.Location()
	root := doc.root()
	if root == nil {
		return Definition{}, malformed(location, errors.New("document is empty"))
	}

	if r.cfg.schemaValidation {
		issues, err := schema.Validate(bytes.NewReader(doc.raw))
		if err != nil {
			return Definition{}, malformed(location, err)
		}
		if len(issues) > 0 {
			return Definition{}, &MalformedInputError{Source: location, Issues: issues}
		}
	}

	w := &walker{
		source: location,
		strict: r.cfg.strictProperties,
		logger: r.cfg.logger,
		tags:   newTagTracker(r.cfg.requiredTags),
	}
	def, err := w.definition(root)
	if err != nil {
		r.cfg.logger.Debug("template rejected", zap.String("source", location), zap.Error(err))
		return Definition{}, err
	}

	r.cfg.logger.Debug("template loaded",
		zap.String("source", location),
		zap.String("key", def.Key),
		zap.Int("properties", len(def.Properties)),
	)
	return def, nil
}
