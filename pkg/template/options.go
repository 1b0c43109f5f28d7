package template

import (
	"io/fs"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Option configures a Reader.
type Option func(*config)

type config struct {
	requiredTags     []string
	logger           *zap.Logger
	fileSystem       fs.FS
	httpClient       *http.Client
	allowHTTP        bool
	timeout          time.Duration
	maxSize          int64
	strictProperties bool
	schemaValidation bool
}

func defaultConfig() config {
	return config{
		requiredTags:     append([]string(nil), DefaultRequiredTags...),
		logger:           zap.NewNop(),
		schemaValidation: true,
	}
}

// WithRequiredTags replaces the list of tags every document must declare at
// least once. Blank names are ignored; passing none disables the check.
func WithRequiredTags(tags ...string) Option {
	return func(cfg *config) {
		required := make([]string, 0, len(tags))
		seen := make(map[string]struct{}, len(tags))
		for _, tag := range tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			required = append(required, tag)
		}
		cfg.requiredTags = required
	}
}

// WithLogger sets the logger used for warnings such as overwritten properties.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithFileSystem sets the fs.FS that SourceFromFS locations resolve against.
func WithFileSystem(files fs.FS) Option {
	return func(cfg *config) {
		cfg.fileSystem = files
	}
}

// WithHTTPClient sets the client used for URL sources and enables them.
func WithHTTPClient(client *http.Client) Option {
	return func(cfg *config) {
		cfg.httpClient = client
		if client != nil {
			cfg.allowHTTP = true
		}
	}
}

// WithAllowHTTP enables URL sources with a default client.
func WithAllowHTTP(allow bool) Option {
	return func(cfg *config) {
		cfg.allowHTTP = allow
	}
}

// WithRequestTimeout bounds remote fetches.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(cfg *config) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithMaxDocumentSize caps the bytes read for a single document from any
// source. Zero keeps the 8 MiB default; a negative size removes the cap.
func WithMaxDocumentSize(size int64) Option {
	return func(cfg *config) {
		cfg.maxSize = size
	}
}

// WithStrictPropertyNames rejects documents that define the same property
// name twice instead of letting the later definition win.
func WithStrictPropertyNames(strict bool) Option {
	return func(cfg *config) {
		cfg.strictProperties = strict
	}
}

// WithSchemaValidation toggles validation against the embedded XSD. Well-
// formedness and the template root element are always checked.
func WithSchemaValidation(enabled bool) Option {
	return func(cfg *config) {
		cfg.schemaValidation = enabled
	}
}
