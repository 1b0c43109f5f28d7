// Package loader fetches raw template documents from files, fs.FS entries or
// http(s) endpoints.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"
)

// Source kinds understood by Load. They mirror template.SourceKind values.
const (
	KindFile = "file"
	KindFS   = "fs"
	KindURL  = "url"
)

// Config carries pre-resolved fetch options.
type Config struct {
	FileSystem     fs.FS
	HTTPClient     *http.Client
	AllowHTTP      bool
	RequestTimeout time.Duration
	// MaxSize caps document payloads in bytes. Zero means DefaultMaxSize,
	// a negative value disables the cap.
	MaxSize int64
}

// Loader delegates to file, fs.FS or HTTP strategies.
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
	limit     int64
}

// New constructs a Loader from the supplied configuration.
func New(cfg Config) *Loader {
	timeout := cfg.RequestTimeout
	limit := cfg.MaxSize
	if limit == 0 {
		limit = DefaultMaxSize
	}

	var httpClient *http.Client
	switch {
	case cfg.HTTPClient != nil:
		clone := *cfg.HTTPClient
		if timeout > 0 && clone.Timeout == 0 {
			clone.Timeout = timeout
		}
		httpClient = &clone
	case cfg.AllowHTTP:
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Loader{
		fs:        cfg.FileSystem,
		http:      httpClient,
		allowHTTP: httpClient != nil,
		timeout:   timeout,
		limit:     limit,
	}
}

// Load returns the raw bytes behind location.
func (l *Loader) Load(ctx context.Context, kind, location string) ([]byte, error) {
	switch kind {
	case KindFile:
		if location == "" {
			return nil, errors.New("template loader: file path is required")
		}
		return readLocal(ctx, osOpen, location, l.limit)
	case KindFS:
		if location == "" {
			return nil, errors.New("template loader: fs path is required")
		}
		if l.fs == nil {
			return nil, errors.New("template loader: fs is nil")
		}
		return readLocal(ctx, l.fs.Open, location, l.limit)
	case KindURL:
		if !l.allowHTTP {
			return nil, errors.New("template loader: http support disabled")
		}
		return loadHTTP(ctx, l.http, location, l.timeout, l.limit)
	default:
		return nil, fmt.Errorf("template loader: unsupported source kind %q", kind)
	}
}

// ReadAll drains a caller supplied stream under the same size limit as Load.
func (l *Loader) ReadAll(r io.Reader) ([]byte, error) {
	return readLimited(r, l.limit)
}
