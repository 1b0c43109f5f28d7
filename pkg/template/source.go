package template

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source identifies where a template document originated so the reader can
// fetch files, fs.FS entries, URLs or in-memory streams alike.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the fetch modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
	SourceKindStream SourceKind = "stream"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string {
	return s.path
}

func (s fileSource) Kind() SourceKind {
	return SourceKindFile
}

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string {
	return s.name
}

func (s fsSource) Kind() SourceKind {
	return SourceKindFS
}

// SourceFromFS returns a Source identifying a template inside the reader's fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string {
	return s.raw
}

func (s urlSource) Kind() SourceKind {
	return SourceKindURL
}

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	src, err := parseURLSource(raw)
	if err != nil {
		panic(err.Error())
	}
	return src
}

type streamSource struct {
	name string
}

func (s streamSource) Location() string {
	return s.name
}

func (s streamSource) Kind() SourceKind {
	return SourceKindStream
}

// SourceFromStream names an in-memory document, e.g. one read from stdin.
func SourceFromStream(name string) Source {
	return streamSource{name: name}
}

// ParseSource maps a command-line style argument onto a Source: http(s) URLs
// become URL sources, "-" a stdin stream, anything else a file path.
func ParseSource(raw string) (Source, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return nil, fmt.Errorf("template: empty source")
	case trimmed == "-":
		return SourceFromStream("stdin"), nil
	case strings.HasPrefix(trimmed, "http://"), strings.HasPrefix(trimmed, "https://"):
		return parseURLSource(trimmed)
	default:
		return SourceFromFile(trimmed), nil
	}
}

func parseURLSource(raw string) (Source, error) {
	if raw == "" {
		return nil, fmt.Errorf("template: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return nil, fmt.Errorf("template: invalid URL %q: %v", raw, err)
	}
	return urlSource{raw: raw}, nil
}
