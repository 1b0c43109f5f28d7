// Package schema embeds the structural schema for template definition
// documents and validates documents against it.
package schema

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"
)

const (
	// Version of the template document schema.
	Version = "1.0"
	// Namespace every template document must declare.
	Namespace = "http://schemas.sulu.io/template/template"
	// Path of the schema inside FS.
	Path = "template-" + Version + ".xsd"
)

//go:embed template-1.0.xsd
var files embed.FS

var (
	compileOnce sync.Once
	compiled    *xsd.Schema
	compileErr  error
)

// Issue is a positioned schema violation.
type Issue struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (i Issue) String() string {
	msg := i.Message
	if i.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, i.Path)
	}
	if i.Line > 0 {
		return fmt.Sprintf("%d:%d: %s", i.Line, i.Column, msg)
	}
	return msg
}

// FS exposes the embedded schema files.
func FS() fs.FS {
	return files
}

// Compiled returns the compiled schema. Compilation happens once; the result
// is safe for concurrent validation.
func Compiled() (*xsd.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = xsd.Load(files, Path)
		if compileErr != nil {
			compileErr = fmt.Errorf("schema: compile %s: %w", Path, compileErr)
		}
	})
	return compiled, compileErr
}

// Validate checks a document against the schema. Schema violations are
// returned as issues; err is only set when validation could not run.
func Validate(r io.Reader) ([]Issue, error) {
	s, err := Compiled()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(r); err != nil {
		if issues, ok := IssuesFromError(err); ok {
			return issues, nil
		}
		return nil, err
	}
	return nil, nil
}

// IssuesFromError converts validator errors into issues.
func IssuesFromError(err error) ([]Issue, bool) {
	if err == nil {
		return nil, false
	}
	violations, ok := xsderrors.AsValidations(err)
	if !ok {
		return nil, false
	}
	out := make([]Issue, 0, len(violations))
	for _, v := range violations {
		out = append(out, Issue{
			Code:    v.Code,
			Message: v.Message,
			Path:    v.Path,
			Line:    v.Line,
			Column:  v.Column,
		})
	}
	if len(out) == 0 {
		return nil, false
	}
	return out, true
}
