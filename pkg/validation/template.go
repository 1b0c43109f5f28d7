// Package validation produces lint reports for template definition documents.
package validation

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-contentdef/pkg/template"
)

// Issue represents a validation error with optional location metadata.
type Issue struct {
	Code     string `json:"code,omitempty"`
	Path     string `json:"path,omitempty"`
	Property string `json:"property,omitempty"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
	Column   int    `json:"column,omitempty"`
}

// Result captures validation outcomes for a single document.
type Result struct {
	Source string `json:"source"`
	Valid  bool   `json:"valid"`
	// Key is set when the document loaded successfully.
	Key    string  `json:"key,omitempty"`
	Issues []Issue `json:"issues,omitempty"`
}

// Options configures validation behaviour.
type Options struct {
	// Reader overrides the reader used to check documents. When nil a reader
	// with the default required tags is built.
	Reader *template.Reader
}

// ValidateTemplate checks a raw document. It never returns an error; every
// failure is folded into the result's issues.
func ValidateTemplate(ctx context.Context, src template.Source, raw []byte, opts Options) Result {
	if src == nil {
		src = template.SourceFromStream("template.xml")
	}
	result := Result{Source: src.Location(), Valid: true}

	reader := opts.Reader
	if reader == nil {
		r, err := template.NewReader()
		if err != nil {
			return invalid(result, issueFromError(err))
		}
		reader = r
	}

	doc, err := template.NewDocument(src, raw)
	if err != nil {
		return invalid(result, issuesFromError(err)...)
	}

	def, err := reader.LoadDocument(ctx, doc)
	if err != nil {
		return invalid(result, issuesFromError(err)...)
	}
	result.Key = def.Key
	return result
}

// Validate fetches src through the reader and checks it.
func Validate(ctx context.Context, src template.Source, opts Options) Result {
	reader := opts.Reader
	if reader == nil {
		r, err := template.NewReader()
		if err != nil {
			return invalid(Result{Source: location(src)}, issueFromError(err))
		}
		reader = r
	}

	result := Result{Source: location(src), Valid: true}
	def, err := reader.Load(ctx, src)
	if err != nil {
		return invalid(result, issuesFromError(err)...)
	}
	result.Key = def.Key
	return result
}

func invalid(result Result, issues ...Issue) Result {
	result.Valid = false
	result.Issues = append(result.Issues, issues...)
	return result
}

func location(src template.Source) string {
	if src == nil {
		return ""
	}
	return src.Location()
}

func issuesFromError(err error) []Issue {
	var malformed *template.MalformedInputError
	if errors.As(err, &malformed) && len(malformed.Issues) > 0 {
		out := make([]Issue, 0, len(malformed.Issues))
		for _, issue := range malformed.Issues {
			out = append(out, Issue{
				Code:    issue.Code,
				Path:    issue.Path,
				Message: strings.TrimSpace(issue.Message),
				Line:    issue.Line,
				Column:  issue.Column,
			})
		}
		return out
	}
	return []Issue{issueFromError(err)}
}

func issueFromError(err error) Issue {
	if err == nil {
		return Issue{Message: "unknown error"}
	}

	var invalidDoc *template.InvalidDocumentError
	if errors.As(err, &invalidDoc) {
		issue := Issue{
			Code:     string(invalidDoc.Reason),
			Property: invalidDoc.Property,
			Message:  trimPrefix(invalidDoc.Error(), invalidDoc.Source),
		}
		if len(invalidDoc.Fields) == 1 {
			issue.Path = "/template/" + invalidDoc.Fields[0]
		}
		if invalidDoc.Property != "" {
			issue.Path = "/template/properties/property[@name='" + invalidDoc.Property + "']"
		}
		return issue
	}

	var malformed *template.MalformedInputError
	if errors.As(err, &malformed) {
		return Issue{Code: "malformed", Message: trimPrefix(malformed.Error(), malformed.Source)}
	}

	return Issue{Message: trimPrefix(err.Error(), "")}
}

func trimPrefix(msg, source string) string {
	msg = strings.TrimSpace(msg)
	msg = strings.TrimPrefix(msg, "template: ")
	if source != "" {
		msg = strings.Replace(msg, " "+source+":", ":", 1)
	}
	return strings.TrimSpace(msg)
}
