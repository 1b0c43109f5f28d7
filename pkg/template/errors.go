package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-contentdef/internal/template/loader"
	"github.com/goliatone/go-contentdef/pkg/template/schema"
)

var (
	// ErrMalformedInput is matched by every *MalformedInputError.
	ErrMalformedInput = errors.New("template: malformed input")
	// ErrInvalidDocument is matched by every *InvalidDocumentError.
	ErrInvalidDocument = errors.New("template: invalid document")

	ErrMissingField       = errors.New("template: missing required field")
	ErrMissingRequiredTag = errors.New("template: required tag not found")
	ErrDuplicatePriority  = errors.New("template: duplicate tag priority")
	ErrDuplicateProperty  = errors.New("template: duplicate property name")

	// ErrDocumentTooLarge is returned when a payload exceeds the configured
	// WithMaxDocumentSize limit.
	ErrDocumentTooLarge = loader.ErrTooLarge
)

// Issue is a positioned problem reported while checking a document against
// its structural schema.
type Issue = schema.Issue

// MalformedInputError reports a document that could not be read, parsed or
// that failed schema validation. No extraction happens once it is raised.
type MalformedInputError struct {
	Source string
	Issues []Issue
	Err    error
}

func (e *MalformedInputError) Error() string {
	var b strings.Builder
	b.WriteString("template: malformed input")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	switch {
	case len(e.Issues) > 0:
		parts := make([]string, 0, len(e.Issues))
		for _, issue := range e.Issues {
			parts = append(parts, issue.String())
		}
		fmt.Fprintf(&b, ": %s", strings.Join(parts, "; "))
	case e.Err != nil:
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// Reason classifies business-rule violations.
type Reason string

const (
	ReasonMissingField       Reason = "missing_field"
	ReasonMissingRequiredTag Reason = "missing_required_tag"
	ReasonDuplicatePriority  Reason = "duplicate_priority"
	ReasonDuplicateProperty  Reason = "duplicate_property"
)

// InvalidDocumentError reports a well-formed document that breaks a rule the
// schema cannot express.
type InvalidDocumentError struct {
	Source   string
	Reason   Reason
	Fields   []string
	Tags     []string
	Tag      string
	Priority string
	Property string
}

func (e *InvalidDocumentError) Error() string {
	var msg string
	switch e.Reason {
	case ReasonMissingField:
		msg = fmt.Sprintf("missing required field(s) %s", strings.Join(e.Fields, ","))
	case ReasonMissingRequiredTag:
		msg = fmt.Sprintf("tag(s) %s required but not found", strings.Join(e.Tags, ","))
	case ReasonDuplicatePriority:
		msg = fmt.Sprintf("priority %s of tag %s exists duplicated", e.Priority, e.Tag)
	case ReasonDuplicateProperty:
		msg = fmt.Sprintf("property %q is defined more than once", e.Property)
	default:
		msg = string(e.Reason)
	}
	if e.Source != "" {
		return fmt.Sprintf("template: invalid document %s: %s", e.Source, msg)
	}
	return "template: invalid document: " + msg
}

func (e *InvalidDocumentError) Is(target error) bool {
	switch target {
	case ErrInvalidDocument:
		return true
	case ErrMissingField:
		return e.Reason == ReasonMissingField
	case ErrMissingRequiredTag:
		return e.Reason == ReasonMissingRequiredTag
	case ErrDuplicatePriority:
		return e.Reason == ReasonDuplicatePriority
	case ErrDuplicateProperty:
		return e.Reason == ReasonDuplicateProperty
	}
	return false
}

func malformed(src string, err error) error {
	var existing *MalformedInputError
	if errors.As(err, &existing) {
		if existing.Source == "" {
			existing.Source = src
		}
		return existing
	}
	return &MalformedInputError{Source: src, Err: err}
}
