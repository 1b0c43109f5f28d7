package template

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/goliatone/go-contentdef/pkg/template/schema"
)

// Document is a well-formed template document: the payload, its origin and
// the element tree rooted at {schema.Namespace}template. The tree is parsed
// once in NewDocument and only read afterwards, so a Document may be loaded
// any number of times.
type Document struct {
	source Source
	raw    []byte
	tree   *etree.Document
}

// NewDocument parses raw and checks that it holds exactly one template root
// element. Content problems are reported as *MalformedInputError.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("template: source is required")
	}
	location := src.Location()
	if len(bytes.TrimSpace(raw)) == 0 {
		return Document{}, &MalformedInputError{Source: location, Err: errors.New("document is empty")}
	}

	payload := append([]byte(nil), raw...)
	tree := etree.NewDocument()
	if err := tree.ReadFromBytes(payload); err != nil {
		return Document{}, syntaxError(location, err)
	}

	root, err := templateRoot(tree)
	if err != nil {
		return Document{}, &MalformedInputError{Source: location, Err: err}
	}
	if root.Tag != "template" || root.NamespaceURI() != schema.Namespace {
		return Document{}, &MalformedInputError{
			Source: location,
			Err:    fmt.Errorf("unexpected root element {%s}%s", root.NamespaceURI(), root.Tag),
		}
	}
	return Document{source: src, raw: payload, tree: tree}, nil
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin metadata for the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

func (d Document) root() *etree.Element {
	if d.tree == nil {
		return nil
	}
	return d.tree.Root()
}

// templateRoot returns the only top-level element. Comments, processing
// instructions and whitespace may surround it; text and further elements may
// not.
func templateRoot(tree *etree.Document) (*etree.Element, error) {
	var root *etree.Element
	for _, token := range tree.Child {
		switch t := token.(type) {
		case *etree.Element:
			if root != nil {
				return nil, fmt.Errorf("multiple root elements (%s and %s)", root.Tag, t.Tag)
			}
			root = t
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return nil, errors.New("text outside the root element")
			}
		}
	}
	if root == nil {
		return nil, errors.New("document has no root element")
	}
	return root, nil
}

func syntaxError(location string, err error) error {
	issue := Issue{Code: "syntax", Message: err.Error()}
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		issue.Message = syntax.Msg
		issue.Line = syntax.Line
	}
	return &MalformedInputError{Source: location, Issues: []Issue{issue}, Err: err}
}
