// Package template reads content template definition documents.
//
// A template document declares the key, view, controller and cache lifetime
// of a content type plus its properties. Reader validates the document
// against the embedded 1.0 schema and then enforces the rules the schema
// cannot express: all four scalar fields must be present, every configured
// required tag must appear somewhere in the document, and a tag name may not
// repeat a priority anywhere in the document.
//
//	r, err := template.NewReader(template.WithRequiredTags("sulu.node.name"))
//	if err != nil {
//		return err
//	}
//	def, err := r.Load(ctx, template.SourceFromFile("templates/overview.xml"))
//
// Errors are either *MalformedInputError (unreadable or schema-invalid input)
// or *InvalidDocumentError (business-rule violations); both match the
// package sentinels through errors.Is.
package template
