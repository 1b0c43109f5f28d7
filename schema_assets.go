package contentdef

import (
	"io/fs"

	"github.com/goliatone/go-contentdef/pkg/template/schema"
)

// SchemaFS exposes the embedded template-1.0.xsd so callers can publish it or
// hand it to editors for completion.
//
// Typical mount:
//
//	mux.Handle("/schemas/",
//	  http.StripPrefix("/schemas/",
//	    http.FileServerFS(contentdef.SchemaFS()),
//	  ),
//	)
func SchemaFS() fs.FS {
	return schema.FS()
}
