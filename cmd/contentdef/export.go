package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contentdef/pkg/openapi"
	"github.com/goliatone/go-contentdef/pkg/store"
	"github.com/goliatone/go-contentdef/pkg/template"
)

var (
	exportTitle   string
	exportVersion string
)

var exportCmd = &cobra.Command{
	Use:   "export <dir|file|url>...",
	Short: "Export templates as OpenAPI component schemas",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportTitle, "title", "Content templates", "OpenAPI info title")
	exportCmd.Flags().StringVar(&exportVersion, "api-version", "1.0.0", "OpenAPI info version")
}

func runExport(cmd *cobra.Command, args []string) error {
	reader, err := newReader()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)

	var defs []template.Definition
	for _, arg := range args {
		if info, statErr := os.Stat(arg); statErr == nil && info.IsDir() {
			st, err := store.LoadFS(ctx, os.DirFS(arg), reader)
			if err != nil {
				return err
			}
			for _, key := range st.Keys() {
				def, _ := st.Template(key)
				defs = append(defs, def)
			}
			continue
		}
		def, err := loadSource(ctx, reader, arg, cmd.InOrStdin())
		if err != nil {
			return err
		}
		defs = append(defs, def)
	}

	doc := openapi.Document(exportTitle, exportVersion, defs)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
