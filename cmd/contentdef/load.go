package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var loadFormat string

var loadCmd = &cobra.Command{
	Use:   "load <file|url|->",
	Short: "Load a template definition and print it",
	Args:  cobra.ExactArgs(1),
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringVarP(&loadFormat, "format", "f", "json", "Output format (json, yaml)")
}

func runLoad(cmd *cobra.Command, args []string) error {
	reader, err := newReader()
	if err != nil {
		return err
	}
	def, err := loadSource(commandContext(cmd), reader, args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}
	logger.Debug("template loaded", zap.String("key", def.Key), zap.Int("properties", len(def.Properties)))
	return encode(cmd.OutOrStdout(), loadFormat, def)
}

func encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
