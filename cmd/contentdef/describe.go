package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-contentdef/internal/prompt"
	"github.com/goliatone/go-contentdef/pkg/describe"
	"github.com/goliatone/go-contentdef/pkg/store"
	"github.com/goliatone/go-contentdef/pkg/template"
)

var (
	describeKey    string
	describeFormat string
)

var describeCmd = &cobra.Command{
	Use:   "describe <dir|file|url>",
	Short: "Print a human readable summary of a template",
	Long: `Describes one template. When given a directory holding several templates,
pick one with --key or, on a terminal, from an interactive list.`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().StringVarP(&describeKey, "key", "k", "", "Template key to describe when the source is a directory")
	describeCmd.Flags().StringVarP(&describeFormat, "format", "f", "text", "Output format (text, markdown, html)")
}

func runDescribe(cmd *cobra.Command, args []string) error {
	format, err := describe.ParseFormat(describeFormat)
	if err != nil {
		return err
	}
	renderer, err := describe.New()
	if err != nil {
		return err
	}
	reader, err := newReader()
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	var def template.Definition
	if info, statErr := os.Stat(args[0]); statErr == nil && info.IsDir() {
		st, err := store.LoadFS(ctx, os.DirFS(args[0]), reader)
		if err != nil {
			return err
		}
		key, err := chooseKey(ctx, st)
		if err != nil {
			return err
		}
		def, _ = st.Template(key)
	} else {
		def, err = loadSource(ctx, reader, args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
	}
	return renderer.Render(cmd.OutOrStdout(), def, format)
}

func chooseKey(ctx context.Context, st *store.Store) (string, error) {
	keys := st.Keys()
	if describeKey != "" {
		if _, ok := st.Template(describeKey); !ok {
			return "", fmt.Errorf("template %q not found (available: %s)", describeKey, strings.Join(keys, ", "))
		}
		return describeKey, nil
	}
	switch {
	case len(keys) == 0:
		return "", fmt.Errorf("no templates found")
	case len(keys) == 1:
		return keys[0], nil
	case !interactive():
		return "", fmt.Errorf("several templates found, use --key (one of: %s)", strings.Join(keys, ", "))
	}
	idx, err := picker.Select(ctx, prompt.SelectConfig{
		Message: "Template",
		Options: keys,
	})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(keys) {
		return "", fmt.Errorf("no template selected")
	}
	return keys[idx], nil
}
