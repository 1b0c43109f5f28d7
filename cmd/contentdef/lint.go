package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contentdef/pkg/template"
	"github.com/goliatone/go-contentdef/pkg/validation"
)

var lintFormat string

var lintCmd = &cobra.Command{
	Use:   "lint <file|url|->...",
	Short: "Check template definitions and report every issue",
	Long: `Checks each document against the bundled schema and the template rules.
Exits with status 1 when any document is invalid.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().StringVarP(&lintFormat, "format", "f", "text", "Output format (text, json, yaml)")
}

func runLint(cmd *cobra.Command, args []string) error {
	reader, err := newReader()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	opts := validation.Options{Reader: reader}

	results := make([]validation.Result, 0, len(args))
	for _, arg := range args {
		src, err := template.ParseSource(arg)
		if err != nil {
			return err
		}
		var result validation.Result
		if src.Kind() == template.SourceKindStream {
			raw, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			result = validation.ValidateTemplate(ctx, src, raw, opts)
		} else {
			result = validation.Validate(ctx, src, opts)
		}
		logger.Debug("template checked", zap.String("source", result.Source), zap.Bool("valid", result.Valid))
		results = append(results, result)
	}

	if lintFormat == "text" || lintFormat == "" {
		printLintText(cmd.OutOrStdout(), results)
	} else if err := encode(cmd.OutOrStdout(), lintFormat, results); err != nil {
		return err
	}

	for _, result := range results {
		if !result.Valid {
			return errInvalid
		}
	}
	return nil
}

func printLintText(w io.Writer, results []validation.Result) {
	for _, result := range results {
		if result.Valid {
			fmt.Fprintf(w, "ok   %s (%s)\n", result.Source, result.Key)
			continue
		}
		fmt.Fprintf(w, "FAIL %s\n", result.Source)
		for _, issue := range result.Issues {
			pos := ""
			if issue.Line > 0 {
				pos = fmt.Sprintf("%d:%d: ", issue.Line, issue.Column)
			}
			fmt.Fprintf(w, "     %s[%s] %s\n", pos, issue.Code, issue.Message)
		}
	}
}
