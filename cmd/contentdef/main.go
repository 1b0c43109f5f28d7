package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contentdef/internal/prompt"
	"github.com/goliatone/go-contentdef/pkg/config"
	"github.com/goliatone/go-contentdef/pkg/template"
)

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    = config.Default()
	logger = zap.NewNop()

	// Swapped in tests.
	picker      prompt.Picker = prompt.Survey()
	interactive               = prompt.Interactive
)

// errInvalid makes the process exit with status 1 without printing usage.
var errInvalid = errors.New("one or more templates are invalid")

var rootCmd = &cobra.Command{
	Use:   "contentdef",
	Short: "Load, lint and describe content template definitions",
	Long: `contentdef reads XML template definitions (namespace
http://schemas.sulu.io/template/template), checks them against the bundled
schema and the template rules, and prints or exports the result.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			loaded.Log.Level = "debug"
		}
		l, err := loaded.Logger()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg, logger = loaded, l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newReader() (*template.Reader, error) {
	return template.NewReader(cfg.ReaderOptions(logger)...)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadSource loads a file, URL or "-" for stdin.
func loadSource(ctx context.Context, reader *template.Reader, raw string, stdin io.Reader) (template.Definition, error) {
	src, err := template.ParseSource(raw)
	if err != nil {
		return template.Definition{}, err
	}
	if src.Kind() == template.SourceKindStream {
		return reader.LoadReader(ctx, src.Location(), stdin)
	}
	return reader.Load(ctx, src)
}
