package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-contentdef/pkg/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Reload a template directory whenever it changes",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 250*time.Millisecond, "Quiet period before reloading")
}

func runWatch(cmd *cobra.Command, args []string) error {
	reader, err := newReader()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(args[0], reader, watch.WithLogger(logger), watch.WithDebounce(watchDebounce))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "watching %s: %s\n", args[0], strings.Join(w.Current().Keys(), ", "))
	for {
		select {
		case <-ctx.Done():
			return nil
		case update := <-w.Updates():
			if update.Err != nil {
				logger.Warn("reload failed", zap.String("path", update.Path), zap.Error(update.Err))
				fmt.Fprintf(out, "reload failed: %v\n", update.Err)
				continue
			}
			fmt.Fprintf(out, "reloaded: %s\n", strings.Join(update.Store.Keys(), ", "))
		}
	}
}
