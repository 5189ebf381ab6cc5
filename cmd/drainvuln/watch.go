// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/drainvuln/storage"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the analysis whenever the input files change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return a.watch(ctx)
		},
	}
	analysisFlags(cmd)
	cmd.Flags().Duration("debounce", storage.DefaultDebounce, "quiet period before re-running")
	pre := cmd.PreRun
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		pre(cmd, args)
		bindFlags(cmd, map[string]string{"debounce": "watch.debounce"})
	}

	return cmd
}

// watch analyzes once, then again after every debounced input change until
// ctx is cancelled. Failed runs are logged and the loop keeps going.
func (a *app) watch(ctx context.Context) error {
	files := a.inputFiles()
	w, err := storage.NewWatcher(a.cfg.Watch.Debounce, files...)
	if err != nil {
		return err
	}
	if err = w.Start(); err != nil {
		return err
	}
	defer w.Stop()

	a.rerun(ctx, w, "initial")
	a.log.Info("watching inputs", zap.Strings("files", files), zap.Duration("debounce", a.cfg.Watch.Debounce))
	for {
		select {
		case <-ctx.Done():
			a.log.Info("watch stopped")
			return nil
		case c := <-w.Changes:
			if !w.Changed(c.File) {
				a.log.Debug("change already handled", zap.String("file", c.File))
				continue
			}
			a.rerun(ctx, w, c.File)
		case err := <-w.Errors:
			a.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// rerun settles the inputs, runs the analysis, then settles whatever the run
// wrote so that a run stored into its own input database does not trigger
// the next one.
func (a *app) rerun(ctx context.Context, w *storage.Watcher, trigger string) {
	w.Settle(a.inputFiles()...)
	defer w.Settle(a.outputFiles()...)

	start := time.Now()
	if _, err := a.analyze(ctx); err != nil {
		a.log.Error("run failed", zap.String("trigger", trigger), zap.Error(err), elapsed(start))
		return
	}
	a.log.Info("analysis refreshed", zap.String("trigger", trigger), elapsed(start))
}

// inputFiles lists the files a run reads. A SQLite input also lists its
// write-ahead log, where other writers' commits land first.
func (a *app) inputFiles() []string {
	if db := a.cfg.Input.SQLite; db != "" {
		return []string{db, db + "-wal"}
	}

	return []string{a.cfg.Input.Nodes, a.cfg.Input.Edges}
}

// outputFiles lists the files a run may write.
func (a *app) outputFiles() []string {
	out := a.cfg.Output
	files := []string{out.CSV, out.JSON}
	if out.SQLite != "" {
		files = append(files, out.SQLite, out.SQLite+"-wal")
	}

	return files
}
