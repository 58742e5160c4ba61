package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chazu/kerf/pkg/export"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/watch"
)

var exportCmd = &cobra.Command{
	Use:   "export <script>",
	Short: "Write the parts of a script to STL, 3MF, DXF or SVG",
	Long: `Export evaluates a script and writes its parts. With a single part the
output is written to --output; with several, each part goes to
<output stem>-<part><ext>. Parts whose dimension does not fit the format are
skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "output file (default <script>.stl)")
	exportCmd.Flags().StringSlice("part", nil, "export only these parts")
	exportCmd.Flags().BoolP("watch", "w", false, "re-export whenever the script changes")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	path := args[0]
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".stl"
	}
	only, _ := cmd.Flags().GetStringSlice("part")
	watching, _ := cmd.Flags().GetBool("watch")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = e.export(ctx, path, out, only)
	if !watching {
		return err
	}
	if err != nil {
		e.log.Error("export failed", "err", err)
	}
	return e.watch(ctx, path, func() {
		if err := e.export(ctx, path, out, only); err != nil {
			e.log.Error("export failed", "err", err)
		}
	})
}

func (e *env) export(ctx context.Context, path, out string, only []string) error {
	res, err := e.build(path)
	if err != nil {
		return err
	}
	names, shapes, err := selectParts(res, only)
	if err != nil {
		return err
	}
	if len(shapes) == 0 {
		return fmt.Errorf("%s defines no parts", path)
	}
	f, err := kernel.FormatFromPath(out)
	if err != nil {
		return err
	}

	written := 0
	for i, s := range shapes {
		target := out
		if len(shapes) > 1 {
			ext := filepath.Ext(out)
			target = strings.TrimSuffix(out, ext) + "-" + names[i] + ext
		}
		n := s.Node()
		if n.IsEmpty() || kernel.Dim(n.Dim) != f.Dim() {
			e.log.Warn("skipping part", "part", names[i], "dim", n.Dim, "format", f)
			continue
		}
		if err := export.WriteFile(ctx, e.session.Evaluator(), s, target); err != nil {
			return fmt.Errorf("part %s: %w", names[i], err)
		}
		e.log.Info("wrote", "part", names[i], "file", target)
		written++
	}
	if written == 0 {
		return fmt.Errorf("%w: no part of %s can be written as %s", export.ErrFormat, path, f)
	}
	return nil
}

// watch calls run after every change to path until ctx ends.
func (e *env) watch(ctx context.Context, path string, run func()) error {
	w, err := watch.New([]string{path})
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return err
	}
	defer w.Stop()
	e.log.Info("watching", "file", path)

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case c, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if c.Kind == watch.ChangeRemoved {
				e.log.Warn("script removed", "file", c.File)
				continue
			}
			e.log.Debug("script changed", "file", c.File)
			run()
		case err, ok := <-w.Errors:
			if ok {
				e.log.Warn("watch error", "err", err)
			}
		}
	}
}
