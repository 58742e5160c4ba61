package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/chazu/kerf/internal/config"
	"github.com/chazu/kerf/internal/session"
	"github.com/chazu/kerf/pkg/eval"
	"github.com/chazu/kerf/pkg/kernel"
	"github.com/chazu/kerf/pkg/kernel/manifold"
	"github.com/chazu/kerf/pkg/kernel/sdfx"
	"github.com/chazu/kerf/pkg/script"
)

var v = viper.New()

var rootCmd = &cobra.Command{
	Use:           "kerf",
	Short:         "Parametric CAD from Lisp scripts",
	Long:          "kerf evaluates design scripts into parts and exports, measures and inspects them.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default .kerf.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().String("kernel", "", "geometry kernel: sdfx or manifold")
	rootCmd.PersistentFlags().Int("cells", 0, "mesh cells along the longest side")
	rootCmd.PersistentFlags().String("resolution", "", "target mesh cell size, e.g. \"0.5 mm\"")

	_ = v.BindPFlag("kernel", rootCmd.PersistentFlags().Lookup("kernel"))
	_ = v.BindPFlag("mesh_cells", rootCmd.PersistentFlags().Lookup("cells"))
	_ = v.BindPFlag("resolution", rootCmd.PersistentFlags().Lookup("resolution"))
}

// env is what every script command needs.
type env struct {
	cfg     config.Config
	log     *slog.Logger
	session *session.Session
}

// setup loads configuration and builds the kernel and session.
func setup(cmd *cobra.Command) (*env, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.Setup(v, cfgFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	k, err := newKernel(cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("configured", "kernel", cfg.Kernel, "cells", cfg.MeshCells, "resolution", cfg.Resolution, "timeout", cfg.Timeout)

	engine := script.NewEngine(script.WithLogger(log), script.WithTimeout(cfg.Timeout))
	s := session.New(k, log, engine, eval.WithParallel(cfg.Parallel), eval.WithTimeout(cfg.Timeout))
	return &env{cfg: cfg, log: log, session: s}, nil
}

func newKernel(cfg config.Config) (kernel.Kernel, error) {
	switch cfg.Kernel {
	case config.KernelManifold:
		return manifold.New()
	default:
		opts := []sdfx.Option{sdfx.WithMeshCells(cfg.MeshCells)}
		l, ok, err := cfg.ResolutionLength()
		if err != nil {
			return nil, err
		}
		if ok {
			opts = append(opts, sdfx.WithResolution(l.Mm()))
		}
		return sdfx.New(opts...), nil
	}
}

// build reads and evaluates a script, reporting script errors with the
// file name.
func (e *env) build(path string) (*script.Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	res, evalErrs, err := e.session.Build(string(src))
	if len(evalErrs) > 0 {
		for _, ee := range evalErrs {
			e.log.Error("script error", "file", filepath.Base(path), "line", ee.Line, "msg", ee.Message)
		}
		return nil, fmt.Errorf("%s: %d script error(s)", path, len(evalErrs))
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// selectParts returns the parts named in only, or every part when only is
// empty.
func selectParts(res *script.Result, only []string) ([]string, []eval.Shape, error) {
	if len(only) == 0 {
		return res.Names, res.Shapes, nil
	}
	shapes := make([]eval.Shape, 0, len(only))
	for _, name := range only {
		s, ok := res.Lookup(name)
		if !ok {
			return nil, nil, fmt.Errorf("no part named %q", name)
		}
		shapes = append(shapes, s)
	}
	return only, shapes, nil
}
