// cmd/geodraw/main.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package main

// geodraw exercises the drawing engine without a GUI: it replays scripted
// pointer input against a synthetic globe view and reports the shapes
// that result, along with a few geodesy utilities.

import (
	"fmt"
	"os"

	"github.com/mmp/geodraw/draw"
	"github.com/mmp/geodraw/log"
	"github.com/mmp/geodraw/renderer"

	"github.com/apenwarr/fixconsole"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logDir     string
	configFile string

	lg  *log.Logger
	cfg draw.Config
)

var rootCmd = &cobra.Command{
	Use:   "geodraw",
	Short: "Replay drawing input against a synthetic globe",
	Long: `geodraw drives the terrain-draped drawing engine from a script of
pointer events, reporting the primitives that are committed. It also
provides small utilities for generating terrain tiles and for the
geodesy the engine uses.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := log.ParseLevel(logLevel); !ok {
			return fmt.Errorf("%s: invalid log level", logLevel)
		}
		lg = log.New(logLevel, logDir)
		renderer.SetLogger(lg)

		var err error
		if cfg, err = draw.LoadConfig(configFile); err != nil {
			lg.Errorf("%s: %v", configFile, err)
			return err
		}
		lg.Debug("configuration", "config", cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "loglevel", "info", "logging level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logDir, "logdir", "", "log file directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "drawing configuration file (JSON, YAML, or TOML)")
}

func main() {
	if err := fixconsole.FixConsoleIfNeeded(); err != nil {
		fmt.Printf("FixConsole: %v\n", err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
