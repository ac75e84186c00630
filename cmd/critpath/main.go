/*
	Copyright 2024 Google Inc.

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

			http://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

// Command critpath computes critical paths through dependency graphs
// described in YAML.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	criticalpath "github.com/ilhamster/critpath/critical_path"
)

type rootOptions struct {
	logLevel  string
	logFormat string
	noColor   bool
	maxDepth  int
}

// newLogger creates and configures a new slog.Logger instance writing to
// outW.
func (ro *rootOptions) newLogger(outW io.Writer) *slog.Logger {
	var level slog.Level
	switch ro.logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if ro.logFormat == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}
	return slog.New(handler)
}

func (ro *rootOptions) algorithmOptions(logger *slog.Logger) []criticalpath.Option {
	return []criticalpath.Option{
		criticalpath.WithLogger(logger),
		criticalpath.WithMaxDepth(ro.maxDepth),
	}
}

func (ro *rootOptions) palette() *palette {
	return newPalette(ro.noColor)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "critpath",
		Short: "Compute critical paths through timed dependency graphs",
		Long: `critpath reads a timed dependency graph (workers, timestamped vertices, and
typed edges) from a YAML description, and explains where the time between two
points went: following a worker while it ran, and detouring through whatever
woke it up while it was blocked.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().IntVar(&opts.maxDepth, "max-depth", criticalpath.DefaultMaxDepth, "Maximum nested blocking resolution depth")

	rootCmd.AddCommand(computeCmd(opts))
	rootCmd.AddCommand(compareCmd(opts))
	rootCmd.AddCommand(checkCmd(opts))
	rootCmd.AddCommand(strategiesCmd(opts))
	return rootCmd
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
		os.Exit(1)
	}
}
