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

package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	criticalpath "github.com/ilhamster/critpath/critical_path"
	"github.com/ilhamster/critpath/graph"
	"github.com/ilhamster/critpath/graph/description"
)

var errInconsistent = errors.New("trace data appears inconsistent, critical path could not be computed")

// Reports malformed input graphs in user terms.
func explain(err error) error {
	if errors.Is(err, graph.ErrGraphInvariantViolation) {
		return fmt.Errorf("%w: %w", errInconsistent, err)
	}
	return err
}

// palette colors the CLI's output.  Each command builds its own, so
// disabling color never affects other commands.
type palette struct {
	bold, faint, ok *color.Color
	edgeTypes       map[graph.EdgeType]*color.Color
}

func newPalette(noColor bool) *palette {
	p := &palette{
		bold:  color.New(color.Bold),
		faint: color.New(color.Faint),
		ok:    color.New(color.FgGreen),
		edgeTypes: map[graph.EdgeType]*color.Color{
			graph.Running:     color.New(color.FgGreen),
			graph.Preempted:   color.New(color.FgYellow),
			graph.Blocked:     color.New(color.FgRed),
			graph.Network:     color.New(color.FgRed),
			graph.Unknown:     color.New(color.FgMagenta),
			graph.UserInput:   color.New(color.FgCyan),
			graph.BlockDevice: color.New(color.FgCyan),
			graph.Timer:       color.New(color.FgCyan),
			graph.Interrupted: color.New(color.FgCyan),
		},
	}
	if noColor {
		p.bold.DisableColor()
		p.faint.DisableColor()
		p.ok.DisableColor()
		for _, c := range p.edgeTypes {
			c.DisableColor()
		}
	}
	return p
}

func (p *palette) edgeType(et graph.EdgeType) string {
	if c, ok := p.edgeTypes[et]; ok {
		return c.Sprint(et.String())
	}
	return p.faint.Sprint(et.String())
}

func (p *palette) prettyPrinter() *graph.PrettyPrinter[string] {
	return graph.NewPrettyPrinter[string]().
		WithEdgeTypePrinter(p.edgeType).
		WithWorkerPrinter(func(w string) string {
			return p.bold.Sprint(w)
		})
}

// endpointFlags selects a critical path's endpoints.  If none are set, the
// description's own start and end are used.
type endpointFlags struct {
	worker   string
	from, to string
}

func (ef *endpointFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ef.worker, "worker", "", "Span the named worker's whole timeline")
	cmd.Flags().StringVar(&ef.from, "from", "", "Start position, as 'worker' or 'worker@ts'")
	cmd.Flags().StringVar(&ef.to, "to", "", "End position, as 'worker' or 'worker@ts'")
	cmd.MarkFlagsMutuallyExclusive("worker", "from")
	cmd.MarkFlagsMutuallyExclusive("worker", "to")
}

func findPath(
	g *description.Graph,
	ef *endpointFlags,
	strategy criticalpath.Strategy,
	cache *criticalpath.Cache[string],
	opts ...criticalpath.Option,
) (*graph.Graph[string], error) {
	var f *criticalpath.Finder
	var err error
	switch {
	case ef.worker != "":
		f, err = criticalpath.NewFinder(criticalpath.WorkerLifetimeTypeData, ef.worker, "", strategy, opts...)
	case ef.from != "":
		f, err = criticalpath.NewFinder(criticalpath.CustomTypeData, ef.from, ef.to, strategy, opts...)
	case ef.to != "":
		return nil, errors.New("--to requires --from")
	default:
		start, end := g.Endpoints()
		if start == nil {
			return nil, errors.New("no start: pass --from or --worker, or name a start in the description")
		}
		return cache.Get(g.Graph, start, end, strategy, opts...)
	}
	if err != nil {
		return nil, err
	}
	return criticalpath.Find(f, g.Graph, cache)
}

func loadGraph(file string) (*description.Graph, error) {
	desc, err := description.LoadFile(file)
	if err != nil {
		return nil, err
	}
	return desc.Build()
}

// Writes everything gathered by reg in the Prometheus text format.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func computeCmd(opts *rootOptions) *cobra.Command {
	var file, strategyName string
	var breakdown, dumpMetrics bool
	ef := &endpointFlags{}
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute a critical path",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.newLogger(cmd.ErrOrStderr())
			strategy, err := criticalpath.ParseStrategy(strategyName)
			if err != nil {
				return err
			}
			g, err := loadGraph(file)
			if err != nil {
				return err
			}
			algOpts := opts.algorithmOptions(logger)
			var reg *prometheus.Registry
			if dumpMetrics {
				reg = prometheus.NewRegistry()
				algOpts = append(algOpts, criticalpath.WithMetrics(criticalpath.NewMetrics(reg)))
			}
			path, err := findPath(g, ef, strategy, criticalpath.NewCache[string](), algOpts...)
			if err != nil {
				return explain(err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, opts.palette().prettyPrinter().PrettyPrint(path))
			if breakdown {
				fmt.Fprintln(out, criticalpath.Summarize(path))
			}
			if reg != nil {
				return writeMetrics(out, reg)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Graph description (YAML)")
	cmd.Flags().StringVarP(&strategyName, "strategy", "s", "", fmt.Sprintf("Critical path strategy (%s)", strings.Join(criticalpath.CommonStrategies.Names(), ", ")))
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "Also print time spent per edge type and worker")
	cmd.Flags().BoolVar(&dumpMetrics, "metrics", false, "Also print computation metrics in Prometheus text format")
	ef.register(cmd)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func compareCmd(opts *rootOptions) *cobra.Command {
	var file string
	ef := &endpointFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compute a critical path with every strategy",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.newLogger(cmd.ErrOrStderr())
			g, err := loadGraph(file)
			if err != nil {
				return err
			}
			strategies := criticalpath.CommonStrategies.All()
			paths := make([]*graph.Graph[string], len(strategies))
			cache := criticalpath.NewCache[string]()
			var eg errgroup.Group
			for idx, td := range strategies {
				eg.Go(func() error {
					path, err := findPath(g, ef, td.Type, cache, opts.algorithmOptions(logger.With("strategy", td.Name))...)
					if err != nil {
						return fmt.Errorf("%s: %w", td.Name, err)
					}
					paths[idx] = path
					return nil
				})
			}
			if err := eg.Wait(); err != nil {
				return explain(err)
			}
			out := cmd.OutOrStdout()
			p := opts.palette()
			pp := p.prettyPrinter()
			for idx, td := range strategies {
				fmt.Fprintf(out, "%s (%s), total %d:\n", p.bold.Sprint(td.Name), td.Description, criticalpath.Summarize(paths[idx]).Total())
				fmt.Fprintln(out, pp.PrettyPrint(paths[idx]))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Graph description (YAML)")
	ef.register(cmd)
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func checkCmd(opts *rootOptions) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a graph description for consistency",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := opts.newLogger(cmd.ErrOrStderr())
			g, err := loadGraph(file)
			if err != nil {
				return err
			}
			logger.Debug("graph loaded", "file", file, "id", g.ID().String())
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d workers, %d vertices\n",
				opts.palette().ok.Sprint("ok"), len(g.Workers()), g.Size())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Graph description (YAML)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func strategiesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List critical path strategies",
		RunE: func(cmd *cobra.Command, args []string) error {
			def := criticalpath.CommonStrategies.Default()
			for _, td := range criticalpath.CommonStrategies.All() {
				marker := ""
				if td == def {
					marker = " " + opts.palette().faint.Sprint("(default)")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s%s\n", td.Name, td.Description, marker)
			}
			return nil
		},
	}
}
