/*
Copyright © 2026 Benny Powers <web@bennypowers.com>

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

// Package analyze provides the analyze command: module graph analysis
// without bundling.
package analyze

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/fob/config"
	"bennypowers.dev/fob/fs"
	"bennypowers.dev/fob/graph"
	"bennypowers.dev/fob/internal/logging"
	"bennypowers.dev/fob/internal/output"
	"bennypowers.dev/fob/parse"
	"bennypowers.dev/fob/resolver"
	"bennypowers.dev/fob/rules"
	"bennypowers.dev/fob/walker"
)

// Cmd is the analyze command.
var Cmd = &cobra.Command{
	Use:   "analyze [entry...]",
	Short: "Analyze the module graph without bundling",
	Long: `Analyze walks the import graph from the given entries and reports
statistics, unused exports, external dependencies and circular dependencies.`,
	Example: `  # Summarize a project's module graph
  fob analyze src/index.ts

  # Export the graph as Graphviz dot
  fob analyze src/index.ts --format dot

  # Export the graph as JSON
  fob analyze src/index.ts --format json -o graph.json`,
	RunE: run,
}

func init() {
	Cmd.Flags().StringP("format", "f", "summary", "Output format (summary, json, dot)")
}

func run(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no entries to analyze: provide at least one entry file")
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "summary", "json", "dot":
	default:
		return fmt.Errorf("invalid format %q: must be one of summary, json, dot", format)
	}

	osfs := fs.NewOSFileSystem()
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	entries := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("invalid entry path %q: %w", arg, err)
		}
		entries = append(entries, abs)
	}
	cfg.Entries = entries
	if cfg.Cwd == "" {
		cwd, err := osfs.Getwd()
		if err != nil {
			return err
		}
		cfg.Cwd = cwd
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res := resolver.New(osfs, cfg)
	walked, err := walker.New(osfs, cfg, res).Walk(ctx, cfg.Entries)
	if err != nil {
		return err
	}

	g, err := graph.FromCollection(osfs, walked.State, parse.AnalyzeSymbols)
	if err != nil {
		return err
	}
	if err := rules.NewRegistry().ApplyAll(g); err != nil {
		return err
	}
	g.ComputeExportUsageCounts()

	log := logging.GetLogger()
	for _, warning := range walked.Warnings {
		log.Warning("%s", warning)
	}

	switch format {
	case "dot":
		return output.Write(osfs, []byte(g.ToDOT()))
	case "json":
		data, err := g.ToJSON()
		if err != nil {
			return err
		}
		return output.Write(osfs, data)
	default:
		return printSummary(osfs, g)
	}
}

func printSummary(osfs fs.FileSystem, g *graph.ModuleGraph) error {
	stats := g.Statistics()
	symbols := g.SymbolStatistics()
	unused := g.UnusedExports()
	circular := g.FindCircularDependencies()

	var b []byte
	appendf := func(format string, args ...any) {
		b = append(b, fmt.Sprintf(format, args...)...)
	}

	appendf("Modules:               %d\n", stats.TotalModules)
	appendf("Dependencies:          %d\n", stats.TotalDependencies)
	appendf("Entry points:          %d\n", stats.EntryPoints)
	appendf("External dependencies: %d\n", stats.ExternalDependencies)
	appendf("Total source size:     %d bytes\n", stats.TotalOriginalSize)
	appendf("Symbols:               %d (%d exported, %d unused)\n",
		symbols.TotalSymbols, symbols.ExportedSymbols, symbols.UnusedSymbols)

	if len(unused) > 0 {
		appendf("\nUnused exports:\n")
		for _, u := range unused {
			appendf("  %s  %s\n", u.Module, u.Name)
		}
	}

	if deps := g.ExternalDependencies(); len(deps) > 0 {
		appendf("\nExternal dependencies:\n")
		for _, dep := range deps {
			appendf("  %s (%d importers)\n", dep.Specifier, len(dep.Importers))
		}
	}

	if len(circular) > 0 {
		appendf("\nCircular dependencies:\n")
		for _, chain := range circular {
			appendf("  ")
			for i, id := range chain.IDs {
				if i > 0 {
					appendf(" -> ")
				}
				appendf("%s", filepath.Base(id.String()))
			}
			appendf("\n")
		}
	}

	return output.Write(osfs, b)
}
