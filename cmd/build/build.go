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

// Package build provides the build command for fob.
package build

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bennypowers.dev/fob/builder"
	"bennypowers.dev/fob/config"
	"bennypowers.dev/fob/fs"
	"bennypowers.dev/fob/internal/logging"
)

// Cmd is the build command: bundle one or more entries into the output
// directory.
var Cmd = &cobra.Command{
	Use:   "build [entry...]",
	Short: "Bundle entry files and their dependencies",
	Long: `Build walks the import graph from the given entries, analyzes it, and
emits bundled chunks, sourcemaps and assets into the output directory.`,
	Example: `  # Bundle a single entry
  fob build src/index.ts

  # Bundle every page entry in isolated mode
  fob build --glob "src/pages/**/*.ts" --entry-mode isolated

  # Force a rebuild, skipping the cache
  fob build src/index.ts --force-rebuild`,
	RunE: run,
}

func init() {
	Cmd.Flags().String("outdir", "dist", "Output directory")
	Cmd.Flags().String("glob", "", "Glob pattern matching entry files")
	Cmd.Flags().StringSlice("external", nil, "Package names to treat as external")
	Cmd.Flags().String("entry-mode", "shared", "Entry mode (shared, isolated)")
	Cmd.Flags().String("format", "esm", "Output format (esm, cjs, iife)")
	Cmd.Flags().String("sourcemap", "external", "Sourcemap mode (none, external, inline, hidden)")
	Cmd.Flags().String("minify", "none", "Minify level (none, whitespace, syntax, identifiers)")
	Cmd.Flags().Bool("force-rebuild", false, "Bypass the build cache")
	Cmd.Flags().String("cache-dir", "", "Cache directory (default: XDG cache home)")

	_ = viper.BindPFlag("outdir", Cmd.Flags().Lookup("outdir"))
	_ = viper.BindPFlag("external", Cmd.Flags().Lookup("external"))
	_ = viper.BindPFlag("entry_mode", Cmd.Flags().Lookup("entry-mode"))
	_ = viper.BindPFlag("format", Cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("sourcemap", Cmd.Flags().Lookup("sourcemap"))
	_ = viper.BindPFlag("minify_level", Cmd.Flags().Lookup("minify"))
	_ = viper.BindPFlag("cache.force_rebuild", Cmd.Flags().Lookup("force-rebuild"))
	_ = viper.BindPFlag("cache.dir", Cmd.Flags().Lookup("cache-dir"))
}

func run(cmd *cobra.Command, args []string) error {
	log := logging.GetLogger()
	osfs := fs.NewOSFileSystem()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	entries, err := collectEntries(cmd, args)
	if err != nil {
		return err
	}
	if len(entries) > 0 {
		cfg.Entries = entries
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	result, err := builder.New(osfs, cfg).Build(ctx)
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		log.Warning("%s", warning)
	}

	if result.Cache.Hit {
		log.Info("cache hit (%s)", result.Cache.Key[:12])
	}
	log.Info("built %d modules into %d outputs", result.Stats.TotalModules, len(result.Outputs))

	return nil
}

// collectEntries merges positional entries with glob matches, deduplicating
// by absolute path while preserving input order.
func collectEntries(cmd *cobra.Command, args []string) ([]string, error) {
	seen := make(map[string]struct{})
	var entries []string

	add := func(entry string) error {
		absPath := entry
		if !filepath.IsAbs(entry) {
			var err error
			absPath, err = filepath.Abs(entry)
			if err != nil {
				return fmt.Errorf("invalid entry path %q: %w", entry, err)
			}
		}
		if _, exists := seen[absPath]; !exists {
			seen[absPath] = struct{}{}
			entries = append(entries, absPath)
		}
		return nil
	}

	for _, arg := range args {
		if err := add(arg); err != nil {
			return nil, err
		}
	}

	globPattern, _ := cmd.Flags().GetString("glob")
	if globPattern != "" {
		matches, err := doublestar.FilepathGlob(globPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern: %w", err)
		}
		for _, match := range matches {
			if err := add(match); err != nil {
				return nil, err
			}
		}
	}

	return entries, nil
}
