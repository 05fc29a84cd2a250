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

// Package config defines the build configuration surface recognized by the
// bundler core, its defaults, and validation.
package config

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

// DoS protection defaults.
const (
	// DefaultMaxDepth bounds graph traversal depth, preventing runaway walks
	// through circular or pathologically deep dependency trees.
	DefaultMaxDepth = 1000

	// DefaultMaxModules bounds the number of modules processed in one walk.
	DefaultMaxModules = 100_000

	// DefaultFileSizeLimit is the largest source file the parser will read.
	DefaultFileSizeLimit = 10 * 1024 * 1024

	// DefaultMaxScriptTags bounds the script blocks extracted from one
	// framework single-file-component.
	DefaultMaxScriptTags = 100
)

// Code splitting defaults for shared mode.
const (
	DefaultSplitMinSizeBytes = 20_000
	DefaultSplitMinImports   = 2
)

// ForceRebuildEnvVar bypasses cache reads when set to any value. It is read
// once at driver start.
const ForceRebuildEnvVar = "FOB_FORCE_REBUILD"

// EntryMode selects how multiple entries are bundled.
type EntryMode string

const (
	// EntryModeShared bundles all entries in one engine invocation with code
	// splitting.
	EntryModeShared EntryMode = "shared"
	// EntryModeIsolated builds each entry independently, in parallel.
	EntryModeIsolated EntryMode = "isolated"
)

// Format is the output module format.
type Format string

const (
	FormatESM  Format = "esm"
	FormatCJS  Format = "cjs"
	FormatIIFE Format = "iife"
)

// SourcemapMode controls sourcemap emission.
type SourcemapMode string

const (
	SourcemapNone     SourcemapMode = "none"
	SourcemapExternal SourcemapMode = "external"
	SourcemapInline   SourcemapMode = "inline"
	SourcemapHidden   SourcemapMode = "hidden"
)

// MinifyLevel controls how aggressively output is minified.
type MinifyLevel string

const (
	MinifyNone        MinifyLevel = "none"
	MinifyWhitespace  MinifyLevel = "whitespace"
	MinifySyntax      MinifyLevel = "syntax"
	MinifyIdentifiers MinifyLevel = "identifiers"
)

// PathAlias is one prefix substitution consulted in declared order.
type PathAlias struct {
	Prefix string `mapstructure:"prefix" json:"prefix"`
	Target string `mapstructure:"target" json:"target"`
}

// CodeSplitting configures shared-chunk extraction; it applies only in
// shared mode.
type CodeSplitting struct {
	MinSizeBytes int `mapstructure:"min_size_bytes" json:"minSizeBytes"`
	MinImports   int `mapstructure:"min_imports" json:"minImports"`
}

// Cache configures the persistent build cache.
type Cache struct {
	// Dir is where cache.db lives. Empty means the XDG cache home.
	Dir string `mapstructure:"dir" json:"dir"`

	// ForceRebuild bypasses cache reads but still writes after the build.
	ForceRebuild bool `mapstructure:"force_rebuild" json:"forceRebuild"`

	// EnvVars are environment variable names folded into the cache key.
	EnvVars []string `mapstructure:"env_vars" json:"envVars"`
}

// DefaultCacheDir returns the XDG cache location for fob.
func DefaultCacheDir() string {
	return filepath.Join(xdg.CacheHome, "fob")
}

// BuildConfig is the full configuration surface recognized by the core.
type BuildConfig struct {
	Entries []string `mapstructure:"entries" json:"entries"`
	OutDir  string   `mapstructure:"outdir" json:"outdir"`
	Cwd     string   `mapstructure:"cwd" json:"cwd"`

	External    []string    `mapstructure:"external" json:"external"`
	PathAliases []PathAlias `mapstructure:"path_aliases" json:"pathAliases"`

	FollowDynamicImports bool `mapstructure:"follow_dynamic_imports" json:"followDynamicImports"`
	// IncludeTypeImports controls whether type-only imports are walked. When
	// false they are skipped entirely, including type-only star re-exports.
	IncludeTypeImports bool `mapstructure:"include_type_imports" json:"includeTypeImports"`

	MaxDepth      int `mapstructure:"max_depth" json:"maxDepth"`
	MaxModules    int `mapstructure:"max_modules" json:"maxModules"`
	FileSizeLimit int `mapstructure:"file_size_limit_bytes" json:"fileSizeLimitBytes"`
	MaxScriptTags int `mapstructure:"max_script_tags" json:"maxScriptTags"`

	// Parallelism caps concurrent parse/resolve operations in the walker.
	Parallelism int `mapstructure:"parallelism" json:"parallelism"`

	// VirtualFiles maps virtual module ids to source text.
	VirtualFiles map[string]string `mapstructure:"virtual_files" json:"virtualFiles"`

	EntryMode         EntryMode     `mapstructure:"entry_mode" json:"entryMode"`
	MaxParallelBuilds int           `mapstructure:"max_parallel_builds" json:"maxParallelBuilds"`
	CodeSplitting     CodeSplitting `mapstructure:"code_splitting" json:"codeSplitting"`

	Format      Format        `mapstructure:"format" json:"format"`
	Sourcemap   SourcemapMode `mapstructure:"sourcemap" json:"sourcemap"`
	MinifyLevel MinifyLevel   `mapstructure:"minify_level" json:"minifyLevel"`

	Cache Cache `mapstructure:"cache" json:"cache"`

	// Timeout bounds the whole build. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// Default returns a config with every default applied. Entries, outdir and
// cwd remain for the caller.
func Default() *BuildConfig {
	return &BuildConfig{
		FollowDynamicImports: true,
		IncludeTypeImports:   true,
		MaxDepth:             DefaultMaxDepth,
		MaxModules:           DefaultMaxModules,
		FileSizeLimit:        DefaultFileSizeLimit,
		MaxScriptTags:        DefaultMaxScriptTags,
		Parallelism:          runtime.NumCPU(),
		EntryMode:            EntryModeShared,
		MaxParallelBuilds:    runtime.NumCPU(),
		CodeSplitting: CodeSplitting{
			MinSizeBytes: DefaultSplitMinSizeBytes,
			MinImports:   DefaultSplitMinImports,
		},
		Format:      FormatESM,
		Sourcemap:   SourcemapExternal,
		MinifyLevel: MinifyNone,
		Cache: Cache{
			Dir: DefaultCacheDir(),
		},
	}
}

// Load decodes viper state over the defaults.
func Load(v *viper.Viper) (*BuildConfig, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// ValidationError reports an invalid configuration field.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Detail)
}

// Validate checks the configuration before a build starts. Configuration
// errors are fatal pre-build.
func (c *BuildConfig) Validate() error {
	if len(c.Entries) == 0 {
		return &ValidationError{Field: "entries", Detail: "must not be empty"}
	}
	for _, entry := range c.Entries {
		if entry == "" {
			return &ValidationError{Field: "entries", Detail: "entry path must not be empty"}
		}
	}
	if c.MaxDepth <= 0 {
		return &ValidationError{Field: "max_depth", Detail: "must be positive"}
	}
	if c.MaxModules <= 0 {
		return &ValidationError{Field: "max_modules", Detail: "must be positive"}
	}
	if c.FileSizeLimit <= 0 {
		return &ValidationError{Field: "file_size_limit_bytes", Detail: "must be positive"}
	}
	if c.MaxScriptTags <= 0 {
		return &ValidationError{Field: "max_script_tags", Detail: "must be positive"}
	}
	if c.MaxParallelBuilds <= 0 {
		return &ValidationError{Field: "max_parallel_builds", Detail: "must be positive"}
	}
	switch c.EntryMode {
	case EntryModeShared, EntryModeIsolated:
	default:
		return &ValidationError{Field: "entry_mode", Detail: fmt.Sprintf("unknown mode %q", c.EntryMode)}
	}
	switch c.Format {
	case FormatESM, FormatCJS, FormatIIFE:
	default:
		return &ValidationError{Field: "format", Detail: fmt.Sprintf("unknown format %q", c.Format)}
	}
	switch c.Sourcemap {
	case SourcemapNone, SourcemapExternal, SourcemapInline, SourcemapHidden:
	default:
		return &ValidationError{Field: "sourcemap", Detail: fmt.Sprintf("unknown mode %q", c.Sourcemap)}
	}
	switch c.MinifyLevel {
	case MinifyNone, MinifyWhitespace, MinifySyntax, MinifyIdentifiers:
	default:
		return &ValidationError{Field: "minify_level", Detail: fmt.Sprintf("unknown level %q", c.MinifyLevel)}
	}
	// Oversized virtual files are rejected by the driver with the same
	// error as oversized disk files, so only id validity is checked here.
	for id := range c.VirtualFiles {
		if strings.ContainsRune(id, 0) {
			return &ValidationError{Field: "virtual_files", Detail: "id must not contain null bytes"}
		}
	}
	return nil
}
