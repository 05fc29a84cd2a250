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

package builder

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"sort"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"bennypowers.dev/fob/cache"
	"bennypowers.dev/fob/config"
	"bennypowers.dev/fob/graph"
)

// BundleError carries the engine's diagnostics verbatim.
type BundleError struct {
	Messages []api.Message
}

func (e *BundleError) Error() string {
	if len(e.Messages) == 0 {
		return "bundling failed"
	}
	first := e.Messages[0]
	location := ""
	if first.Location != nil {
		location = fmt.Sprintf(" (%s:%d:%d)", first.Location.File, first.Location.Line, first.Location.Column)
	}
	if len(e.Messages) == 1 {
		return fmt.Sprintf("bundling failed: %s%s", first.Text, location)
	}
	return fmt.Sprintf("bundling failed: %s%s (and %d more errors)", first.Text, location, len(e.Messages)-1)
}

// engineFunc runs one engine invocation over the given entries. It is a
// seam: tests substitute a stub to exercise ordering and error aggregation
// without the real engine.
type engineFunc func(entries []string, splitting bool) ([]cache.SerializedOutput, []string, error)

// engineVersion reports the bundling engine module version, pinned into the
// cache key so engine upgrades invalidate cached builds.
func engineVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == "github.com/evanw/esbuild" {
				return dep.Version
			}
		}
	}
	return "unknown"
}

// esbuildEngine adapts the build configuration onto one esbuild invocation.
func esbuildEngine(cfg *config.BuildConfig) engineFunc {
	return func(entries []string, splitting bool) ([]cache.SerializedOutput, []string, error) {
		options := api.BuildOptions{
			EntryPoints:   entries,
			Bundle:        true,
			Write:         false,
			Outdir:        cfg.OutDir,
			AbsWorkingDir: cfg.Cwd,
			External:      cfg.External,
			Metafile:      true,
			Format:        engineFormat(cfg.Format),
			Sourcemap:     engineSourcemap(cfg.Sourcemap),
			Splitting:     splitting && cfg.Format == config.FormatESM,
			LogLevel:      api.LogLevelSilent,
		}

		switch cfg.MinifyLevel {
		case config.MinifyIdentifiers:
			options.MinifyIdentifiers = true
			fallthrough
		case config.MinifySyntax:
			options.MinifySyntax = true
			fallthrough
		case config.MinifyWhitespace:
			options.MinifyWhitespace = true
		}

		if len(cfg.VirtualFiles) > 0 {
			options.Plugins = append(options.Plugins, virtualFilePlugin(cfg.VirtualFiles))
		}

		result := api.Build(options)
		if len(result.Errors) > 0 {
			return nil, nil, &BundleError{Messages: result.Errors}
		}

		var warnings []string
		for _, w := range result.Warnings {
			warnings = append(warnings, w.Text)
		}

		outputs := collectOutputs(cfg, result)
		return outputs, warnings, nil
	}
}

// virtualFilePlugin serves configured virtual modules to the engine through
// its resolve/load hook protocol.
func virtualFilePlugin(virtualFiles map[string]string) api.Plugin {
	return api.Plugin{
		Name: "fob-virtual-files",
		Setup: func(build api.PluginBuild) {
			build.OnResolve(api.OnResolveOptions{Filter: `^virtual:`},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					if _, ok := virtualFiles[args.Path]; !ok {
						return api.OnResolveResult{}, nil
					}
					return api.OnResolveResult{Path: args.Path, Namespace: "fob-virtual"}, nil
				})
			build.OnLoad(api.OnLoadOptions{Filter: `.*`, Namespace: "fob-virtual"},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					source, ok := virtualFiles[args.Path]
					if !ok {
						return api.OnLoadResult{}, fmt.Errorf("virtual module %q not configured", args.Path)
					}
					loader := api.LoaderTS
					return api.OnLoadResult{Contents: &source, Loader: loader}, nil
				})
		},
	}
}

// metafileOutput is the subset of esbuild's metafile we consume per output.
type metafileOutput struct {
	EntryPoint string `json:"entryPoint"`
	Imports    []struct {
		Path string `json:"path"`
		Kind string `json:"kind"`
	} `json:"imports"`
	Exports []string                   `json:"exports"`
	Inputs  map[string]json.RawMessage `json:"inputs"`
}

// collectOutputs maps engine output files into serialized outputs, enriched
// with metafile chunk metadata.
func collectOutputs(cfg *config.BuildConfig, result api.BuildResult) []cache.SerializedOutput {
	meta := struct {
		Outputs map[string]metafileOutput `json:"outputs"`
	}{}
	// A metafile that fails to decode just leaves chunk metadata empty.
	_ = json.Unmarshal([]byte(result.Metafile), &meta)

	sourcemaps := make(map[string]string)
	for _, file := range result.OutputFiles {
		if strings.HasSuffix(file.Path, ".map") {
			sourcemaps[strings.TrimSuffix(file.Path, ".map")] = string(file.Contents)
		}
	}

	var outputs []cache.SerializedOutput
	for _, file := range result.OutputFiles {
		if strings.HasSuffix(file.Path, ".map") {
			continue
		}

		filename := file.Path
		if rel, err := filepath.Rel(cfg.Cwd, file.Path); err == nil && !strings.HasPrefix(rel, "..") {
			filename = rel
		}

		output := cache.SerializedOutput{
			Filename: filename,
			MapJSON:  sourcemaps[file.Path],
		}

		if isChunkFile(file.Path) {
			output.Kind = cache.OutputChunk
			output.Name = strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
			output.Code = string(file.Contents)
			if info, ok := meta.Outputs[filename]; ok {
				output.IsEntry = info.EntryPoint != ""
				output.Exports = info.Exports
				for input := range info.Inputs {
					output.ModuleIDs = append(output.ModuleIDs, input)
				}
				sort.Strings(output.ModuleIDs)
				for _, imp := range info.Imports {
					if imp.Kind == "dynamic-import" {
						output.DynamicImports = append(output.DynamicImports, imp.Path)
					} else {
						output.Imports = append(output.Imports, imp.Path)
					}
				}
			}
		} else {
			output.Kind = cache.OutputAsset
			output.Contents = file.Contents
		}

		outputs = append(outputs, output)
	}

	return outputs
}

func isChunkFile(path string) bool {
	switch filepath.Ext(path) {
	case ".js", ".mjs", ".cjs":
		return true
	default:
		return false
	}
}

func engineFormat(format config.Format) api.Format {
	switch format {
	case config.FormatCJS:
		return api.FormatCommonJS
	case config.FormatIIFE:
		return api.FormatIIFE
	default:
		return api.FormatESModule
	}
}

func engineSourcemap(mode config.SourcemapMode) api.SourceMap {
	switch mode {
	case config.SourcemapInline:
		return api.SourceMapInline
	case config.SourcemapExternal:
		return api.SourceMapLinked
	case config.SourcemapHidden:
		return api.SourceMapExternal
	default:
		return api.SourceMapNone
	}
}

// resolveEntryForEngine maps a configured entry onto what the engine should
// receive: virtual ids pass through, filesystem entries become absolute.
func resolveEntryForEngine(cfg *config.BuildConfig, entry string) string {
	if strings.HasPrefix(entry, graph.VirtualPrefix) {
		return entry
	}
	if _, ok := cfg.VirtualFiles[entry]; ok {
		return entry
	}
	if filepath.IsAbs(entry) {
		return entry
	}
	return filepath.Join(cfg.Cwd, entry)
}
