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

package resolver_test

import (
	"testing"

	"bennypowers.dev/fob/config"
	"bennypowers.dev/fob/internal/mapfs"
	"bennypowers.dev/fob/resolver"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		setup     func(mfs *mapfs.MapFileSystem)
		cfg       func(cfg *config.BuildConfig)
		specifier string
		from      string
		wantKind  resolver.ResultKind
		wantPath  string
	}{
		{
			name: "relative with extension",
			setup: func(mfs *mapfs.MapFileSystem) {
				mfs.AddFile("/proj/src/utils.ts", "export const u = 1;", 0644)
			},
			specifier: "./utils.ts",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindLocal,
			wantPath:  "/proj/src/utils.ts",
		},
		{
			name: "relative extension completion prefers ts",
			setup: func(mfs *mapfs.MapFileSystem) {
				mfs.AddFile("/proj/src/utils.ts", "", 0644)
				mfs.AddFile("/proj/src/utils.js", "", 0644)
			},
			specifier: "./utils",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindLocal,
			wantPath:  "/proj/src/utils.ts",
		},
		{
			name: "js when no ts exists",
			setup: func(mfs *mapfs.MapFileSystem) {
				mfs.AddFile("/proj/src/legacy.js", "", 0644)
			},
			specifier: "./legacy",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindLocal,
			wantPath:  "/proj/src/legacy.js",
		},
		{
			name: "index completion",
			setup: func(mfs *mapfs.MapFileSystem) {
				mfs.AddFile("/proj/src/components/index.tsx", "", 0644)
			},
			specifier: "./components",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindLocal,
			wantPath:  "/proj/src/components/index.tsx",
		},
		{
			name: "parent relative",
			setup: func(mfs *mapfs.MapFileSystem) {
				mfs.AddFile("/proj/shared.ts", "", 0644)
			},
			specifier: "../shared",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindLocal,
			wantPath:  "/proj/shared.ts",
		},
		{
			name: "absolute resolves against cwd",
			setup: func(mfs *mapfs.MapFileSystem) {
				mfs.AddFile("/proj/src/abs.ts", "", 0644)
			},
			specifier: "/src/abs",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindLocal,
			wantPath:  "/proj/src/abs.ts",
		},
		{
			name:      "bare specifier is external",
			specifier: "react",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindExternal,
			wantPath:  "react",
		},
		{
			name: "configured external wins",
			cfg: func(cfg *config.BuildConfig) {
				cfg.External = []string{"lodash"}
			},
			specifier: "lodash/merge",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindExternal,
			wantPath:  "lodash/merge",
		},
		{
			name: "alias substitutes prefix",
			setup: func(mfs *mapfs.MapFileSystem) {
				mfs.AddFile("/proj/src/components/button.ts", "", 0644)
			},
			cfg: func(cfg *config.BuildConfig) {
				cfg.PathAliases = []config.PathAlias{{Prefix: "@", Target: "./src"}}
			},
			specifier: "@/components/button",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindLocal,
			wantPath:  "/proj/src/components/button.ts",
		},
		{
			name: "first alias wins",
			setup: func(mfs *mapfs.MapFileSystem) {
				mfs.AddFile("/proj/first/mod.ts", "", 0644)
				mfs.AddFile("/proj/second/mod.ts", "", 0644)
			},
			cfg: func(cfg *config.BuildConfig) {
				cfg.PathAliases = []config.PathAlias{
					{Prefix: "~", Target: "./first"},
					{Prefix: "~", Target: "./second"},
				}
			},
			specifier: "~/mod",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindLocal,
			wantPath:  "/proj/first/mod.ts",
		},
		{
			name:      "missing relative is unresolved not error",
			specifier: "./missing",
			from:      "/proj/src/index.ts",
			wantKind:  resolver.KindUnresolved,
			wantPath:  "./missing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mfs := mapfs.New()
			if tt.setup != nil {
				tt.setup(mfs)
			}
			cfg := config.Default()
			cfg.Cwd = "/proj"
			if tt.cfg != nil {
				tt.cfg(cfg)
			}

			r := resolver.New(mfs, cfg)
			result := r.Resolve(tt.specifier, tt.from)

			if result.Kind != tt.wantKind {
				t.Fatalf("Resolve(%q) kind = %v, want %v", tt.specifier, result.Kind, tt.wantKind)
			}
			got := result.Path
			if tt.wantKind != resolver.KindLocal {
				got = result.Specifier
			}
			if got != tt.wantPath {
				t.Errorf("Resolve(%q) = %q, want %q", tt.specifier, got, tt.wantPath)
			}
		})
	}
}

func TestExtensionOrderIsStable(t *testing.T) {
	want := []string{".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs"}
	if len(resolver.Extensions) != len(want) {
		t.Fatalf("Extensions = %v, want %v", resolver.Extensions, want)
	}
	for i, ext := range want {
		if resolver.Extensions[i] != ext {
			t.Errorf("Extensions[%d] = %q, want %q", i, resolver.Extensions[i], ext)
		}
	}
}
