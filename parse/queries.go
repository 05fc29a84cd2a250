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

// Package parse extracts module structure (imports, exports, symbols) from
// JavaScript and TypeScript sources using tree-sitter.
package parse

import (
	"embed"
	"fmt"
	"path"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	tsTypescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

//go:embed queries/*/*.scm
var queryFiles embed.FS

// Languages holds pre-initialized tree-sitter grammars. The TSX dialect
// parses JSX/TSX sources; plain TypeScript covers everything else.
var languages = struct {
	typescript *ts.Language
	tsx        *ts.Language
}{
	ts.NewLanguage(tsTypescript.LanguageTypescript()),
	ts.NewLanguage(tsTypescript.LanguageTSX()),
}

// Parser pools for reuse.
var (
	tsParserPool = sync.Pool{
		New: func() any {
			parser := ts.NewParser()
			if err := parser.SetLanguage(languages.typescript); err != nil {
				panic("failed to set TypeScript language: " + err.Error())
			}
			return parser
		},
	}

	tsxParserPool = sync.Pool{
		New: func() any {
			parser := ts.NewParser()
			if err := parser.SetLanguage(languages.tsx); err != nil {
				panic("failed to set TSX language: " + err.Error())
			}
			return parser
		},
	}
)

func getParser(dialect string) *ts.Parser {
	if dialect == "tsx" {
		return tsxParserPool.Get().(*ts.Parser)
	}
	return tsParserPool.Get().(*ts.Parser)
}

func putParser(dialect string, p *ts.Parser) {
	p.Reset()
	if dialect == "tsx" {
		tsxParserPool.Put(p)
		return
	}
	tsParserPool.Put(p)
}

// QueryManager manages tree-sitter queries for the TypeScript dialects.
type QueryManager struct {
	mu         sync.Mutex
	closed     bool
	typescript map[string]*ts.Query
	tsx        map[string]*ts.Query
}

// NewQueryManager creates a QueryManager with the named queries loaded for
// both dialects.
func NewQueryManager(names []string) (*QueryManager, error) {
	qm := &QueryManager{
		typescript: make(map[string]*ts.Query),
		tsx:        make(map[string]*ts.Query),
	}

	for _, name := range names {
		if err := qm.loadQuery("typescript", name); err != nil {
			qm.Close()
			return nil, err
		}
		if err := qm.loadQuery("tsx", name); err != nil {
			qm.Close()
			return nil, err
		}
	}

	return qm, nil
}

func (qm *QueryManager) loadQuery(dialect, name string) error {
	// Both dialects share one query source; the grammars accept the same
	// patterns for module structure.
	queryPath := path.Join("queries", "typescript", name+".scm")
	data, err := queryFiles.ReadFile(queryPath)
	if err != nil {
		return fmt.Errorf("failed to read query %s: %w", queryPath, err)
	}

	var lang *ts.Language
	switch dialect {
	case "typescript":
		lang = languages.typescript
	case "tsx":
		lang = languages.tsx
	default:
		return fmt.Errorf("unknown dialect: %s", dialect)
	}

	query, qerr := ts.NewQuery(lang, string(data))
	if qerr != nil {
		return fmt.Errorf("failed to parse query %s: %w", name, qerr)
	}

	switch dialect {
	case "typescript":
		qm.typescript[name] = query
	case "tsx":
		qm.tsx[name] = query
	}

	return nil
}

// Close releases all query resources. Safe to call multiple times.
func (qm *QueryManager) Close() {
	qm.mu.Lock()
	if qm.closed {
		qm.mu.Unlock()
		return
	}
	qm.closed = true
	tsQueries := qm.typescript
	tsxQueries := qm.tsx
	qm.typescript = nil
	qm.tsx = nil
	qm.mu.Unlock()

	for _, q := range tsQueries {
		q.Close()
	}
	for _, q := range tsxQueries {
		q.Close()
	}
}

// Query returns a query by dialect and name.
func (qm *QueryManager) Query(dialect, name string) (*ts.Query, error) {
	var q *ts.Query
	var ok bool
	switch dialect {
	case "typescript":
		q, ok = qm.typescript[name]
	case "tsx":
		q, ok = qm.tsx[name]
	}
	if !ok {
		return nil, fmt.Errorf("query not found: %s/%s", dialect, name)
	}
	return q, nil
}

// Global query manager singleton
var (
	globalQM     *QueryManager
	globalQMOnce sync.Once
	globalQMErr  error
)

// GetQueryManager returns the global query manager instance.
func GetQueryManager() (*QueryManager, error) {
	globalQMOnce.Do(func() {
		globalQM, globalQMErr = NewQueryManager([]string{"structure", "symbols"})
	})
	return globalQM, globalQMErr
}
