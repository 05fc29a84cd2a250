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

package parse

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"bennypowers.dev/fob/graph"
)

// AnalyzeSymbols runs the semantic pass over one module: declared symbols
// with read/write counts, qualified member references, and statically
// unreachable statements.
//
// The signature matches graph.SymbolAnalyzer so conversion can call it
// directly.
func AnalyzeSymbols(path string, code string, sourceType graph.SourceType) (*graph.SymbolTable, error) {
	qm, err := GetQueryManager()
	if err != nil {
		return nil, err
	}

	content := []byte(code)
	dialect := dialectFor(sourceType)
	parser := getParser(dialect)
	defer putParser(dialect, parser)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse content")
	}
	defer tree.Close()

	query, err := qm.Query(dialect, "symbols")
	if err != nil {
		return nil, err
	}

	table := graph.NewSymbolTable()

	cursor := ts.NewQueryCursor()
	defer cursor.Close()
	captureNames := query.CaptureNames()

	// declSpans lets the reference walk skip the declaring identifier itself.
	declSpans := make(map[string][2]uint32)

	matches := cursor.Matches(query, tree.RootNode(), content)
	for {
		match := matches.Next()
		if match == nil {
			break
		}
		for _, capture := range match.Captures {
			kind := symbolKindFor(captureNames[capture.Index])
			for _, sym := range declaredSymbols(&capture.Node, content, kind, path) {
				table.Add(sym)
				declSpans[sym.Name] = [2]uint32{sym.Span.Start, sym.Span.End}
			}
		}
	}

	countReferences(tree.RootNode(), content, path, table, declSpans)
	table.UnreachableCode = findUnreachable(tree.RootNode(), path)

	return table, nil
}

func symbolKindFor(capture string) graph.SymbolKind {
	switch capture {
	case "symbol.function":
		return graph.SymbolFunction
	case "symbol.class":
		return graph.SymbolClass
	case "symbol.typealias":
		return graph.SymbolTypeAlias
	case "symbol.interface":
		return graph.SymbolInterface
	case "symbol.enum":
		return graph.SymbolEnum
	case "symbol.variable":
		return graph.SymbolVariable
	default:
		return graph.SymbolUnknown
	}
}

// declaredSymbols extracts the names a declaration node introduces.
func declaredSymbols(node *ts.Node, content []byte, kind graph.SymbolKind, file string) []*graph.Symbol {
	var symbols []*graph.Symbol

	add := func(name *ts.Node) {
		symbols = append(symbols, &graph.Symbol{
			Name: name.Utf8Text(content),
			Kind: kind,
			Span: graph.NewSourceSpan(file, uint32(name.StartByte()), uint32(name.EndByte())),
		})
	}

	switch node.Kind() {
	case "lexical_declaration", "variable_declaration":
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child == nil || child.Kind() != "variable_declarator" {
				continue
			}
			if name := child.ChildByFieldName("name"); name != nil && name.Kind() == "identifier" {
				add(name)
			}
		}
	default:
		if name := node.ChildByFieldName("name"); name != nil {
			add(name)
		}
	}

	return symbols
}

// countReferences walks the whole tree counting identifier reads and writes
// against known symbols, and collects qualified member references rooted at a
// symbol.
func countReferences(root *ts.Node, content []byte, file string, table *graph.SymbolTable, declSpans map[string][2]uint32) {
	var walk func(node *ts.Node)
	walk = func(node *ts.Node) {
		switch node.Kind() {
		case "assignment_expression", "augmented_assignment_expression":
			if left := node.ChildByFieldName("left"); left != nil && left.Kind() == "identifier" {
				if sym, ok := table.Get(left.Utf8Text(content)); ok {
					sym.WriteCount++
				}
				if right := node.ChildByFieldName("right"); right != nil {
					walk(right)
				}
				return
			}
		case "update_expression":
			if arg := node.ChildByFieldName("argument"); arg != nil && arg.Kind() == "identifier" {
				if sym, ok := table.Get(arg.Utf8Text(content)); ok {
					sym.WriteCount++
				}
				return
			}
		case "member_expression":
			if base, path := memberPath(node, content); base != "" {
				if sym, ok := table.Get(base); ok {
					sym.ReadCount++
					sym.QualifiedReferences = append(sym.QualifiedReferences, graph.QualifiedReference{
						MemberPath: path,
						Span:       graph.NewSourceSpan(file, uint32(node.StartByte()), uint32(node.EndByte())),
					})
				}
				return
			}
		case "identifier":
			name := node.Utf8Text(content)
			if sym, ok := table.Get(name); ok {
				span := declSpans[name]
				if uint32(node.StartByte()) != span[0] || uint32(node.EndByte()) != span[1] {
					sym.ReadCount++
				}
			}
			return
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(root)
}

// memberPath decomposes a member expression chain into its base identifier
// and member path, e.g. config.server.port -> ("config", ["server", "port"]).
func memberPath(node *ts.Node, content []byte) (string, []string) {
	var path []string
	current := node
	for current.Kind() == "member_expression" {
		property := current.ChildByFieldName("property")
		if property == nil {
			return "", nil
		}
		path = append([]string{property.Utf8Text(content)}, path...)
		current = current.ChildByFieldName("object")
		if current == nil {
			return "", nil
		}
	}
	if current.Kind() != "identifier" {
		return "", nil
	}
	return current.Utf8Text(content), path
}

// terminatingKinds end the statement flow of a block.
var terminatingKinds = map[string]bool{
	"return_statement":   true,
	"throw_statement":    true,
	"break_statement":    true,
	"continue_statement": true,
}

// findUnreachable collects spans of statements that follow a terminating
// statement inside the same block.
func findUnreachable(root *ts.Node, file string) []graph.SourceSpan {
	var unreachable []graph.SourceSpan

	var walk func(node *ts.Node)
	walk = func(node *ts.Node) {
		if node.Kind() == "statement_block" {
			terminated := false
			for i := uint(0); i < node.ChildCount(); i++ {
				child := node.Child(i)
				if child == nil || child.Kind() == "{" || child.Kind() == "}" || child.Kind() == "comment" {
					continue
				}
				if terminated {
					unreachable = append(unreachable, graph.NewSourceSpan(
						file, uint32(child.StartByte()), uint32(child.EndByte())))
					continue
				}
				if terminatingKinds[child.Kind()] {
					terminated = true
				}
			}
		}
		for i := uint(0); i < node.ChildCount(); i++ {
			if child := node.Child(i); child != nil {
				walk(child)
			}
		}
	}
	walk(root)

	return unreachable
}
