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

package graph

// ExportKind classifies an export declaration.
type ExportKind string

const (
	ExportNamed    ExportKind = "named"
	ExportDefault  ExportKind = "default"
	ExportReExport ExportKind = "re-export"
	// ExportStarReExport is `export * from './module'`: every named export of
	// the source module is re-exported without naming them individually.
	ExportStarReExport ExportKind = "star-re-export"
	ExportTypeOnly     ExportKind = "type-only"
)

// StarExportName is the synthetic name under which star re-exports are
// recorded.
const StarExportName = "*"

// Export is one export of a module, with usage bookkeeping filled in by the
// analysis queries.
type Export struct {
	Name string     `json:"name"`
	Kind ExportKind `json:"kind"`

	IsUsed     bool `json:"isUsed"`
	IsTypeOnly bool `json:"isTypeOnly"`

	// ReExportedFrom holds the source specifier for re-exports.
	ReExportedFrom *string `json:"reExportedFrom,omitempty"`

	// IsFrameworkUsed marks exports consumed by framework convention rather
	// than any static import.
	IsFrameworkUsed bool `json:"isFrameworkUsed"`

	// CameFromCommonJS marks exports synthesized from CommonJS modules,
	// relevant for CJS/ESM interop.
	CameFromCommonJS bool `json:"cameFromCommonJS"`

	Span SourceSpan `json:"span"`

	// UsageCount is the number of import specifiers across the graph that
	// bind this export. nil means not yet computed; a pointer to 0 means
	// confirmed unused.
	UsageCount *int `json:"usageCount,omitempty"`
}

// MarkUsed marks the export as consumed by another module.
func (e *Export) MarkUsed() {
	e.IsUsed = true
}

// MarkFrameworkUsed marks the export as consumed by framework convention.
func (e *Export) MarkFrameworkUsed() {
	e.IsFrameworkUsed = true
	e.IsUsed = true
}

// IsReExport reports whether the export re-exports from another module.
func (e *Export) IsReExport() bool {
	return e.Kind == ExportReExport || e.Kind == ExportStarReExport
}

// IsStarReExport reports whether this is `export * from`.
func (e *Export) IsStarReExport() bool {
	return e.Kind == ExportStarReExport
}

// SetUsageCount records a computed usage count.
func (e *Export) SetUsageCount(n int) {
	e.UsageCount = &n
}

// IncrementUsageCount bumps the usage count, initializing it when unset.
func (e *Export) IncrementUsageCount() {
	n := 1
	if e.UsageCount != nil {
		n = *e.UsageCount + 1
	}
	e.UsageCount = &n
}

// ResetUsageCount clears the count so it reads as uncomputed.
func (e *Export) ResetUsageCount() {
	e.UsageCount = nil
}
