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

// ExternalDependency aggregates every importer of one external or unresolved
// specifier. One record exists per distinct specifier.
type ExternalDependency struct {
	Specifier string     `json:"specifier"`
	Importers []ModuleID `json:"importers"`
}

// NewExternalDependency creates a record with no importers yet.
func NewExternalDependency(specifier string) *ExternalDependency {
	return &ExternalDependency{Specifier: specifier}
}

// PushImporter records a module that imports the specifier, absorbing
// duplicates.
func (d *ExternalDependency) PushImporter(id ModuleID) {
	for _, existing := range d.Importers {
		if existing == id {
			return
		}
	}
	d.Importers = append(d.Importers, id)
}
