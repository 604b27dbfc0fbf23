/*
 * atomicdata.go, part of gomol.
 *
 * Copyright 2024 The gomol developers
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package mol

//A map for assigning mass to elements.
//Note that just common "bio-elements" are present
var symbolMass = map[string]float64{
	"H":  1.0,
	"C":  12.01,
	"O":  16.00,
	"N":  14.01,
	"P":  30.97,
	"S":  32.06,
	"Se": 78.96,
	"K":  39.1,
	"Ca": 40.08,
	"Mg": 24.30,
	"Cl": 35.45,
	"Na": 22.99,
	"Cu": 63.55,
	"Zn": 65.38,
	"Co": 58.93,
	"Fe": 55.84,
	"Mn": 54.94,
	"Cr": 51.996,
	"Si": 28.08,
	"Be": 9.012,
	"F":  18.998,
	"Br": 79.904,
	"I":  126.90,
}

//A map for assigning covalent radii to elements
//Values from Cordero et al., 2008 (DOI:10.1039/B801115J)
//Note that just common "bio-elements" are present
var symbolCovrad = map[string]float64{
	"H":  0.4, //0.31 by the reference, but H only ever has one bond so a longer radius doesn't hurt.
	"C":  0.76,
	"O":  0.66,
	"N":  0.71,
	"P":  1.07,
	"S":  1.05,
	"Se": 1.2,
	"K":  2.03,
	"Ca": 1.76,
	"Mg": 1.41,
	"Cl": 1.02,
	"Na": 1.66,
	"Cu": 1.32,
	"Zn": 1.22,
	"Co": 1.5,
	"Fe": 1.52,
	"Mn": 1.61,
	"Cr": 1.39,
	"Si": 1.11,
	"Be": 0.96,
	"F":  0.57,
	"Br": 1.2,
	"I":  1.39,
}

//A map for assigning van der Waals radii to elements
//Values from 10.1021/j100785a001 and 10.1021/jp8111556,
//metal radii from 10.1023/A:1011625728803
//Note that just common "bio-elements" are present
var symbolVdwrad = map[string]float64{
	"H":  1.10,
	"C":  1.70,
	"O":  1.52,
	"N":  1.55,
	"P":  1.80,
	"S":  1.80,
	"Se": 1.90,
	"K":  2.75,
	"Ca": 2.31,
	"Mg": 1.73,
	"Cl": 1.75,
	"Na": 2.27,
	"Cu": 2.00,
	"Zn": 2.02,
	"Co": 1.95,
	"Fe": 1.96,
	"Mn": 1.96,
	"Cr": 1.97,
	"Si": 2.10,
	"Be": 1.53,
	"F":  1.47,
	"Br": 1.83,
	"I":  1.98,
}

//A map for checking that atoms don't have too many bonds.
//A value of 0 means undefined, i.e. that the atom shouldn't
//be checked for max bonds.
var symbolMaxBonds = map[string]int{
	"H":  1, //this is the only one truly important.
	"C":  4,
	"O":  2,
	"N":  0,
	"P":  0,
	"S":  0,
	"Se": 0,
	"Be": 0,
	"F":  1,
	"Br": 1,
	"I":  1,
}

// PeriodicTable holds the read-only physical constants for the supported
// elements. It is a plain value so callers can inject their own (say, with
// extra elements or different radii) instead of relying on a process-wide
// global. Collision and bounding-volume logic use the van der Waals radius.
type PeriodicTable struct {
	mass      map[string]float64
	covrad    map[string]float64
	vdwrad    map[string]float64
	maxBonds  map[string]int
	minVdwrad float64
}

// NewPeriodicTable returns a table with the built-in "bio-element" data.
func NewPeriodicTable() *PeriodicTable {
	t := &PeriodicTable{
		mass:     symbolMass,
		covrad:   symbolCovrad,
		vdwrad:   symbolVdwrad,
		maxBonds: symbolMaxBonds,
	}
	for _, r := range t.vdwrad {
		if t.minVdwrad == 0 || r < t.minVdwrad {
			t.minVdwrad = r
		}
	}
	return t
}

var defaultTable = NewPeriodicTable()

// DefaultTable returns the table used when no table is injected explicitly.
// The returned value must be treated as read-only.
func DefaultTable() *PeriodicTable {
	return defaultTable
}

// Radius returns the van der Waals radius for the element with the given
// symbol, or 0 if the element is not in the table.
func (t *PeriodicTable) Radius(symbol string) float64 {
	return t.vdwrad[symbol]
}

// CovalentRadius returns the covalent radius for symbol, or 0 if unknown.
func (t *PeriodicTable) CovalentRadius(symbol string) float64 {
	return t.covrad[symbol]
}

// Mass returns the atomic mass for symbol, or 0 if unknown.
func (t *PeriodicTable) Mass(symbol string) float64 {
	return t.mass[symbol]
}

// MaxBonds returns the maximum number of bonds conventionally formed by
// the element, or 0 if no maximum is defined for it.
func (t *PeriodicTable) MaxBonds(symbol string) int {
	return t.maxBonds[symbol]
}

// MinRadius returns the smallest van der Waals radius in the table. The ray
// marching step is derived from it.
func (t *PeriodicTable) MinRadius() float64 {
	return t.minVdwrad
}

// Known reports whether the element with the given symbol is in the table.
func (t *PeriodicTable) Known(symbol string) bool {
	_, ok := t.vdwrad[symbol]
	return ok
}
