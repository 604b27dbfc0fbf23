/*
 * raycast.go, part of gomol.
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

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RayHit returns the specifier of the first atom whose van der Waals sphere
// contains a sample point of the ray, marching from where the ray enters the
// bounding volume. The march step is a tenth of the smallest supported
// atomic radius, so it is still possible to miss an atom clipped at its very
// edge, but that is rare. Linear in atoms times steps; fine at the atom
// counts an interactive editing session reaches.
//
// Returns false if the ray misses the bounding volume, if the volume lies
// fully behind the ray, or if no sphere is hit.
func (m *MoleculeRepr) RayHit(origin, direction r3.Vec) (AtomSpecifier, bool) {
	if r3.Norm(direction) == 0 {
		return AtomSpecifier{}, false
	}
	dir := r3.Unit(direction)

	tmin, tmax, ok := m.bbox.RayHitTimes(origin, dir)
	if !ok || tmax <= 0 {
		return AtomSpecifier{}, false
	}

	//The direction is normalized, so a unit of "time" is a unit of space
	//and the march can work in distances.
	stepSize := m.table.MinRadius() / 10
	current := r3.Add(origin, r3.Scale(math.Max(0, tmin), dir)) //only march forwards
	step := r3.Scale(stepSize, dir)
	numSteps := int((tmax - math.Max(0, tmin)) / stepSize)

	atoms := m.Atoms()
	for i := 0; i <= numSteps; i++ {
		for _, at := range atoms {
			radius := m.table.Radius(at.Element)
			d := r3.Sub(current, m.positions[at.Spec])
			if r3.Norm2(d) < radius*radius {
				return at.Spec, true
			}
		}
		current = r3.Add(current, step)
	}
	return AtomSpecifier{}, false
}
