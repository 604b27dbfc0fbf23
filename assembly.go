/*
 * assembly.go, part of gomol.
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

import "gonum.org/v1/gonum/spatial/r3"

// Transform places a component in its parent's space: a rotation followed
// by an offset.
type Transform struct {
	Rotation r3.Rotation `json:"rotation"`
	Offset   r3.Vec      `json:"offset"`
}

// Identity returns the do-nothing transform.
func Identity() Transform {
	return Transform{Rotation: r3.NewRotation(0, r3.Vec{Z: 1})}
}

// Apply transforms a point from the component's space to the parent's.
func (t Transform) Apply(p r3.Vec) r3.Vec {
	return r3.Add(t.Rotation.Rotate(p), t.Offset)
}

// Compose returns the transform equivalent to applying inner, then t.
func (t Transform) Compose(inner Transform) Transform {
	return Transform{
		Rotation: r3.Rotation(composeQuat(t.Rotation, inner.Rotation)),
		Offset:   r3.Add(t.Rotation.Rotate(inner.Offset), t.Offset),
	}
}

func composeQuat(a, b r3.Rotation) r3.Rotation {
	//Hamilton product a*b, so b's rotation happens first.
	return r3.Rotation{
		Real: a.Real*b.Real - a.Imag*b.Imag - a.Jmag*b.Jmag - a.Kmag*b.Kmag,
		Imag: a.Real*b.Imag + a.Imag*b.Real + a.Jmag*b.Kmag - a.Kmag*b.Jmag,
		Jmag: a.Real*b.Jmag - a.Imag*b.Kmag + a.Jmag*b.Real + a.Kmag*b.Imag,
		Kmag: a.Real*b.Kmag + a.Imag*b.Jmag - a.Jmag*b.Imag + a.Kmag*b.Real,
	}
}

// Component is one entry of an assembly: either a molecule or a nested
// subassembly, with a transform into the parent's space.
type Component struct {
	transform Transform
	molecule  *Molecule
	sub       *Assembly
}

// MoleculeComponent wraps a molecule for inclusion in an assembly.
func MoleculeComponent(m *Molecule, t Transform) Component {
	return Component{transform: t, molecule: m}
}

// AssemblyComponent nests an assembly inside another.
func AssemblyComponent(a *Assembly, t Transform) Component {
	return Component{transform: t, sub: a}
}

// Assembly is a tree of molecules with per-component placement transforms.
// The zero value is an empty assembly.
type Assembly struct {
	components []Component
}

// FromComponents builds an assembly.
func FromComponents(components ...Component) *Assembly {
	return &Assembly{components: components}
}

// Add appends a component.
func (a *Assembly) Add(c Component) {
	a.components = append(a.components, c)
}

// Walk visits every molecule in the tree, depth-first, passing the transform
// that takes the molecule's local coordinates to the assembly's space.
func (a *Assembly) Walk(f func(*Molecule, Transform)) {
	type frame struct {
		a   *Assembly
		acc Transform
	}
	stack := []frame{{a, Identity()}}
	for len(stack) > 0 {
		fr := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range fr.a.components {
			acc := fr.acc.Compose(c.transform)
			if c.molecule != nil {
				f(c.molecule, acc)
			}
			if c.sub != nil {
				stack = append(stack, frame{c.sub, acc})
			}
		}
	}
}
