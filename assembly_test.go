/*
 * assembly_test.go, part of gomol.
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
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func vecClose(a, b r3.Vec, tol float64) bool {
	return r3.Norm(r3.Sub(a, b)) < tol
}

func TestTransformApply(Te *testing.T) {
	id := Identity()
	p := r3.Vec{X: 1, Y: 2, Z: 3}
	if got := id.Apply(p); !vecClose(got, p, 1e-12) {
		Te.Errorf("identity moved the point: %v", got)
	}
	//quarter turn around Z takes +X to +Y
	t := Transform{
		Rotation: r3.NewRotation(math.Pi/2, r3.Vec{Z: 1}),
		Offset:   r3.Vec{Z: 5},
	}
	got := t.Apply(r3.Vec{X: 1})
	if !vecClose(got, r3.Vec{Y: 1, Z: 5}, 1e-12) {
		Te.Errorf("quarter turn + lift gave %v, expected (0 1 5)", got)
	}
}

func TestTransformCompose(Te *testing.T) {
	quarter := Transform{Rotation: r3.NewRotation(math.Pi/2, r3.Vec{Z: 1})}
	shift := Transform{Rotation: r3.NewRotation(0, r3.Vec{Z: 1}), Offset: r3.Vec{X: 1}}
	//shift first, then rotate: composed(p) == quarter(shift(p))
	composed := quarter.Compose(shift)
	p := r3.Vec{X: 1}
	want := quarter.Apply(shift.Apply(p))
	got := composed.Apply(p)
	if !vecClose(got, want, 1e-12) {
		Te.Errorf("composition gave %v, direct application gave %v", got, want)
	}
	if !vecClose(got, r3.Vec{Y: 2}, 1e-12) {
		Te.Errorf("quarter(shift) of +X should be (0 2 0), got %v", got)
	}
}

func TestAssemblyWalk(Te *testing.T) {
	mA := NewMolecule(RootAtom{Element: "C"})
	mB := NewMolecule(RootAtom{Element: "O"})
	inner := FromComponents(
		MoleculeComponent(mB, Transform{Rotation: Identity().Rotation, Offset: r3.Vec{Y: 1}}),
	)
	outer := FromComponents(
		MoleculeComponent(mA, Transform{Rotation: Identity().Rotation, Offset: r3.Vec{X: 1}}),
	)
	outer.Add(AssemblyComponent(inner, Transform{Rotation: Identity().Rotation, Offset: r3.Vec{X: 10}}))

	seen := make(map[*Molecule]Transform)
	outer.Walk(func(m *Molecule, t Transform) {
		seen[m] = t
	})
	if len(seen) != 2 {
		Te.Fatalf("walk visited %d molecules, expected 2", len(seen))
	}
	if got := seen[mA].Apply(r3.Vec{}); !vecClose(got, r3.Vec{X: 1}, 1e-12) {
		Te.Errorf("direct component origin maps to %v, expected (1 0 0)", got)
	}
	//nested components compose the parent transform with their own
	if got := seen[mB].Apply(r3.Vec{}); !vecClose(got, r3.Vec{X: 10, Y: 1}, 1e-12) {
		Te.Errorf("nested component origin maps to %v, expected (10 1 0)", got)
	}
}

func TestAssemblyEmptyWalk(Te *testing.T) {
	var a Assembly
	calls := 0
	a.Walk(func(*Molecule, Transform) { calls++ })
	if calls != 0 {
		Te.Errorf("empty assembly visited %d molecules", calls)
	}
}
