/*
 * atom.go, part of gomol.
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
	"fmt"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/spatial/r3"
)

// AtomSpecifier identifies an atom across the whole edit history. It names
// the feature application that created the atom plus a counter among the
// atoms created by that application, so it is deterministic on replay and
// independent of the graph's internal index space. Internal graph indices
// may be reused after deletions; specifiers never are, so they are the only
// atom reference that crosses the package boundary.
type AtomSpecifier struct {
	Feature FeatureID `json:"feature"`
	Child   int       `json:"child"`
}

// NewAtomSpecifier returns the specifier for the child-th atom created by
// the feature with the given ID.
func NewAtomSpecifier(feature FeatureID, child int) AtomSpecifier {
	return AtomSpecifier{Feature: feature, Child: child}
}

func (s AtomSpecifier) String() string {
	return fmt.Sprintf("%d.%d", s.Feature, s.Child)
}

// BondOrder is the order of a bond (single bond = 1, double bond = 2, ...).
// Fractional bonding is not supported, and bonds cannot be negative. Nothing
// prevents an unrealistic order (5+), but normally a bond has order 1 to 4.
type BondOrder uint8

// AtomNode is the data stored for each atom in a molecular graph. It
// implements graph.Node; the internal graph ID is never exposed outside
// the package.
type AtomNode struct {
	Element string        `json:"element"`
	Spec    AtomSpecifier `json:"spec"`
	// Head is the atom this one was bonded to when it was created, and
	// defines the atom's "forward" direction. A root atom has no head and
	// faces along the molecule's +Z axis. Needed to describe molecular
	// geometry in terms of bond angles and lengths.
	Head *AtomSpecifier `json:"head,omitempty"`

	id int64
}

// ID implements graph.Node.
func (a *AtomNode) ID() int64 { return a.id }

// Forward returns the normalized direction this atom is "facing": toward its
// head atom, or +Z if it has none. It panics if either position is missing,
// since an atom present in the graph without a position means the library
// itself is broken.
func (a *AtomNode) Forward(ctx EditContext) r3.Vec {
	if a.Head == nil {
		return r3.Vec{Z: 1}
	}
	headPos, ok := ctx.Pos(*a.Head)
	if !ok {
		panic(fmt.Sprintf("gomol: head atom %v of %v has no position", *a.Head, a.Spec))
	}
	pos, ok := ctx.Pos(a.Spec)
	if !ok {
		panic(fmt.Sprintf("gomol: atom %v has no position", a.Spec))
	}
	d := r3.Sub(headPos, pos)
	if r3.Norm(d) == 0 {
		return r3.Vec{Z: 1} //degenerate, the atoms coincide
	}
	return r3.Unit(d)
}

// Bond is an edge of the molecular graph. It implements graph.Line so that
// parallel bonds between the same pair of atoms are representable. Bonds
// carry no stable external identity: refer to a bond by the specifiers of
// its two atoms.
type Bond struct {
	F, T  *AtomNode
	Order BondOrder

	id int64
}

// From implements graph.Line.
func (b *Bond) From() graph.Node { return b.F }

// To implements graph.Line.
func (b *Bond) To() graph.Node { return b.T }

// ID implements graph.Line.
func (b *Bond) ID() int64 { return b.id }

// ReversedLine implements graph.Line.
func (b *Bond) ReversedLine() graph.Line {
	return &Bond{F: b.T, T: b.F, Order: b.Order, id: b.id}
}

// Cross returns the atom at the other end of the bond from origin. It panics
// if origin is not an endpoint, as that is a programming error.
func (b *Bond) Cross(origin *AtomNode) *AtomNode {
	if origin.Spec == b.F.Spec {
		return b.T
	}
	if origin.Spec == b.T.Spec {
		return b.F
	}
	panic("gomol: trying to cross a bond from an atom that is not an endpoint")
}

// AtomRepr is the flat, renderer-facing snapshot of one atom.
type AtomRepr struct {
	Spec    AtomSpecifier
	Element string
	Pos     r3.Vec
}

// BondRepr is the flat, renderer-facing snapshot of one bond.
type BondRepr struct {
	StartPos r3.Vec
	EndPos   r3.Vec
	Order    BondOrder
}
