/*
 * graph.go, part of gomol.
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
	"sort"

	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/spatial/r3"
)

// AtomPositions assigns each atom in a molecule a coordinate. It caches the
// result of the force-relaxation step so scrubbing the history does not
// recompute geometry that is already settled.
type AtomPositions map[AtomSpecifier]r3.Vec

// Copy returns an independent copy of the position map.
func (p AtomPositions) Copy() AtomPositions {
	n := make(AtomPositions, len(p))
	for k, v := range p {
		n[k] = v
	}
	return n
}

// MoleculeRepr is the concrete representation of a molecule at some point in
// the feature history: an undirected multigraph of atoms and bonds, the
// position of every atom, and the bounding volume enclosing all the atoms'
// van der Waals spheres. A multigraph is used so that nothing at this layer
// forbids parallel bonds between the same pair of atoms; the graph is also
// stable in the sense that removing an atom never changes how any other
// atom's specifier resolves.
//
// All mutations go through the EditContext methods, which keep the specifier
// to internal-index map bijective with the live atoms at all times.
type MoleculeRepr struct {
	g         *multi.UndirectedGraph
	atomMap   map[AtomSpecifier]int64
	bonds     map[int64]*Bond
	positions AtomPositions
	bbox      BoundingBox
	table     *PeriodicTable
	synced    bool
	nextNode  int64
	nextLine  int64
}

// NewMoleculeRepr returns an empty representation using the given periodic
// table for element radii. A nil table means the built-in default.
func NewMoleculeRepr(table *PeriodicTable) *MoleculeRepr {
	if table == nil {
		table = DefaultTable()
	}
	return &MoleculeRepr{
		g:         multi.NewUndirectedGraph(),
		atomMap:   make(map[AtomSpecifier]int64),
		bonds:     make(map[int64]*Bond),
		positions: make(AtomPositions),
		table:     table,
	}
}

// Clear empties the representation. The periodic table is kept.
func (m *MoleculeRepr) Clear() {
	m.g = multi.NewUndirectedGraph()
	m.atomMap = make(map[AtomSpecifier]int64)
	m.bonds = make(map[int64]*Bond)
	m.positions = make(AtomPositions)
	m.bbox.Reset()
	m.synced = false
	m.nextNode = 0
	m.nextLine = 0
}

// Len returns the number of live atoms.
func (m *MoleculeRepr) Len() int {
	return len(m.atomMap)
}

// AddAtom inserts a new atom. It fails with an AtomOverwriteError if the
// specifier is already taken. The bounding volume grows to enclose the new
// atom's sphere.
func (m *MoleculeRepr) AddAtom(element string, pos r3.Vec, spec AtomSpecifier, head *AtomSpecifier) error {
	if _, ok := m.atomMap[spec]; ok {
		return &AtomOverwriteError{Spec: spec}
	}
	at := &AtomNode{Element: element, Spec: spec, Head: head, id: m.nextNode}
	m.nextNode++
	m.g.AddNode(at)
	m.atomMap[spec] = at.id
	m.positions[spec] = pos
	m.bbox.EncloseSphere(pos, m.table.Radius(element))
	m.synced = false
	return nil
}

// AddBondedAtom inserts a new atom bonded to an existing one, with the
// existing atom recorded as the new atom's head.
func (m *MoleculeRepr) AddBondedAtom(element string, pos r3.Vec, spec, target AtomSpecifier, order BondOrder) error {
	head := target
	if err := m.AddAtom(element, pos, spec, &head); err != nil {
		return errDecorate(err, "AddBondedAtom")
	}
	return m.CreateBond(spec, target, order)
}

// RemoveAtom deletes the atom with the given specifier, along with its
// incident bonds and cached position. The bounding volume cannot shrink
// incrementally, so it is recomputed from the remaining atoms.
func (m *MoleculeRepr) RemoveAtom(spec AtomSpecifier) error {
	id, ok := m.atomMap[spec]
	if !ok {
		return &BrokenReferenceError{Spec: spec}
	}
	for lid, b := range m.bonds {
		if b.F.id == id || b.T.id == id {
			delete(m.bonds, lid)
		}
	}
	m.g.RemoveNode(id)
	delete(m.atomMap, spec)
	delete(m.positions, spec)
	m.recomputeBoundingBox()
	m.synced = false
	return nil
}

// CreateBond adds a bond of the given order between two existing atoms. It
// fails with a BrokenReferenceError naming the first unknown specifier.
// Parallel bonds between the same pair are not rejected here; a Feature that
// wants to forbid them must check first.
func (m *MoleculeRepr) CreateBond(a, b AtomSpecifier, order BondOrder) error {
	atA := m.FindAtom(a)
	if atA == nil {
		return &BrokenReferenceError{Spec: a}
	}
	atB := m.FindAtom(b)
	if atB == nil {
		return &BrokenReferenceError{Spec: b}
	}
	if atA.id == atB.id {
		return &CError{msg: "gomol: can't bond an atom to itself", deco: []string{"CreateBond"}}
	}
	bond := &Bond{F: atA, T: atB, Order: order, id: m.nextLine}
	m.nextLine++
	m.g.SetLine(bond)
	m.bonds[bond.id] = bond
	m.synced = false
	return nil
}

// FindAtom returns the atom with the given specifier, or nil.
func (m *MoleculeRepr) FindAtom(spec AtomSpecifier) *AtomNode {
	id, ok := m.atomMap[spec]
	if !ok {
		return nil
	}
	n := m.g.Node(id)
	if n == nil {
		panic("gomol: atom map references a node missing from the graph")
	}
	return n.(*AtomNode)
}

// Pos returns the position of the atom with the given specifier.
func (m *MoleculeRepr) Pos(spec AtomSpecifier) (r3.Vec, bool) {
	p, ok := m.positions[spec]
	return p, ok
}

// Positions returns a copy of the full position map.
func (m *MoleculeRepr) Positions() AtomPositions {
	return m.positions.Copy()
}

// Bonded reports whether at least one bond exists between the two atoms.
func (m *MoleculeRepr) Bonded(a, b AtomSpecifier) bool {
	ida, oka := m.atomMap[a]
	idb, okb := m.atomMap[b]
	return oka && okb && m.g.HasEdgeBetween(ida, idb)
}

// Atoms returns the live atoms in insertion order. The returned nodes are
// the graph's own: callers must not mutate them.
func (m *MoleculeRepr) Atoms() []*AtomNode {
	ats := make([]*AtomNode, 0, len(m.atomMap))
	it := m.g.Nodes()
	for it.Next() {
		ats = append(ats, it.Node().(*AtomNode))
	}
	sort.Slice(ats, func(i, j int) bool { return ats[i].id < ats[j].id })
	return ats
}

// Bonds returns the live bonds in creation order.
func (m *MoleculeRepr) Bonds() []*Bond {
	bs := make([]*Bond, 0, len(m.bonds))
	for _, b := range m.bonds {
		bs = append(bs, b)
	}
	sort.Slice(bs, func(i, j int) bool { return bs[i].id < bs[j].id })
	return bs
}

// BoundingBox returns a copy of the current bounding volume.
func (m *MoleculeRepr) BoundingBox() BoundingBox {
	return m.bbox
}

// Synced reports whether the renderer-facing snapshot is still current.
// Every structural or positional change clears it; the rendering
// collaborator sets it again with MarkSynced after pulling new reprs.
func (m *MoleculeRepr) Synced() bool { return m.synced }

// MarkSynced records that the rendering collaborator has pulled the current
// state.
func (m *MoleculeRepr) MarkSynced() { m.synced = true }

// AtomReprs returns the flat renderer-facing atom list, one entry per live
// atom, in insertion order.
func (m *MoleculeRepr) AtomReprs() []AtomRepr {
	ats := m.Atoms()
	reprs := make([]AtomRepr, len(ats))
	for i, at := range ats {
		pos, ok := m.positions[at.Spec]
		if !ok {
			panic("gomol: atom in the graph has no position")
		}
		reprs[i] = AtomRepr{Spec: at.Spec, Element: at.Element, Pos: pos}
	}
	return reprs
}

// BondReprs returns the flat renderer-facing bond list in creation order.
func (m *MoleculeRepr) BondReprs() []BondRepr {
	bonds := m.Bonds()
	reprs := make([]BondRepr, len(bonds))
	for i, b := range bonds {
		reprs[i] = BondRepr{
			StartPos: m.positions[b.F.Spec],
			EndPos:   m.positions[b.T.Spec],
			Order:    b.Order,
		}
	}
	return reprs
}

func (m *MoleculeRepr) recomputeBoundingBox() {
	m.bbox.Reset()
	for _, at := range m.Atoms() {
		m.bbox.EncloseSphere(m.positions[at.Spec], m.table.Radius(at.Element))
	}
}

// commitPositions replaces the position map wholesale (after a relaxation
// run) and recomputes the bounding volume, since every atom may have moved.
func (m *MoleculeRepr) commitPositions(p AtomPositions) {
	m.positions = p
	m.recomputeBoundingBox()
	m.synced = false
}

// MoleculeCheckpoint is a saved snapshot of a representation: the atoms in
// insertion order, the bonds in creation order, and every atom's position.
// It holds no internal graph indices, so it is directly serializable and a
// restore rebuilds the specifier map from scratch.
type MoleculeCheckpoint struct {
	Atoms     []AtomNode           `json:"atoms"`
	Bonds     []CheckpointBond     `json:"bonds"`
	Positions []CheckpointPosition `json:"positions"`
}

// CheckpointBond records one bond by its endpoint specifiers.
type CheckpointBond struct {
	A     AtomSpecifier `json:"a"`
	B     AtomSpecifier `json:"b"`
	Order BondOrder     `json:"order"`
}

// CheckpointPosition records one atom's position.
type CheckpointPosition struct {
	Spec AtomSpecifier `json:"spec"`
	Pos  r3.Vec        `json:"pos"`
}

// MakeCheckpoint flattens the current state into a checkpoint.
func (m *MoleculeRepr) MakeCheckpoint() MoleculeCheckpoint {
	ats := m.Atoms()
	c := MoleculeCheckpoint{
		Atoms:     make([]AtomNode, len(ats)),
		Positions: make([]CheckpointPosition, len(ats)),
	}
	for i, at := range ats {
		node := *at
		node.id = 0
		if at.Head != nil {
			h := *at.Head
			node.Head = &h
		}
		c.Atoms[i] = node
		c.Positions[i] = CheckpointPosition{Spec: at.Spec, Pos: m.positions[at.Spec]}
	}
	for _, b := range m.Bonds() {
		c.Bonds = append(c.Bonds, CheckpointBond{A: b.F.Spec, B: b.T.Spec, Order: b.Order})
	}
	return c
}

// SetCheckpoint replaces the current state with the checkpoint's. It panics
// on an internally inconsistent checkpoint (a bond or position referencing
// an atom the checkpoint does not contain), since checkpoints are produced
// by this package and never hand-built.
func (m *MoleculeRepr) SetCheckpoint(c MoleculeCheckpoint) {
	m.Clear()
	posOf := make(map[AtomSpecifier]r3.Vec, len(c.Positions))
	for _, p := range c.Positions {
		posOf[p.Spec] = p.Pos
	}
	for i := range c.Atoms {
		at := c.Atoms[i]
		pos, ok := posOf[at.Spec]
		if !ok {
			panic("gomol: checkpoint atom has no position")
		}
		if err := m.AddAtom(at.Element, pos, at.Spec, at.Head); err != nil {
			panic("gomol: corrupted checkpoint: " + err.Error())
		}
	}
	for _, b := range c.Bonds {
		if err := m.CreateBond(b.A, b.B, b.Order); err != nil {
			panic("gomol: corrupted checkpoint: " + err.Error())
		}
	}
}
