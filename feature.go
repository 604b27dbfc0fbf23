/*
 * feature.go, part of gomol.
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
	"encoding/json"
	"fmt"
	"log"

	"gonum.org/v1/gonum/spatial/r3"
)

// EditContext is the mutable graph surface a Feature applies itself
// against. MoleculeRepr implements it. Features must do all their edits
// through it and reference atoms only by specifier.
type EditContext interface {
	AddAtom(element string, pos r3.Vec, spec AtomSpecifier, head *AtomSpecifier) error
	AddBondedAtom(element string, pos r3.Vec, spec, target AtomSpecifier, order BondOrder) error
	CreateBond(a, b AtomSpecifier, order BondOrder) error
	RemoveAtom(spec AtomSpecifier) error
	FindAtom(spec AtomSpecifier) *AtomNode
	Pos(spec AtomSpecifier) (r3.Vec, bool)
}

// Feature is a single recorded edit operation in the timeline. Applying a
// feature must be a pure function of the prior graph state, the feature ID
// and the feature's own parameters: replaying the same feature against the
// same state gives a byte-for-byte identical result. Atoms created by a
// feature take their specifiers from the feature's ID, so specifiers are
// reproduced exactly on every replay.
type Feature interface {
	Apply(id FeatureID, ctx EditContext) error
}

// RootAtom creates a structure's first atom, at the origin. Every molecule
// is seeded with one (or with a bulk import).
type RootAtom struct {
	Element string `json:"element"`
}

// Apply implements Feature.
func (f RootAtom) Apply(id FeatureID, ctx EditContext) error {
	return ctx.AddAtom(f.Element, r3.Vec{}, NewAtomSpecifier(id, 0), nil)
}

// BondedAtom creates one atom bonded to an existing target atom. The new
// atom starts one equilibrium bond length behind the target, continuing away
// from the target's head; relaxation settles the exact geometry afterwards.
type BondedAtom struct {
	Target  AtomSpecifier `json:"target"`
	Element string        `json:"element"`
	Order   BondOrder     `json:"order"`
}

// Apply implements Feature.
func (f BondedAtom) Apply(id FeatureID, ctx EditContext) error {
	target := ctx.FindAtom(f.Target)
	if target == nil {
		return &BrokenReferenceError{Spec: f.Target}
	}
	tpos, ok := ctx.Pos(f.Target)
	if !ok {
		return &BrokenReferenceError{Spec: f.Target}
	}
	order := f.Order
	if order == 0 {
		order = 1
	}
	pos := r3.Sub(tpos, r3.Scale(DefaultRelaxParams().BondLength, target.Forward(ctx)))
	return ctx.AddBondedAtom(f.Element, pos, NewAtomSpecifier(id, 0), f.Target, order)
}

// DeleteAtom removes an existing atom and its bonds.
type DeleteAtom struct {
	Target AtomSpecifier `json:"target"`
}

// Apply implements Feature.
func (f DeleteAtom) Apply(id FeatureID, ctx EditContext) error {
	return ctx.RemoveAtom(f.Target)
}

// PDBImport deserializes a PDB fragment into a batch of atom and bond
// insertions. The whole import is one timeline entry: scrubbing past it adds
// or removes the entire fragment at once. Atom specifiers are assigned in
// file order, so the import replays deterministically.
type PDBImport struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

// Apply implements Feature.
func (f PDBImport) Apply(id FeatureID, ctx EditContext) error {
	frag, err := parsePDB(f.Contents)
	if err != nil {
		return errDecorate(err, "PDBImport.Apply "+f.Name)
	}
	specOf := make(map[int]AtomSpecifier, len(frag.atoms))
	for child, at := range frag.atoms {
		spec := NewAtomSpecifier(id, child)
		if err := ctx.AddAtom(at.element, at.pos, spec, nil); err != nil {
			return errDecorate(err, "PDBImport.Apply "+f.Name)
		}
		specOf[at.serial] = spec
	}
	for _, b := range frag.bonds {
		sa, oka := specOf[b[0]]
		sb, okb := specOf[b[1]]
		if !oka || !okb {
			//CONECT records referencing atoms we didn't read are tolerated,
			//like any other malformed PDB content.
			log.Printf("PDBImport: CONECT %d %d references an unknown serial, skipped", b[0], b[1])
			continue
		}
		if err := ctx.CreateBond(sa, sb, 1); err != nil {
			return errDecorate(err, "PDBImport.Apply "+f.Name)
		}
	}
	return nil
}

//Serialization of features. The timeline stores features as a closed set of
//kinds behind a small JSON envelope, so a saved structure can be reopened
//without registering anything.

const (
	kindRootAtom   = "rootAtom"
	kindBondedAtom = "bondedAtom"
	kindDeleteAtom = "deleteAtom"
	kindPDBImport  = "pdbImport"
)

type featureEnvelope struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

func marshalFeature(f Feature) ([]byte, error) {
	var kind string
	switch f.(type) {
	case RootAtom:
		kind = kindRootAtom
	case BondedAtom:
		kind = kindBondedAtom
	case DeleteAtom:
		kind = kindDeleteAtom
	case PDBImport:
		kind = kindPDBImport
	default:
		return nil, &CError{fmt.Sprintf("can't serialize feature of type %T", f), []string{"marshalFeature"}}
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, errDecorate(err, "marshalFeature")
	}
	return json.Marshal(featureEnvelope{Kind: kind, Data: data})
}

func unmarshalFeature(b []byte) (Feature, error) {
	var env featureEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, errDecorate(err, "unmarshalFeature")
	}
	var f Feature
	var err error
	switch env.Kind {
	case kindRootAtom:
		var v RootAtom
		err = json.Unmarshal(env.Data, &v)
		f = v
	case kindBondedAtom:
		var v BondedAtom
		err = json.Unmarshal(env.Data, &v)
		f = v
	case kindDeleteAtom:
		var v DeleteAtom
		err = json.Unmarshal(env.Data, &v)
		f = v
	case kindPDBImport:
		var v PDBImport
		err = json.Unmarshal(env.Data, &v)
		f = v
	default:
		return nil, &CError{fmt.Sprintf("unknown feature kind %q", env.Kind), []string{"unmarshalFeature"}}
	}
	if err != nil {
		return nil, errDecorate(err, "unmarshalFeature")
	}
	return f, nil
}
