/*
 * featurelist_test.go, part of gomol.
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
	"testing"
)

func TestFeatureListIDsAreStable(Te *testing.T) {
	l := NewFeatureList()
	id0 := l.PushBack(RootAtom{Element: "C"})
	id1 := l.PushBack(BondedAtom{Target: NewAtomSpecifier(id0, 0), Element: "H", Order: 1})
	//insert in the middle; existing IDs must not move
	id2 := l.Insert(BondedAtom{Target: NewAtomSpecifier(id0, 0), Element: "O", Order: 1}, 1)
	if id0 == id1 || id1 == id2 || id0 == id2 {
		Te.Fatalf("IDs not unique: %d %d %d", id0, id1, id2)
	}
	if l.Len() != 3 {
		Te.Fatalf("expected 3 features, got %d", l.Len())
	}
	order := l.Order()
	want := []FeatureID{id0, id2, id1}
	for i, id := range want {
		if order[i] != id {
			Te.Errorf("order[%d] = %d, expected %d", i, order[i], id)
		}
	}
	for _, id := range want {
		if l.Get(id) == nil {
			Te.Errorf("feature %d not retrievable by ID", id)
		}
	}
	if l.Get(FeatureID(42)) != nil {
		Te.Error("unknown ID retrieved a feature")
	}
}

func TestFeatureListInsertOutOfRangePanics(Te *testing.T) {
	l := NewFeatureList()
	defer func() {
		if recover() == nil {
			Te.Error("inserting past the end should panic")
		}
	}()
	l.Insert(RootAtom{Element: "C"}, 1)
}

func TestFeatureListJSONRoundTrip(Te *testing.T) {
	l := NewFeatureList()
	id0 := l.PushBack(RootAtom{Element: "Na"})
	id1 := l.PushBack(BondedAtom{Target: NewAtomSpecifier(id0, 0), Element: "Cl", Order: 2})
	l.PushBack(DeleteAtom{Target: NewAtomSpecifier(id1, 0)})
	l.PushBack(PDBImport{Name: "frag", Contents: "ATOM line here"})

	data, err := json.Marshal(l)
	if err != nil {
		Te.Fatal(err)
	}
	l2 := NewFeatureList()
	if err := json.Unmarshal(data, l2); err != nil {
		Te.Fatal(err)
	}
	if l2.Len() != l.Len() {
		Te.Fatalf("length %d after round trip, expected %d", l2.Len(), l.Len())
	}
	for i, id := range l.Order() {
		if l2.Order()[i] != id {
			Te.Errorf("order[%d] changed: %d vs %d", i, l2.Order()[i], id)
		}
	}
	//concrete types must survive the envelope
	if _, ok := l2.Get(id0).(RootAtom); !ok {
		Te.Errorf("feature %d is %T, expected RootAtom", id0, l2.Get(id0))
	}
	b, ok := l2.Get(id1).(BondedAtom)
	if !ok {
		Te.Fatalf("feature %d is %T, expected BondedAtom", id1, l2.Get(id1))
	}
	if b.Order != 2 || b.Target != NewAtomSpecifier(id0, 0) {
		Te.Errorf("BondedAtom payload changed: %+v", b)
	}
	//IDs issued after a reload must not collide with loaded ones
	idNew := l2.PushBack(RootAtom{Element: "H"})
	for _, id := range l.Order() {
		if idNew == id {
			Te.Errorf("reissued ID %d collides with a loaded feature", idNew)
		}
	}
}
