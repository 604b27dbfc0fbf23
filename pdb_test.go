/*
 * pdb_test.go, part of gomol.
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
	"strings"
	"testing"
)

// lays out one ATOM record with the standard column positions.
func atomLine(serial int, name, element string, x, y, z float64) string {
	return fmt.Sprintf("ATOM  %5d %-4s %-3s %c%4d    %8.3f%8.3f%8.3f%6.2f%6.2f          %2s",
		serial, name, "MOL", 'A', 1, x, y, z, 1.0, 0.0, element)
}

func waterPDB() string {
	return strings.Join([]string{
		atomLine(1, "O", "O", 0.000, 0.000, 0.000),
		atomLine(2, "H1", "H", 0.957, 0.000, 0.000),
		atomLine(3, "H2", "H", -0.240, 0.927, 0.000),
		"CONECT    1    2    3",
		"END",
	}, "\n")
}

func TestParsePDB(Te *testing.T) {
	frag, err := parsePDB(waterPDB())
	if err != nil {
		Te.Fatal(err)
	}
	if len(frag.atoms) != 3 {
		Te.Fatalf("read %d atoms, expected 3", len(frag.atoms))
	}
	if frag.atoms[0].element != "O" || frag.atoms[1].element != "H" {
		Te.Errorf("wrong elements: %s %s", frag.atoms[0].element, frag.atoms[1].element)
	}
	if frag.atoms[1].pos.X != 0.957 {
		Te.Errorf("coordinate misread: %v", frag.atoms[1].pos)
	}
	if len(frag.bonds) != 2 {
		Te.Fatalf("read %d bonds, expected 2", len(frag.bonds))
	}
	for _, b := range frag.bonds {
		if b[0] != 1 {
			Te.Errorf("bond %v should start at serial 1", b)
		}
	}
}

func TestParsePDBElementFromName(Te *testing.T) {
	//a record with no element columns falls back on the atom name
	line := atomLine(1, "CA", "", 1, 2, 3)[:54]
	frag, err := parsePDB(line)
	if err != nil {
		Te.Fatal(err)
	}
	if frag.atoms[0].element != "C" {
		Te.Errorf("element %q from name CA, expected C", frag.atoms[0].element)
	}
}

func TestParsePDBToleratesJunk(Te *testing.T) {
	contents := strings.Join([]string{
		"REMARK this is not an atom",
		"ATOM  garbage",
		atomLine(1, "C1", "C", 0, 0, 0),
		"CONECT    1", //too few serials, skipped
	}, "\n")
	frag, err := parsePDB(contents)
	if err != nil {
		Te.Fatal(err)
	}
	if len(frag.atoms) != 1 || len(frag.bonds) != 0 {
		Te.Errorf("got %d atoms %d bonds, expected 1 and 0", len(frag.atoms), len(frag.bonds))
	}
}

func TestParsePDBEmpty(Te *testing.T) {
	if _, err := parsePDB("REMARK nothing here\nEND\n"); err == nil {
		Te.Error("a fragment with no atoms should be an error")
	}
}

func TestParsePDBDuplicateConect(Te *testing.T) {
	contents := strings.Join([]string{
		atomLine(1, "C1", "C", 0, 0, 0),
		atomLine(2, "C2", "C", 1.5, 0, 0),
		"CONECT    1    2",
		"CONECT    2    1", //same bond, reversed
	}, "\n")
	frag, err := parsePDB(contents)
	if err != nil {
		Te.Fatal(err)
	}
	if len(frag.bonds) != 1 {
		Te.Errorf("duplicate CONECT produced %d bonds, expected 1", len(frag.bonds))
	}
}

func TestPDBImportFeature(Te *testing.T) {
	M := NewMolecule(PDBImport{Name: "water", Contents: waterPDB()})
	r := M.Repr()
	if r.Len() != 3 {
		Te.Fatalf("import produced %d atoms, expected 3", r.Len())
	}
	sO := NewAtomSpecifier(0, 0)
	sH1 := NewAtomSpecifier(0, 1)
	sH2 := NewAtomSpecifier(0, 2)
	for _, s := range []AtomSpecifier{sO, sH1, sH2} {
		if r.FindAtom(s) == nil {
			Te.Errorf("imported atom %v not resolvable", s)
		}
	}
	if !r.Bonded(sO, sH1) || !r.Bonded(sO, sH2) {
		Te.Error("CONECT bonds missing after import")
	}
	if r.Bonded(sH1, sH2) {
		Te.Error("spurious bond between the hydrogens")
	}
}
