/*
 * molfile_test.go, part of gomol.
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

package molfile

import (
	"os"
	"path/filepath"
	"testing"

	mol "github.com/gomolcad/gomol"
)

func testMolecule() *mol.Molecule {
	M := mol.NewMolecule(mol.RootAtom{Element: "Na"})
	M.PushFeature(mol.BondedAtom{Target: mol.NewAtomSpecifier(0, 0), Element: "Cl", Order: 1})
	M.ApplyAllFeatures()
	return M
}

func TestSaveLoadRoundTrip(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "salt.gomol")
	M := testMolecule()
	if err := Save(name, M); err != nil {
		Te.Fatal(err)
	}
	M2, err := Load(name)
	if err != nil {
		Te.Fatal(err)
	}
	if M2.HistoryStep() != M.HistoryStep() {
		Te.Errorf("history step %d after load, expected %d", M2.HistoryStep(), M.HistoryStep())
	}
	if M2.Features().Len() != M.Features().Len() {
		Te.Errorf("feature count %d after load, expected %d", M2.Features().Len(), M.Features().Len())
	}
	a1 := M.Repr().AtomReprs()
	a2 := M2.Repr().AtomReprs()
	if len(a1) != len(a2) {
		Te.Fatalf("atom counts differ: %d vs %d", len(a1), len(a2))
	}
	for i := range a1 {
		if a1[i] != a2[i] {
			Te.Errorf("atom %d differs after load: %+v vs %+v", i, a1[i], a2[i])
		}
	}
}

func TestSaveCompressionLevels(Te *testing.T) {
	dir := Te.TempDir()
	M := testMolecule()
	fast := filepath.Join(dir, "fast.gomol")
	best := filepath.Join(dir, "best.gomol")
	if err := Save(fast, M, 1); err != nil {
		Te.Fatal(err)
	}
	if err := Save(best, M, 4); err != nil {
		Te.Fatal(err)
	}
	for _, name := range []string{fast, best} {
		if _, err := Load(name); err != nil {
			Te.Errorf("can't reopen %s: %v", name, err)
		}
	}
}

func TestLoadRejectsGarbage(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "junk.gomol")
	if err := os.WriteFile(name, []byte("this is not a structure file"), 0644); err != nil {
		Te.Fatal(err)
	}
	if _, err := Load(name); err == nil {
		Te.Error("loading a non-zstd file should fail")
	}
	if _, err := Load(filepath.Join(Te.TempDir(), "missing.gomol")); err == nil {
		Te.Error("loading a missing file should fail")
	}
}
