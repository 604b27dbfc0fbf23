/*
 * molplot_test.go, part of gomol.
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

package molplot

import (
	"os"
	"path/filepath"
	"testing"

	mol "github.com/gomolcad/gomol"
)

func TestConvergence(Te *testing.T) {
	M := mol.NewMolecule(mol.RootAtom{Element: "C"})
	M.PushFeature(mol.BondedAtom{Target: mol.NewAtomSpecifier(0, 0), Element: "C", Order: 1})
	M.ApplyAllFeatures()
	stats := M.LastRelax()
	if stats == nil || len(stats.Trace) == 0 {
		Te.Fatal("no relaxation trace to plot")
	}
	name := filepath.Join(Te.TempDir(), "convergence.png")
	if err := Convergence(stats, "relaxation", name); err != nil {
		Te.Fatal(err)
	}
	info, err := os.Stat(name)
	if err != nil {
		Te.Fatal(err)
	}
	if info.Size() == 0 {
		Te.Error("plot file is empty")
	}
}

func TestConvergenceNoTrace(Te *testing.T) {
	if err := Convergence(nil, "empty", "unused.png"); err == nil {
		Te.Error("plotting a nil stats should fail")
	}
	if err := Convergence(&mol.RelaxStats{}, "empty", "unused.png"); err == nil {
		Te.Error("plotting an empty trace should fail")
	}
}
