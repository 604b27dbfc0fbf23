/*
 * relax.go, part of gomol.
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

//Displacements below this magnitude give no usable force direction: the
//pair is skipped for that iteration rather than dividing by (almost) zero.
const relaxDegenerate = 1e-9

// RelaxParams are the knobs of the relaxation run. The zero value is not
// usable; start from DefaultRelaxParams.
type RelaxParams struct {
	// BondLength is the separation bonded atoms are pulled toward.
	BondLength float64 `json:"bondLength"`
	// BondStrength scales the spring force between bonded atoms.
	BondStrength float64 `json:"bondStrength"`
	// Repulsion scales the inverse-square force pushing non-bonded
	// atoms apart.
	Repulsion float64 `json:"repulsion"`
	// StepSize converts a summed force into a per-iteration position delta.
	StepSize float64 `json:"stepSize"`
	// Threshold is the largest per-atom delta magnitude at which the run
	// is considered converged.
	Threshold float64 `json:"threshold"`
	// MaxSteps caps the iteration count. 0 means no cap, which can loop
	// forever on pathological inputs; an interactive caller should set it.
	MaxSteps int `json:"maxSteps,omitempty"`
}

// DefaultRelaxParams returns the parameter set used by Molecule unless the
// caller overrides it.
func DefaultRelaxParams() RelaxParams {
	return RelaxParams{
		BondLength:   4.0,
		BondStrength: 2.0,
		Repulsion:    1.0,
		StepSize:     0.1,
		Threshold:    0.01,
	}
}

// RelaxStats reports what a relaxation run did. Trace holds the largest
// per-atom adjustment of each iteration, in order; molplot can draw it.
type RelaxStats struct {
	Steps     int
	Converged bool
	Trace     []float64
}

// Relax iterates the pairwise force model over the current graph until the
// largest per-atom adjustment falls below p.Threshold, and returns the new
// position assignment. Bonded atoms are pulled toward p.BondLength;
// non-bonded atoms repel in inverse proportion to their squared distance.
// Updates are simultaneous (every force in an iteration is computed from the
// previous iteration's positions), and atoms are enumerated in insertion
// order, so the result is deterministic for identical inputs.
//
// Relax never fails: it always produces a position map. Non-convergence is
// a liveness risk, not an error; cap it with p.MaxSteps.
func Relax(m *MoleculeRepr, p RelaxParams) (AtomPositions, *RelaxStats) {
	atoms := m.Atoms()
	old := m.positions.Copy()
	next := make(AtomPositions, len(old))
	stats := new(RelaxStats)

	for {
		largest := 0.0
		for _, at := range atoms {
			pos := old[at.Spec]
			var force r3.Vec
			for _, other := range atoms {
				if other.id == at.id {
					continue
				}
				d := r3.Sub(old[other.Spec], pos)
				dist := r3.Norm(d)
				if dist < relaxDegenerate {
					continue
				}
				dir := r3.Scale(1/dist, d)
				if m.g.HasEdgeBetween(at.id, other.id) {
					force = r3.Add(force, r3.Scale(p.BondStrength*(dist-p.BondLength), dir))
				} else {
					force = r3.Sub(force, r3.Scale(p.Repulsion/(dist*dist), dir))
				}
			}
			adj := r3.Scale(p.StepSize, force)
			if mag := r3.Norm(adj); mag > largest {
				largest = mag
			}
			next[at.Spec] = r3.Add(pos, adj)
		}
		old, next = next, old
		stats.Steps++
		stats.Trace = append(stats.Trace, largest)
		if largest < p.Threshold {
			stats.Converged = true
			break
		}
		if p.MaxSteps > 0 && stats.Steps >= p.MaxSteps {
			break
		}
	}
	return old, stats
}
