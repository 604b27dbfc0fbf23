/*
 * molecule.go, part of gomol.
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

/*Note: several methods here panic instead of returning errors. As in any
 * "fundamental" layer, if seeking past the end of the timeline or restoring
 * a checkpoint this package itself produced goes wrong, the program is
 * way-most likely wrong and should crash.*/

// Molecule is a versioned molecular structure: an edit timeline, the
// materialized graph for the current history step, and a checkpoint cache
// that makes scrubbing the timeline affordable. A Molecule exclusively owns
// its representation and cache; collaborators get value snapshots.
//
// Rotation and offset place the molecule in world space. The library carries
// them (and persists them) but never applies them to atom positions, which
// stay in molecule-local coordinates.
type Molecule struct {
	repr     *MoleculeRepr
	rotation r3.Rotation
	offset   r3.Vec
	features *FeatureList
	// historyStep counts how many features (in timeline order) are
	// materialized into repr. It is unrelated to feature IDs.
	historyStep int
	// dirtyStep is the watermark beyond which cached state can no longer be
	// trusted: checkpoints at steps above it are stale and get evicted on
	// the next seek. Editing at step k lowers it to k; replaying through a
	// step re-validates it.
	dirtyStep   int
	checkpoints map[int]MoleculeCheckpoint
	relaxParams RelaxParams
	lastRelax   *RelaxStats
}

// NewMolecule seeds a new structure with one feature (normally a RootAtom
// or a PDBImport: a structure must always have a root). It panics if the
// seed fails to apply, since primitive features applied to the empty graph
// cannot fail unless the program is wrong. An optional periodic table
// overrides the built-in element data.
func NewMolecule(seed Feature, table ...*PeriodicTable) *Molecule {
	var t *PeriodicTable
	if len(table) > 0 {
		t = table[0]
	}
	M := &Molecule{
		repr:        NewMoleculeRepr(t),
		rotation:    r3.NewRotation(0, r3.Vec{Z: 1}),
		features:    NewFeatureList(),
		checkpoints: make(map[int]MoleculeCheckpoint),
		relaxParams: DefaultRelaxParams(),
	}
	id := M.features.PushBack(seed)
	if err := seed.Apply(id, M.repr); err != nil {
		panic("gomol: seed feature failed to apply: " + err.Error())
	}
	M.relaxRepr()
	M.historyStep = 1
	M.dirtyStep = 1 //no checkpoints exist yet, but repr itself is clean.
	return M
}

// Repr gives read access to the materialized representation at the current
// history step.
func (M *Molecule) Repr() *MoleculeRepr { return M.repr }

// Features returns the molecule's timeline.
func (M *Molecule) Features() *FeatureList { return M.features }

// HistoryStep returns the current position in the timeline.
func (M *Molecule) HistoryStep() int { return M.historyStep }

// DirtyStep returns the current trust watermark for cached state.
func (M *Molecule) DirtyStep() int { return M.dirtyStep }

// Transform returns the molecule's world-space rotation and offset.
func (M *Molecule) Transform() (r3.Rotation, r3.Vec) { return M.rotation, M.offset }

// SetTransform sets the molecule's world-space rotation and offset.
func (M *Molecule) SetTransform(rotation r3.Rotation, offset r3.Vec) {
	M.rotation = rotation
	M.offset = offset
}

// SetRelaxParams replaces the relaxation parameters used on every replayed
// step. Cached checkpoints keep positions computed under the old parameters.
func (M *Molecule) SetRelaxParams(p RelaxParams) { M.relaxParams = p }

// LastRelax returns the statistics of the most recent relaxation run, or
// nil if none has happened yet.
func (M *Molecule) LastRelax() *RelaxStats { return M.lastRelax }

// PushFeature inserts a feature at the current history step and returns its
// timeline ID. The materialized state is untouched (seek to see the effect),
// but any cached state at or past the insertion point is no longer
// trustworthy, so the dirty watermark drops to the insertion position.
func (M *Molecule) PushFeature(f Feature) FeatureID {
	id := M.features.Insert(f, M.historyStep)
	if M.historyStep < M.dirtyStep {
		M.dirtyStep = M.historyStep
	}
	return id
}

// SetHistoryStep materializes the graph as of the given number of applied
// features. It restores from the best trusted checkpoint at or before the
// target, or resumes from the current state when only moving forward, or
// replays from the empty graph; every feature crossed is applied (a
// per-feature apply error is logged and that feature's edit skipped — a
// deliberate tolerance, the session survives a malformed timeline) and the
// geometry re-relaxed. Panics if target is outside the timeline, which is a
// programming error, not user input.
func (M *Molecule) SetHistoryStep(target int) {
	if target < 0 || target > M.features.Len() {
		panic(fmt.Sprintf("gomol: history step %d exceeds feature list size %d", target, M.features.Len()))
	}

	//Stale checkpoints are evicted here, on the next seek after the edit
	//that invalidated them, rather than eagerly on every edit.
	for step := range M.checkpoints {
		if step > M.dirtyStep {
			delete(M.checkpoints, step)
		}
	}

	best := -1
	for step := range M.checkpoints {
		if step <= target && step > best {
			best = step
		}
	}
	switch {
	case best >= 0:
		//Resume from the best usable checkpoint.
		M.repr.SetCheckpoint(M.checkpoints[best])
		M.historyStep = best
	case target < M.historyStep || M.historyStep > M.dirtyStep:
		//No usable checkpoint and we can't just keep computing forwards:
		//restart from scratch.
		M.repr.Clear()
		M.historyStep = 0
	}

	order := M.features.Order()
	for _, fid := range order[M.historyStep:target] {
		f := M.features.Get(fid)
		if f == nil {
			panic(fmt.Sprintf("gomol: timeline order references feature %d with no stored feature", fid))
		}
		if err := f.Apply(fid, M.repr); err != nil {
			log.Printf("gomol: feature %d failed to apply during replay, skipping: %v", fid, err)
		}
		M.relaxRepr()
	}

	M.historyStep = target
	if target > M.dirtyStep {
		M.dirtyStep = target
	}
	if _, ok := M.checkpoints[target]; !ok {
		M.checkpoints[target] = M.repr.MakeCheckpoint()
	}
}

// ApplyAllFeatures seeks to the end of the timeline, applying every feature.
func (M *Molecule) ApplyAllFeatures() {
	M.SetHistoryStep(M.features.Len())
}

func (M *Molecule) relaxRepr() {
	pos, stats := Relax(M.repr, M.relaxParams)
	M.repr.commitPositions(pos)
	M.lastRelax = stats
}

// RayHit casts a ray (molecule-local coordinates) and returns the specifier
// of the first atom whose van der Waals sphere the ray hits.
func (M *Molecule) RayHit(origin, direction r3.Vec) (AtomSpecifier, bool) {
	return M.repr.RayHit(origin, direction)
}

// proxyMolecule is the serialized shape of a Molecule. The live graph and
// positions are NOT stored: they are reconstructed on load by replaying from
// the nearest checkpoint.
type proxyMolecule struct {
	Rotation    r3.Rotation                `json:"rotation"`
	Offset      r3.Vec                     `json:"offset"`
	Features    *FeatureList               `json:"features"`
	HistoryStep int                        `json:"historyStep"`
	DirtyStep   int                        `json:"dirtyStep"`
	Checkpoints map[int]MoleculeCheckpoint `json:"checkpoints"`
	RelaxParams RelaxParams                `json:"relaxParams"`
}

// MarshalJSON implements json.Marshaler. The current state is force-saved as
// a checkpoint, even when one would not normally exist at this step, so that
// reopening the file replays no features at all.
func (M *Molecule) MarshalJSON() ([]byte, error) {
	checkpoints := make(map[int]MoleculeCheckpoint, len(M.checkpoints)+1)
	for k, v := range M.checkpoints {
		checkpoints[k] = v
	}
	checkpoints[M.historyStep] = M.repr.MakeCheckpoint()
	return json.Marshal(proxyMolecule{
		Rotation:    M.rotation,
		Offset:      M.offset,
		Features:    M.features,
		HistoryStep: M.historyStep,
		DirtyStep:   M.dirtyStep,
		Checkpoints: checkpoints,
		RelaxParams: M.relaxParams,
	})
}

// UnmarshalJSON implements json.Unmarshaler. The materialized state is
// rebuilt by seeking to the saved history step.
func (M *Molecule) UnmarshalJSON(b []byte) error {
	p := proxyMolecule{Features: NewFeatureList()}
	if err := json.Unmarshal(b, &p); err != nil {
		return errDecorate(err, "Molecule.UnmarshalJSON")
	}
	if p.HistoryStep < 0 || p.HistoryStep > p.Features.Len() {
		return &CError{fmt.Sprintf("saved history step %d exceeds timeline length %d", p.HistoryStep, p.Features.Len()), []string{"Molecule.UnmarshalJSON"}}
	}
	M.repr = NewMoleculeRepr(nil)
	M.rotation = p.Rotation
	M.offset = p.Offset
	M.features = p.Features
	M.historyStep = 0 //nothing applied yet, the features are just loaded
	M.dirtyStep = p.DirtyStep
	M.checkpoints = p.Checkpoints
	if M.checkpoints == nil {
		M.checkpoints = make(map[int]MoleculeCheckpoint)
	}
	M.relaxParams = p.RelaxParams
	M.SetHistoryStep(p.HistoryStep)
	return nil
}
