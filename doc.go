/*
 * doc.go, part of gomol.
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

/*Package mol implements a feature-history engine for interactive molecular
construction. A structure is built as an ordered timeline of edit operations
("features"): adding a root atom, bonding a new atom to an existing one,
deleting an atom, or importing a whole fragment from a PDB file. The timeline
can be scrubbed to any point; the engine materializes the molecular graph for
that point by replaying features from the nearest cached checkpoint, and
re-relaxes atom positions with a simple pairwise force model after every
structural change.

	**gomol capabilities**

    Versioned molecular graph with stable external atom identifiers that
	survive unrelated deletions.

    Insertable feature timeline with identifiers independent of position,
	so history can be rewritten at any past point.

    Checkpoint cache with dirty-step tracking, making timeline scrubbing
	affordable and reload of saved structures O(1) in replay steps.

    Iterative force relaxation of atom positions (bonded pull toward an
	equilibrium length, non-bonded inverse-square repulsion).

    Axis-aligned bounding volume and approximate ray picking.

    PDB fragment import as a single timeline entry.

Rendering, windowing and camera control are external collaborators: the
library only hands out position snapshots (AtomReprs/BondReprs) and answers
ray queries. Everything runs synchronously on the caller's goroutine.

Subpackages: molfile persists structures as zstd-compressed JSON; molplot
draws relaxation-convergence traces.
*/
package mol
