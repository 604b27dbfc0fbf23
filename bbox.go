/*
 * bbox.go, part of gomol.
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
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// BoundingBox is an axis-aligned box enclosing all atoms of a molecule,
// including their van der Waals spheres. The zero value is the empty box,
// which contains no point and intersects no ray. The box only ever grows
// incrementally; shrinking it (after an atom removal) requires a full
// recompute over the remaining atoms.
type BoundingBox struct {
	Min, Max r3.Vec
	set      bool
}

// IsEmpty reports whether the box encloses nothing.
func (b *BoundingBox) IsEmpty() bool { return !b.set }

// Reset turns the box back into the empty box.
func (b *BoundingBox) Reset() { *b = BoundingBox{} }

// EncloseSphere grows the box so it contains the sphere with the given
// center and radius.
func (b *BoundingBox) EncloseSphere(center r3.Vec, radius float64) {
	min := r3.Vec{X: center.X - radius, Y: center.Y - radius, Z: center.Z - radius}
	max := r3.Vec{X: center.X + radius, Y: center.Y + radius, Z: center.Z + radius}
	if !b.set {
		b.Min, b.Max = min, max
		b.set = true
		return
	}
	b.Min.X = math.Min(b.Min.X, min.X)
	b.Min.Y = math.Min(b.Min.Y, min.Y)
	b.Min.Z = math.Min(b.Min.Z, min.Z)
	b.Max.X = math.Max(b.Max.X, max.X)
	b.Max.Y = math.Max(b.Max.Y, max.Y)
	b.Max.Z = math.Max(b.Max.Z, max.Z)
}

// Union returns the smallest box containing both b and other.
func (b *BoundingBox) Union(other *BoundingBox) BoundingBox {
	if !b.set {
		return *other
	}
	if !other.set {
		return *b
	}
	return BoundingBox{
		Min: r3.Vec{
			X: math.Min(b.Min.X, other.Min.X),
			Y: math.Min(b.Min.Y, other.Min.Y),
			Z: math.Min(b.Min.Z, other.Min.Z),
		},
		Max: r3.Vec{
			X: math.Max(b.Max.X, other.Max.X),
			Y: math.Max(b.Max.Y, other.Max.Y),
			Z: math.Max(b.Max.Z, other.Max.Z),
		},
		set: true,
	}
}

// Contains reports whether the point lies inside the box (borders included).
func (b *BoundingBox) Contains(point r3.Vec) bool {
	return b.set &&
		b.Min.X <= point.X && point.X <= b.Max.X &&
		b.Min.Y <= point.Y && point.Y <= b.Max.Y &&
		b.Min.Z <= point.Z && point.Z <= b.Max.Z
}

// RayHitTimes intersects the ray origin + t*dir with the box using the slab
// method and returns the entry and exit times. ok is false if the ray misses
// the box entirely. Times may be negative: a tmax <= 0 means the whole box
// lies behind the ray origin.
func (b *BoundingBox) RayHitTimes(origin, dir r3.Vec) (tmin, tmax float64, ok bool) {
	if !b.set {
		return 0, 0, false
	}
	tmin = math.Inf(-1)
	tmax = math.Inf(1)
	for _, s := range [3]struct{ o, d, min, max float64 }{
		{origin.X, dir.X, b.Min.X, b.Max.X},
		{origin.Y, dir.Y, b.Min.Y, b.Max.Y},
		{origin.Z, dir.Z, b.Min.Z, b.Max.Z},
	} {
		if s.d == 0 {
			//The ray is parallel to this slab: it must start inside it.
			if s.o < s.min || s.o > s.max {
				return 0, 0, false
			}
			continue
		}
		t1 := (s.min - s.o) / s.d
		t2 := (s.max - s.o) / s.d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, 0, false
		}
	}
	return tmin, tmax, true
}
