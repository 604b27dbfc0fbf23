/*
 * featurelist.go, part of gomol.
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
)

// FeatureID is the stable, timeline-assigned identity of a feature. It is
// NOT the feature's position: inserting a feature in the middle of the
// timeline shifts the positions of everything after it, but never renumbers
// an ID, so references held by atoms and collaborators stay valid.
type FeatureID int

// FeatureList is the ordered, insertable sequence of features making up a
// molecule's edit history. The replay order is a total order consistent with
// insertion position.
type FeatureList struct {
	order    []FeatureID
	features map[FeatureID]Feature
	next     FeatureID
}

// NewFeatureList returns an empty timeline.
func NewFeatureList() *FeatureList {
	return &FeatureList{features: make(map[FeatureID]Feature)}
}

// Len returns the number of features in the timeline.
func (l *FeatureList) Len() int { return len(l.order) }

// Insert places f at position at (0 to Len inclusive), shifting later
// features one position down the timeline, and returns the new feature's ID.
// It panics on an out-of-range position, which is a programming error.
func (l *FeatureList) Insert(f Feature, at int) FeatureID {
	if at < 0 || at > len(l.order) {
		panic(fmt.Sprintf("gomol: feature insertion position %d out of range [0,%d]", at, len(l.order)))
	}
	id := l.next
	l.next++
	l.features[id] = f
	l.order = append(l.order, 0)
	copy(l.order[at+1:], l.order[at:])
	l.order[at] = id
	return id
}

// PushBack appends f at the end of the timeline.
func (l *FeatureList) PushBack(f Feature) FeatureID {
	return l.Insert(f, len(l.order))
}

// Get returns the feature with the given ID, or nil if no such feature
// exists.
func (l *FeatureList) Get(id FeatureID) Feature {
	return l.features[id]
}

// Order returns the feature IDs in timeline order. The slice is the list's
// own and must not be modified.
func (l *FeatureList) Order() []FeatureID { return l.order }

type featureListEntry struct {
	ID      FeatureID       `json:"id"`
	Feature json.RawMessage `json:"feature"`
}

type featureListProxy struct {
	Order    []FeatureID        `json:"order"`
	Features []featureListEntry `json:"features"`
}

// MarshalJSON implements json.Marshaler. Features are stored behind kind
// envelopes so the closed feature set round-trips.
func (l *FeatureList) MarshalJSON() ([]byte, error) {
	p := featureListProxy{Order: l.order}
	for _, id := range l.order {
		raw, err := marshalFeature(l.features[id])
		if err != nil {
			return nil, errDecorate(err, "FeatureList.MarshalJSON")
		}
		p.Features = append(p.Features, featureListEntry{ID: id, Feature: raw})
	}
	return json.Marshal(p)
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *FeatureList) UnmarshalJSON(b []byte) error {
	var p featureListProxy
	if err := json.Unmarshal(b, &p); err != nil {
		return errDecorate(err, "FeatureList.UnmarshalJSON")
	}
	l.order = p.Order
	l.features = make(map[FeatureID]Feature, len(p.Features))
	l.next = 0
	for _, e := range p.Features {
		f, err := unmarshalFeature(e.Feature)
		if err != nil {
			return errDecorate(err, "FeatureList.UnmarshalJSON")
		}
		l.features[e.ID] = f
		if e.ID >= l.next {
			l.next = e.ID + 1
		}
	}
	for _, id := range l.order {
		if _, ok := l.features[id]; !ok {
			return &CError{fmt.Sprintf("timeline order references feature %d which is not stored", id), []string{"FeatureList.UnmarshalJSON"}}
		}
	}
	return nil
}
