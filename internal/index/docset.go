package index

import "sort"

// DocSet is a set of document identifiers. The set operations never mutate
// their receivers; evaluators combine posting sets that belong to the
// read-only index, so every operation returns a fresh set.
type DocSet map[DocID]struct{}

// NewDocSet builds a set from the given IDs.
func NewDocSet(ids ...DocID) DocSet {
	s := make(DocSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports set membership.
func (s DocSet) Contains(id DocID) bool {
	_, ok := s[id]
	return ok
}

// Clone returns a copy of the set.
func (s DocSet) Clone() DocSet {
	out := make(DocSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Intersect returns the documents present in both sets.
func (s DocSet) Intersect(other DocSet) DocSet {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(DocSet)
	for id := range small {
		if _, ok := large[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Union returns the documents present in either set.
func (s DocSet) Union(other DocSet) DocSet {
	out := make(DocSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Difference returns the documents in s that are not in other.
func (s DocSet) Difference(other DocSet) DocSet {
	out := make(DocSet)
	for id := range s {
		if _, ok := other[id]; !ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Sorted returns the set's IDs in presentation order (numeric ascending,
// then names lexicographically).
func (s DocSet) Sorted() []DocID {
	ids := make([]DocID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}
