// Package aggregate merges extraction results into a deduplicated set.
package aggregate

// Set is an insertion-ordered collection of unique strings. The zero value is
// ready to use. Set is not safe for concurrent use.
type Set struct {
	seen  map[string]struct{}
	items []string
}

// NewSet returns a set holding the given values, duplicates collapsed.
func NewSet(values ...string) *Set {
	s := &Set{}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v and reports whether it was new.
func (s *Set) Add(v string) bool {
	if s.seen == nil {
		s.seen = map[string]struct{}{}
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Contains reports whether v is in the set.
func (s *Set) Contains(v string) bool {
	if s == nil {
		return false
	}
	_, ok := s.seen[v]
	return ok
}

// Len returns the number of distinct values.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns a copy of the values in insertion order.
func (s *Set) Items() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Merge adds every value of other to s and returns the number of new values.
func (s *Set) Merge(other *Set) int {
	if other == nil {
		return 0
	}
	added := 0
	for _, v := range other.items {
		if s.Add(v) {
			added++
		}
	}
	return added
}

// MergeAll merges groups into a single set, first occurrence wins the position.
func MergeAll(groups ...*Set) *Set {
	out := &Set{}
	for _, g := range groups {
		out.Merge(g)
	}
	return out
}
