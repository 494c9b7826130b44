package sets

import "sort"

// Set is an unordered collection of distinct strings.
type Set map[string]struct{}

// NewSet builds a Set from elements, collapsing duplicates.
func NewSet(elements []string) Set {
	s := make(Set, len(elements))
	for _, e := range elements {
		s[e] = struct{}{}
	}
	return s
}

// Len returns the number of distinct elements.
func (s Set) Len() int {
	return len(s)
}

// Contains reports whether e is a member of s.
func (s Set) Contains(e string) bool {
	_, ok := s[e]
	return ok
}

// Equal reports whether s and other hold exactly the same members.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for e := range s {
		if !other.Contains(e) {
			return false
		}
	}
	return true
}

// Sorted returns the members in ascending order.
func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

// Equal parses two comma-separated lists and reports whether they describe
// the same set. Order and repetition are ignored.
func Equal(a, b string) bool {
	return NewSet(Parse(a)).Equal(NewSet(Parse(b)))
}
