package author

// Set is an insertion-ordered collection of valid authors, unique under Equal.
// The zero value is ready to use. A Set is not safe for concurrent writers.
type Set struct {
	order []Author
	index map[Author]struct{}
}

// NewSet returns a set holding the valid authors of as, in order.
func NewSet(as ...Author) *Set {
	s := &Set{}
	for _, a := range as {
		s.Add(a)
	}
	return s
}

// Add inserts a unless it is invalid or already present. It reports whether
// the set changed.
func (s *Set) Add(a Author) bool {
	if !a.IsValid() {
		return false
	}
	if s.index == nil {
		s.index = make(map[Author]struct{})
	}
	// Author is comparable, so the map key is exactly the Equal relation.
	if _, ok := s.index[a]; ok {
		return false
	}
	s.index[a] = struct{}{}
	s.order = append(s.order, a)
	return true
}

// Len returns the number of authors. A nil set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// All returns the authors in insertion order. The slice is a copy.
func (s *Set) All() []Author {
	if s == nil {
		return nil
	}
	out := make([]Author, len(s.order))
	copy(out, s.order)
	return out
}

// Contains reports whether an Equal author is present.
func (s *Set) Contains(a Author) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[a]
	return ok
}

// ContainsMatch reports whether any author in the set Matches a.
func (s *Set) ContainsMatch(a Author) bool {
	if s == nil {
		return false
	}
	for _, b := range s.order {
		if Matches(a, b) {
			return true
		}
	}
	return false
}

// AddAll inserts every author of other, in other's order, and returns the
// number actually added.
func (s *Set) AddAll(other *Set) int {
	added := 0
	for _, a := range other.All() {
		if s.Add(a) {
			added++
		}
	}
	return added
}

// Union returns a new set with the authors of a followed by those of b.
func Union(a, b *Set) *Set {
	out := &Set{}
	out.AddAll(a)
	out.AddAll(b)
	return out
}
