package game

import "math/bits"

const setWords = (UniverseSize + 63) / 64

// Set is a subset of the universe stored as a bit vector over code ranks.
// Iteration is in ascending code order.
type Set struct {
	bits  [setWords]uint64
	count int
}

// NewSet builds a set from the given codes.
func NewSet(codes ...Code) *Set {
	s := &Set{}
	for _, c := range codes {
		s.Add(c)
	}
	return s
}

// Add inserts c. Invalid codes are ignored.
func (s *Set) Add(c Code) {
	if !c.Valid() {
		return
	}
	i := c.Index()
	if s.bits[i/64]&(1<<(i%64)) == 0 {
		s.bits[i/64] |= 1 << (i % 64)
		s.count++
	}
}

// Has reports membership.
func (s *Set) Has(c Code) bool {
	if s == nil || !c.Valid() {
		return false
	}
	i := c.Index()
	return s.bits[i/64]&(1<<(i%64)) != 0
}

// Len is the number of members.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return s.count
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	cp := *s
	return &cp
}

// Each calls fn for every member in ascending order until fn returns false.
func (s *Set) Each(fn func(Code) bool) {
	if s == nil {
		return
	}
	for w, word := range s.bits {
		for word != 0 {
			b := bits.TrailingZeros64(word)
			if !fn(codeAt(w*64 + b)) {
				return
			}
			word &= word - 1
		}
	}
}

// Codes lists the members in ascending order.
func (s *Set) Codes() []Code {
	out := make([]Code, 0, s.Len())
	s.Each(func(c Code) bool {
		out = append(out, c)
		return true
	})
	return out
}

// Min returns the smallest member; ok is false for an empty set.
func (s *Set) Min() (c Code, ok bool) {
	s.Each(func(m Code) bool {
		c, ok = m, true
		return false
	})
	return c, ok
}

// Filter returns the members for which keep returns true.
func (s *Set) Filter(keep func(Code) bool) *Set {
	out := &Set{}
	s.Each(func(c Code) bool {
		if keep(c) {
			out.Add(c)
		}
		return true
	})
	return out
}

// Intersect returns s ∩ o.
func (s *Set) Intersect(o *Set) *Set {
	out := &Set{}
	if s == nil || o == nil {
		return out
	}
	for i := range s.bits {
		out.bits[i] = s.bits[i] & o.bits[i]
		out.count += bits.OnesCount64(out.bits[i])
	}
	return out
}

// Equal reports whether both sets hold the same codes.
func (s *Set) Equal(o *Set) bool {
	if s.Len() != o.Len() {
		return false
	}
	if s == nil || o == nil {
		return true
	}
	return s.bits == o.bits
}
