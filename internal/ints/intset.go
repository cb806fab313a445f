// Package ints provides a bit set of small non-negative integers.
package ints

import "math/bits"

const IntSizeShift = 5 + (^uint(0) >> 32 & 1)
const IntSize = 1 << IntSizeShift

// Set is a set of non-negative integers, negative items are silently ignored.
// The zero value is an empty set ready to use.
type Set struct {
	chunks []uint
}

func NewSet(items ...int) *Set {
	result := &Set{}
	result.Add(items...)
	return result
}

func chunkIndex(item int) int {
	return item >> IntSizeShift
}

func bitMask(item int) uint {
	return 1 << (uint(item) & (IntSize - 1))
}

func (s *Set) allocate(item int) {
	index := chunkIndex(item)
	if index < len(s.chunks) {
		return
	}

	chunks := make([]uint, index+1)
	copy(chunks, s.chunks)
	s.chunks = chunks
}

func (s *Set) Add(items ...int) *Set {
	for _, item := range items {
		if item < 0 {
			continue
		}

		s.allocate(item)
		s.chunks[chunkIndex(item)] |= bitMask(item)
	}
	return s
}

func (s *Set) Remove(items ...int) *Set {
	for _, item := range items {
		if item >= 0 && chunkIndex(item) < len(s.chunks) {
			s.chunks[chunkIndex(item)] &= ^bitMask(item)
		}
	}
	return s
}

func (s *Set) Contains(item int) bool {
	if item < 0 || chunkIndex(item) >= len(s.chunks) {
		return false
	}
	return s.chunks[chunkIndex(item)]&bitMask(item) != 0
}

func (s *Set) Copy() *Set {
	chunks := make([]uint, len(s.chunks))
	copy(chunks, s.chunks)
	return &Set{chunks}
}

func (s *Set) IsEmpty() bool {
	for _, chunk := range s.chunks {
		if chunk != 0 {
			return false
		}
	}
	return true
}

func (s *Set) Len() int {
	result := 0
	for _, chunk := range s.chunks {
		result += bits.OnesCount(chunk)
	}
	return result
}

// Union adds all items of t to s and reports whether s has changed.
func (s *Set) Union(t *Set) bool {
	if len(t.chunks) > len(s.chunks) {
		s.allocate((len(t.chunks) << IntSizeShift) - 1)
	}

	changed := false
	for i, chunk := range t.chunks {
		if s.chunks[i]|chunk != s.chunks[i] {
			s.chunks[i] |= chunk
			changed = true
		}
	}
	return changed
}

// Intersect returns a new set containing items present in both s and t.
func Intersect(s, t *Set) *Set {
	size := len(s.chunks)
	if len(t.chunks) < size {
		size = len(t.chunks)
	}

	result := &Set{make([]uint, size)}
	for i := range result.chunks {
		result.chunks[i] = s.chunks[i] & t.chunks[i]
	}
	return result
}

// ToSlice returns set items in ascending order.
func (s *Set) ToSlice() []int {
	result := make([]int, 0, s.Len())
	for i, chunk := range s.chunks {
		for chunk != 0 {
			bit := bits.TrailingZeros(chunk)
			result = append(result, i<<IntSizeShift+bit)
			chunk &= chunk - 1
		}
	}
	return result
}
