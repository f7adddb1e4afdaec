// Package bitset implements a fixed-size packed boolean array.
//
// Bits are stored in a slice of uint32 words. Bit i lives in word i/32 at
// bit position i%32, least significant bit first. On a little-endian host the
// byte view of the words is therefore bit i in byte i/8 at position i%8,
// which is the layout handed to external renderers.
package bitset

import (
	"fmt"
	"math/bits"
)

const (
	wordBits  = 32
	wordShift = 5 // log2(wordBits)
	wordMask  = wordBits - 1
)

//BitSet is a fixed-length set of bits
type BitSet struct {
	n     int
	words []uint32
}

// New allocates a BitSet holding n bits, all cleared.
func New(n int) *BitSet {
	if n < 0 {
		panic(fmt.Sprintf("bitset: negative length %d", n))
	}
	return &BitSet{n: n, words: make([]uint32, WordsFor(n))}
}

// WordsFor returns the number of words needed to hold n bits.
func WordsFor(n int) int {
	return (n + wordMask) >> wordShift
}

// Len returns the number of bits.
func (b *BitSet) Len() int { return b.n }

// Words exposes the backing storage. The slice aliases the set.
func (b *BitSet) Words() []uint32 { return b.words }

// Get reports whether bit i is set. It panics if i is out of range.
func (b *BitSet) Get(i int) bool {
	b.check(i)
	return b.words[i>>wordShift]&(1<<uint(i&wordMask)) != 0
}

// Bit returns bit i as 0 or 1. It panics if i is out of range.
func (b *BitSet) Bit(i int) uint8 {
	b.check(i)
	return uint8((b.words[i>>wordShift] >> uint(i&wordMask)) & 1)
}

// Set assigns bit i. It panics if i is out of range.
func (b *BitSet) Set(i int, v bool) {
	b.check(i)
	if v {
		b.words[i>>wordShift] |= 1 << uint(i&wordMask)
	} else {
		b.words[i>>wordShift] &^= 1 << uint(i&wordMask)
	}
}

// Toggle flips bit i. It panics if i is out of range.
func (b *BitSet) Toggle(i int) {
	b.check(i)
	b.words[i>>wordShift] ^= 1 << uint(i&wordMask)
}

// ClearAll resets every bit.
func (b *BitSet) ClearAll() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// Count returns the number of set bits.
func (b *BitSet) Count() int {
	c := 0
	for _, w := range b.words {
		c += bits.OnesCount32(w)
	}
	return c
}

// Equal reports whether both sets have the same length and bits.
func (b *BitSet) Equal(o *BitSet) bool {
	if b.n != o.n {
		return false
	}
	for i, w := range b.words {
		if o.words[i] != w {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (b *BitSet) Clone() *BitSet {
	c := &BitSet{n: b.n, words: make([]uint32, len(b.words))}
	copy(c.words, b.words)
	return c
}

// check panics on an out-of-range index. Unused high bits of the last word
// are never addressable.
func (b *BitSet) check(i int) {
	if i < 0 || i >= b.n {
		panic(fmt.Sprintf("bitset: index %d out of range [0, %d)", i, b.n))
	}
}
