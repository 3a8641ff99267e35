// Package cryptorand provides a math/rand Source backed by crypto/rand, for
// games that weren't given an explicit seed.
package cryptorand

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// New returns a *rand.Rand that reads from the operating system's secure
// random number generator.
func New() *mrand.Rand {
	return mrand.New(NewSource())
}

func NewSource() Source {
	return Source{}
}

// Source implements rand.Source64. Seed is a no-op.
type Source struct{}

func (s Source) Int63() int64 {
	return int64(s.Uint64() & (1<<63 - 1))
}

func (Source) Uint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(buf[:])
}

func (Source) Seed(int64) {}
