package dice

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"math/big"
	mrand "math/rand/v2"
	"sync"
	"sync/atomic"
)

// Source is the randomness provider for every draw in a build.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a uniformly distributed int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
	// Float64 returns a uniformly distributed float in [0, 1).
	Float64() float64
}

// CryptoSource implements Source on top of the platform CSPRNG.
//
// When the entropy reader fails, the source falls back to math/rand/v2 and
// records that it did so; UsedFallback reports it.
//
// Invariant: Intn values lie in [0, n); Float64 values lie in [0, 1).
type CryptoSource struct {
	reader   io.Reader
	fallback atomic.Bool
}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: UsedFallback() is false until the first entropy failure.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{reader: rand.Reader}
}

// NewCryptoSourceFrom returns a CryptoSource that draws entropy from r.
//
// Precondition: r must be non-nil.
func NewCryptoSourceFrom(r io.Reader) *CryptoSource {
	return &CryptoSource{reader: r}
}

// Intn returns a random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" otherwise.
func (c *CryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(c.reader, big.NewInt(int64(n)))
	if err != nil {
		c.fallback.Store(true)
		return mrand.IntN(n)
	}
	return int(val.Int64())
}

// Float64 returns a random float in [0, 1) built from 53 random bits.
func (c *CryptoSource) Float64() float64 {
	var buf [8]byte
	if _, err := io.ReadFull(c.reader, buf[:]); err != nil {
		c.fallback.Store(true)
		return mrand.Float64()
	}
	u := binary.BigEndian.Uint64(buf[:]) >> 11
	return float64(u) / (1 << 53)
}

// UsedFallback reports whether any value so far came from math/rand/v2
// instead of the entropy reader.
func (c *CryptoSource) UsedFallback() bool {
	return c.fallback.Load()
}

// seededSource is a reproducible Source for tests and simulations.
type seededSource struct {
	mu sync.Mutex
	r  *mrand.Rand
}

// NewSeededSource returns a deterministic PCG-backed Source.
//
// Postcondition: two sources built from the same seed yield the same sequence.
func NewSeededSource(seed uint64) Source {
	return &seededSource{r: mrand.New(mrand.NewPCG(seed, 0))}
}

func (s *seededSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

func (s *seededSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}
