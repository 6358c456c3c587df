// Package artifact generates the simulated IPFS hashes and NFT token IDs
// attached to permanent memories. It is the only non-deterministic input to
// planner expansion, so callers inject it and tests substitute Sequence.
package artifact

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"

	"github.com/mr-tron/base58"
)

// Generator produces simulated on-chain artifact identifiers.
type Generator interface {
	IPFSHash() string
	NFTTokenID() string
}

// Random produces CIDv0-shaped hashes and wide random token IDs. Collision
// probability is negligible for both.
type Random struct{}

var _ Generator = Random{}

// multihash header for sha2-256 with a 32-byte digest; base58 of the full
// 34 bytes always starts with "Qm".
var sha256Multihash = []byte{0x12, 0x20}

// IPFSHash returns a 46-character "Qm..." string over 32 random bytes.
func (Random) IPFSHash() string {
	buf := make([]byte, 34)
	copy(buf, sha256Multihash)
	if _, err := rand.Read(buf[2:]); err != nil {
		panic(fmt.Sprintf("artifact: read random bytes: %v", err))
	}
	return base58.Encode(buf)
}

var tokenSpace = big.NewInt(1_000_000_000_000)

// NFTTokenID returns a 12-digit zero-padded random decimal.
func (Random) NFTTokenID() string {
	n, err := rand.Int(rand.Reader, tokenSpace)
	if err != nil {
		panic(fmt.Sprintf("artifact: draw token id: %v", err))
	}
	return fmt.Sprintf("%012d", n.Int64())
}

// Sequence is a deterministic Generator for tests and fixtures. The n-th
// call to IPFSHash returns Prefix+n and the n-th call to NFTTokenID returns
// TokenBase+n, so expected values can be asserted exactly.
type Sequence struct {
	Prefix    string
	TokenBase int

	mu     sync.Mutex
	hashes int
	tokens int
}

var _ Generator = (*Sequence)(nil)

// NewSequence returns a Sequence producing "QmTest0001", "QmTest0002"... and
// "1001", "1002"...
func NewSequence() *Sequence {
	return &Sequence{Prefix: "QmTest", TokenBase: 1000}
}

func (s *Sequence) IPFSHash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes++
	return fmt.Sprintf("%s%04d", s.Prefix, s.hashes)
}

func (s *Sequence) NFTTokenID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens++
	return fmt.Sprintf("%d", s.TokenBase+s.tokens)
}
