package cpu

import (
	"math/rand"
	"time"
)

// ByteSource produces uniformly distributed bytes for the RND instruction.
type ByteSource interface {
	Byte() uint8
}

// RandSource is a ByteSource backed by math/rand.
type RandSource struct {
	r *rand.Rand
}

// NewRandSource returns a pseudo-random source. A zero seed means seed from
// the current time.
func NewRandSource(seed int64) *RandSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandSource{r: rand.New(rand.NewSource(seed))}
}

func (s *RandSource) Byte() uint8 {
	return uint8(s.r.Intn(256))
}

// SequenceSource replays a fixed list of bytes, starting again from the
// beginning once exhausted. An empty sequence always yields zero.
type SequenceSource struct {
	seq []uint8
	pos int
}

func NewSequenceSource(seq ...uint8) *SequenceSource {
	return &SequenceSource{seq: seq}
}

func (s *SequenceSource) Byte() uint8 {
	if len(s.seq) == 0 {
		return 0
	}
	b := s.seq[s.pos]
	s.pos = (s.pos + 1) % len(s.seq)
	return b
}
