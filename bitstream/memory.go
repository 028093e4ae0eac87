package bitstream

import (
	"io"

	"github.com/bits-and-blooms/bitset"
)

// BitsetSource yields the first n bits of a bitset. Runs are found with
// NextSet / NextClear so sparse registries cost time proportional to the
// number of runs rather than the number of bits.
type BitsetSource struct {
	bs  *bitset.BitSet
	n   uint
	pos uint
}

// FromBitset returns a source over bits [0, n) of bs. Bits beyond bs.Len()
// read as zero.
func FromBitset(bs *bitset.BitSet, n uint) *BitsetSource {
	return &BitsetSource{bs: bs, n: n}
}

func (s *BitsetSource) ReadBits() (bool, uint64, error) {
	if s.pos >= s.n {
		return false, 0, io.EOF
	}

	start := s.pos
	revoked := s.bs.Test(start)

	var end uint
	var ok bool
	if revoked {
		end, ok = s.bs.NextClear(start)
		if !ok {
			// set through to the end of the bitset, zeros after that
			end = s.bs.Len()
		}
	} else {
		end, ok = s.bs.NextSet(start)
		if !ok {
			end = s.n
		}
	}
	if end > s.n {
		end = s.n
	}
	s.pos = end
	return revoked, uint64(end - start), nil
}

// BoolSource yields bits from a slice, one at a time.
type BoolSource struct {
	bits []bool
	pos  int
}

func FromBools(bits []bool) *BoolSource {
	return &BoolSource{bits: bits}
}

// FromInts is FromBools for 0/1 literals, any non zero value is revoked.
func FromInts(bits ...int) *BoolSource {
	bools := make([]bool, len(bits))
	for i, b := range bits {
		bools[i] = b != 0
	}
	return FromBools(bools)
}

func (s *BoolSource) ReadBits() (bool, uint64, error) {
	if s.pos >= len(s.bits) {
		return false, 0, io.EOF
	}
	b := s.bits[s.pos]
	s.pos++
	return b, 1, nil
}
