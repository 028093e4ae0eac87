// Package bitstream enumerates the bits of a revocation registry in the fixed,
// host independent, order the range tree commits to.
//
// Every complete 8 byte block of the stream is read as a little endian uint64,
// byte swapped, and emitted most significant bit first. A trailing block of
// fewer than 8 bytes is emitted byte by byte, each byte most significant bit
// first. Bit 0 is the first bit emitted. Blocks are aligned to the start of
// the whole stream, not to individual reads.
package bitstream

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	BlockBytes = 8
	BlockBits  = BlockBytes * 8
)

var (
	ErrStreamRead = errors.New("bitstream: failed reading the bit stream")
)

// Reader yields bits from an underlying byte stream. Uniform blocks (all zero
// or all one) are reported as a single run of 64 bits.
type Reader struct {
	r   io.Reader
	blk [BlockBytes]byte

	word  uint64
	nbits int
	fresh bool

	bytesRead uint64
	eof       bool
	err       error
}

// NewReader returns a Reader over r. r is buffered internally.
func NewReader(r io.Reader) *Reader {
	if _, ok := r.(*bufio.Reader); !ok {
		r = bufio.NewReaderSize(r, 64*1024)
	}
	return &Reader{r: r}
}

// ReadBits returns the next run of identical bits. The run is 64 long for a
// uniform block and 1 otherwise. io.EOF marks a clean end of stream, every
// other failure wraps ErrStreamRead.
func (r *Reader) ReadBits() (bool, uint64, error) {
	if r.nbits == 0 {
		if err := r.fill(); err != nil {
			return false, 0, err
		}
	}

	if r.fresh && r.nbits == BlockBits && (r.word == 0 || r.word == ^uint64(0)) {
		r.nbits = 0
		return r.word != 0, BlockBits, nil
	}
	r.fresh = false

	bit := r.word>>63 != 0
	r.word <<= 1
	r.nbits--
	return bit, 1, nil
}

// ReadBit returns the next single bit.
func (r *Reader) ReadBit() (bool, error) {
	if r.nbits == 0 {
		if err := r.fill(); err != nil {
			return false, err
		}
	}
	r.fresh = false
	bit := r.word>>63 != 0
	r.word <<= 1
	r.nbits--
	return bit, nil
}

// BytesRead returns the number of bytes consumed from the underlying stream.
func (r *Reader) BytesRead() uint64 { return r.bytesRead }

func (r *Reader) fill() error {
	if r.err != nil {
		return r.err
	}
	if r.eof {
		return io.EOF
	}

	n := 0
	for n < BlockBytes {
		m, err := r.r.Read(r.blk[n:])
		n += m
		if errors.Is(err, io.EOF) {
			r.eof = true
			break
		}
		if err != nil {
			r.err = fmt.Errorf("%w: %v", ErrStreamRead, err)
			return r.err
		}
	}
	r.bytesRead += uint64(n)

	if n == 0 {
		return io.EOF
	}

	// Zero padding a short block and reading it big endian gives the bytes
	// in order, each MSB first, which is the partial block rule.
	for i := n; i < BlockBytes; i++ {
		r.blk[i] = 0
	}
	// Equivalent to byte swapping a little endian load.
	r.word = binary.BigEndian.Uint64(r.blk[:])
	r.nbits = n * 8
	r.fresh = true
	return nil
}
