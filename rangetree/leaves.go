package rangetree

import (
	"errors"
	"io"
)

// BitSource yields a revocation bitmap, in index order, as runs of identical
// bits. count is at least 1 for a nil error. io.EOF marks the end of the
// bitmap; any other error aborts the computation.
//
// Sources that only know about single bits return count = 1 every time.
type BitSource interface {
	ReadBits() (revoked bool, count uint64, err error)
}

// LeafSource is a forward only, single use, sequence of leaves. Next returns
// io.EOF after the last leaf.
type LeafSource interface {
	Next() (Leaf, error)
}

// DefaultMaxMaterializedFill bounds WithMaterializedFill when no explicit
// bound is given.
const DefaultMaxMaterializedFill = 1 << 20

type EncoderOptions struct {
	materializeFill bool
	maxFill         uint64
}

type EncoderOption func(*EncoderOptions)

// WithMaterializedFill makes the encoder emit explicit (End, End) leaves up to
// the next power of two. It exists to check the builder's padding against a
// naive baseline. If more than maxFill filler leaves would be needed the
// encoder fails with ErrFillTooLarge instead. maxFill = 0 selects
// DefaultMaxMaterializedFill.
func WithMaterializedFill(maxFill uint64) EncoderOption {
	return func(o *EncoderOptions) {
		o.materializeFill = true
		o.maxFill = maxFill
		if o.maxFill == 0 {
			o.maxFill = DefaultMaxMaterializedFill
		}
	}
}

// LeafEncoder converts a BitSource into range leaves.
//
// Only the first bit of a run of revoked bits produces a leaf, every revoked
// bit moves the left edge. When the bits run out the closing (left, End) leaf
// is always produced, so a bitmap with nothing revoked is the single leaf
// (Begin, End).
type LeafEncoder struct {
	src  BitSource
	opts EncoderOptions

	left       Endpoint
	runStarted bool
	next       uint64

	count    uint64
	fillLeft uint64
	finished bool
	err      error
}

var _ LeafSource = &LeafEncoder{}

func NewLeafEncoder(src BitSource, opts ...EncoderOption) *LeafEncoder {
	e := &LeafEncoder{
		src:  src,
		left: Begin,
	}
	for _, o := range opts {
		o(&e.opts)
	}
	return e
}

// Next returns the next leaf, or io.EOF once the sequence is exhausted.
func (e *LeafEncoder) Next() (Leaf, error) {
	if e.err != nil {
		return Leaf{}, e.err
	}
	if e.finished {
		return e.nextFiller()
	}

	for {
		revoked, n, err := e.src.ReadBits()
		if errors.Is(err, io.EOF) {
			return e.finish()
		}
		if err != nil {
			e.err = err
			return Leaf{}, err
		}
		if n == 0 {
			continue
		}

		i := e.next
		e.next += n

		if !revoked {
			e.runStarted = false
			continue
		}

		last := Index(i + n - 1)
		if !e.runStarted {
			e.runStarted = true
			leaf := Leaf{Left: e.left, Right: Index(i)}
			e.left = last
			e.count++
			return leaf, nil
		}
		e.left = last
	}
}

func (e *LeafEncoder) finish() (Leaf, error) {
	leaf := Leaf{Left: e.left, Right: End}
	e.finished = true
	e.count++

	if e.opts.materializeFill {
		fill, err := FillCount(e.count)
		if err == nil && fill > e.opts.maxFill {
			err = ErrFillTooLarge
		}
		if err != nil {
			// the closing leaf is still valid, the failure surfaces on the
			// next call.
			e.err = err
		}
		e.fillLeft = fill
	}
	return leaf, nil
}

func (e *LeafEncoder) nextFiller() (Leaf, error) {
	if e.fillLeft == 0 {
		return Leaf{}, io.EOF
	}
	e.fillLeft--
	e.count++
	return FillerLeaf, nil
}

// Count returns the number of leaves produced so far, filler included.
func (e *LeafEncoder) Count() uint64 { return e.count }

// BitCount returns the number of bits consumed so far.
func (e *LeafEncoder) BitCount() uint64 { return e.next }

// sliceSource serves leaves from memory.
type sliceSource struct {
	leaves []Leaf
	pos    int
}

// SliceSource returns a LeafSource over leaves.
func SliceSource(leaves []Leaf) LeafSource {
	return &sliceSource{leaves: leaves}
}

func (s *sliceSource) Next() (Leaf, error) {
	if s.pos >= len(s.leaves) {
		return Leaf{}, io.EOF
	}
	l := s.leaves[s.pos]
	s.pos++
	return l, nil
}

// CollectLeaves drains src into a slice.
func CollectLeaves(src LeafSource) ([]Leaf, error) {
	var leaves []Leaf
	for {
		l, err := src.Next()
		if errors.Is(err, io.EOF) {
			return leaves, nil
		}
		if err != nil {
			return leaves, err
		}
		leaves = append(leaves, l)
	}
}
