package rangetree

import "errors"

// HashBytes is the fixed width of the digests committed by the tree.
const HashBytes = 32

// MaxHeight is the tallest subtree the builder will represent. Leaf counts are
// uint64 so a complete subtree of height 64 can never be reached.
const MaxHeight = 63

// Digest is the output of the cryptographic hashers.
type Digest [HashBytes]byte

// StackEntry is the digest of a complete subtree of exactly 2^Height leaves.
type StackEntry[D any] struct {
	Height uint8
	Hash   D
}

// TreeResult is the outcome of a single tree computation.
type TreeResult[D any] struct {
	LeafCount       uint64
	LeafCountFilled uint64
	Root            D
}

var (
	ErrNoLeaves          = errors.New("rangetree: a tree requires at least one leaf")
	ErrBadHashSize       = errors.New("rangetree: hasher output must be 32 bytes")
	ErrUnknownAlgorithm  = errors.New("rangetree: unknown hash algorithm")
	ErrHeightTooLarge    = errors.New("rangetree: subtree height exceeds 63")
	ErrLeafCountOverflow = errors.New("rangetree: leaf count can not be padded to a power of two")
	ErrBuilderFilled     = errors.New("rangetree: leaves can not be added after padding")
	ErrFillTooLarge      = errors.New("rangetree: refusing to materialize filler leaves")
)
