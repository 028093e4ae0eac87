package rangetree

import (
	"errors"
	"io"
)

// Builder folds leaves into a root with a stack of complete subtrees.
//
// After n leaves the stack holds one entry for each set bit of n, the
// tallest (oldest) at the bottom. Adding a leaf merges exactly as many times
// as incrementing n carries.
type Builder[D any] struct {
	hasher Hasher[D]
	cache  *TerminatorCache[D]

	stack []StackEntry[D]

	leafCount   uint64
	filledCount uint64
	filled      bool
}

// NewBuilder returns a builder with its own terminator cache.
func NewBuilder[D any](hasher Hasher[D]) *Builder[D] {
	return NewBuilderFromCache(NewTerminatorCache(hasher))
}

// NewBuilderFromCache returns a builder that shares cache, and its hasher,
// with other computations.
func NewBuilderFromCache[D any](cache *TerminatorCache[D]) *Builder[D] {
	return &Builder[D]{
		hasher: cache.hasher,
		cache:  cache,
	}
}

// Push adds one real leaf.
func (b *Builder[D]) Push(leaf Leaf) error {
	if b.filled {
		return ErrBuilderFilled
	}
	if b.leafCount >= 1<<MaxHeight {
		return ErrLeafCountOverflow
	}
	h := b.hasher.HashLeaf(leaf.Left, leaf.Right)
	b.merge(h, 0)
	b.leafCount++
	return nil
}

// Extend pushes every leaf from src.
func (b *Builder[D]) Extend(src LeafSource) error {
	for {
		leaf, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err = b.Push(leaf); err != nil {
			return err
		}
	}
}

// Fill pads the tree to the next power of two using cached terminator
// subtrees in place of individual (End, End) leaves, and returns the padded
// leaf count.
//
// For every set bit p of the fill count, lowest first, the terminator of
// height p is merged as if 2^p leaves had just been pushed. Because the real
// count plus the lower fill bits is always a multiple of 2^p at that point,
// the carry rule lines the terminator up with a sibling of equal height, just
// as streaming the filler leaves one at a time would.
func (b *Builder[D]) Fill() (uint64, error) {
	if b.leafCount == 0 {
		return 0, ErrNoLeaves
	}
	fill, err := FillCount(b.filledCount)
	if err != nil {
		return 0, err
	}
	for p := uint8(0); fill != 0; p, fill = p+1, fill>>1 {
		if fill&1 == 0 {
			continue
		}
		t, err := b.cache.Get(p)
		if err != nil {
			return 0, err
		}
		b.merge(t, p)
	}
	b.filled = true
	return b.filledCount, nil
}

// merge places h, the digest of a complete subtree of 2^height leaves, on the
// stack, combining it with equal height siblings until the binary count of
// leaves has no further carry.
func (b *Builder[D]) merge(h D, height uint8) {
	b.filledCount += 1 << height

	for n := b.filledCount >> height; n&1 == 0; n >>= 1 {
		top := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]

		// top is the older, left hand, subtree
		h = b.hasher.HashBranch(top.Hash, h)
		height++
	}
	b.stack = append(b.stack, StackEntry[D]{Height: height, Hash: h})
}

// Root folds whatever remains on the stack, newest entry first:
//
//	root = H(s[0], H(s[1], ... H(s[n-2], s[n-1])))
//
// The stack is not modified. When the leaf count is a power of two there is
// only one entry and no hashing is done.
func (b *Builder[D]) Root() (D, error) {
	if len(b.stack) == 0 {
		var zero D
		return zero, ErrNoLeaves
	}
	root := b.stack[len(b.stack)-1].Hash
	for i := len(b.stack) - 2; i >= 0; i-- {
		root = b.hasher.HashBranch(b.stack[i].Hash, root)
	}
	return root, nil
}

// Result returns the counts and root of the tree built so far.
func (b *Builder[D]) Result() (TreeResult[D], error) {
	root, err := b.Root()
	if err != nil {
		return TreeResult[D]{}, err
	}
	return TreeResult[D]{
		LeafCount:       b.leafCount,
		LeafCountFilled: b.filledCount,
		Root:            root,
	}, nil
}

// LeafCount returns the number of real leaves pushed.
func (b *Builder[D]) LeafCount() uint64 { return b.leafCount }

// FilledCount returns the leaf count including any padding.
func (b *Builder[D]) FilledCount() uint64 { return b.filledCount }

// Peaks returns a copy of the stack, oldest entry first.
func (b *Builder[D]) Peaks() []StackEntry[D] {
	return append([]StackEntry[D](nil), b.stack...)
}

type BuildOptions struct {
	noFill bool
}

type BuildOption func(*BuildOptions)

// WithFill selects whether the tree is padded to a power of two. Padding is
// the default.
func WithFill(fill bool) BuildOption {
	return func(o *BuildOptions) {
		o.noFill = !fill
	}
}

// Build drains leaves, pads unless WithFill(false) is given, and returns the
// result.
func (b *Builder[D]) Build(leaves LeafSource, opts ...BuildOption) (TreeResult[D], error) {
	var o BuildOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := b.Extend(leaves); err != nil {
		return TreeResult[D]{}, err
	}
	if !o.noFill {
		if _, err := b.Fill(); err != nil {
			return TreeResult[D]{}, err
		}
	}
	return b.Result()
}

// BuildTree computes the tree over leaves with a fresh builder and cache.
func BuildTree[D any](hasher Hasher[D], leaves LeafSource, opts ...BuildOption) (TreeResult[D], error) {
	return NewBuilder(hasher).Build(leaves, opts...)
}

// HashBits encodes the bitmap from src into range leaves and builds the tree
// over them.
func HashBits[D any](hasher Hasher[D], src BitSource, opts ...BuildOption) (TreeResult[D], error) {
	return BuildTree(hasher, NewLeafEncoder(src), opts...)
}
