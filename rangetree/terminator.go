package rangetree

// TerminatorCache memoizes the digest of the complete subtree of height d
// whose every leaf is the (End, End) filler.
//
//	d = 0: HashLeaf(End, End)
//	d > 0: HashBranch(t[d-1], t[d-1])
//
// The entries depend only on the hasher, so one cache may serve any number of
// tree computations that share a hasher. It is not safe for concurrent use.
type TerminatorCache[D any] struct {
	hasher  Hasher[D]
	entries []D
}

func NewTerminatorCache[D any](hasher Hasher[D]) *TerminatorCache[D] {
	return &TerminatorCache[D]{hasher: hasher}
}

// Get returns the terminator digest for height, computing and storing any
// missing heights below it first.
func (c *TerminatorCache[D]) Get(height uint8) (D, error) {
	if height > MaxHeight {
		var zero D
		return zero, ErrHeightTooLarge
	}
	if int(height) < len(c.entries) {
		return c.entries[height], nil
	}

	var h D
	if len(c.entries) == 0 {
		h = c.hasher.HashLeaf(End, End)
		c.entries = append(c.entries, h)
	} else {
		h = c.entries[len(c.entries)-1]
	}
	for len(c.entries) <= int(height) {
		h = c.hasher.HashBranch(h, h)
		c.entries = append(c.entries, h)
	}
	return h, nil
}

// Len returns the number of heights computed so far.
func (c *TerminatorCache[D]) Len() int { return len(c.entries) }
