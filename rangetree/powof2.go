package rangetree

import "math/bits"

// IsPow2 determines if n is a perfect power of 2.
func IsPow2(n uint64) bool {
	return n != 0 && n&(n-1) == 0
}

// NextPow2 returns the smallest power of two >= n. Zero has no such power in
// the sense the tree needs (a tree has at least one leaf), and values above
// 2^63 would overflow, both return false.
func NextPow2(n uint64) (uint64, bool) {
	if n == 0 {
		return 0, false
	}
	if IsPow2(n) {
		return n, true
	}
	l := bits.Len64(n)
	if l >= 64 {
		return 0, false
	}
	return 1 << l, true
}

// FillCount returns the number of filler leaves required to pad leafCount up
// to a power of two.
func FillCount(leafCount uint64) (uint64, error) {
	if leafCount == 0 {
		return 0, ErrNoLeaves
	}
	p, ok := NextPow2(leafCount)
	if !ok {
		return 0, ErrLeafCountOverflow
	}
	return p - leafCount, nil
}
