package rangetree

/*

# Range leaf trees over revocation bitmaps

This package commits to a revocation bitmap with a binary merkle tree whose
leaves are the *gaps* between revoked indices rather than the bits themselves.
A verifier shown the single leaf (a, b) with a < i < b, and its path to the
root, knows index i is not revoked. The bitmap itself never needs to be
shipped.

It follows the same "functional primitives" style as `go-merklelog/mmr`:

- small, composable functions
- explicit byte layouts
- binary counter arithmetic in place of explicit tree navigation

## Leaves

Given the bits

	index  0 1 2 3 4 5 6 7 8
	bit    1 0 0 1 0 1 1 0 1

the encoder emits

	(B,0) (0,3) (3,5) (6,8) (8,E)

B and E are sentinels standing for "no revoked index on this side". Only the
first bit of a revoked run emits a leaf; later bits of the same run just move
the left edge along, so (3,5) is followed by (6,8) and not (5,6).

## Hashing

	leaf   = H('0' || enc(a) || enc(b))
	branch = H('1' || left || right)

An index encodes as 8 bytes little endian, a sentinel as the single byte 'B'
or 'E'. The length difference is the only thing separating a sentinel from a
real index in the hash input and it MUST be preserved.

## Building

Leaves are folded with a stack of complete subtrees, exactly as a binary
counter increments:

	leaves  stack (heights)
	1       0
	2       1
	3       1 0
	4       2
	5       2 0
	6       2 1
	7       2 1 0

Each push merges H(older, newer) once per carry. Memory is O(log n).

## Padding

When padding is requested the leaf count is rounded up to a power of two with
(E,E) filler leaves. The filler is never materialised. A complete subtree of
2^p filler leaves has a digest that depends only on p (the "terminator" hash),
so for every set bit p of the fill count, lowest first, the cached terminator
for height p is merged as though 2^p leaves had just been pushed. Padding a
handful of leaves to 2^40 costs 40 cache entries and at most 40 merges.

## Root

Whatever remains on the stack is folded newest first:

	root = H(s[0], H(s[1], ... H(s[n-2], s[n-1])))

When padding was applied there is exactly one entry. Without padding the
result for a non power of two count is a deliberately lopsided bagging of the
peaks, and that order is part of the commitment format.

*/
