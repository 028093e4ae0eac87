package rangetree

import (
	"crypto/sha256"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Domain tags. The leaf and branch preimages start with different bytes so a
// leaf can never be passed off as an interior node or vice versa.
const (
	LeafTag   = '0'
	BranchTag = '1'
)

// Hasher supplies the two node hashes used by the tree. Implementations other
// than DomainHasher exist to test the merge order independently of any
// cryptography.
type Hasher[D any] interface {
	HashLeaf(a, b Endpoint) D
	HashBranch(left, right D) D
}

// DomainHasher is the cryptographic Hasher. It reuses a single hash.Hash and
// is not safe for concurrent use.
type DomainHasher struct {
	hasher hash.Hash
	buf    []byte
}

var _ Hasher[Digest] = &DomainHasher{}

// NewDomainHasher wraps h, which must produce 32 byte digests.
func NewDomainHasher(h hash.Hash) (*DomainHasher, error) {
	if h.Size() != HashBytes {
		return nil, fmt.Errorf("%w: got %d", ErrBadHashSize, h.Size())
	}
	return &DomainHasher{
		hasher: h,
		buf:    make([]byte, 0, 1+2*IndexBytes),
	}, nil
}

// HashLeaf computes:
//
//	H( '0' || enc(a) || enc(b) )
func (d *DomainHasher) HashLeaf(a, b Endpoint) Digest {
	d.buf = append(d.buf[:0], LeafTag)
	d.buf = a.AppendEncoding(d.buf)
	d.buf = b.AppendEncoding(d.buf)

	d.hasher.Reset()
	_, _ = d.hasher.Write(d.buf)
	return d.sum()
}

// HashBranch computes:
//
//	H( '1' || left[32] || right[32] )
func (d *DomainHasher) HashBranch(left, right Digest) Digest {
	d.hasher.Reset()
	_, _ = d.hasher.Write([]byte{BranchTag})
	_, _ = d.hasher.Write(left[:])
	_, _ = d.hasher.Write(right[:])
	return d.sum()
}

func (d *DomainHasher) sum() Digest {
	var out Digest
	d.hasher.Sum(out[:0])
	return out
}

// Algorithm names accepted by NewHasher.
const (
	AlgorithmSHA256  = "sha256"
	AlgorithmSHA3    = "sha3-256"
	AlgorithmBLAKE2b = "blake2b-256"
)

// Algorithms lists the supported algorithm names, default first.
func Algorithms() []string {
	return []string{AlgorithmSHA256, AlgorithmSHA3, AlgorithmBLAKE2b}
}

// NewHasher returns a DomainHasher for the named algorithm. The empty name
// selects sha256.
func NewHasher(algorithm string) (*DomainHasher, error) {
	switch algorithm {
	case "", AlgorithmSHA256:
		return NewDomainHasher(sha256.New())
	case AlgorithmSHA3:
		return NewDomainHasher(sha3.New256())
	case AlgorithmBLAKE2b:
		h, err := blake2b.New256(nil)
		if err != nil {
			return nil, err
		}
		return NewDomainHasher(h)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
}
