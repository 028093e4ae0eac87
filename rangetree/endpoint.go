package rangetree

import (
	"encoding/binary"
	"strconv"
)

// EndpointKind discriminates the Endpoint union.
type EndpointKind uint8

const (
	KindIndex EndpointKind = iota
	KindBegin
	KindEnd
)

const (
	// IndexBytes is the encoded width of a real index.
	IndexBytes = 8
	// SentinelBytes is the encoded width of Begin and End.
	SentinelBytes = 1

	beginByte = 'B'
	endByte   = 'E'
)

// Endpoint is one side of a range leaf: a revoked index or one of the Begin
// and End sentinels.
type Endpoint struct {
	kind  EndpointKind
	index uint64
}

var (
	// Begin stands below every index.
	Begin = Endpoint{kind: KindBegin}
	// End stands above every index.
	End = Endpoint{kind: KindEnd}
)

// Index returns the endpoint for a real, revoked, index.
func Index(i uint64) Endpoint {
	return Endpoint{kind: KindIndex, index: i}
}

func (e Endpoint) Kind() EndpointKind { return e.kind }

// Value returns the index and true, or false for a sentinel.
func (e Endpoint) Value() (uint64, bool) {
	if e.kind != KindIndex {
		return 0, false
	}
	return e.index, true
}

// IsSentinel reports whether e is Begin or End.
func (e Endpoint) IsSentinel() bool { return e.kind != KindIndex }

// Less orders endpoints with Begin first and End last.
func (e Endpoint) Less(o Endpoint) bool {
	if e.kind != o.kind {
		return e.rank() < o.rank()
	}
	return e.kind == KindIndex && e.index < o.index
}

func (e Endpoint) rank() int {
	switch e.kind {
	case KindBegin:
		return 0
	case KindEnd:
		return 2
	}
	return 1
}

// EncodedLen returns the byte length of the hash encoding of e.
func (e Endpoint) EncodedLen() int {
	if e.kind == KindIndex {
		return IndexBytes
	}
	return SentinelBytes
}

// AppendEncoding appends the hash encoding of e to dst.
//
// An index is 8 bytes little endian. A sentinel is a single byte. No 8 byte
// encoding can equal a 1 byte encoding, which is what keeps sentinel leaves
// distinct from index leaves without a type tag.
func (e Endpoint) AppendEncoding(dst []byte) []byte {
	switch e.kind {
	case KindBegin:
		return append(dst, beginByte)
	case KindEnd:
		return append(dst, endByte)
	}
	return binary.LittleEndian.AppendUint64(dst, e.index)
}

// Encode returns the hash encoding of e.
func (e Endpoint) Encode() []byte {
	return e.AppendEncoding(make([]byte, 0, e.EncodedLen()))
}

func (e Endpoint) String() string {
	switch e.kind {
	case KindBegin:
		return "B"
	case KindEnd:
		return "E"
	}
	return strconv.FormatUint(e.index, 10)
}

// Leaf is an ordered pair of endpoints bounding a maximal run of non revoked
// indices.
type Leaf struct {
	Left  Endpoint
	Right Endpoint
}

// NewLeaf is a convenience for building leaves from endpoints.
func NewLeaf(left, right Endpoint) Leaf {
	return Leaf{Left: left, Right: right}
}

// FillerLeaf is the (End, End) leaf used to pad a tree.
var FillerLeaf = Leaf{Left: End, Right: End}

// Contains reports whether index i lies strictly between the leaf endpoints,
// which is to say the leaf witnesses that i is not revoked.
func (l Leaf) Contains(i uint64) bool {
	return l.Left.Less(Index(i)) && Index(i).Less(l.Right)
}

func (l Leaf) String() string {
	return "(" + l.Left.String() + "," + l.Right.String() + ")"
}
