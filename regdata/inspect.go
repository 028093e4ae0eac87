package regdata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"math/bits"

	"github.com/bits-and-blooms/bitset"
	"github.com/forestrie/go-brangetree/bitstream"
)

// Stats summarises a registry file. CompressedSize is the size on disk.
type Stats struct {
	Path           string `json:"path" cbor:"path"`
	CompressedSize int64  `json:"zipped" cbor:"zipped"`
	Bits           uint64 `json:"bits" cbor:"bits"`
	Revoked        uint64 `json:"revoked" cbor:"revoked"`
}

// Percent returns the revoked share rounded to a whole percent, 0 for an
// empty registry.
func (s Stats) Percent() int {
	if s.Bits == 0 {
		return 0
	}
	return int(math.Round(float64(s.Revoked) / float64(s.Bits) * 100))
}

// Inspect counts the entries of the registry at path. A missing file is
// reported with an error matching fs.ErrNotExist.
func Inspect(path string) (Stats, error) {
	g, err := bitstream.OpenGzip(path)
	if err != nil {
		return Stats{}, err
	}
	defer g.Close()

	st := Stats{Path: path, CompressedSize: g.Size}
	st.Bits, st.Revoked, err = countBits(g.Decompressed())
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %s: %v", bitstream.ErrStreamRead, path, err)
	}
	return st, nil
}

// countBits returns the total and set bit counts of r.
func countBits(r io.Reader) (total uint64, set uint64, err error) {
	buf := make([]byte, chunkBytes)
	words := make([]uint64, chunkBytes/8)
	for {
		n, rerr := readChunk(r, buf)
		if n > 0 {
			total += uint64(n) * 8

			nw := n / 8
			for i := range nw {
				words[i] = binary.LittleEndian.Uint64(buf[i*8:])
			}
			set += uint64(bitset.From(words[:nw]).Count())
			for _, b := range buf[nw*8 : n] {
				set += uint64(bits.OnesCount8(b))
			}
		}
		if errors.Is(rerr, io.EOF) {
			return total, set, nil
		}
		if rerr != nil {
			return total, set, rerr
		}
	}
}

// readChunk fills buf unless the stream ends first. Unlike io.ReadFull it
// passes a truncation error from r through unchanged.
func readChunk(r io.Reader, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
