package regdata

import (
	"bufio"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/klauspost/compress/gzip"
)

const (
	chunkBytes = 64 * 1024

	// pcgStream is the fixed second word of the PCG state, so a single seed
	// selects the stream.
	pcgStream = 0x9e3779b97f4a7c15
)

type Options struct {
	seed  uint64
	level int
}

type Option func(*Options)

// WithSeed selects the pseudo random sequence. Equal seeds give identical
// registries.
func WithSeed(seed uint64) Option {
	return func(o *Options) { o.seed = seed }
}

// WithCompressionLevel sets the gzip level, gzip.DefaultCompression if unset.
func WithCompressionLevel(level int) Option {
	return func(o *Options) { o.level = level }
}

func newOptions(opts []Option) Options {
	o := Options{level: gzip.DefaultCompression}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Generate returns the revoked entries of a random registry. Exactly
// p.Revoked() entries are set. Above 50 percent the complement is drawn and
// the bitmap flipped, keeping the number of draws at most half the size.
func Generate(p Params, opts ...Option) (*roaring.Bitmap, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	o := newOptions(opts)
	rng := rand.New(rand.NewPCG(o.seed, pcgStream))

	size := p.Size()
	want := p.Revoked()
	invert := p.Percent > 50
	if invert {
		want = size - want
	}

	bm := roaring.New()
	for bm.GetCardinality() < want {
		bm.Add(uint32(rng.Uint64N(size)))
	}
	if invert {
		bm.Flip(0, size)
	}
	return bm, nil
}

// Write streams the first size entries of bm to w as a gzip compressed
// registry. size must be a multiple of 8.
func Write(w io.Writer, bm *roaring.Bitmap, size uint64, opts ...Option) error {
	if size%8 != 0 {
		return fmt.Errorf("%w: size %d is not a whole number of bytes", ErrBadParams, size)
	}
	o := newOptions(opts)
	zw, err := gzip.NewWriterLevel(w, o.level)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadParams, err)
	}

	buf := make([]byte, chunkBytes)
	it := bm.Iterator()
	for base := uint64(0); base < size; base += chunkBytes * 8 {
		n := min(uint64(chunkBytes), (size-base)/8)
		chunk := buf[:n]
		clear(chunk)

		limit := base + n*8
		for it.HasNext() && uint64(it.PeekNext()) < limit {
			off := uint64(it.Next()) - base
			chunk[off/8] |= 0x80 >> (off % 8)
		}
		if _, err := zw.Write(chunk); err != nil {
			return err
		}
	}
	return zw.Close()
}

// WriteFile generates the registry described by p and writes it to dir under
// p.Name(). It returns the path written.
func WriteFile(log logger.Logger, dir string, p Params, opts ...Option) (string, error) {
	bm, err := Generate(p, opts...)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	path := filepath.Join(dir, p.Name())
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	bw := bufio.NewWriter(f)
	if err := Write(bw, bm, p.Size(), opts...); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	log.Debugf("generated %s: %d of %d revoked", path, bm.GetCardinality(), p.Size())
	return path, nil
}
