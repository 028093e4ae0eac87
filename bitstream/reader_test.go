package bitstream

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/iotest"

	"github.com/bits-and-blooms/bitset"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bitReader interface {
	ReadBits() (bool, uint64, error)
}

// expand drains src one bit per element.
func expand(t *testing.T, src bitReader) []int {
	t.Helper()
	var out []int
	for {
		b, n, err := src.ReadBits()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		require.NotZero(t, n)
		v := 0
		if b {
			v = 1
		}
		for i := uint64(0); i < n; i++ {
			out = append(out, v)
		}
	}
}

func bitsOf(bs ...byte) []int {
	var out []int
	for _, b := range bs {
		for p := 7; p >= 0; p-- {
			out = append(out, int(b>>p&1))
		}
	}
	return out
}

func TestReaderOrdering(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  []int
	}{
		{"empty stream", nil, nil},
		{"single byte 0xFE is MSB first", []byte{0xFE}, []int{1, 1, 1, 1, 1, 1, 1, 0}},
		{"partial block keeps byte order", []byte{0x80, 0x01, 0x40}, bitsOf(0x80, 0x01, 0x40)},
		{
			"a full block of 0xFE then 0xFF",
			[]byte{0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			bitsOf(0xFE, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF),
		},
		{
			"full block then a partial block",
			[]byte{1, 2, 3, 4, 5, 6, 7, 8, 0xA5},
			bitsOf(1, 2, 3, 4, 5, 6, 7, 8, 0xA5),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := expand(t, NewReader(bytes.NewReader(tt.input)))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReaderUniformBlocksAreRuns(t *testing.T) {
	input := append(bytes.Repeat([]byte{0}, 8), bytes.Repeat([]byte{0xFF}, 8)...)
	input = append(input, 0xFF)
	r := NewReader(bytes.NewReader(input))

	b, n, err := r.ReadBits()
	require.NoError(t, err)
	assert.False(t, b)
	assert.Equal(t, uint64(BlockBits), n)

	b, n, err = r.ReadBits()
	require.NoError(t, err)
	assert.True(t, b)
	assert.Equal(t, uint64(BlockBits), n)

	// the trailing partial block is never collapsed
	b, n, err = r.ReadBits()
	require.NoError(t, err)
	assert.True(t, b)
	assert.Equal(t, uint64(1), n)

	assert.Equal(t, uint64(17), r.BytesRead())
}

func TestReaderIndependentOfReadChunking(t *testing.T) {
	input := []byte{9, 8, 7, 6, 5, 4, 3, 2, 1, 0, 0xFF, 0xEE, 0xDD, 0xCC, 0xBB, 0xAA, 0x99, 0x42, 0x24}
	want := expand(t, NewReader(bytes.NewReader(input)))

	got := expand(t, NewReader(oneByteAtATime(input)))
	assert.Equal(t, want, got)
	assert.Equal(t, bitsOf(input...), got)
}

func oneByteAtATime(b []byte) io.Reader {
	return iotest.OneByteReader(bytes.NewReader(b))
}

func TestReaderReadBit(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x00, 0, 0, 0, 0, 0, 0, 0x01}))
	for i := 0; i < 63; i++ {
		b, err := r.ReadBit()
		require.NoError(t, err)
		require.False(t, b, "bit %d", i)
	}
	b, err := r.ReadBit()
	require.NoError(t, err)
	assert.True(t, b)
	_, err = r.ReadBit()
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderWrapsReadFailures(t *testing.T) {
	broken := io.MultiReader(bytes.NewReader([]byte{1, 2, 3}), iotest.ErrReader(io.ErrClosedPipe))
	r := NewReader(broken)

	var err error
	for err == nil {
		_, _, err = r.ReadBits()
	}
	require.ErrorIs(t, err, ErrStreamRead)
	assert.NotErrorIs(t, err, io.EOF)
}

func writeGzip(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return path
}

func TestOpenGzip(t *testing.T) {
	data := []byte{0xFE, 0, 0, 0, 0, 0, 0, 0, 0x80}
	path := writeGzip(t, data)

	g, err := OpenGzip(path)
	require.NoError(t, err)
	defer g.Close()

	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, st.Size(), g.Size)
	assert.Equal(t, bitsOf(data...), expand(t, g))
}

func TestOpenGzipTruncated(t *testing.T) {
	path := writeGzip(t, bytes.Repeat([]byte{0x5A}, 4096))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:len(raw)-12], 0o644))

	g, err := OpenGzip(path)
	require.NoError(t, err)
	defer g.Close()

	for err == nil {
		_, _, err = g.ReadBits()
	}
	require.ErrorIs(t, err, ErrStreamRead)
}

func TestOpenGzipMissing(t *testing.T) {
	_, err := OpenGzip(filepath.Join(t.TempDir(), "nope.gz"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestBitsetSource(t *testing.T) {
	bs := bitset.New(16)
	bs.Set(1).Set(2).Set(3).Set(9)

	got := expand(t, FromBitset(bs, 12))
	assert.Equal(t, []int{0, 1, 1, 1, 0, 0, 0, 0, 0, 1, 0, 0}, got)

	// reading past the bitset length yields zeros
	got = expand(t, FromBitset(bs, 20))
	assert.Len(t, got, 20)
	assert.Equal(t, 0, got[19])

	// trailing revoked run clipped to n
	bs2 := bitset.New(16)
	bs2.Set(14).Set(15)
	got = expand(t, FromBitset(bs2, 15))
	assert.Equal(t, 1, got[14])
	assert.Len(t, got, 15)
}

func TestBoolSource(t *testing.T) {
	assert.Equal(t, []int{1, 0, 1}, expand(t, FromInts(1, 0, 7)))
	assert.Nil(t, expand(t, FromBools(nil)))
}
