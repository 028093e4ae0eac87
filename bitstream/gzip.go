package bitstream

import (
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// GzipFile is a Reader over a gzip compressed registry file.
type GzipFile struct {
	*Reader

	// Size is the compressed size of the file in bytes.
	Size int64

	f  *os.File
	gz *gzip.Reader
}

// OpenGzip opens path for bit reading. Errors from os.Open are returned
// unwrapped so callers can test for fs.ErrNotExist.
func OpenGzip(path string) (*GzipFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrStreamRead, path, err)
	}
	return &GzipFile{
		Reader: NewReader(gz),
		Size:   st.Size(),
		f:      f,
		gz:     gz,
	}, nil
}

// Decompressed exposes the decompressed byte stream for callers that want the
// raw registry rather than bits. It must not be mixed with bit reads.
func (g *GzipFile) Decompressed() io.Reader { return g.Reader.r }

func (g *GzipFile) Close() error {
	gzErr := g.gz.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return gzErr
}
