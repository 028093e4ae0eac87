package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
)

// writer renders records in one format. JSON is one object per line and CBOR
// is a sequence of top level items.
type writer struct {
	out    io.Writer
	format Format
	enc    *json.Encoder
}

func newWriter(out io.Writer, format Format) *writer {
	return &writer{out: out, format: format, enc: json.NewEncoder(out)}
}

func (w *writer) printf(format string, args ...any) {
	fmt.Fprintf(w.out, format, args...)
}

func (w *writer) single(res Result) error {
	if w.format != FormatText {
		return w.record(res)
	}
	_, err := fmt.Fprintf(w.out,
		"zipped: %d\nfilled: %d\nleaves: %d\nroot:   %s\ntime:   %.2f\n",
		res.CompressedSize, res.LeafCountFilled, res.LeafCount, res.Root, res.Seconds)
	return err
}

func (w *writer) line(res Result) error {
	if w.format != FormatText {
		return w.record(res)
	}
	_, err := fmt.Fprintf(w.out, "%s %d %d %d %s %.3f\n",
		res.Path, res.CompressedSize, res.LeafCountFilled, res.LeafCount, res.Root, res.Seconds)
	return err
}

func (w *writer) stats(res InspectResult) error {
	if w.format != FormatText {
		return w.record(res)
	}
	_, err := fmt.Fprintf(w.out, "%s %d %d %d %d\n",
		res.Path, res.CompressedSize, res.Bits, res.Revoked, res.Percent)
	return err
}

func (w *writer) record(v any) error {
	switch w.format {
	case FormatJSON:
		return w.enc.Encode(v)
	case FormatCBOR:
		b, err := cbor.Marshal(v)
		if err != nil {
			return err
		}
		_, err = w.out.Write(b)
		return err
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, w.format)
}
