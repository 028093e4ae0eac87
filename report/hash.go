package report

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/forestrie/go-brangetree/bitstream"
	"github.com/forestrie/go-brangetree/rangetree"
	"github.com/hashicorp/go-multierror"
)

// Result is the report for one registry file.
type Result struct {
	Path            string        `json:"path" cbor:"path"`
	CompressedSize  int64         `json:"zipped" cbor:"zipped"`
	LeafCountFilled uint64        `json:"filled" cbor:"filled"`
	LeafCount       uint64        `json:"leaves" cbor:"leaves"`
	Root            string        `json:"root" cbor:"root"`
	Seconds         float64       `json:"seconds" cbor:"seconds"`
	Elapsed         time.Duration `json:"-" cbor:"-"`
}

// HashFile builds the range tree over the registry at path. Only the tree
// construction is timed, opening the file is not.
func (r *Runner) HashFile(path string) (Result, error) {
	g, err := bitstream.OpenGzip(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return Result{}, err
	}
	defer g.Close()

	start := r.opts.now()
	tree, err := rangetree.NewBuilderFromCache(r.cache).Build(
		rangetree.NewLeafEncoder(g), rangetree.WithFill(!r.opts.noFill))
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", path, err)
	}
	elapsed := r.opts.now().Sub(start)

	r.log.Debugf("hashed %s: %d bytes decompressed, %d terminators cached",
		path, g.BytesRead(), r.cache.Len())

	return Result{
		Path:            path,
		CompressedSize:  g.Size,
		LeafCountFilled: tree.LeafCountFilled,
		LeafCount:       tree.LeafCount,
		Root:            hex.EncodeToString(tree.Root[:]),
		Seconds:         elapsed.Seconds(),
		Elapsed:         elapsed,
	}, nil
}

// Hash reports on every path. With one path any failure is returned as is.
// With several, paths are processed in natural order, failures are noted and
// skipped, and the returned error aggregates them.
func (r *Runner) Hash(paths []string) error {
	if len(paths) == 0 {
		return ErrNoInputs
	}
	w := newWriter(r.out, r.opts.format)

	if len(paths) == 1 {
		res, err := r.HashFile(paths[0])
		if err != nil {
			return err
		}
		return w.single(res)
	}

	var errs *multierror.Error
	for _, path := range NaturalSort(append([]string(nil), paths...)) {
		res, err := r.HashFile(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			if errors.Is(err, ErrInputNotFound) {
				r.notFound(w, path)
				continue
			}
			r.log.Infof("skipping %s: %v", path, err)
			continue
		}
		if err := w.line(res); err != nil {
			return err
		}
	}
	return errs.ErrorOrNil()
}

func (r *Runner) notFound(w *writer, path string) {
	if w.format == FormatText {
		w.printf("Not found: %s\n", path)
		return
	}
	r.log.Infof("Not found: %s", path)
}
