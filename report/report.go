// Package report runs the range tree over registry files and renders the
// results.
//
// A single path is reported as labelled lines, several paths are reported one
// line per file in natural order. A missing file aborts a single run but is
// only noted in a batch, the batch error collects every failed file.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/facette/natsort"
	"github.com/forestrie/go-brangetree/rangetree"
)

var (
	ErrInputNotFound = errors.New("report: input not found")
	ErrUnknownFormat = errors.New("report: unknown output format")
	ErrNoInputs      = errors.New("report: no input paths")
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported formats, default first.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatCBOR}
}

// ParseFormat accepts a format name case insensitively. The empty name is
// text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatCBOR:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

type Options struct {
	algorithm string
	noFill    bool
	format    Format
	now       func() time.Time
}

type Option func(*Options)

// WithAlgorithm selects the hash algorithm by rangetree name.
func WithAlgorithm(name string) Option {
	return func(o *Options) { o.algorithm = name }
}

// WithFill selects whether trees are padded to a power of two, the default.
func WithFill(fill bool) Option {
	return func(o *Options) { o.noFill = !fill }
}

func WithFormat(f Format) Option {
	return func(o *Options) { o.format = f }
}

// Runner hashes and inspects registry files, writing reports to out. Files
// hashed by the same Runner share one terminator cache.
type Runner struct {
	log   logger.Logger
	out   io.Writer
	opts  Options
	cache *rangetree.TerminatorCache[rangetree.Digest]
}

func NewRunner(log logger.Logger, out io.Writer, opts ...Option) (*Runner, error) {
	o := Options{format: FormatText, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if _, err := ParseFormat(string(o.format)); err != nil {
		return nil, err
	}
	hasher, err := rangetree.NewHasher(o.algorithm)
	if err != nil {
		return nil, err
	}
	return &Runner{
		log:   log,
		out:   out,
		opts:  o,
		cache: rangetree.NewTerminatorCache[rangetree.Digest](hasher),
	}, nil
}

// NaturalSort orders paths so that embedded numbers compare by value, "f2"
// before "f10". The slice is sorted in place and returned.
func NaturalSort(paths []string) []string {
	natsort.Sort(paths)
	return paths
}
