// Package regdata generates and inspects synthetic revocation registries.
//
// A registry of 2^bits entries is stored gzip compressed, one bit per entry,
// packed so that reading it back through bitstream yields entry i as bit i.
package regdata

import (
	"errors"
	"fmt"
	"math"
)

const (
	// MinIndexBits keeps registries a whole number of bytes.
	MinIndexBits = 3
	// MaxIndexBits is bounded by the 32 bit roaring index space.
	MaxIndexBits = 32
)

var (
	ErrBadParams = errors.New("regdata: invalid registry parameters")
)

// Params describes one registry: 2^IndexBits entries with Percent of them
// revoked.
type Params struct {
	IndexBits uint8
	Percent   int
}

// Size returns the number of entries in the registry.
func (p Params) Size() uint64 { return uint64(1) << p.IndexBits }

// Revoked returns the exact number of revoked entries, rounded half away from
// zero.
func (p Params) Revoked() uint64 {
	return uint64(math.Round(float64(p.Percent) * float64(p.Size()) / 100))
}

// Name returns the file name the registry is stored under.
func (p Params) Name() string {
	return fmt.Sprintf("%dbits_%dpc_random.gz", p.IndexBits, p.Percent)
}

func (p Params) Validate() error {
	if p.IndexBits < MinIndexBits || p.IndexBits > MaxIndexBits {
		return fmt.Errorf("%w: index bits %d not in [%d, %d]", ErrBadParams, p.IndexBits, MinIndexBits, MaxIndexBits)
	}
	if p.Percent < 0 || p.Percent > 100 {
		return fmt.Errorf("%w: percent %d not in [0, 100]", ErrBadParams, p.Percent)
	}
	return nil
}

var (
	DefaultIndexBits = []uint8{16, 20, 22, 23, 24}
	DefaultPercents  = []int{1, 2, 5, 10, 25, 50}
)

// Sets returns every combination of bits and percents, grouped by bits.
func Sets(bits []uint8, percents []int) []Params {
	sets := make([]Params, 0, len(bits)*len(percents))
	for _, b := range bits {
		for _, pct := range percents {
			sets = append(sets, Params{IndexBits: b, Percent: pct})
		}
	}
	return sets
}

// DefaultSets is the benchmark grid: 2^16 to 2^24 entries at 1 to 50 percent
// revoked.
func DefaultSets() []Params {
	return Sets(DefaultIndexBits, DefaultPercents)
}
