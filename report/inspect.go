package report

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/forestrie/go-brangetree/regdata"
	"github.com/hashicorp/go-multierror"
)

// InspectResult is regdata.Stats with the rounded revoked percentage.
type InspectResult struct {
	regdata.Stats
	Percent int `json:"percent" cbor:"percent"`
}

func (r *Runner) InspectFile(path string) (InspectResult, error) {
	st, err := regdata.Inspect(path)
	if errors.Is(err, fs.ErrNotExist) {
		return InspectResult{}, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{Stats: st, Percent: st.Percent()}, nil
}

// Inspect reports registry statistics one line per path, in natural order.
// Missing and unreadable files are noted and skipped.
func (r *Runner) Inspect(paths []string) error {
	if len(paths) == 0 {
		return ErrNoInputs
	}
	w := newWriter(r.out, r.opts.format)

	var errs *multierror.Error
	for _, path := range NaturalSort(append([]string(nil), paths...)) {
		res, err := r.InspectFile(path)
		if err != nil {
			errs = multierror.Append(errs, err)
			if errors.Is(err, ErrInputNotFound) {
				r.notFound(w, path)
				continue
			}
			r.log.Infof("skipping %s: %v", path, err)
			continue
		}
		if err := w.stats(res); err != nil {
			return err
		}
	}
	return errs.ErrorOrNil()
}
