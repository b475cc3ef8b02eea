package gotrie

import (
	"github.com/pkg/errors"
)

// DefaultScanOpts returns the ScanOpts a scan uses for anything not otherwise specified.
func DefaultScanOpts() ScanOpts {
	return ScanOpts{
		Format:     "simple_weight",
		Backing:    "matrix",
		Method:     MethodESU.String(),
		OutputFile: "results.txt",
		Random: RandomOpts{
			Seed:      -1,
			Exchanges: 3,
			Tries:     10,
		},
		Workers: 1,
	}
}

func (opts *ScanOpts) validateSize() error {
	if opts.Size < MinPatternSize || opts.Size > MaxPatternSize {
		return errors.Wrapf(ErrBadPatternSize, "size %d is not within %d..%d", opts.Size, MinPatternSize, MaxPatternSize)
	}
	return nil
}

// Validate checks the params needed to census a network.
func (opts *ScanOpts) Validate() error {
	if err := opts.validateSize(); err != nil {
		return err
	}
	if opts.GraphFile == "" {
		return errors.Wrap(ErrMissingPath, "no graph file specified")
	}
	if _, err := ParseInputFormat(opts.Format); err != nil {
		return err
	}
	if _, err := ParseBacking(opts.Backing); err != nil {
		return err
	}
	method, err := ParseMethod(opts.Method)
	if err != nil {
		return err
	}
	switch {
	case method == MethodGTrie && opts.IndexFile == "":
		return errors.Wrap(ErrMissingPath, "method gtrie needs an index file")
	case method == MethodSubgraphs && opts.PatternsFile == "":
		return errors.Wrap(ErrMissingPath, "method subgraphs needs a patterns file")
	}
	if opts.SampleProbs != nil {
		if len(opts.SampleProbs) != opts.Size {
			return errors.Wrapf(ErrBadProbability, "need %d sampling probabilities, got %d", opts.Size, len(opts.SampleProbs))
		}
		for i, p := range opts.SampleProbs {
			if !(p > 0 && p <= 1) {
				return errors.Wrapf(ErrBadProbability, "probability %d is %v", i, p)
			}
		}
	}
	if opts.Random.Count < 0 {
		return errors.Wrapf(ErrBadRandomParam, "random network count %d", opts.Random.Count)
	}
	if opts.Random.Count > 0 && (opts.Random.Exchanges < 0 || opts.Random.Tries < 1) {
		return errors.Wrapf(ErrBadRandomParam, "exchanges %d, tries %d", opts.Random.Exchanges, opts.Random.Tries)
	}
	return nil
}

// ValidateCreate checks the params needed to build and write a pattern index.
func (opts *ScanOpts) ValidateCreate() error {
	if err := opts.validateSize(); err != nil {
		return err
	}
	if opts.PatternsFile == "" {
		return errors.Wrap(ErrMissingPath, "no patterns file specified")
	}
	if opts.IndexFile == "" && opts.OutputFile == "" {
		return errors.Wrap(ErrMissingPath, "no index output file specified")
	}
	return nil
}
