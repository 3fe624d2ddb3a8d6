package pipeline

import (
	"github.com/matzehuels/vrplot/pkg/dataset"
)

// Load reads the dataset named by opts: inline Data if set, otherwise the
// file at Path.
func Load(opts Options) (*dataset.Dataset, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	if opts.Data != "" {
		return dataset.Parse(opts.Name, "."+opts.DataFormat, []byte(opts.Data))
	}
	return dataset.Load(opts.Path)
}

// source describes where opts loads its data from, for logs and hooks.
func source(opts Options) string {
	if opts.Data != "" {
		return "inline " + opts.DataFormat
	}
	return opts.Path
}
