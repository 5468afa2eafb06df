package compiler

import (
	"maps"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/errors"
)

type options struct {
	root       string
	unique     map[string][]string
	output     string
	check      bool
	provenance string
	logger     *zerolog.Logger
}

func defaultOptions() *options {
	unique := make(map[string][]string, len(constants.DefaultUniqueFields))
	for cc, fields := range constants.DefaultUniqueFields {
		unique[cc] = slices.Clone(fields)
	}
	return &options{
		root:   constants.DefaultRoot,
		unique: unique,
	}
}

// Option is a function that configures a Compiler.
type Option func(*options) error

func (options *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithRoot sets the repository root containing the identifiers directory.
func WithRoot(root string) Option {
	return func(o *options) error {
		if root == "" {
			return &errors.ValidationError{Field: "root", Message: "cannot be empty"}
		}
		o.root = root
		return nil
	}
}

// WithUniqueFields replaces the unique fields of country. id is always
// unique and need not be listed.
func WithUniqueFields(country string, fields ...string) Option {
	return func(o *options) error {
		if country == "" {
			return &errors.ValidationError{Field: "country", Message: "cannot be empty"}
		}
		o.unique[strings.ToLower(country)] = slices.Clone(fields)
		return nil
	}
}

// WithUniqueFieldMap replaces the unique fields of every country in m.
func WithUniqueFieldMap(m map[string][]string) Option {
	return func(o *options) error {
		for _, cc := range slices.Sorted(maps.Keys(m)) {
			if err := WithUniqueFields(cc, m[cc]...)(o); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithOutput writes the canonical file to path instead of the default
// identifiers/country-<cc>.csv under the root.
func WithOutput(path string) Option {
	return func(o *options) error {
		o.output = path
		return nil
	}
}

// WithCheck compares the compiled output with the existing canonical file
// instead of writing it.
func WithCheck(check bool) Option {
	return func(o *options) error {
		o.check = check
		return nil
	}
}

// WithProvenance additionally writes field provenance as YAML to path.
func WithProvenance(path string) Option {
	return func(o *options) error {
		o.provenance = path
		return nil
	}
}

// WithLogger sets the logger passed to every stage.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
