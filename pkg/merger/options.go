package merger

import (
	"github.com/rs/zerolog"

	"github.com/opencivicdata/ocdids/pkg/constants"
	"github.com/opencivicdata/ocdids/pkg/errors"
	"github.com/opencivicdata/ocdids/pkg/ocdid"
)

// Validator checks one non-blank field value.
type Validator func(value string) error

type options struct {
	validators map[string]Validator
	logger     *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		validators: map[string]Validator{
			constants.FieldID:           ocdid.Validate,
			constants.FieldValidFrom:    ocdid.ValidateDate,
			constants.FieldValidThrough: ocdid.ValidateDate,
		},
	}
}

// Option is a function that configures a Merger.
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

// WithValidator registers or replaces the validator for field.
func WithValidator(field string, v Validator) Option {
	return func(o *options) error {
		if field == "" {
			return &errors.ValidationError{Field: "field", Message: "cannot be empty"}
		}
		if v == nil {
			return &errors.ValidationError{Field: "validator", Value: field, Message: "cannot be nil"}
		}
		o.validators[field] = v
		return nil
	}
}

// WithoutValidator removes the validator for field. The id validator cannot
// be removed.
func WithoutValidator(field string) Option {
	return func(o *options) error {
		if field == constants.FieldID {
			return &errors.ValidationError{Field: "field", Value: field, Message: "id validation is mandatory"}
		}
		delete(o.validators, field)
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
