// Package errors provides custom error types for the ocdids compiler.
// Every integrity problem the compiler can detect has its own type so callers
// can check for it with errors.Is / errors.As, and so that aggregated failures
// can be rendered as one human-readable report.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the ocdids system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidIdentifier indicates a malformed OCD identifier
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrInvalidDate indicates a malformed validFrom/validThrough value
	ErrInvalidDate = errors.New("invalid date")

	// ErrMissingIDColumn indicates a fragment file without a usable id column
	ErrMissingIDColumn = errors.New("missing id column")

	// ErrMissingColumn indicates a file without a required column
	ErrMissingColumn = errors.New("missing column")

	// ErrFieldConflict indicates two fragments disagree on a field value
	ErrFieldConflict = errors.New("field conflict")

	// ErrMissingParent indicates an identifier whose parent is unknown
	ErrMissingParent = errors.New("missing parent")

	// ErrBrokenAlias indicates a sameAs pointing nowhere or at another alias
	ErrBrokenAlias = errors.New("broken alias")

	// ErrMissingRequiredField indicates a record without a required field
	ErrMissingRequiredField = errors.New("missing required field")

	// ErrDuplicateUniqueValue indicates two records sharing a unique value
	ErrDuplicateUniqueValue = errors.New("duplicate unique value")

	// ErrIntegrity is matched by every aggregated compile failure
	ErrIntegrity = errors.New("integrity violation")

	// ErrOutOfDate indicates the committed canonical file does not match its sources
	ErrOutOfDate = errors.New("canonical file out of date")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// InvalidIdentifierError reports an identifier that fails the grammar.
type InvalidIdentifierError struct {
	ID     string
	Reason string
	File   string // set when the id came from a fragment
	Line   int
}

// Error implements the error interface
func (e *InvalidIdentifierError) Error() string {
	msg := fmt.Sprintf("invalid id %q", e.ID)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg + location(e.File, e.Line)
}

// Is implements errors.Is support
func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier || target == ErrInvalidInput
}

// InvalidDateError reports a date field that is not YYYY, YYYY-MM or YYYY-MM-DD.
type InvalidDateError struct {
	Field string
	Value string
	ID    string
	File  string
	Line  int
	Err   error
}

// Error implements the error interface
func (e *InvalidDateError) Error() string {
	msg := fmt.Sprintf("invalid date %q", e.Value)
	if e.Field != "" {
		msg = fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	if e.ID != "" {
		msg += " on " + e.ID
	}
	return msg + location(e.File, e.Line)
}

// Unwrap implements errors.Unwrap
func (e *InvalidDateError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate || target == ErrInvalidInput
}

// MissingIDColumnError reports a fragment whose header has no id column,
// or a headerless file that is not in the two-column legacy layout.
type MissingIDColumnError struct {
	File    string
	Columns []string
}

// Error implements the error interface
func (e *MissingIDColumnError) Error() string {
	if len(e.Columns) == 0 {
		return fmt.Sprintf("no column headers detected in %s", e.File)
	}
	return fmt.Sprintf("no id column in %s (columns: %s)", e.File, strings.Join(e.Columns, ", "))
}

// Is implements errors.Is support
func (e *MissingIDColumnError) Is(target error) bool {
	return target == ErrMissingIDColumn
}

// MissingColumnError reports a corrections file lacking a required column.
type MissingColumnError struct {
	File   string
	Column string
}

// Error implements the error interface
func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("no %s column in %s", e.Column, e.File)
}

// Is implements errors.Is support
func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingColumn
}

// FieldConflictError reports two fragments supplying different values for
// the same field of the same identifier. The first value seen is kept.
type FieldConflictError struct {
	ID       string
	Field    string
	Current  string
	SetBy    string // fragment that supplied Current
	Incoming string
	File     string // fragment that supplied Incoming
	Sources  []string
}

// Error implements the error interface
func (e *FieldConflictError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "mismatch for attribute %s on %s\n", e.Field, e.ID)
	if e.SetBy != "" {
		fmt.Fprintf(&sb, "was set to %q (from %s) - got %q from %s\n", e.Current, e.SetBy, e.Incoming, e.File)
	} else {
		fmt.Fprintf(&sb, "was set to %q - got %q from %s\n", e.Current, e.Incoming, e.File)
	}
	sb.WriteString("other sources:")
	for _, src := range e.Sources {
		sb.WriteString("\n   " + src)
	}
	return sb.String()
}

// Is implements errors.Is support
func (e *FieldConflictError) Is(target error) bool {
	return target == ErrFieldConflict
}

// MissingParentError lists every parent identifier referenced but never defined.
// Parents maps each missing parent to the ids that need it.
type MissingParentError struct {
	Parents  []string
	Children map[string][]string
}

// Error implements the error interface
func (e *MissingParentError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d unknown parents", len(e.Parents))
	for _, parent := range e.Parents {
		sb.WriteString("\n   " + parent)
		if kids := e.Children[parent]; len(kids) > 0 {
			fmt.Fprintf(&sb, " (needed by %s)", summarize(kids, 3))
		}
	}
	return sb.String()
}

// Is implements errors.Is support
func (e *MissingParentError) Is(target error) bool {
	return target == ErrMissingParent
}

// BrokenAliasError reports a sameAs that points at a nonexistent id, or at
// an id which is itself an alias (Next is then that id's sameAs target).
type BrokenAliasError struct {
	ID     string
	Target string
	Next   string
}

// Error implements the error interface
func (e *BrokenAliasError) Error() string {
	if e.Next != "" {
		return fmt.Sprintf("sameAs chain: %s -> %s -> %s", e.ID, e.Target, e.Next)
	}
	return fmt.Sprintf("sameAs points to nonexistent id: %s -> %s", e.ID, e.Target)
}

// Is implements errors.Is support
func (e *BrokenAliasError) Is(target error) bool {
	return target == ErrBrokenAlias
}

// RecordRef names a record and the fragments that contributed to it.
type RecordRef struct {
	ID      string
	Sources []string
}

// MissingRequiredFieldError lists every record lacking a required field.
type MissingRequiredFieldError struct {
	Field   string
	Records []RecordRef
}

// Error implements the error interface
func (e *MissingRequiredFieldError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d records missing required field %q", len(e.Records), e.Field)
	for _, rec := range e.Records {
		fmt.Fprintf(&sb, "\n   %s from %s", rec.ID, strings.Join(rec.Sources, ", "))
	}
	return sb.String()
}

// Is implements errors.Is support
func (e *MissingRequiredFieldError) Is(target error) bool {
	return target == ErrMissingRequiredField
}

// Duplicate is one value shared by several records in a unique field.
type Duplicate struct {
	Field string
	Value string
	IDs   []string
}

// DuplicateUniqueValueError lists every duplicated value across all unique fields.
type DuplicateUniqueValueError struct {
	Duplicates []Duplicate
}

// Error implements the error interface
func (e *DuplicateUniqueValueError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d duplicate values in unique fields", len(e.Duplicates))
	for _, d := range e.Duplicates {
		fmt.Fprintf(&sb, "\n   %s=%s on %s", d.Field, d.Value, strings.Join(d.IDs, ", "))
	}
	return sb.String()
}

// Is implements errors.Is support
func (e *DuplicateUniqueValueError) Is(target error) bool {
	return target == ErrDuplicateUniqueValue
}

// IntegrityError aggregates every problem found during one compile run.
type IntegrityError struct {
	Country string
	Errs    []error
}

// Error implements the error interface
func (e *IntegrityError) Error() string {
	var sb strings.Builder
	noun := "problems"
	if len(e.Errs) == 1 {
		noun = "problem"
	}
	if e.Country != "" {
		fmt.Fprintf(&sb, "compile of country-%s failed with %d %s:", e.Country, len(e.Errs), noun)
	} else {
		fmt.Fprintf(&sb, "compile failed with %d %s:", len(e.Errs), noun)
	}
	for i, err := range e.Errs {
		fmt.Fprintf(&sb, "\n[%d] %s", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes every aggregated error to errors.Is and errors.As.
func (e *IntegrityError) Unwrap() []error {
	return e.Errs
}

// Is implements errors.Is support
func (e *IntegrityError) Is(target error) bool {
	return target == ErrIntegrity
}

// Aggregate returns nil when errs holds no non-nil error, otherwise an
// *IntegrityError carrying them in order. Nested IntegrityErrors are flattened.
func Aggregate(country string, errs ...error) error {
	var flat []error
	for _, err := range errs {
		if err == nil {
			continue
		}
		var agg *IntegrityError
		if errors.As(err, &agg) && agg != nil {
			flat = append(flat, agg.Errs...)
			continue
		}
		flat = append(flat, err)
	}
	if len(flat) == 0 {
		return nil
	}
	return &IntegrityError{Country: country, Errs: flat}
}

// OutOfDateError reports that the committed canonical file differs from a
// fresh compile of its sources.
type OutOfDateError struct {
	Path string
	Diff string
}

// Error implements the error interface
func (e *OutOfDateError) Error() string {
	msg := fmt.Sprintf("%s does not match its sources; re-run compile and commit the result", e.Path)
	if e.Diff != "" {
		msg += "\n" + e.Diff
	}
	return msg
}

// Is implements errors.Is support
func (e *OutOfDateError) Is(target error) bool {
	return target == ErrOutOfDate
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "csv", "yaml", etc.
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename", "open", "close"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsIntegrityError checks if an error is an aggregated compile failure
func IsIntegrityError(err error) bool {
	return errors.Is(err, ErrIntegrity)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

func location(file string, line int) string {
	switch {
	case file != "" && line > 0:
		return fmt.Sprintf(" in %s:%d", file, line)
	case file != "":
		return " in " + file
	default:
		return ""
	}
}

func summarize(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s and %d more", strings.Join(items[:limit], ", "), len(items)-limit)
}
