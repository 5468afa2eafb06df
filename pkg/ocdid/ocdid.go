// Package ocdid implements the OCD division identifier grammar:
//
//	ocd-division/country:<cc>(/<type>:<value>)*
//
// Identifiers are case-sensitive and must be entirely lowercase. Types are
// letters and underscores; values are word characters plus ".", "~" and "-".
package ocdid

import (
	"regexp"
	"strings"
	"time"

	"github.com/opencivicdata/ocdids/pkg/errors"
)

// Root is the implicit parent of every country identifier. It is never a
// record itself and never needs a lookup.
const Root = "ocd-division"

// pattern is deliberately case-permissive in types and values; lowercase is
// enforced separately so that a case-folding engine can never mask it.
var pattern = regexp.MustCompile(`^ocd-division/country:[a-z]{2}(/[A-Za-z_]+:[\p{L}\p{M}\p{N}_.~-]+)*$`)

// Validate returns nil when id is a well-formed identifier, or an
// *errors.InvalidIdentifierError describing why it is not.
func Validate(id string) error {
	if !pattern.MatchString(id) {
		return &errors.InvalidIdentifierError{ID: id, Reason: "does not match ocd-division/country:<cc>(/<type>:<value>)*"}
	}
	if strings.ToLower(id) != id {
		return &errors.InvalidIdentifierError{ID: id, Reason: "identifiers must be lowercase"}
	}
	return nil
}

var dateLayouts = map[int]string{
	len("2006"):       "2006",
	len("2006-01"):    "2006-01",
	len("2006-01-02"): "2006-01-02",
}

// ValidateDate accepts YYYY, YYYY-MM or YYYY-MM-DD. Components are checked
// against the calendar, so 2020-13 and 2021-02-29 are rejected.
func ValidateDate(s string) error {
	layout, ok := dateLayouts[len(s)]
	if !ok {
		return &errors.InvalidDateError{Value: s}
	}
	if _, err := time.Parse(layout, s); err != nil {
		return &errors.InvalidDateError{Value: s, Err: err}
	}
	return nil
}

// Parent returns id with its final /type:value segment removed. The parent
// of a country identifier is Root; an id without a slash has no parent.
func Parent(id string) string {
	i := strings.LastIndexByte(id, '/')
	if i < 0 {
		return ""
	}
	return id[:i]
}

// IsCountryRoot reports whether id is a bare country identifier.
func IsCountryRoot(id string) bool {
	return Parent(id) == Root
}

// Type returns the type of the final segment, e.g. "county" for
// ocd-division/country:us/state:ma/county:suffolk.
func Type(id string) string {
	last := id[strings.LastIndexByte(id, '/')+1:]
	typ, _, _ := strings.Cut(last, ":")
	return typ
}

// Country returns the two-letter country code of id, or "" if id has none.
func Country(id string) string {
	rest, ok := strings.CutPrefix(id, Root+"/country:")
	if !ok {
		return ""
	}
	cc, _, _ := strings.Cut(rest, "/")
	return cc
}
