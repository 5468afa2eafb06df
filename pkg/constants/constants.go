// Package constants provides shared constants used throughout the ocdids
// codebase: repository layout, reserved field names, and file permissions.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Repository layout. Paths are relative to the repository root and use
// forward slashes; the country code is substituted for %s.
const (
	// IdentifiersDir holds the per-country fragment trees and canonical files.
	IdentifiersDir = "identifiers"

	// CountryDirFormat names a country's fragment directory.
	CountryDirFormat = "country-%s"

	// CanonicalFileFormat names a country's compiled canonical file.
	CanonicalFileFormat = "country-%s.csv"

	// CorrectionsDir holds the per-country corrections trees and compiled files.
	CorrectionsDir = "corrections"

	// CSVExt is the extension of fragment and canonical files.
	CSVExt = ".csv"

	// ExceptionsSuffix marks files excluded from the compile pass.
	ExceptionsSuffix = "exceptions.csv"
)

// Reserved field names.
const (
	FieldID           = "id"
	FieldName         = "name"
	FieldSameAs       = "sameAs"
	FieldSameAsNote   = "sameAsNote"
	FieldValidFrom    = "validFrom"
	FieldValidThrough = "validThrough"
)

// Corrections columns.
const (
	FieldIncorrectID = "incorrectId"
	FieldNote        = "note"
)

// PreferredColumns is the fixed leading column order of a canonical file.
// Columns not listed here follow in lexicographic order.
var PreferredColumns = []string{FieldID, FieldName, FieldSameAs, FieldSameAsNote, FieldValidThrough}

// RequiredFields must be non-blank on every compiled record.
var RequiredFields = []string{FieldName}

// LegacyFields are the positional columns of a headerless fragment.
var LegacyFields = []string{FieldID, FieldName}

// CorrectionsFields are the required columns of a corrections file, in output order.
var CorrectionsFields = []string{FieldIncorrectID, FieldID, FieldNote}

// Default values
const (
	// DefaultRoot is the repository root used when none is configured.
	DefaultRoot = "."

	// ConfigName is the base name of the optional config file (~/.ocdids.yaml).
	ConfigName = ".ocdids"
)

// DefaultUniqueFields lists, per country code, the columns that must hold
// distinct values in addition to id.
var DefaultUniqueFields = map[string][]string{
	"us": {"census_geoid", "census_geoid_12", "census_geoid_14"},
}
