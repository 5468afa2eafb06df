// Package emoji provides symbol constants for CLI output.
package emoji

// Symbols used for status indicators in diagnostic output.
const (
	// Success marks a completed compile or an up-to-date check.
	Success = "✓"

	// Error marks a failed compile.
	Error = "✗"

	// Warning marks a non-fatal notice such as a legacy-format fragment.
	Warning = "!"

	// Info marks informational messages.
	Info = "i"

	// Unknown marks an unrecognized level.
	Unknown = "?"
)
