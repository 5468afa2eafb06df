package constants_test

import (
	"fmt"
	"path"

	"github.com/opencivicdata/ocdids/pkg/constants"
)

// Example demonstrates building repository paths from the layout constants.
func Example() {
	fragments := path.Join(constants.IdentifiersDir, fmt.Sprintf(constants.CountryDirFormat, "us"))
	canonical := path.Join(constants.IdentifiersDir, fmt.Sprintf(constants.CanonicalFileFormat, "us"))

	fmt.Println(fragments)
	fmt.Println(canonical)
	// Output:
	// identifiers/country-us
	// identifiers/country-us.csv
}

// Example_columns shows the fixed leading column order of canonical files.
func Example_columns() {
	fmt.Println(constants.PreferredColumns)
	// Output: [id name sameAs sameAsNote validThrough]
}
