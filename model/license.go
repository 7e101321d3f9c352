package model

// License enumerates the licenses a track can be published under.
type License string

const (
	LicenseCCBY   License = "cc_by"
	LicenseCCBYSA License = "cc_by_sa"
	LicenseCC0    License = "cc0"
	LicenseCustom License = "custom"
)

// Licenses lists every known license value.
var Licenses = []License{LicenseCCBY, LicenseCCBYSA, LicenseCC0, LicenseCustom}

// Valid reports whether l is one of the known license values.
func (l License) Valid() bool {
	switch l {
	case LicenseCCBY, LicenseCCBYSA, LicenseCC0, LicenseCustom:
		return true
	}
	return false
}
