package entity

// Profile is a named engineering/pricing template. It selects the plywood
// thickness and the sell markup applied to a box.
type Profile string

const (
	ProfileStandardLocal   Profile = "STANDARD_LOCAL"
	ProfileExportISPM15    Profile = "EXPORT_ISPM15"
	ProfilePremiumArtIT    Profile = "PREMIUM_ART_IT"
	ProfileMachineryISPM15 Profile = "MACHINERY_ISPM15"
)

// AllProfiles lists every defined profile. Settings validation requires an
// entry for each of these in the per-profile tables.
var AllProfiles = []Profile{
	ProfileStandardLocal,
	ProfileExportISPM15,
	ProfilePremiumArtIT,
	ProfileMachineryISPM15,
}

// Valid reports whether p is one of the defined profiles.
func (p Profile) Valid() bool {
	switch p {
	case ProfileStandardLocal, ProfileExportISPM15, ProfilePremiumArtIT, ProfileMachineryISPM15:
		return true
	}
	return false
}
