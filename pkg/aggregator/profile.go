package aggregator

// Profile selects which sections a route computes.
type Profile struct {
	Name     string
	Sections []SectionID
}

var (
	// ProfileOverview is the full keyword overview.
	ProfileOverview = Profile{Name: "overview", Sections: CanonicalOrder}

	// ProfileIdeas returns related keywords only and never calls providers.
	ProfileIdeas = Profile{Name: "ideas", Sections: []SectionID{SectionRelatedCount, SectionRelated}}
)

// Includes reports whether the profile selects id.
func (p Profile) Includes(id SectionID) bool {
	for _, s := range p.Sections {
		if s == id {
			return true
		}
	}
	return false
}

// UsesProviders reports whether any selected section needs an upstream call.
func (p Profile) UsesProviders() bool {
	return p.Includes(SectionSERP) || p.Includes(SectionHistory) ||
		p.Includes(SectionRegion) || p.Includes(SectionInterest)
}
