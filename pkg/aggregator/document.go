package aggregator

import (
	"bytes"
	"encoding/json"
)

// SectionID identifies a response section. The constant order is the
// canonical order of the response document.
type SectionID int

const (
	SectionSummary SectionID = iota
	SectionExact
	SectionSERP
	SectionHistory
	SectionRegion
	SectionInterest
	SectionRelatedCount
	SectionRelated
)

// CanonicalOrder lists every section in response order.
var CanonicalOrder = []SectionID{
	SectionSummary,
	SectionExact,
	SectionSERP,
	SectionHistory,
	SectionRegion,
	SectionInterest,
	SectionRelatedCount,
	SectionRelated,
}

var sectionNames = map[SectionID]string{
	SectionSummary:      "Comprehensive Keyword Analysis",
	SectionExact:        "Keyword Overview",
	SectionSERP:         "SERP Analysis",
	SectionHistory:      "Your Targeted Keword Trending History On Google",
	SectionRegion:       "Interest Google Trends Data",
	SectionInterest:     "Google Trends Data",
	SectionRelatedCount: "Total Related Keywords",
	SectionRelated:      "Related Keywords",
}

// Name is the wire key of the section.
func (id SectionID) Name() string {
	return sectionNames[id]
}

func (id SectionID) String() string {
	return id.Name()
}

// Fixed section texts.
const (
	SummaryText = "Keyword Overview full analysis with SERP Analysis, Keword Trending History, " +
		"related Queries and keyword intrest by region On Google Trends, Related Keywords data."

	ExactNotFound       = "No data found in the database for Keyword Overview."
	RelatedNotFound     = "No closely related keywords found in the database."
	HistoryNotFound     = "No closely Your Targeted Keword Trending History On Google"
	SERPUnavailable     = "Sorry serp_analysis is not found. Please try after some time"
	HistoryUnavailable  = "Sorry keyword trending history is not available. Please try after some time"
	InterestUnavailable = "Sorry Google Trends data is not available. Please try after some time"
	FaultMessage        = "Sorry.. No data found in my Database. if you try after 1 min, get big Keyword Research Data... or try another country"
	relatedCountLabel   = "Total Related Keywords"
)

// Section is one named part of a document. Payload is either a typed result
// or a placeholder string.
type Section struct {
	ID      SectionID
	Payload interface{}
}

// IsPlaceholder reports whether the section carries a fixed text instead of data.
func (s Section) IsPlaceholder() bool {
	_, ok := s.Payload.(string)
	return ok && s.ID != SectionSummary
}

// Document is the ordered research response. A faulted document carries only
// the generic fault message.
type Document struct {
	RequestID string
	Profile   string
	Sections  []Section
	Fault     bool
}

// Section returns the section with id, if present.
func (d *Document) Section(id SectionID) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Names returns the wire keys in document order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Sections))
	for _, s := range d.Sections {
		names = append(names, s.ID.Name())
	}
	return names
}

// MarshalJSON writes an array of single-key objects, or the fault object.
func (d *Document) MarshalJSON() ([]byte, error) {
	if d.Fault {
		return json.Marshal(map[string]string{"error": FaultMessage})
	}

	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, s := range d.Sections {
		if i > 0 {
			buf.WriteByte(',')
		}
		item, err := json.Marshal(map[string]interface{}{s.ID.Name(): s.Payload})
		if err != nil {
			return nil, err
		}
		buf.Write(item)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// relatedCount is the marker prepended to a non-empty related list.
func relatedCount(n int) map[string]int {
	return map[string]int{relatedCountLabel: n}
}
