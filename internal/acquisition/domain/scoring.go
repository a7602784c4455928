package domain

import "strings"

// ScoringInput carries the lead attributes the priority scorer looks at.
// All fields are optional; missing data simply scores zero for its band.
type ScoringInput struct {
	// Position is the advertised job title.
	Position string
	// Industry is the vendor-supplied industry label, if any.
	Industry string
	// JobText is free text from the ad used for vertical keyword matching.
	JobText string
	// ContactName and ContactPhone describe the best company-side contact
	// on the imported row.
	ContactName  string
	ContactPhone string
	// EmployeeCount is the vendor's company size estimate. Zero = unknown.
	EmployeeCount int
	// FreshlySeen is true when the ad was sighted in the current import.
	FreshlySeen bool
	// CompanyKnown is true when the company existed before this import.
	CompanyKnown bool
}

// Vertical keyword lists. Matching is case-insensitive substring matching
// over industry, position and job text.
var (
	highValueVerticals = []string{
		"logistik", "logistics",
		"produktion", "production", "manufacturing",
		"pflege", "nursing", "care",
		"elektr", "electric",
		"metall", "metal",
	}
	adjacentVerticals = []string{
		"lager", "warehouse",
		"handwerk", "craft",
		"büro", "office", "kaufmännisch",
		"handel", "retail",
		"gastronomie", "hospitality",
	}
	seniorityMarkers = []string{
		"head", "lead", "director",
		"leiter", "leitung", "meister",
	}
	juniorMarkers = []string{
		"junior", "trainee", "praktikant",
		"azubi", "werkstudent", "intern",
	}
)

// employee-count sweet spot for a staffing pitch: big enough to hire
// regularly, small enough to reach a decision maker.
const (
	sweetSpotMin = 50
	sweetSpotMax = 500
)

// ScorePriority computes the 0-10 worklist priority of a lead from its
// imported attributes. Deterministic and side-effect free.
func ScorePriority(in ScoringInput) int {
	score := 0
	verticalText := strings.ToLower(in.Industry + " " + in.Position + " " + in.JobText)

	switch {
	case containsAny(verticalText, highValueVerticals):
		score += 2
	case containsAny(verticalText, adjacentVerticals):
		score++
	}

	switch {
	case strings.TrimSpace(in.ContactName) != "" && strings.TrimSpace(in.ContactPhone) != "":
		score += 2
	case strings.TrimSpace(in.ContactName) != "":
		score++
	}

	switch {
	case in.EmployeeCount >= sweetSpotMin && in.EmployeeCount <= sweetSpotMax:
		score += 2
	case in.EmployeeCount > sweetSpotMax:
		score++
	}

	if in.FreshlySeen {
		score++
	}

	title := strings.ToLower(in.Position)
	switch {
	case containsAny(title, juniorMarkers):
		// junior/trainee roles score nothing
	case containsAny(title, seniorityMarkers):
		score += 2
	case strings.TrimSpace(title) != "":
		score++
	}

	if in.CompanyKnown {
		score++
	}

	if score > 10 {
		score = 10
	}
	if score < 0 {
		score = 0
	}
	return score
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
