package entity

// ProgramGroup is a prioritized category of enablement programs
type ProgramGroup struct {
	Category string   `json:"category"`
	Priority Priority `json:"priority"`
	Programs []string `json:"programs"`
}

// RecommendationSet is the matcher's output
type RecommendationSet struct {
	Groups           []ProgramGroup `json:"priority_programs"`
	Upskilling       []string       `json:"upskilling"`
	JobMatching      []string       `json:"job_matching"`
	CareerCounseling []string       `json:"career_counseling"`
	NextSteps        []string       `json:"next_steps"`
	Advice           string         `json:"personalized_advice"`
}

// DegradedAdvice is the advice text on a degraded recommendation set
const DegradedAdvice = "Unable to generate recommendations"

// DegradedRecommendations is substituted when matching fails
func DegradedRecommendations() *RecommendationSet {
	return &RecommendationSet{
		Groups:           []ProgramGroup{},
		Upskilling:       []string{},
		JobMatching:      []string{},
		CareerCounseling: []string{},
		NextSteps:        []string{},
		Advice:           DegradedAdvice,
	}
}

// TotalPrograms counts programs across all groups
func (r *RecommendationSet) TotalPrograms() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Programs)
	}
	return n
}
