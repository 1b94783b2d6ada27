package service

import (
	"fmt"
	"strings"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
)

// Category names used on program groups
const (
	CategoryJobMatching       = "Job Matching"
	CategoryUpskilling        = "Upskilling"
	CategoryCareerCounseling  = "Career Counseling"
	CategoryFinancialLiteracy = "Financial Literacy"
)

// DefaultLowIncomeThreshold separates employed applicants who get the full upskilling track
const DefaultLowIncomeThreshold = 10000.0

// ProgramCatalog lists enablement programs by category. Order matters: rules
// pick programs by position.
type ProgramCatalog struct {
	Upskilling       []string
	JobMatching      []string
	CareerCounseling []string
}

// DefaultCatalog returns the standard enablement programs
func DefaultCatalog() ProgramCatalog {
	return ProgramCatalog{
		Upskilling: []string{
			"Digital Skills Training",
			"Financial Literacy Course",
			"Vocational Training Program",
			"Language Enhancement Course",
		},
		JobMatching: []string{
			"Government Job Portal Registration",
			"Private Sector Job Fair",
			"Freelance Opportunities Platform",
		},
		CareerCounseling: []string{
			"One-on-One Career Guidance",
			"Resume Building Workshop",
			"Interview Preparation Session",
		},
	}
}

// Matcher maps an applicant to enablement programs with a fixed rule table
type Matcher struct {
	catalog            ProgramCatalog
	lowIncomeThreshold float64
}

// NewMatcher creates a Matcher. A non-positive threshold selects the default.
func NewMatcher(catalog ProgramCatalog, lowIncomeThreshold float64) *Matcher {
	if lowIncomeThreshold <= 0 {
		lowIncomeThreshold = DefaultLowIncomeThreshold
	}
	return &Matcher{catalog: catalog, lowIncomeThreshold: lowIncomeThreshold}
}

// Match builds groups and next steps; advice is left empty.
func (m *Matcher) Match(in entity.ScoringInput) *entity.RecommendationSet {
	c := m.catalog
	set := &entity.RecommendationSet{
		Groups:           []entity.ProgramGroup{},
		Upskilling:       []string{},
		JobMatching:      []string{},
		CareerCounseling: []string{},
	}

	status := entity.NormalizeEmploymentStatus(string(in.EmploymentStatus))
	switch {
	case status.IsJobSeeking():
		set.JobMatching = clone(c.JobMatching)
		set.Groups = append(set.Groups, entity.ProgramGroup{
			Category: CategoryJobMatching,
			Priority: entity.PriorityHigh,
			Programs: clone(c.JobMatching),
		})
		set.Upskilling = first(c.Upskilling, 2)
		set.Groups = append(set.Groups, entity.ProgramGroup{
			Category: CategoryUpskilling,
			Priority: entity.PriorityMedium,
			Programs: first(c.Upskilling, 2),
		})
		set.CareerCounseling = first(c.CareerCounseling, 1)

	case status == entity.EmploymentEmployed && in.MonthlyIncome < m.lowIncomeThreshold:
		set.Upskilling = clone(c.Upskilling)
		set.Groups = append(set.Groups, entity.ProgramGroup{
			Category: CategoryUpskilling,
			Priority: entity.PriorityHigh,
			Programs: clone(c.Upskilling),
		})
		set.CareerCounseling = first(c.CareerCounseling, 2)
		set.Groups = append(set.Groups, entity.ProgramGroup{
			Category: CategoryCareerCounseling,
			Priority: entity.PriorityMedium,
			Programs: first(c.CareerCounseling, 2),
		})

	default:
		literacy := pick(c.Upskilling, 1)
		set.Upskilling = literacy
		set.CareerCounseling = first(c.CareerCounseling, 1)
		set.Groups = append(set.Groups, entity.ProgramGroup{
			Category: CategoryFinancialLiteracy,
			Priority: entity.PriorityMedium,
			Programs: clone(literacy),
		})
	}

	set.NextSteps = nextSteps(set.Groups)
	return set
}

func nextSteps(groups []entity.ProgramGroup) []string {
	var steps []string
	if len(groups) > 0 && len(groups[0].Programs) > 0 {
		steps = append(steps, fmt.Sprintf("Enroll in %s - This is your highest priority", groups[0].Programs[0]))
	}
	if len(groups) > 1 {
		steps = append(steps, fmt.Sprintf("Schedule %s session", strings.ToLower(groups[1].Category)))
	}
	steps = append(steps,
		"Complete your profile in the government job portal",
		"Follow up with your case officer within 2 weeks",
	)

	for i := range steps {
		steps[i] = fmt.Sprintf("%d. %s", i+1, steps[i])
	}
	return steps
}

func clone(s []string) []string {
	return append([]string{}, s...)
}

func first(s []string, n int) []string {
	if n > len(s) {
		n = len(s)
	}
	return clone(s[:n])
}

func pick(s []string, i int) []string {
	if i < len(s) {
		return []string{s[i]}
	}
	return []string{}
}
