package service

import (
	"fmt"
	"math"
	"strconv"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/pkg/utils"
)

// Factor maxima; they sum to 100
const (
	IncomeFactorMax     = 30.0
	EmploymentFactorMax = 20.0
	FamilyFactorMax     = 20.0
	FinancialFactorMax  = 20.0
	CreditFactorMax     = 10.0
)

// Policy holds the scoring constants. It is passed by value so a Scorer never
// observes later changes.
type Policy struct {
	IncomeThreshold         float64
	FamilyBonusMinimum      int
	RatioThreshold          float64
	CreditMinimum           int
	EmploymentWeights       map[entity.EmploymentStatus]float64
	DefaultEmploymentWeight float64
}

// DefaultPolicy returns the program's published thresholds
func DefaultPolicy() Policy {
	return Policy{
		IncomeThreshold:    15000,
		FamilyBonusMinimum: 3,
		RatioThreshold:     0.5,
		CreditMinimum:      300,
		EmploymentWeights: map[entity.EmploymentStatus]float64{
			entity.EmploymentEmployed:     0.8,
			entity.EmploymentSelfEmployed: 0.7,
			entity.EmploymentUnemployed:   1.0,
			entity.EmploymentRetired:      0.9,
		},
		DefaultEmploymentWeight: 0.5,
	}
}

// EmploymentWeight looks up the multiplier for a status
func (p Policy) EmploymentWeight(status entity.EmploymentStatus) float64 {
	if w, ok := p.EmploymentWeights[entity.NormalizeEmploymentStatus(string(status))]; ok {
		return w
	}
	return p.DefaultEmploymentWeight
}

// Scorer computes eligibility from a scoring input. It has no state besides
// its policy, so equal inputs always score equally.
type Scorer struct {
	policy Policy
}

// NewScorer creates a Scorer. Weights are copied with normalized keys.
func NewScorer(policy Policy) *Scorer {
	weights := make(map[entity.EmploymentStatus]float64, len(policy.EmploymentWeights))
	for status, w := range policy.EmploymentWeights {
		weights[entity.NormalizeEmploymentStatus(string(status))] = w
	}
	policy.EmploymentWeights = weights
	return &Scorer{policy: policy}
}

// Policy returns the scorer's constants
func (s *Scorer) Policy() Policy {
	return s.policy
}

// Score returns the score, decision, confidence and factor breakdown. The
// explanation is left empty.
func (s *Scorer) Score(in entity.ScoringInput) *entity.EligibilityResult {
	p := s.policy
	factors := make([]entity.FactorScore, 0, 5)

	income := 0.0
	var incomeLabel string
	if p.IncomeThreshold > 0 && in.MonthlyIncome <= p.IncomeThreshold {
		income = clamp(IncomeFactorMax*(1-in.MonthlyIncome/p.IncomeThreshold), 0, IncomeFactorMax)
		incomeLabel = fmt.Sprintf("Income Score: %.1f/30 (Below threshold)", income)
	} else {
		incomeLabel = fmt.Sprintf("Income Score: 0/30 (Exceeds threshold of AED %s)", utils.FormatAmount(p.IncomeThreshold, 0))
	}
	factors = append(factors, entity.FactorScore{Name: "income", Points: income, Max: IncomeFactorMax, Label: incomeLabel})

	employment := clamp(EmploymentFactorMax*p.EmploymentWeight(in.EmploymentStatus), 0, EmploymentFactorMax)
	factors = append(factors, entity.FactorScore{
		Name:   "employment",
		Points: employment,
		Max:    EmploymentFactorMax,
		Label:  fmt.Sprintf("Employment Score: %.1f/20 (Status: %s)", employment, in.EmploymentStatus),
	})

	family := 5.0
	if in.FamilySize >= p.FamilyBonusMinimum {
		family = FamilyFactorMax
	}
	factors = append(factors, entity.FactorScore{
		Name:   "family",
		Points: family,
		Max:    FamilyFactorMax,
		Label:  fmt.Sprintf("Family Score: %.0f/20 (Size: %d)", family, in.FamilySize),
	})

	financial := 5.0
	ratioText := "N/A"
	if in.TotalLiabilities > 0 {
		ratio := in.TotalAssets / in.TotalLiabilities
		ratioText = strconv.FormatFloat(ratio, 'f', 2, 64)
		if ratio < p.RatioThreshold {
			financial = FinancialFactorMax
		} else {
			financial = 10
		}
	}
	factors = append(factors, entity.FactorScore{
		Name:   "financial_need",
		Points: financial,
		Max:    FinancialFactorMax,
		Label:  fmt.Sprintf("Financial Need Score: %.0f/20 (A/L Ratio: %s)", financial, ratioText),
	})

	credit := 5.0
	if in.CreditScore >= p.CreditMinimum {
		credit = CreditFactorMax
	}
	factors = append(factors, entity.FactorScore{
		Name:   "credit",
		Points: credit,
		Max:    CreditFactorMax,
		Label:  fmt.Sprintf("Credit Score: %.0f/10 (Score: %d)", credit, in.CreditScore),
	})

	total := 0.0
	for _, f := range factors {
		total += f.Points
	}
	total = clamp(total, 0, 100)

	// thresholds see the exact total; only the reported score is rounded
	decision, confidence := decide(total)
	return &entity.EligibilityResult{
		Score:      math.Round(total*100) / 100,
		Decision:   decision,
		Confidence: confidence,
		Factors:    factors,
	}
}

// decide applies the thresholds: >=80 and >=70 approve, >60 goes to review.
func decide(score float64) (entity.Decision, entity.Confidence) {
	switch {
	case score >= 80:
		return entity.DecisionApproved, entity.ConfidenceHigh
	case score >= 70:
		return entity.DecisionApproved, entity.ConfidenceMedium
	case score > 60:
		return entity.DecisionUnderReview, entity.ConfidenceLow
	default:
		return entity.DecisionDeclined, entity.ConfidenceHigh
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
