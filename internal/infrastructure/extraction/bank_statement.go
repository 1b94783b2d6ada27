package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/pkg/utils"
)

// Date Description +/-Amount Balance, e.g.
// 05-Jan-2026 Salary Deposit +11,000.00 56,000.00
var transactionPattern = regexp.MustCompile(`(\d{2}-\w+-\d{4})\s+(.+?)\s+([+-][\d,]+\.?\d*)\s+([\d,]+\.?\d*)`)

var (
	salaryKeywords    = []string{"salary", "payroll"}
	freelanceKeywords = []string{"freelance", "contract", "project"}
)

// maxReportedTransactions caps the transaction list kept in Details
const maxReportedTransactions = 15

// Transaction is one credited line of a bank statement
type Transaction struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Balance     float64 `json:"balance"`
}

func parseBankStatement(text string) *entity.ExtractedFields {
	var (
		transactions        []Transaction
		salary, freelance   float64
		salaryN, freelanceN int
	)

	for _, line := range strings.Split(text, "\n") {
		m := transactionPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		amount, err := parseAmount(m[3])
		if err != nil || amount <= 0 {
			continue
		}
		balance, err := parseAmount(m[4])
		if err != nil {
			continue
		}

		desc := strings.TrimSpace(m[2])
		transactions = append(transactions, Transaction{
			Date:        m[1],
			Description: desc,
			Amount:      amount,
			Balance:     balance,
		})

		lower := strings.ToLower(desc)
		switch {
		case containsAny(lower, salaryKeywords):
			salary += amount
			salaryN++
		case containsAny(lower, freelanceKeywords):
			freelance += amount
			freelanceN++
		}
	}

	total := salary + freelance
	reported := transactions
	if len(reported) > maxReportedTransactions {
		reported = reported[:maxReportedTransactions]
	}

	return &entity.ExtractedFields{
		DocumentType:  entity.DocumentBankStatement,
		MonthlyIncome: entity.Ptr(total),
		Summary: fmt.Sprintf("Salary: AED %s (%d deposits), Freelance: AED %s (%d income), Total Monthly Income: AED %s",
			utils.FormatAmount(salary, 2), salaryN, utils.FormatAmount(freelance, 2), freelanceN, utils.FormatAmount(total, 2)),
		RawText: text,
		Details: map[string]any{
			"salary_deposits":        salary,
			"salary_deposit_count":   salaryN,
			"freelance_income":       freelance,
			"freelance_income_count": freelanceN,
			"total_transactions":     len(transactions),
			"transactions":           reported,
		},
	}
}

func parseAmount(s string) (float64, error) {
	s = strings.TrimPrefix(s, "+")
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
