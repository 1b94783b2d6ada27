package extraction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/SarthakGarg19/social-support-ai/internal/domain/entity"
	"github.com/SarthakGarg19/social-support-ai/pkg/utils"
)

// parseAssetsSheet walks a row-label spreadsheet: an ASSETS section closed by
// a TOTAL ASSETS row, a LIABILITIES section closed by TOTAL LIABILITIES, and
// optional NET WORTH and ASSET-LIABILITY RATIO rows. Totals rows win over
// the sum of the section lines.
func parseAssetsSheet(rows [][]string) *entity.ExtractedFields {
	const (
		sectionNone = iota
		sectionAssets
		sectionLiabilities
	)

	assets := map[string]float64{}
	liabilities := map[string]float64{}
	var (
		section                   = sectionNone
		sumAssets, sumLiabilities float64
		totalAssets, totalLiabs   *float64
		netWorth, ratio           *float64
		lines                     []string
	)

	for _, row := range rows {
		lines = append(lines, strings.Join(row, "\t"))
		if len(row) == 0 {
			continue
		}
		rawLabel := strings.TrimSpace(row[0])
		label := strings.ToUpper(rawLabel)
		value, hasValue := cellNumber(row, 1)

		switch {
		case label == "ASSETS":
			section = sectionAssets
		case label == "LIABILITIES":
			section = sectionLiabilities
		case strings.HasPrefix(label, "TOTAL ASSET"):
			section = sectionNone
			if hasValue {
				totalAssets = entity.Ptr(value)
			}
		case strings.HasPrefix(label, "TOTAL LIABILIT"):
			section = sectionNone
			if hasValue {
				totalLiabs = entity.Ptr(value)
			}
		case label == "NET WORTH":
			if hasValue {
				netWorth = entity.Ptr(value)
			}
		case strings.HasPrefix(label, "ASSET-LIABILITY"):
			if hasValue {
				ratio = entity.Ptr(value)
			}
		case rawLabel != "" && hasValue:
			switch section {
			case sectionAssets:
				assets[rawLabel] = value
				sumAssets += value
			case sectionLiabilities:
				liabilities[rawLabel] = value
				sumLiabilities += value
			}
		}
	}

	if totalAssets == nil {
		totalAssets = entity.Ptr(sumAssets)
	}
	if totalLiabs == nil {
		totalLiabs = entity.Ptr(sumLiabilities)
	}
	if netWorth == nil {
		netWorth = entity.Ptr(*totalAssets - *totalLiabs)
	}
	if ratio == nil && *totalLiabs > 0 {
		ratio = entity.Ptr(*totalAssets / *totalLiabs)
	}

	ratioText := "n/a"
	if ratio != nil {
		ratioText = strconv.FormatFloat(*ratio, 'f', 2, 64)
	}

	return &entity.ExtractedFields{
		DocumentType:        entity.DocumentAssetsLiabilities,
		TotalAssets:         totalAssets,
		TotalLiabilities:    totalLiabs,
		AssetLiabilityRatio: ratio,
		Summary: fmt.Sprintf("Assets: AED %s, Liabilities: AED %s, Net Worth: AED %s, Ratio: %s",
			utils.FormatAmount(*totalAssets, 2), utils.FormatAmount(*totalLiabs, 2), utils.FormatAmount(*netWorth, 2), ratioText),
		RawText: strings.Join(lines, "\n"),
		Details: map[string]any{
			"assets":      assets,
			"liabilities": liabilities,
			"net_worth":   *netWorth,
		},
	}
}

func cellNumber(row []string, col int) (float64, bool) {
	if col >= len(row) {
		return 0, false
	}
	s := strings.TrimSpace(row[col])
	s = strings.TrimPrefix(strings.TrimPrefix(s, "AED"), " ")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
