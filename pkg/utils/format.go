package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders v with the given number of decimals and English
// thousands grouping, e.g. 1234567.891 at 2 decimals is "1,234,567.89".
func FormatAmount(v float64, decimals int) string {
	return message.NewPrinter(language.English).Sprintf("%.*f", decimals, v)
}
