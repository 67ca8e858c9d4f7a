package domain

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/unicode/norm"
)

// digitRun matches the first run of digits, allowing thousands separators
// inside the run ("15,000").
var digitRun = regexp.MustCompile(`\d[\d,]*`)

// ParseStipend converts a stipend token from the form into rupees.
// Empty, "0" and anything mentioning "unpaid" are zero; otherwise the first
// run of digits is used, and a token without digits is zero.
func ParseStipend(raw string) int {
	token := norm.NFKC.String(strings.TrimSpace(raw))
	if token == "" || token == "0" || strings.Contains(token, "unpaid") {
		return 0
	}

	run := digitRun.FindString(token)
	if run == "" {
		return 0
	}

	n, err := strconv.Atoi(strings.ReplaceAll(run, ",", ""))
	if err != nil {
		return 0
	}
	return n
}

var rupeePrinter = message.NewPrinter(language.English)

// FormatStipend renders an amount the way stipends are displayed on the site.
func FormatStipend(amount int) string {
	if amount <= 0 {
		return "Unpaid"
	}
	return rupeePrinter.Sprintf("₹%d/month", amount)
}
