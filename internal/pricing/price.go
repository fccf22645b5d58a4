// Package pricing extracts asking prices from free-text post titles.
package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

// Price is a price extracted from a title. Found is false when the
// title carries no detectable price.
type Price struct {
	Value int
	Found bool
}

var (
	// Sellers write "=$650" (or "= $650") to mark the asking price when
	// the title also quotes an MSRP. Prefer the first such marker.
	equalsPriceRe = regexp.MustCompile(`=\s*\$\s?(\d[\d,]*(?:\.\d+)?)`)

	// Plain dollar amounts; the asking price is conventionally last
	// ("MSRP $900, selling $650").
	dollarRe = regexp.MustCompile(`\$\s?(\d[\d,]*(?:\.\d+)?)`)
)

// Extract parses a sensible price out of a post title.
//
// Strategy:
//   - If an "=$" marker exists, the first marker's value wins.
//   - Otherwise the last "$amount" in the title wins.
//   - Thousands separators are stripped, any decimal portion is
//     truncated to whole dollars.
//
// An unparsable token is treated as no price, never as an error.
func Extract(title string) Price {
	if m := equalsPriceRe.FindStringSubmatch(title); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			return Price{Value: v, Found: true}
		}
	}

	matches := dollarRe.FindAllStringSubmatch(title, -1)
	if len(matches) == 0 {
		return Price{}
	}
	if v, ok := parseAmount(matches[len(matches)-1][1]); ok {
		return Price{Value: v, Found: true}
	}
	return Price{}
}

// parseAmount converts a matched money token to whole dollars
func parseAmount(token string) (int, bool) {
	token = strings.ReplaceAll(token, ",", "")
	if dot := strings.IndexByte(token, '.'); dot >= 0 {
		token = token[:dot]
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, false
	}
	v, err := strconv.Atoi(token)
	if err != nil {
		return 0, false
	}
	return v, true
}
