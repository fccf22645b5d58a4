// Package rules evaluates post titles against the configured matching
// policies: price-gated category rules for the deal feed and
// keyword-only GPU model rules for the marketplace feed.
package rules

import (
	"regexp"

	"partsnotifier/internal/pricing"
)

// Category labels the kind of hardware a rule fires on
type Category string

const (
	CategoryCPUMoboBundle Category = "CPU+Mobo Bundle"
	CategoryCPUBundle     Category = "CPU Bundle"
	CategoryCPU           Category = "CPU"
	CategoryMotherboard   Category = "Motherboard"
	CategoryGPU           Category = "GPU"
	CategoryMonitor       Category = "Monitor"
	CategoryPSU           Category = "PSU 1000W"
	CategoryGPUModel      Category = "GPU Model"
)

// Rule is a declarative matching policy for the deal feed. A rule with
// Ceiling > 0 requires a detected price strictly under the ceiling; a
// zero ceiling makes the rule price-independent.
type Rule struct {
	Name      string
	Category  Category
	Ceiling   int
	Predicate func(t *Title) bool

	// annotate adds reason detail beyond category and price, e.g. the
	// known CPU models that matched. Optional.
	annotate func(t *Title) string
}

// AliasRule is a keyword-only model rule for the marketplace feed
type AliasRule struct {
	Label string
	re    *regexp.Regexp
}

// MatchResult is the outcome of evaluating one post against the rule set
type MatchResult struct {
	Matched  bool
	RuleName string
	Category Category
	Reason   string
	Price    pricing.Price
}
