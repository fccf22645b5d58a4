package rules

import (
	"fmt"
	"regexp"
	"strings"

	"partsnotifier/config"
	"partsnotifier/internal/feed"
	"partsnotifier/internal/pricing"
	"partsnotifier/pkg/errors"
)

// Matcher evaluates posts against the configured rule set. It is built
// once at startup from an immutable Config and is safe for reuse across
// every post in a run.
type Matcher struct {
	primary     []Rule
	aliases     []AliasRule
	knownModels []string
}

// NewMatcher builds the rule set from the configuration. A model or
// alias entry with nothing matchable in it, or an alias that does not
// compile into a pattern, aborts the run before any post is processed.
func NewMatcher(cfg *config.Config) (*Matcher, error) {
	m := &Matcher{}

	for _, model := range cfg.CPUModels {
		normalized := nonAlnumRe.ReplaceAllString(strings.ToLower(model), "")
		if normalized == "" {
			return nil, errors.NewValidation("rules", fmt.Sprintf("CPU model %q has no matchable characters", model))
		}
		m.knownModels = append(m.knownModels, normalized)
	}

	m.primary = []Rule{
		{
			Name:      "cpu_mobo_bundle",
			Category:  CategoryCPUMoboBundle,
			Ceiling:   cfg.CPUMoboBundlePriceLimit,
			Predicate: func(t *Title) bool { return t.isCPUMoboCombo() },
		},
		{
			Name:      "cpu_bundle",
			Category:  CategoryCPUBundle,
			Ceiling:   cfg.CPUBundlePriceLimit,
			Predicate: func(t *Title) bool { return t.isCPUBundle() },
		},
		{
			Name:     "cpu",
			Category: CategoryCPU,
			Ceiling:  cfg.CPUPriceLimit,
			Predicate: func(t *Title) bool {
				return t.hasCPUTag || t.isProcessorMention() || len(t.knownModels(m.knownModels)) > 0
			},
			annotate: func(t *Title) string {
				matched := t.knownModels(m.knownModels)
				if len(matched) == 0 {
					return ""
				}
				for i, model := range matched {
					matched[i] = strings.ToUpper(model)
				}
				return "models: " + strings.Join(matched, ",")
			},
		},
		{
			Name:      "motherboard",
			Category:  CategoryMotherboard,
			Ceiling:   cfg.MotherboardPriceLimit,
			Predicate: func(t *Title) bool { return t.hasAnyMobo() && !t.hasCPUTag },
		},
		{
			Name:      "gpu",
			Category:  CategoryGPU,
			Ceiling:   cfg.GPUPriceLimit,
			Predicate: func(t *Title) bool { return strings.Contains(t.Lower, "[gpu]") },
		},
		{
			Name:      "monitor",
			Category:  CategoryMonitor,
			Ceiling:   cfg.MonitorPriceLimit,
			Predicate: func(t *Title) bool { return strings.Contains(t.Lower, "monitor") },
		},
		{
			Name:      "psu_1000w",
			Category:  CategoryPSU,
			Predicate: func(t *Title) bool { return mentions1000WPSU(t.Lower) },
		},
	}

	for _, alias := range cfg.GPUAliases {
		if strings.TrimSpace(alias) == "" {
			return nil, errors.NewValidation("rules", "GPU alias list contains a blank entry")
		}
		re, err := regexp.Compile(aliasPattern(alias))
		if err != nil {
			return nil, errors.NewConfiguration(fmt.Sprintf("invalid GPU alias %q", alias), err)
		}
		m.aliases = append(m.aliases, AliasRule{Label: alias, re: re})
	}

	return m, nil
}

// Match evaluates a post plus its extracted price against the rule set
// for the post's source. The first satisfying rule wins.
func (m *Matcher) Match(post feed.Post, price pricing.Price) MatchResult {
	if post.Source == feed.KindSecondary {
		return m.matchSecondary(post.Title, price)
	}
	return m.matchPrimary(post.Title, price)
}

// matchPrimary applies the price-gated category rules in precedence
// order. Price-gated rules fail closed when no price was detected.
func (m *Matcher) matchPrimary(title string, price pricing.Price) MatchResult {
	t := NewTitle(title)

	for _, r := range m.primary {
		if !r.Predicate(t) {
			continue
		}
		if r.Ceiling > 0 && (!price.Found || price.Value >= r.Ceiling) {
			continue
		}

		reason := string(r.Category)
		if price.Found {
			reason += fmt.Sprintf(" $%d", price.Value)
		}
		if r.annotate != nil {
			if extra := r.annotate(t); extra != "" {
				reason += " " + extra
			}
		}

		return MatchResult{
			Matched:  true,
			RuleName: r.Name,
			Category: r.Category,
			Reason:   reason,
			Price:    price,
		}
	}

	return MatchResult{Price: price}
}

// matchSecondary applies the keyword-only GPU alias rules, scoped to the
// [H] segment of the title. No price constraint: any mention of a
// configured model on the marketplace feed is notification-worthy.
func (m *Matcher) matchSecondary(title string, price pricing.Price) MatchResult {
	segment := haveSegment(strings.ToLower(title))
	if segment == "" {
		return MatchResult{Price: price}
	}

	for _, alias := range m.aliases {
		if alias.re.MatchString(segment) {
			return MatchResult{
				Matched:  true,
				RuleName: "gpu_model",
				Category: CategoryGPUModel,
				Reason:   "have: " + strings.ToUpper(alias.Label),
				Price:    price,
			}
		}
	}

	if mentions1000WPSU(segment) {
		return MatchResult{
			Matched:  true,
			RuleName: "psu_1000w",
			Category: CategoryPSU,
			Reason:   "have: 1000W PSU",
			Price:    price,
		}
	}

	return MatchResult{Price: price}
}

// aliasPattern builds a pattern for one model alias: flexible spacing
// and optional hyphens between tokens, and digit-boundary guards so a
// bare number like "4090" still matches "rtx4090" but not "14090".
func aliasPattern(alias string) string {
	tokens := strings.Fields(strings.ToLower(alias))
	if len(tokens) == 1 && isAllDigits(tokens[0]) {
		return `(?:^|[^0-9])` + regexp.QuoteMeta(tokens[0]) + `(?:[^0-9]|$)`
	}

	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = regexp.QuoteMeta(tok)
	}
	return `\b` + strings.Join(quoted, `\s*-?\s*`) + `\b`
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
