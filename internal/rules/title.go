package rules

import (
	"regexp"
	"strings"
)

var (
	nonAlnumRe = regexp.MustCompile(`[^a-z0-9]`)

	// Bracketed tags like [CPU], [CPU Bundle], [CPU+Cooler], [CPU/Mobo]
	cpuTagRe  = regexp.MustCompile(`\[(cpu[^\]]*)\]`)
	moboTagRe = regexp.MustCompile(`\[(?:mobo|motherboard)[^\]]*\]`)

	// Phrases like "cpu+mobo", "cpu / motherboard", "cpu & mobo"
	cpuMoboPhraseRe = regexp.MustCompile(`cpu\s*(?:\+|/|&)?\s*(?:mobo|motherboard)`)

	// 1000W (or 1kW) wattage mentions, tolerant of "1,000 w" and "1 000w"
	watt1000Re = regexp.MustCompile(`(?:^|[^0-9])1[, ]?000\s*w\b`)
	watt1kwRe  = regexp.MustCompile(`\b1\s*k\s*w\b|\b1kw\b`)
)

// Title is a pre-computed view of one post title: the facts the rule
// predicates share, extracted once.
type Title struct {
	Raw        string
	Lower      string
	Normalized string // lowercase alphanumerics only, for model matching

	cpuTag    string // text inside the first [cpu...] bracket
	hasCPUTag bool
}

// NewTitle builds the title view for rule evaluation
func NewTitle(raw string) *Title {
	lower := strings.ToLower(raw)
	t := &Title{
		Raw:        raw,
		Lower:      lower,
		Normalized: nonAlnumRe.ReplaceAllString(lower, ""),
	}
	if m := cpuTagRe.FindStringSubmatch(lower); m != nil {
		t.cpuTag = m[1]
		t.hasCPUTag = true
	}
	return t
}

// isCPUBundle reports a [CPU Bundle]-style tag or phrase
func (t *Title) isCPUBundle() bool {
	return strings.Contains(t.cpuTag, "bundle") || strings.Contains(t.Lower, "cpu bundle")
}

// hasAnyMobo reports any motherboard indicator: word, tag, or a mobo
// mention inside the CPU tag itself
func (t *Title) hasAnyMobo() bool {
	return strings.Contains(t.Lower, "mobo") ||
		strings.Contains(t.Lower, "motherboard") ||
		moboTagRe.MatchString(t.Lower) ||
		strings.Contains(t.cpuTag, "mobo") ||
		strings.Contains(t.cpuTag, "motherboard")
}

// isCPUMoboCombo reports a CPU+motherboard combo listing
func (t *Title) isCPUMoboCombo() bool {
	return (t.hasCPUTag && t.hasAnyMobo()) || cpuMoboPhraseRe.MatchString(t.Lower)
}

// isProcessorMention reports a general CPU mention outside of tags
func (t *Title) isProcessorMention() bool {
	return strings.Contains(t.Lower, "processor") ||
		strings.Contains(" "+t.Lower+" ", " cpu ")
}

// knownModels returns which of the configured models (normalized
// alphanumerics) appear in the title
func (t *Title) knownModels(models []string) []string {
	var matched []string
	for _, model := range models {
		if model != "" && strings.Contains(t.Normalized, model) {
			matched = append(matched, model)
		}
	}
	return matched
}

// mentions1000WPSU reports a power supply mention together with a
// 1000W (or 1kW) wattage in the given lowercased text
func mentions1000WPSU(text string) bool {
	mentionsPSU := strings.Contains(text, "psu") || strings.Contains(text, "power supply")
	mentionsWatt := watt1000Re.MatchString(text) || watt1kwRe.MatchString(text)
	return mentionsPSU && mentionsWatt
}

// haveSegment returns the [H] (have) portion of a marketplace title:
// text after "[h]" up to a following "[w]". Empty when there is no [H]
// section, in which case nothing in the title is actually for sale.
func haveSegment(lower string) string {
	idxH := strings.Index(lower, "[h]")
	if idxH == -1 {
		return ""
	}
	idxW := strings.Index(lower, "[w]")
	if idxW != -1 && idxW > idxH {
		return lower[idxH:idxW]
	}
	return lower[idxH:]
}
