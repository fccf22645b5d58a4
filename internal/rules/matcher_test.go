package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsnotifier/config"
	"partsnotifier/internal/feed"
	"partsnotifier/internal/pricing"
	"partsnotifier/pkg/errors"
)

func testConfig() *config.Config {
	return &config.Config{
		GPUPriceLimit:           2000,
		MonitorPriceLimit:       1000,
		CPUPriceLimit:           500,
		CPUBundlePriceLimit:     600,
		CPUMoboBundlePriceLimit: 600,
		MotherboardPriceLimit:   300,
		CPUModels:               []string{"5800x3d", "7600x3d", "7800x3d"},
		GPUAliases: []string{
			"RTX 5090", "5090", "RTX 4090", "4090", "RTX 4080 SUPER", "4080 SUPER",
			"RTX 4080", "4080", "RTX 5070 Ti", "5070 Ti", "RX 9070 XT", "9070 XT",
			"RX 9070", "RX 7900 XTX", "7900 XTX", "RX 7900 XT", "7900 XT",
		},
	}
}

func newTestMatcher(t *testing.T) *Matcher {
	m, err := NewMatcher(testConfig())
	require.NoError(t, err)
	return m
}

func primaryPost(title string) feed.Post {
	return feed.Post{ID: "p1", Title: title, Source: feed.KindPrimary}
}

func secondaryPost(title string) feed.Post {
	return feed.Post{ID: "s1", Title: title, Source: feed.KindSecondary}
}

func matchTitle(m *Matcher, post feed.Post) MatchResult {
	return m.Match(post, pricing.Extract(post.Title))
}

func TestGPUTagUnderCeiling(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("[GPU] RTX 4070 =$750"))
	assert.True(t, res.Matched)
	assert.Equal(t, "gpu", res.RuleName)
	assert.Equal(t, CategoryGPU, res.Category)
	assert.Equal(t, 750, res.Price.Value)
}

func TestGPUTagUnderLoweredCeiling(t *testing.T) {
	cfg := testConfig()
	cfg.GPUPriceLimit = 800
	m, err := NewMatcher(cfg)
	require.NoError(t, err)

	res := matchTitle(m, primaryPost("[GPU] RTX 4070 =$750"))
	assert.True(t, res.Matched)
	assert.Equal(t, CategoryGPU, res.Category)
	assert.Equal(t, 750, res.Price.Value)

	res = matchTitle(m, primaryPost("[GPU] RTX 4070 =$850"))
	assert.False(t, res.Matched)
}

func TestGPUTagOverCeiling(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("[GPU] RTX 4090 =$2,100"))
	assert.False(t, res.Matched)
}

func TestPriceGatedRuleFailsClosedWithoutPrice(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("[GPU] RTX 4070 trade offers welcome"))
	assert.False(t, res.Matched)
}

func TestKnownModelSharesCPUCeiling(t *testing.T) {
	m := newTestMatcher(t)

	// 7800X3D is on the known-model list but the CPU ceiling still applies
	res := matchTitle(m, primaryPost("[CPU] 7800X3D =$650"))
	assert.False(t, res.Matched)
}

func TestKnownModelUnderCeilingAnnotatesReason(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("Ryzen 7 7800X3D brand new =$450"))
	assert.True(t, res.Matched)
	assert.Equal(t, "cpu", res.RuleName)
	assert.Contains(t, res.Reason, "models: 7800X3D")
}

func TestCPUBundlePrecedesCPU(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("[CPU Bundle] 7600X + cooler =$550"))
	assert.True(t, res.Matched)
	assert.Equal(t, "cpu_bundle", res.RuleName)
}

func TestCPUMoboComboPrecedesBundle(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("[CPU/Mobo] 7600X + B650 board =$550"))
	assert.True(t, res.Matched)
	assert.Equal(t, "cpu_mobo_bundle", res.RuleName)
	assert.Equal(t, CategoryCPUMoboBundle, res.Category)
}

func TestStandaloneMotherboard(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("[Motherboard] ASUS B650E-F =$250"))
	assert.True(t, res.Matched)
	assert.Equal(t, "motherboard", res.RuleName)
}

func TestMotherboardOverCeilingFallsThrough(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("[Motherboard] X670E Godlike =$550"))
	assert.False(t, res.Matched)
}

func TestMonitorRule(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("Dell 27in gaming monitor $399"))
	assert.True(t, res.Matched)
	assert.Equal(t, "monitor", res.RuleName)
}

func TestPSURuleIsPriceIndependent(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("Corsair RM1000x 1000W PSU, offers"))
	assert.True(t, res.Matched)
	assert.Equal(t, "psu_1000w", res.RuleName)
	assert.False(t, res.Price.Found)
}

func TestPSURuleRecognizes1kW(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, primaryPost("EVGA 1kw power supply $120"))
	assert.True(t, res.Matched)
	assert.Equal(t, "psu_1000w", res.RuleName)
	assert.Contains(t, res.Reason, "$120")
}

func TestFirstMatchWinsIsDeterministic(t *testing.T) {
	m := newTestMatcher(t)

	// Title qualifies for both the monitor and GPU rules; the GPU rule
	// comes first in the list
	post := primaryPost("[GPU] RTX 4070 + free monitor =$700")
	for i := 0; i < 10; i++ {
		res := matchTitle(m, post)
		assert.True(t, res.Matched)
		assert.Equal(t, "gpu", res.RuleName)
	}
}

func TestSecondaryAliasMatchesAnySpacing(t *testing.T) {
	m := newTestMatcher(t)

	for _, title := range []string{
		"[H] RTX 4090 FE [W] paypal",
		"[H] rtx4090 [W] emt",
		"[H] RTX-4090 [W] cash",
		"[H] MSI 4090 Suprim [W] trades",
	} {
		res := matchTitle(m, secondaryPost(title))
		assert.True(t, res.Matched, title)
		assert.Equal(t, "gpu_model", res.RuleName, title)
		assert.Equal(t, CategoryGPUModel, res.Category, title)
	}
}

func TestSecondaryAliasIgnoresPrice(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, secondaryPost("[H] RTX 5090 [W] $3,500"))
	assert.True(t, res.Matched)
}

func TestSecondaryDigitBoundaries(t *testing.T) {
	m := newTestMatcher(t)

	// 14090 is not a 4090
	res := matchTitle(m, secondaryPost("[H] i5-14090 cpu [W] paypal"))
	assert.False(t, res.Matched)
}

func TestSecondaryOnlyMatchesHaveSegment(t *testing.T) {
	m := newTestMatcher(t)

	// Wanting a 4090 is not selling one
	res := matchTitle(m, secondaryPost("[H] paypal [W] RTX 4090"))
	assert.False(t, res.Matched)
}

func TestSecondaryWithoutHaveSegmentNeverMatches(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, secondaryPost("Selling my RTX 4090, local only"))
	assert.False(t, res.Matched)
}

func TestSecondaryPSUInHaveSegment(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, secondaryPost("[H] Seasonic 1000w PSU [W] etransfer"))
	assert.True(t, res.Matched)
	assert.Equal(t, "psu_1000w", res.RuleName)
}

func TestSecondaryMostSpecificAliasReported(t *testing.T) {
	m := newTestMatcher(t)

	res := matchTitle(m, secondaryPost("[H] RX 9070 XT [W] paypal"))
	assert.True(t, res.Matched)
	assert.Contains(t, res.Reason, "RX 9070 XT")
}

func TestNewMatcherQuotesAliasMetacharacters(t *testing.T) {
	cfg := testConfig()
	cfg.GPUAliases = []string{"4090 rev.2"}

	m, err := NewMatcher(cfg)
	require.NoError(t, err)

	// The "." must match literally, not as a wildcard
	assert.True(t, matchTitle(m, secondaryPost("[H] 4090 rev.2 [W] emt")).Matched)
	assert.False(t, matchTitle(m, secondaryPost("[H] 4090 revX2 [W] emt")).Matched)
}

func TestNewMatcherRejectsUnmatchableModel(t *testing.T) {
	cfg := testConfig()
	cfg.CPUModels = []string{"7800x3d", "---"}

	_, err := NewMatcher(cfg)
	require.Error(t, err)

	var nerr *errors.NotifierError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, errors.ErrorTypeValidation, nerr.Type)
	assert.True(t, nerr.Fatal())
}

func TestNewMatcherRejectsBlankAlias(t *testing.T) {
	cfg := testConfig()
	cfg.GPUAliases = []string{"4090", "   "}

	_, err := NewMatcher(cfg)
	require.Error(t, err)

	var nerr *errors.NotifierError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, errors.ErrorTypeValidation, nerr.Type)
}

func TestHaveSegmentBounds(t *testing.T) {
	assert.Equal(t, "[h] 4090 ", haveSegment("[h] 4090 [w] paypal"))
	assert.Equal(t, "[h] 4090", haveSegment("trade [h] 4090"))
	assert.Equal(t, "", haveSegment("no tags here"))
	// [W] before [H] means the have segment runs to the end
	assert.Equal(t, "[h] 4090", haveSegment("[w] cash [h] 4090"))
}
