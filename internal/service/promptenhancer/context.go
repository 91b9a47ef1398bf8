package promptenhancer

import (
	"strings"

	"github.com/pitchforge/backend/internal/model"
)

// ContextTag classifies a pitchbook into one of a closed set of domain
// contexts that parameterize enhancement.
type ContextTag string

const (
	ContextMergerAcquisition ContextTag = "merger-acquisition"
	ContextInvestorPitch     ContextTag = "investor-pitch"
	ContextQuarterlyResults  ContextTag = "quarterly-results"
	ContextProductLaunch     ContextTag = "product-launch"
	ContextStrategicPlan     ContextTag = "strategic-plan"
)

// ContextProfile carries the template variables a context contributes.
type ContextProfile struct {
	Audience string
	Tone     string
	Style    string
	Focus    string
}

var contextProfiles = map[ContextTag]ContextProfile{
	ContextMergerAcquisition: {
		Audience: "board members, executives, and stakeholders",
		Tone:     "professional, strategic, and data-driven",
		Style:    "formal business",
		Focus:    "synergies, value creation, and strategic rationale",
	},
	ContextInvestorPitch: {
		Audience: "investors and venture capitalists",
		Tone:     "confident, compelling, and growth-focused",
		Style:    "persuasive",
		Focus:    "market opportunity, competitive advantage, and ROI",
	},
	ContextQuarterlyResults: {
		Audience: "investors, analysts, and shareholders",
		Tone:     "transparent, analytical, and forward-looking",
		Style:    "formal financial",
		Focus:    "metrics, trends, and guidance",
	},
	ContextProductLaunch: {
		Audience: "customers, partners, and media",
		Tone:     "exciting, innovative, and customer-centric",
		Style:    "engaging",
		Focus:    "features, benefits, and differentiation",
	},
	ContextStrategicPlan: {
		Audience: "internal leadership",
		Tone:     "visionary, actionable, and motivating",
		Style:    "strategic",
		Focus:    "goals, initiatives, and roadmap",
	},
}

// Profile returns the template variables for a context tag.
func Profile(tag ContextTag) ContextProfile {
	if p, ok := contextProfiles[tag]; ok {
		return p
	}
	return contextProfiles[ContextStrategicPlan]
}

// contextRules is an ordered keyword table; the first rule with a keyword
// present in the classification text wins.
var contextRules = []struct {
	Tag      ContextTag
	Keywords []string
}{
	{ContextMergerAcquisition, []string{"merger", "acquisition", "m&a", "acquire", "takeover", "due diligence"}},
	{ContextInvestorPitch, []string{"funding", "fundraising", "investment round", "investor", "venture", "series a", "seed round"}},
	{ContextQuarterlyResults, []string{"quarterly", "earnings", "q1", "q2", "q3", "q4", "fiscal", "financial results"}},
	{ContextProductLaunch, []string{"launch", "product", "release", "go-to-market", "unveil"}},
	{ContextStrategicPlan, []string{"strategy", "strategic", "roadmap", "vision", "annual plan", "five-year"}},
}

// InferContext classifies a pitchbook from its title and originating
// prompt text, falling back to the pitchbook type. Pure function: equal
// inputs always yield the same tag.
func InferContext(title, promptText, pitchbookType string) ContextTag {
	text := strings.ToLower(title + " " + promptText)
	for _, rule := range contextRules {
		for _, kw := range rule.Keywords {
			if strings.Contains(text, kw) {
				return rule.Tag
			}
		}
	}
	if pitchbookType == model.PitchbookTypeInvestor {
		return ContextInvestorPitch
	}
	return ContextStrategicPlan
}
