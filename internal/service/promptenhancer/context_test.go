package promptenhancer

import (
	"testing"

	"github.com/pitchforge/backend/internal/model"
)

func TestInferContext(t *testing.T) {
	cases := []struct {
		name          string
		title         string
		promptText    string
		pitchbookType string
		want          ContextTag
	}{
		{"quarterly from title", "Acme Q3 Earnings", "", "", ContextQuarterlyResults},
		{"merger from prompt", "Project Falcon", "due diligence summary for the acquisition", "", ContextMergerAcquisition},
		{"investor keywords", "Series A Deck", "our funding ask", "", ContextInvestorPitch},
		{"product launch", "Spring Release", "go-to-market plan", "", ContextProductLaunch},
		{"strategy", "FY27 Roadmap", "", "", ContextStrategicPlan},
		{"merger beats launch", "Acquisition of LaunchCo", "product launch synergies", "", ContextMergerAcquisition},
		{"type fallback", "Untitled", "", model.PitchbookTypeInvestor, ContextInvestorPitch},
		{"default fallback", "Untitled", "", "", ContextStrategicPlan},
		{"case insensitive", "QUARTERLY REVIEW", "", "", ContextQuarterlyResults},
	}

	for _, tc := range cases {
		if got := InferContext(tc.title, tc.promptText, tc.pitchbookType); got != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestInferContextDeterministic(t *testing.T) {
	for i := 0; i < 5; i++ {
		if got := InferContext("Acme Q3 Earnings", "revenue", ""); got != ContextQuarterlyResults {
			t.Fatalf("run %d: got %s", i, got)
		}
	}
}

func TestProfileUnknownTagFallsBack(t *testing.T) {
	if Profile("nonsense") != contextProfiles[ContextStrategicPlan] {
		t.Fatalf("unknown tag should fall back to the strategic-plan profile")
	}
}
