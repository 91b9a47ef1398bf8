// Package merger folds per-placeholder generation results back into a
// pitchbook, with an optional review pass and executive summary.
package merger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pitchforge/backend/internal/model"
	"k8s.io/klog/v2"
)

// LLM is the one-shot completion surface used by the review and summary
// passes.
type LLM interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// ErrNoContent indicates there were no successful results to summarize.
var ErrNoContent = errors.New("no generated content to summarize")

const reviewPrompt = "Review and improve the following presentation content for grammar, " +
	"clarity, and tone while maintaining the original meaning and key points. " +
	"Keep it approximately the same length.\n\n%s\n\nRespond only with the improved content."

// summaryInstructions is the fixed 5-point instruction block that opens
// every executive summary request.
const summaryInstructions = "Create an executive summary of the following presentation content:\n" +
	"1. Keep it to 300-400 words.\n" +
	"2. Open with a brief overview of the presentation.\n" +
	"3. Highlight 3-5 key findings.\n" +
	"4. Include the most important metrics.\n" +
	"5. Close with a clear call to action."

type Merger struct {
	llm         LLM
	callTimeout time.Duration
}

func New(llm LLM, callTimeout time.Duration) *Merger {
	if callTimeout <= 0 {
		callTimeout = 60 * time.Second
	}
	return &Merger{llm: llm, callTimeout: callTimeout}
}

// Merge folds results into the pitchbook's generated content tree:
// successes replace prior entries, failures leave them untouched.
// lastGenerated is stamped at the root. Pure fold, no LLM involved;
// re-merging equal results yields an equal tree.
func Merge(pb *model.Pitchbook, results model.GeneratedContent, now time.Time) {
	if pb.Generated == nil {
		pb.Generated = make(model.GeneratedContent)
	}
	for slideKey, slideResults := range results {
		for placeholderID, res := range slideResults {
			if !res.Success {
				continue
			}
			if pb.Generated[slideKey] == nil {
				pb.Generated[slideKey] = make(model.SlideResults)
			}
			pb.Generated[slideKey][placeholderID] = res
		}
	}
	pb.LastGenerated = &now
}

// Review runs every successful result through a single-shot improvement
// pass. The reviewed text replaces Content and the original is kept as
// OriginalContent; review failures leave the unreviewed content in place.
func (m *Merger) Review(ctx context.Context, results model.GeneratedContent) {
	for slideKey, slideResults := range results {
		for placeholderID, res := range slideResults {
			if !res.Success || res.Content == "" {
				continue
			}

			callCtx, cancel := context.WithTimeout(ctx, m.callTimeout)
			improved, err := m.llm.GenerateContent(callCtx, fmt.Sprintf(reviewPrompt, res.Content))
			cancel()
			if err != nil || strings.TrimSpace(improved) == "" {
				klog.Warningf("Review pass failed, keeping original: slideKey=%s placeholder=%s err=%v",
					slideKey, placeholderID, err)
				continue
			}

			res.OriginalContent = res.Content
			res.Content = improved
			slideResults[placeholderID] = res
		}
	}
}

// ExecutiveSummary submits all successful content strings, in slide
// order, under the fixed instruction block.
func (m *Merger) ExecutiveSummary(ctx context.Context, results model.GeneratedContent) (string, error) {
	contents := orderedContents(results)
	if len(contents) == 0 {
		return "", ErrNoContent
	}

	prompt := summaryInstructions + "\n\n" + strings.Join(contents, "\n\n")

	callCtx, cancel := context.WithTimeout(ctx, m.callTimeout)
	defer cancel()
	summary, err := m.llm.GenerateContent(callCtx, prompt)
	if err != nil {
		return "", err
	}
	return summary, nil
}

// orderedContents collects successful content strings sorted by slide
// number, then placeholder id for determinism within a slide.
func orderedContents(results model.GeneratedContent) []string {
	slideKeys := make([]string, 0, len(results))
	for key := range results {
		slideKeys = append(slideKeys, key)
	}
	sort.Slice(slideKeys, func(i, j int) bool {
		return slideKeyNumber(slideKeys[i]) < slideKeyNumber(slideKeys[j])
	})

	var contents []string
	for _, key := range slideKeys {
		slideResults := results[key]
		placeholderIDs := make([]string, 0, len(slideResults))
		for id := range slideResults {
			placeholderIDs = append(placeholderIDs, id)
		}
		sort.Strings(placeholderIDs)
		for _, id := range placeholderIDs {
			if res := slideResults[id]; res.Success && res.Content != "" {
				contents = append(contents, res.Content)
			}
		}
	}
	return contents
}

func slideKeyNumber(key string) int {
	n := 0
	for _, ch := range key {
		if ch >= '0' && ch <= '9' {
			n = n*10 + int(ch-'0')
		}
	}
	return n
}
