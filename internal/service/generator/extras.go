package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/pitchforge/backend/internal/model"
	"github.com/pitchforge/backend/internal/service/promptenhancer"
	"k8s.io/klog/v2"
)

// Overrides adjust a prior result on regeneration. Style, tone and word
// count are applied as textual clauses on the enhanced prompt;
// temperature is passed to the provider when it supports it.
type Overrides struct {
	Temperature *float64 `json:"temperature,omitempty"`
	Style       string   `json:"style,omitempty"`
	Tone        string   `json:"tone,omitempty"`
	WordCount   int      `json:"word_count,omitempty"`
}

// Regenerate re-issues a single generation for a prior result with the
// given overrides, outside any session.
func (o *Orchestrator) Regenerate(ctx context.Context, prior model.GenerationResult, overrides Overrides) model.GenerationResult {
	prompt := prior.Enhanced
	if prompt == "" {
		prompt = prior.Original
	}

	if overrides.WordCount > 0 {
		prompt = promptenhancer.ReplaceWordCount(prompt, overrides.WordCount)
	}
	if overrides.Style != "" {
		prompt += fmt.Sprintf("\nUse a %s writing style.", overrides.Style)
	}
	if overrides.Tone != "" {
		prompt += fmt.Sprintf("\nAdopt a %s tone.", overrides.Tone)
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout())
	defer cancel()

	var content string
	var err error
	if tg, ok := o.llm.(temperatureGenerator); ok && overrides.Temperature != nil {
		content, err = tg.GenerateWithTemperature(callCtx, prompt, *overrides.Temperature)
	} else {
		content, err = o.llm.GenerateContent(callCtx, prompt)
	}
	if err != nil {
		klog.Warningf("Regenerate failed: err=%v", err)
		return model.GenerationResult{
			Success:   false,
			Original:  prior.Original,
			Enhanced:  prompt,
			Error:     err.Error(),
			Timestamp: time.Now(),
		}
	}
	return model.GenerationResult{
		Success:   true,
		Original:  prior.Original,
		Enhanced:  prompt,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// GenerateVariations issues count independent generations, serially, each
// with a trailing variation instruction. Serial execution keeps variation
// outputs stable with rate-limited providers.
func (o *Orchestrator) GenerateVariations(ctx context.Context, prompt string, meta promptenhancer.Metadata, count int) []model.GenerationResult {
	tag := promptenhancer.InferContext("", prompt, "")
	enhanced := promptenhancer.Enhance(prompt, meta, tag)

	results := make([]model.GenerationResult, 0, count)
	for k := 1; k <= count; k++ {
		if k > 1 && o.gen.VariationDelay > 0 {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(o.gen.VariationDelay):
			}
		}

		variationPrompt := fmt.Sprintf("%s\n\nVariation %d: provide a different approach to this content.", enhanced.Enhanced, k)

		callCtx, cancel := context.WithTimeout(ctx, o.callTimeout())
		content, err := o.llm.GenerateContent(callCtx, variationPrompt)
		cancel()

		if err != nil {
			klog.Warningf("Variation %d failed: err=%v", k, err)
			results = append(results, model.GenerationResult{
				Success:   false,
				Original:  prompt,
				Enhanced:  variationPrompt,
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}
		results = append(results, model.GenerationResult{
			Success:   true,
			Original:  prompt,
			Enhanced:  variationPrompt,
			Content:   content,
			Timestamp: time.Now(),
		})
	}
	return results
}
