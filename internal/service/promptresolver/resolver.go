// Package promptresolver walks a pitchbook and produces the set of
// (slide, placeholder) leaves that carry an originating prompt, each with
// the scope chain that influences it.
package promptresolver

import (
	"fmt"
	"sort"

	"github.com/pitchforge/backend/internal/model"
	"github.com/pitchforge/backend/internal/pkg/layouts"
)

// Leaf is one placeholder-level prompt together with its coordinates and
// inherited ancestor prompts, most general first.
type Leaf struct {
	SlideKey        string
	SlideNumber     int
	SlideType       string
	SectionTitle    string
	PlaceholderID   string
	PlaceholderType string
	OriginalPrompt  string
	Ancestors       []model.ScopedPrompt
}

// Resolve emits leaves ordered by (slideNumber asc, placeholder.y asc).
// A leaf exists only where a placeholder-level prompt exists; higher-scope
// prompts appear solely as ancestors. Slides whose layout is unknown
// contribute no leaves.
func Resolve(pb *model.Pitchbook, catalog *layouts.Catalog) []Leaf {
	slides := make([]model.Slide, len(pb.Slides))
	copy(slides, pb.Slides)
	sort.SliceStable(slides, func(i, j int) bool {
		return slides[i].SlideNumber < slides[j].SlideNumber
	})

	var leaves []Leaf
	for _, slide := range slides {
		layout, ok := catalog.Get(slide.LayoutName)
		if !ok {
			continue
		}

		placeholders := make([]model.Placeholder, len(layout.Placeholders))
		copy(placeholders, layout.Placeholders)
		sort.SliceStable(placeholders, func(i, j int) bool {
			return placeholders[i].Y < placeholders[j].Y
		})

		ancestors := ancestorChain(pb, &slide)
		for _, ph := range placeholders {
			prompt, ok := slide.PlaceholderPrompts[ph.ID]
			if !ok || prompt == "" {
				continue
			}
			leaves = append(leaves, Leaf{
				SlideKey:        model.SlideKey(slide.SlideNumber),
				SlideNumber:     slide.SlideNumber,
				SlideType:       slide.SlideType,
				SectionTitle:    slide.SectionTitle,
				PlaceholderID:   ph.ID,
				PlaceholderType: ph.Type,
				OriginalPrompt:  prompt,
				Ancestors:       ancestors,
			})
		}
	}
	return leaves
}

// SectionCount reports the number of distinct named sections.
func SectionCount(pb *model.Pitchbook) int {
	seen := make(map[string]struct{})
	for _, slide := range pb.Slides {
		if slide.SectionTitle != "" {
			seen[slide.SectionTitle] = struct{}{}
		}
	}
	return len(seen)
}

// ancestorChain collects the higher-scope prompts that influence a slide,
// from most general to most specific.
func ancestorChain(pb *model.Pitchbook, slide *model.Slide) []model.ScopedPrompt {
	var chain []model.ScopedPrompt
	if pb.PitchbookPrompt != "" {
		chain = append(chain, model.ScopedPrompt{
			Scope:     model.ScopePitchbook,
			Text:      pb.PitchbookPrompt,
			AppliesTo: "entire pitchbook",
		})
	}
	if slide.SectionTitle != "" {
		if text, ok := pb.SectionPrompts[slide.SectionTitle]; ok && text != "" {
			chain = append(chain, model.ScopedPrompt{
				Scope:     model.ScopeSection,
				Text:      text,
				AppliesTo: fmt.Sprintf("section %q", slide.SectionTitle),
			})
		}
	}
	if slide.SlidePrompt != "" {
		chain = append(chain, model.ScopedPrompt{
			Scope:     model.ScopeSlide,
			Text:      slide.SlidePrompt,
			AppliesTo: fmt.Sprintf("slide %d", slide.SlideNumber),
		})
	}
	return chain
}
