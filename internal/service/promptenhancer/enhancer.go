// Package promptenhancer expands short user prompts into fully-specified
// LLM instructions using context-keyed templates. Everything here is a
// pure function: equal inputs yield byte-identical outputs.
package promptenhancer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pitchforge/backend/internal/model"
)

const jurisdiction = "United States"

// Metadata carries the coordinates and scope context of one prompt leaf.
type Metadata struct {
	SlideKey        string               `json:"slide_key"`
	SlideNumber     int                  `json:"slide_number"`
	PlaceholderID   string               `json:"placeholder_id"`
	SlideType       string               `json:"slide_type"`
	PlaceholderType string               `json:"placeholder_type"`
	SectionTitle    string               `json:"section_title,omitempty"`
	SlideTitle      string               `json:"slide_title,omitempty"`
	SectionCount    int                  `json:"section_count,omitempty"`
	Ancestors       []model.ScopedPrompt `json:"ancestors,omitempty"`
}

// EnhancedPrompt is the derived record handed to the orchestrator.
type EnhancedPrompt struct {
	Original string     `json:"original"`
	Enhanced string     `json:"enhanced"`
	Analysis Analysis   `json:"analysis"`
	Context  ContextTag `json:"context"`
	Metadata Metadata   `json:"metadata"`
}

// Enhance turns an original prompt plus its scope context into a complete
// LLM instruction.
func Enhance(original string, meta Metadata, tag ContextTag) EnhancedPrompt {
	analysis := Analyze(original, meta.SlideType)
	profile := Profile(tag)
	tpl := selectTemplate(meta.SlideType, meta.PlaceholderType)

	topic := analysis.Topic
	if topic == "" {
		topic = strings.TrimSpace(original)
	}

	bulletPoints := 3
	if analysis.Requirements.BulletPoints {
		bulletPoints = 5
	}

	sectionTitle := meta.SectionTitle
	if sectionTitle == "" {
		sectionTitle = "this section"
	}
	sectionCount := meta.SectionCount
	if sectionCount < 1 {
		sectionCount = 1
	}

	replacer := strings.NewReplacer(
		"[TOPIC]", topic,
		"[WORD_COUNT]", strconv.Itoa(analysis.WordCount),
		"[BULLET_POINTS]", strconv.Itoa(bulletPoints),
		"[AUDIENCE]", profile.Audience,
		"[TONE]", profile.Tone,
		"[STYLE]", styleFor(profile, analysis),
		"[FOCUS]", profile.Focus,
		"[SECTION_TITLE]", sectionTitle,
		"[SLIDE_TITLE]", meta.SlideTitle,
		"[SECTION_COUNT]", strconv.Itoa(sectionCount),
		"[JURISDICTION]", jurisdiction,
	)

	var b strings.Builder
	b.WriteString(replacer.Replace(tpl.Enhanced))

	if len(meta.Ancestors) > 0 {
		b.WriteString("\n\nContext from broader scopes:")
		for _, a := range meta.Ancestors {
			b.WriteString(fmt.Sprintf("\n- [%s] %s", a.AppliesTo, a.Text))
		}
	}

	if line := formattingInstruction(meta.PlaceholderType); line != "" {
		b.WriteString("\n")
		b.WriteString(line)
	}

	b.WriteString("\nThe content should be:\n" +
		"- Accurate and up-to-date\n" +
		"- Free of jargon unless necessary\n" +
		"- Engaging and easy to understand")

	if analysis.Requirements.DataDriven {
		b.WriteString("\nInclude relevant statistics and data points to support the message.")
	}
	if analysis.Requirements.Examples {
		b.WriteString("\nInclude concrete examples.")
	}
	if analysis.Requirements.Comparative {
		b.WriteString("\nProvide a balanced comparison covering pros and cons.")
	}

	return EnhancedPrompt{
		Original: original,
		Enhanced: b.String(),
		Analysis: analysis,
		Context:  tag,
		Metadata: meta,
	}
}

// styleFor lets an explicit style hint in the prompt win over the
// context profile.
func styleFor(profile ContextProfile, analysis Analysis) string {
	switch analysis.StyleHint {
	case "formal":
		if strings.Contains(profile.Style, "formal") {
			return profile.Style
		}
		return "formal " + profile.Style
	case "informal":
		return "approachable " + profile.Style
	default:
		return profile.Style
	}
}

// formattingInstruction returns the extra formatting line demanded by a
// placeholder type, or empty.
func formattingInstruction(placeholderType string) string {
	switch placeholderType {
	case model.PlaceholderTypeBullet:
		return "Format the response as bullet points, one per line, each starting with a dash."
	case model.PlaceholderTypeHeading, model.PlaceholderTypeTitle:
		return "Respond with a single line of text and no trailing punctuation."
	default:
		return ""
	}
}

// SystemPrompt describes the writer persona for a context; it seeds the
// chat session before any content request.
func SystemPrompt(tag ContextTag) string {
	profile := Profile(tag)
	return fmt.Sprintf(
		"You are an expert business presentation writer working on a %s presentation.\n"+
			"Audience: %s.\n"+
			"Tone: %s.\n"+
			"Style: %s.\n"+
			"Focus on %s.\n"+
			"Write polished, slide-ready text and respond only with the requested content.",
		tag, profile.Audience, profile.Tone, profile.Style, profile.Focus)
}
