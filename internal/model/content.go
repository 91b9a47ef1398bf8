package model

import "time"

// Layout is a read-only slide layout from the catalog. Layouts are
// referenced by name and never mutated.
type Layout struct {
	Name         string        `json:"name" yaml:"name"`
	Type         string        `json:"type" yaml:"type"`
	Placeholders []Placeholder `json:"placeholders" yaml:"placeholders"`
}

// Placeholder types beyond this set degrade to the body template.
const (
	PlaceholderTypeTitle    = "title"
	PlaceholderTypeSubtitle = "subtitle"
	PlaceholderTypeBody     = "body"
	PlaceholderTypeBullet   = "bullet"
	PlaceholderTypeHeading  = "heading"
	PlaceholderTypePicture  = "picture"
	PlaceholderTypeChart    = "chart"
	PlaceholderTypeTable    = "table"
)

type Placeholder struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Type   string `json:"type" yaml:"type"`
	X      int    `json:"x" yaml:"x"`
	Y      int    `json:"y" yaml:"y"`
	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
}

// Prompt scopes, most general first. A prompt at a higher scope is
// inherited by every leaf below it.
const (
	ScopePitchbook   = "pitchbook"
	ScopeSection     = "section"
	ScopeSlide       = "slide"
	ScopePlaceholder = "placeholder"
)

// ScopedPrompt wraps a prompt string with the level it attaches to.
// AppliesTo is a human-readable descriptor used for auditing and as
// LLM context.
type ScopedPrompt struct {
	Scope     string `json:"scope"`
	Text      string `json:"text"`
	AppliesTo string `json:"applies_to"`
}

// GenerationResult is the per-placeholder outcome of one LLM call.
// Failures are values, not errors: a failed placeholder never aborts
// the batch.
type GenerationResult struct {
	Success         bool      `json:"success"`
	Original        string    `json:"original"`
	Enhanced        string    `json:"enhanced,omitempty"`
	Content         string    `json:"content,omitempty"`
	OriginalContent string    `json:"original_content,omitempty"` // pre-review content when a review pass ran
	Error           string    `json:"error,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// SlideResults maps placeholderID to its result.
type SlideResults map[string]GenerationResult

// GeneratedContent maps slideKey ("slide_<n>") to that slide's results.
type GeneratedContent map[string]SlideResults
