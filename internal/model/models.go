package model

import (
	"fmt"
	"time"
)

// Pitchbook types.
const (
	PitchbookTypeInvestor  = "investor"
	PitchbookTypeExecutive = "executive"
	PitchbookTypeSales     = "sales"
	PitchbookTypeStandard  = "standard"
)

// Slide types.
const (
	SlideTypeTitle          = "title"
	SlideTypeContents       = "contents"
	SlideTypeLegal          = "legal"
	SlideTypeSectionDivider = "section-divider"
	SlideTypeBody           = "body"
)

type Pitchbook struct {
	ID               uint              `json:"id" gorm:"primaryKey"`
	Title            string            `json:"title" gorm:"size:255;not null"`
	Type             string            `json:"type" gorm:"size:50;default:standard"` // investor, executive, sales, standard
	PitchbookPrompt  string            `json:"pitchbook_prompt" gorm:"type:text"`
	SectionPrompts   map[string]string `json:"section_prompts" gorm:"serializer:json;type:text"`
	Slides           []Slide           `json:"slides,omitempty" gorm:"foreignKey:PitchbookID"`
	Generated        GeneratedContent  `json:"generated_content" gorm:"serializer:json;type:text;column:generated_content"`
	ExecutiveSummary string            `json:"executive_summary" gorm:"type:text"`
	LastGenerated    *time.Time        `json:"last_generated"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Slide numbers are 1-based and contiguous within a pitchbook. Layout
// geometry is not stored here; slides reference the catalog by LayoutName.
type Slide struct {
	ID                 uint              `json:"id" gorm:"primaryKey"`
	PitchbookID        uint              `json:"pitchbook_id" gorm:"index;not null"`
	SlideNumber        int               `json:"slide_number" gorm:"not null"`
	LayoutName         string            `json:"layout_name" gorm:"size:255"`
	SlideType          string            `json:"slide_type" gorm:"size:50;default:body"` // title, contents, legal, section-divider, body
	SectionTitle       string            `json:"section_title" gorm:"size:255"`
	SlidePrompt        string            `json:"slide_prompt" gorm:"type:text"`
	PlaceholderPrompts map[string]string `json:"placeholder_prompts" gorm:"serializer:json;type:text"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// GenerationRun tracks one batch generation run for UI polling.
type GenerationRun struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	PitchbookID    uint       `json:"pitchbook_id" gorm:"index;not null"`
	RunID          string     `json:"run_id" gorm:"size:64;uniqueIndex"` // UUID
	SessionID      string     `json:"session_id" gorm:"size:128"`
	Status         string     `json:"status" gorm:"size:50;default:pending"` // pending, running, completed, cancelled, failed
	Progress       int        `json:"progress" gorm:"default:0"`             // 0-100
	ContextTag     string     `json:"context_tag" gorm:"size:50"`
	TotalTasks     int        `json:"total_tasks" gorm:"default:0"`
	CompletedTasks int        `json:"completed_tasks" gorm:"default:0"`
	ErrorMsg       string     `json:"error_msg" gorm:"size:2000"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

// Run statuses.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusCancelled = "cancelled"
	RunStatusFailed    = "failed"
)

// SlideKey returns the generated-content key for a slide number.
func SlideKey(slideNumber int) string {
	return fmt.Sprintf("slide_%d", slideNumber)
}
