package repository

import (
	"errors"
	"time"

	"github.com/pitchforge/backend/internal/model"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("record not found")

type PitchbookRepository interface {
	Create(pb *model.Pitchbook) error
	List() ([]model.Pitchbook, error)
	Get(id uint) (*model.Pitchbook, error)
	Save(pb *model.Pitchbook) error
	Delete(id uint) error

	// UpdateGenerated atomically replaces the generated content tree,
	// the executive summary (when non-empty) and stamps lastGenerated.
	UpdateGenerated(id uint, content model.GeneratedContent, executiveSummary string, lastGenerated time.Time) error

	SaveSlide(slide *model.Slide) error
	GetSlide(pitchbookID uint, slideNumber int) (*model.Slide, error)
}

type GenerationRunRepository interface {
	Create(run *model.GenerationRun) error
	GetByRunID(runID string) (*model.GenerationRun, error)
	Save(run *model.GenerationRun) error
	GetByPitchbook(pitchbookID uint) ([]model.GenerationRun, error)
	GetActive() ([]model.GenerationRun, error)
}
