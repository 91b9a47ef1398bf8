package service

import (
	"fmt"
	"sort"

	"github.com/pitchforge/backend/config"
	"github.com/pitchforge/backend/internal/model"
	"github.com/pitchforge/backend/internal/pkg/layouts"
	"github.com/pitchforge/backend/internal/repository"
	"k8s.io/klog/v2"
)

// PitchbookService is the storage collaborator for pitchbooks: CRUD,
// prompt updates and the layout catalog.
type PitchbookService struct {
	cfg     *config.Config
	pbRepo  repository.PitchbookRepository
	catalog *layouts.Catalog
}

func NewPitchbookService(cfg *config.Config, pbRepo repository.PitchbookRepository, catalog *layouts.Catalog) *PitchbookService {
	return &PitchbookService{
		cfg:     cfg,
		pbRepo:  pbRepo,
		catalog: catalog,
	}
}

// Create validates the slide sequence and stores the pitchbook.
func (s *PitchbookService) Create(pb *model.Pitchbook) error {
	if pb.Title == "" {
		return fmt.Errorf("pitchbook title is required")
	}
	if pb.Type == "" {
		pb.Type = model.PitchbookTypeStandard
	}
	if err := validateSlideNumbers(pb.Slides); err != nil {
		return err
	}
	if err := s.pbRepo.Create(pb); err != nil {
		return err
	}
	klog.V(6).Infof("Pitchbook created: id=%d title=%s slides=%d", pb.ID, pb.Title, len(pb.Slides))
	return nil
}

func (s *PitchbookService) List() ([]model.Pitchbook, error) {
	return s.pbRepo.List()
}

func (s *PitchbookService) Get(id uint) (*model.Pitchbook, error) {
	return s.pbRepo.Get(id)
}

// Update replaces mutable pitchbook attributes, keeping the generated
// content tree intact.
func (s *PitchbookService) Update(id uint, update *model.Pitchbook) (*model.Pitchbook, error) {
	pb, err := s.pbRepo.Get(id)
	if err != nil {
		return nil, err
	}

	if update.Title != "" {
		pb.Title = update.Title
	}
	if update.Type != "" {
		pb.Type = update.Type
	}
	if update.Slides != nil {
		if err := validateSlideNumbers(update.Slides); err != nil {
			return nil, err
		}
		for i := range update.Slides {
			update.Slides[i].PitchbookID = pb.ID
		}
		pb.Slides = update.Slides
	}

	if err := s.pbRepo.Save(pb); err != nil {
		return nil, err
	}
	return pb, nil
}

func (s *PitchbookService) Delete(id uint) error {
	return s.pbRepo.Delete(id)
}

// PromptUpdate carries scoped prompt edits. Nil fields are untouched.
type PromptUpdate struct {
	PitchbookPrompt    *string                   `json:"pitchbook_prompt,omitempty"`
	SectionPrompts     map[string]string         `json:"section_prompts,omitempty"`
	SlidePrompts       map[int]string            `json:"slide_prompts,omitempty"`
	PlaceholderPrompts map[int]map[string]string `json:"placeholder_prompts,omitempty"`
}

// UpdatePrompts applies prompt edits at any scope in one call.
func (s *PitchbookService) UpdatePrompts(id uint, update PromptUpdate) (*model.Pitchbook, error) {
	pb, err := s.pbRepo.Get(id)
	if err != nil {
		return nil, err
	}

	if update.PitchbookPrompt != nil {
		pb.PitchbookPrompt = *update.PitchbookPrompt
	}
	if update.SectionPrompts != nil {
		if pb.SectionPrompts == nil {
			pb.SectionPrompts = make(map[string]string)
		}
		for section, text := range update.SectionPrompts {
			pb.SectionPrompts[section] = text
		}
	}

	byNumber := make(map[int]*model.Slide, len(pb.Slides))
	for i := range pb.Slides {
		byNumber[pb.Slides[i].SlideNumber] = &pb.Slides[i]
	}
	for slideNumber, text := range update.SlidePrompts {
		slide, ok := byNumber[slideNumber]
		if !ok {
			return nil, fmt.Errorf("slide %d not found", slideNumber)
		}
		slide.SlidePrompt = text
	}
	for slideNumber, prompts := range update.PlaceholderPrompts {
		slide, ok := byNumber[slideNumber]
		if !ok {
			return nil, fmt.Errorf("slide %d not found", slideNumber)
		}
		if slide.PlaceholderPrompts == nil {
			slide.PlaceholderPrompts = make(map[string]string)
		}
		for placeholderID, text := range prompts {
			slide.PlaceholderPrompts[placeholderID] = text
		}
	}

	if err := s.pbRepo.Save(pb); err != nil {
		return nil, err
	}
	return pb, nil
}

// ListLayouts exposes the read-only layout catalog.
func (s *PitchbookService) ListLayouts() []model.Layout {
	return s.catalog.List()
}

// validateSlideNumbers enforces a contiguous 1..N slide sequence.
func validateSlideNumbers(slides []model.Slide) error {
	numbers := make([]int, 0, len(slides))
	for _, slide := range slides {
		numbers = append(numbers, slide.SlideNumber)
	}
	sort.Ints(numbers)
	for i, n := range numbers {
		if n != i+1 {
			return fmt.Errorf("slide numbers must form a contiguous 1..%d sequence", len(slides))
		}
	}
	return nil
}
