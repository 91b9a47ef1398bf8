package service

import (
	"strings"
	"testing"

	"github.com/pitchforge/backend/config"
	"github.com/pitchforge/backend/internal/model"
	"github.com/pitchforge/backend/internal/pkg/database"
	"github.com/pitchforge/backend/internal/pkg/layouts"
	"github.com/pitchforge/backend/internal/repository"
)

func newPitchbookService(t *testing.T) *PitchbookService {
	t.Helper()
	db, err := database.InitDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	catalog := layouts.NewCatalogFrom([]model.Layout{
		{Name: "Body", Type: "body", Placeholders: []model.Placeholder{
			{ID: "ph_body", Name: "Body", Type: "body"},
		}},
	})
	return NewPitchbookService(&config.Config{}, repository.NewPitchbookRepository(db), catalog)
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := newPitchbookService(t)
	err := svc.Create(&model.Pitchbook{})
	if err == nil || !strings.Contains(err.Error(), "title") {
		t.Fatalf("expected title error, got %v", err)
	}
}

func TestCreateDefaultsType(t *testing.T) {
	svc := newPitchbookService(t)
	pb := &model.Pitchbook{Title: "Deck"}
	if err := svc.Create(pb); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if pb.Type != model.PitchbookTypeStandard {
		t.Fatalf("type not defaulted: %s", pb.Type)
	}
}

func TestCreateRejectsNonContiguousSlides(t *testing.T) {
	svc := newPitchbookService(t)
	err := svc.Create(&model.Pitchbook{
		Title: "Deck",
		Slides: []model.Slide{
			{SlideNumber: 1},
			{SlideNumber: 3},
		},
	})
	if err == nil || !strings.Contains(err.Error(), "contiguous") {
		t.Fatalf("expected contiguous error, got %v", err)
	}

	err = svc.Create(&model.Pitchbook{
		Title: "Deck",
		Slides: []model.Slide{
			{SlideNumber: 2},
			{SlideNumber: 1},
		},
	})
	if err != nil {
		t.Fatalf("order within the slice must not matter: %v", err)
	}
}

func TestUpdatePromptsUnknownSlide(t *testing.T) {
	svc := newPitchbookService(t)
	pb := &model.Pitchbook{
		Title:  "Deck",
		Slides: []model.Slide{{SlideNumber: 1, LayoutName: "Body"}},
	}
	if err := svc.Create(pb); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err := svc.UpdatePrompts(pb.ID, PromptUpdate{
		SlidePrompts: map[int]string{9: "nope"},
	})
	if err == nil || !strings.Contains(err.Error(), "slide 9 not found") {
		t.Fatalf("expected unknown slide error, got %v", err)
	}
}

func TestUpdatePromptsAllScopes(t *testing.T) {
	svc := newPitchbookService(t)
	pb := &model.Pitchbook{
		Title:  "Deck",
		Slides: []model.Slide{{SlideNumber: 1, LayoutName: "Body", SlideType: model.SlideTypeBody}},
	}
	if err := svc.Create(pb); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	prompt := "Keep it concise"
	updated, err := svc.UpdatePrompts(pb.ID, PromptUpdate{
		PitchbookPrompt:    &prompt,
		SectionPrompts:     map[string]string{"Intro": "Set the stage"},
		SlidePrompts:       map[int]string{1: "This slide covers Q3"},
		PlaceholderPrompts: map[int]map[string]string{1: {"ph_body": "Write 120 words on revenue growth."}},
	})
	if err != nil {
		t.Fatalf("updatePrompts failed: %v", err)
	}
	if updated.PitchbookPrompt != "Keep it concise" ||
		updated.SectionPrompts["Intro"] != "Set the stage" ||
		updated.Slides[0].SlidePrompt != "This slide covers Q3" ||
		updated.Slides[0].PlaceholderPrompts["ph_body"] != "Write 120 words on revenue growth." {
		t.Fatalf("prompt scopes not all applied: %+v", updated)
	}
}
