package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/pitchforge/backend/internal/model"
	"github.com/pitchforge/backend/internal/pkg/database"
	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	return db
}

func samplePitchbook() *model.Pitchbook {
	return &model.Pitchbook{
		Title:           "Acme Q3 Earnings",
		Type:            model.PitchbookTypeExecutive,
		PitchbookPrompt: "Keep everything concise",
		SectionPrompts: map[string]string{
			"Financials": "Focus on the numbers",
		},
		Slides: []model.Slide{
			{
				SlideNumber:  1,
				LayoutName:   "Title Slide",
				SlideType:    model.SlideTypeTitle,
				SectionTitle: "Intro",
			},
			{
				SlideNumber:  2,
				LayoutName:   "Body",
				SlideType:    model.SlideTypeBody,
				SectionTitle: "Financials",
				PlaceholderPrompts: map[string]string{
					"ph_body": "Write 120 words on revenue growth.",
				},
			},
		},
	}
}

func TestPitchbookCreateAndGet(t *testing.T) {
	repo := NewPitchbookRepository(testDB(t))

	pb := samplePitchbook()
	if err := repo.Create(pb); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if pb.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := repo.Get(pb.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Title != "Acme Q3 Earnings" {
		t.Fatalf("unexpected title: %s", got.Title)
	}
	if got.SectionPrompts["Financials"] != "Focus on the numbers" {
		t.Fatalf("section prompts not round-tripped: %+v", got.SectionPrompts)
	}
	if len(got.Slides) != 2 {
		t.Fatalf("expected 2 slides, got %d", len(got.Slides))
	}
	if got.Slides[0].SlideNumber != 1 || got.Slides[1].SlideNumber != 2 {
		t.Fatalf("slides not ordered by slide_number: %+v", got.Slides)
	}
	if got.Slides[1].PlaceholderPrompts["ph_body"] != "Write 120 words on revenue growth." {
		t.Fatalf("placeholder prompts not round-tripped: %+v", got.Slides[1].PlaceholderPrompts)
	}
}

func TestPitchbookGetNotFound(t *testing.T) {
	repo := NewPitchbookRepository(testDB(t))
	if _, err := repo.Get(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPitchbookList(t *testing.T) {
	repo := NewPitchbookRepository(testDB(t))

	for i := 0; i < 3; i++ {
		pb := samplePitchbook()
		if err := repo.Create(pb); err != nil {
			t.Fatalf("create failed: %v", err)
		}
	}

	pbs, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pbs) != 3 {
		t.Fatalf("expected 3 pitchbooks, got %d", len(pbs))
	}
	if len(pbs[0].Slides) != 2 {
		t.Fatalf("slides not preloaded: %+v", pbs[0])
	}
}

func TestPitchbookSaveUpdatesPrompts(t *testing.T) {
	repo := NewPitchbookRepository(testDB(t))

	pb := samplePitchbook()
	if err := repo.Create(pb); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	pb.PitchbookPrompt = "Be bold"
	pb.Slides[1].PlaceholderPrompts["ph_body"] = "Write 80 words on churn."
	if err := repo.Save(pb); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	got, err := repo.Get(pb.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.PitchbookPrompt != "Be bold" {
		t.Fatalf("pitchbook prompt not updated: %s", got.PitchbookPrompt)
	}
	if got.Slides[1].PlaceholderPrompts["ph_body"] != "Write 80 words on churn." {
		t.Fatalf("slide prompt not updated: %+v", got.Slides[1].PlaceholderPrompts)
	}
}

func TestPitchbookDeleteRemovesSlides(t *testing.T) {
	db := testDB(t)
	repo := NewPitchbookRepository(db)

	pb := samplePitchbook()
	if err := repo.Create(pb); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.Delete(pb.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := repo.Get(pb.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	var count int64
	db.Model(&model.Slide{}).Where("pitchbook_id = ?", pb.ID).Count(&count)
	if count != 0 {
		t.Fatalf("orphaned slides remain: %d", count)
	}
}

func TestUpdateGenerated(t *testing.T) {
	repo := NewPitchbookRepository(testDB(t))

	pb := samplePitchbook()
	if err := repo.Create(pb); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	content := model.GeneratedContent{
		"slide_2": {
			"ph_body": {Success: true, Content: "Revenue grew 14%.", Original: "Write 120 words on revenue growth."},
		},
	}
	now := time.Now().UTC().Truncate(time.Second)
	if err := repo.UpdateGenerated(pb.ID, content, "Summary text", now); err != nil {
		t.Fatalf("updateGenerated failed: %v", err)
	}

	got, err := repo.Get(pb.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	res := got.Generated["slide_2"]["ph_body"]
	if !res.Success || res.Content != "Revenue grew 14%." {
		t.Fatalf("generated content not round-tripped: %+v", got.Generated)
	}
	if got.ExecutiveSummary != "Summary text" {
		t.Fatalf("executive summary not stored: %s", got.ExecutiveSummary)
	}
	if got.LastGenerated == nil {
		t.Fatalf("lastGenerated not stamped")
	}
}

func TestUpdateGeneratedReplacesTree(t *testing.T) {
	repo := NewPitchbookRepository(testDB(t))

	pb := samplePitchbook()
	if err := repo.Create(pb); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	first := model.GeneratedContent{
		"slide_1": {"ph_title": {Success: true, Content: "v1"}},
	}
	if err := repo.UpdateGenerated(pb.ID, first, "", time.Now()); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	second := model.GeneratedContent{
		"slide_2": {"ph_body": {Success: true, Content: "v2"}},
	}
	if err := repo.UpdateGenerated(pb.ID, second, "", time.Now()); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	got, err := repo.Get(pb.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if _, ok := got.Generated["slide_1"]; ok {
		t.Fatalf("stale tree survived the update: %+v", got.Generated)
	}
	if got.Generated["slide_2"]["ph_body"].Content != "v2" {
		t.Fatalf("replacement tree not stored: %+v", got.Generated)
	}
}

func TestUpdateGeneratedKeepsSummaryWhenEmpty(t *testing.T) {
	repo := NewPitchbookRepository(testDB(t))

	pb := samplePitchbook()
	if err := repo.Create(pb); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := repo.UpdateGenerated(pb.ID, model.GeneratedContent{}, "First summary", time.Now()); err != nil {
		t.Fatalf("updateGenerated failed: %v", err)
	}
	if err := repo.UpdateGenerated(pb.ID, model.GeneratedContent{}, "", time.Now()); err != nil {
		t.Fatalf("updateGenerated failed: %v", err)
	}

	got, err := repo.Get(pb.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.ExecutiveSummary != "First summary" {
		t.Fatalf("empty summary must not clear the stored one: %q", got.ExecutiveSummary)
	}
}

func TestUpdateGeneratedNotFound(t *testing.T) {
	repo := NewPitchbookRepository(testDB(t))
	err := repo.UpdateGenerated(12345, model.GeneratedContent{}, "", time.Now())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetSlide(t *testing.T) {
	repo := NewPitchbookRepository(testDB(t))

	pb := samplePitchbook()
	if err := repo.Create(pb); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	slide, err := repo.GetSlide(pb.ID, 2)
	if err != nil {
		t.Fatalf("getSlide failed: %v", err)
	}
	if slide.LayoutName != "Body" {
		t.Fatalf("unexpected slide: %+v", slide)
	}

	if _, err := repo.GetSlide(pb.ID, 9); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
