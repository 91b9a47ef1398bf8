package repository

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/pitchforge/backend/internal/model"
	"gorm.io/gorm"
)

type pitchbookRepository struct {
	db *gorm.DB
}

func NewPitchbookRepository(db *gorm.DB) PitchbookRepository {
	return &pitchbookRepository{db: db}
}

func (r *pitchbookRepository) Create(pb *model.Pitchbook) error {
	return r.db.Create(pb).Error
}

func (r *pitchbookRepository) List() ([]model.Pitchbook, error) {
	var pbs []model.Pitchbook
	err := r.db.Preload("Slides", func(db *gorm.DB) *gorm.DB {
		return db.Order("slide_number")
	}).Order("id").Find(&pbs).Error
	return pbs, err
}

func (r *pitchbookRepository) Get(id uint) (*model.Pitchbook, error) {
	var pb model.Pitchbook
	err := r.db.Preload("Slides", func(db *gorm.DB) *gorm.DB {
		return db.Order("slide_number")
	}).First(&pb, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pb, nil
}

func (r *pitchbookRepository) Save(pb *model.Pitchbook) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(pb).Error
}

func (r *pitchbookRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pitchbook_id = ?", id).Delete(&model.Slide{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Pitchbook{}, id).Error
	})
}

func (r *pitchbookRepository) UpdateGenerated(id uint, content model.GeneratedContent, executiveSummary string, lastGenerated time.Time) error {
	// A map-based Updates skips the model's json serializer, so the
	// content tree is marshalled here.
	data, err := json.Marshal(content)
	if err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"generated_content": string(data),
			"last_generated":    lastGenerated,
			"updated_at":        time.Now(),
		}
		if executiveSummary != "" {
			updates["executive_summary"] = executiveSummary
		}
		res := tx.Model(&model.Pitchbook{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *pitchbookRepository) SaveSlide(slide *model.Slide) error {
	return r.db.Save(slide).Error
}

func (r *pitchbookRepository) GetSlide(pitchbookID uint, slideNumber int) (*model.Slide, error) {
	var slide model.Slide
	err := r.db.Where("pitchbook_id = ? AND slide_number = ?", pitchbookID, slideNumber).
		First(&slide).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &slide, nil
}
