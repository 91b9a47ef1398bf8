package repository

import (
	"errors"

	"github.com/pitchforge/backend/internal/model"
	"gorm.io/gorm"
)

type generationRunRepository struct {
	db *gorm.DB
}

func NewGenerationRunRepository(db *gorm.DB) GenerationRunRepository {
	return &generationRunRepository{db: db}
}

func (r *generationRunRepository) Create(run *model.GenerationRun) error {
	return r.db.Create(run).Error
}

func (r *generationRunRepository) GetByRunID(runID string) (*model.GenerationRun, error) {
	var run model.GenerationRun
	err := r.db.Where("run_id = ?", runID).First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &run, nil
}

func (r *generationRunRepository) Save(run *model.GenerationRun) error {
	return r.db.Save(run).Error
}

func (r *generationRunRepository) GetByPitchbook(pitchbookID uint) ([]model.GenerationRun, error) {
	var runs []model.GenerationRun
	err := r.db.Where("pitchbook_id = ?", pitchbookID).
		Order("created_at desc").
		Find(&runs).Error
	return runs, err
}

func (r *generationRunRepository) GetActive() ([]model.GenerationRun, error) {
	var runs []model.GenerationRun
	err := r.db.Where("status IN ?", []string{model.RunStatusPending, model.RunStatusRunning}).
		Order("created_at").
		Find(&runs).Error
	return runs, err
}
