package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pitchforge/backend/config"
	"github.com/pitchforge/backend/internal/eventbus"
	"github.com/pitchforge/backend/internal/model"
	"github.com/pitchforge/backend/internal/repository"
	"github.com/pitchforge/backend/internal/service/generator"
	"github.com/pitchforge/backend/internal/service/merger"
	"github.com/pitchforge/backend/internal/service/promptenhancer"
	"k8s.io/klog/v2"
)

// ErrRunNotFound indicates an unknown or already-finished run.
var ErrRunNotFound = errors.New("generation run not found")

// RunOptions is the user-visible option surface of a batch run.
type RunOptions struct {
	Regenerate       bool     `json:"regenerate"`
	SelectedSlides   []string `json:"selected_slides,omitempty"`
	BatchSize        int      `json:"batch_size,omitempty"`
	AutoReview       bool     `json:"auto_review"`
	ExecutiveSummary bool     `json:"executive_summary"`
}

// GenerationService owns the lifecycle of generation runs: persisted run
// records, cancellation, progress events, and the final merge.
type GenerationService struct {
	cfg     *config.Config
	pbRepo  repository.PitchbookRepository
	runRepo repository.GenerationRunRepository
	orch    *generator.Orchestrator
	merger  *merger.Merger
	bus     *eventbus.GenerationEventBus

	cancelMutex         sync.Mutex
	activeCancellations map[string]context.CancelFunc
}

func NewGenerationService(
	cfg *config.Config,
	pbRepo repository.PitchbookRepository,
	runRepo repository.GenerationRunRepository,
	orch *generator.Orchestrator,
	m *merger.Merger,
	bus *eventbus.GenerationEventBus,
) *GenerationService {
	return &GenerationService{
		cfg:                 cfg,
		pbRepo:              pbRepo,
		runRepo:             runRepo,
		orch:                orch,
		merger:              m,
		bus:                 bus,
		activeCancellations: make(map[string]context.CancelFunc),
	}
}

// StartRun creates a run record and executes the batch asynchronously.
func (s *GenerationService) StartRun(pitchbookID uint, opts RunOptions) (*model.GenerationRun, error) {
	pb, err := s.pbRepo.Get(pitchbookID)
	if err != nil {
		return nil, err
	}

	run := &model.GenerationRun{
		PitchbookID: pitchbookID,
		RunID:       uuid.NewString(),
		Status:      model.RunStatusPending,
	}
	if err := s.runRepo.Create(run); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.registerCancel(run.RunID, cancel)

	// The goroutine owns the run record exclusively; callers get a
	// snapshot taken before it starts mutating status and progress.
	snapshot := *run
	go func() {
		defer s.unregisterCancel(run.RunID)
		defer cancel()
		s.executeRun(ctx, run, pb, opts)
	}()

	return &snapshot, nil
}

// executeRun drives one batch run end to end. Per-item failures live in
// the result tree; only session bring-up and the storage write surface as
// run-level failures.
func (s *GenerationService) executeRun(ctx context.Context, run *model.GenerationRun, pb *model.Pitchbook, opts RunOptions) {
	run.Status = model.RunStatusRunning
	if err := s.runRepo.Save(run); err != nil {
		klog.Errorf("Failed to mark run running: runID=%s err=%v", run.RunID, err)
	}

	batchOpts := generator.Options{
		Regenerate: opts.Regenerate,
		BatchSize:  opts.BatchSize,
		OnProgress: func(p generator.Progress) {
			s.reportProgress(ctx, run, p)
		},
	}
	if opts.SelectedSlides != nil {
		batchOpts.SelectedSlides = make(map[string]bool, len(opts.SelectedSlides))
		for _, key := range opts.SelectedSlides {
			batchOpts.SelectedSlides[key] = true
		}
	}

	result, err := s.orch.GenerateBatch(ctx, pb, batchOpts)
	if err != nil {
		// Session bring-up failed; no partial results exist.
		s.finishRun(ctx, run, model.RunStatusFailed, err.Error())
		return
	}
	run.SessionID = result.SessionID
	run.ContextTag = string(result.Context)

	if opts.AutoReview && len(result.Results) > 0 {
		s.merger.Review(ctx, result.Results)
	}

	merger.Merge(pb, result.Results, time.Now())

	summary := ""
	if opts.ExecutiveSummary && len(result.Results) > 0 {
		summary, err = s.merger.ExecutiveSummary(ctx, result.Results)
		if err != nil {
			klog.Warningf("Executive summary failed: runID=%s err=%v", run.RunID, err)
			summary = ""
		}
	}

	if len(result.Results) > 0 || summary != "" {
		if err := s.pbRepo.UpdateGenerated(pb.ID, pb.Generated, summary, *pb.LastGenerated); err != nil {
			klog.Errorf("Storage write failed: runID=%s err=%v", run.RunID, err)
			s.finishRun(ctx, run, model.RunStatusFailed, fmt.Sprintf("storage write failed: %v", err))
			return
		}
	}

	switch {
	case result.Reason == generator.ReasonCancelled:
		s.finishRun(ctx, run, model.RunStatusCancelled, "")
	case result.Success:
		run.Progress = 100
		s.finishRun(ctx, run, model.RunStatusCompleted, "")
	default:
		s.finishRun(ctx, run, model.RunStatusFailed, result.Reason)
	}
}

func (s *GenerationService) reportProgress(ctx context.Context, run *model.GenerationRun, p generator.Progress) {
	run.Progress = p.Percentage
	run.TotalTasks = p.Total
	run.CompletedTasks = p.Current
	if err := s.runRepo.Save(run); err != nil {
		klog.Warningf("Failed to persist run progress: runID=%s err=%v", run.RunID, err)
	}
	s.publish(ctx, eventbus.GenerationEvent{
		Type:        eventbus.GenerationEventProgress,
		RunID:       run.RunID,
		PitchbookID: run.PitchbookID,
		Current:     p.Current,
		Total:       p.Total,
		Percentage:  p.Percentage,
	})
}

func (s *GenerationService) finishRun(ctx context.Context, run *model.GenerationRun, status, errMsg string) {
	now := time.Now()
	run.Status = status
	run.ErrorMsg = errMsg
	run.CompletedAt = &now
	if err := s.runRepo.Save(run); err != nil {
		klog.Errorf("Failed to finalize run: runID=%s err=%v", run.RunID, err)
	}

	eventType := eventbus.GenerationEventCompleted
	switch status {
	case model.RunStatusFailed:
		eventType = eventbus.GenerationEventFailed
	case model.RunStatusCancelled:
		eventType = eventbus.GenerationEventCancelled
	}
	s.publish(ctx, eventbus.GenerationEvent{
		Type:        eventType,
		RunID:       run.RunID,
		PitchbookID: run.PitchbookID,
		Current:     run.CompletedTasks,
		Total:       run.TotalTasks,
		Percentage:  run.Progress,
		Error:       errMsg,
	})
	klog.V(6).Infof("Run finished: runID=%s status=%s", run.RunID, status)
}

func (s *GenerationService) publish(ctx context.Context, event eventbus.GenerationEvent) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event.Type, event); err != nil {
		klog.Warningf("Event publish failed: runID=%s err=%v", event.RunID, err)
	}
}

func (s *GenerationService) registerCancel(runID string, cancel context.CancelFunc) {
	s.cancelMutex.Lock()
	defer s.cancelMutex.Unlock()
	s.activeCancellations[runID] = cancel
}

func (s *GenerationService) unregisterCancel(runID string) {
	s.cancelMutex.Lock()
	defer s.cancelMutex.Unlock()
	delete(s.activeCancellations, runID)
}

// CancelRun requests cancellation; the orchestrator stops at the next
// batch boundary. Returns false when the run is not active.
func (s *GenerationService) CancelRun(runID string) bool {
	s.cancelMutex.Lock()
	cancel, ok := s.activeCancellations[runID]
	s.cancelMutex.Unlock()
	if !ok {
		return false
	}
	klog.V(6).Infof("Cancelling run: runID=%s", runID)
	cancel()
	return true
}

// GetRun returns the persisted run record.
func (s *GenerationService) GetRun(runID string) (*model.GenerationRun, error) {
	run, err := s.runRepo.GetByRunID(runID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRunNotFound
	}
	return run, err
}

// GetRunsByPitchbook lists a pitchbook's runs, newest first.
func (s *GenerationService) GetRunsByPitchbook(pitchbookID uint) ([]model.GenerationRun, error) {
	return s.runRepo.GetByPitchbook(pitchbookID)
}

// GenerateSlide generates one slide synchronously and persists the
// merged results.
func (s *GenerationService) GenerateSlide(ctx context.Context, pitchbookID uint, slideNumber int) (model.SlideResults, error) {
	pb, err := s.pbRepo.Get(pitchbookID)
	if err != nil {
		return nil, err
	}
	if _, err := s.pbRepo.GetSlide(pitchbookID, slideNumber); err != nil {
		return nil, err
	}

	results, err := s.orch.GenerateSlide(ctx, pb, slideNumber)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return results, nil
	}

	merger.Merge(pb, model.GeneratedContent{model.SlideKey(slideNumber): results}, time.Now())
	if err := s.pbRepo.UpdateGenerated(pb.ID, pb.Generated, "", *pb.LastGenerated); err != nil {
		return results, fmt.Errorf("storage write failed: %w", err)
	}
	return results, nil
}

// RegenerateItem re-issues one placeholder with overrides and persists a
// successful replacement.
func (s *GenerationService) RegenerateItem(ctx context.Context, pitchbookID uint, slideKey, placeholderID string, overrides generator.Overrides) (*model.GenerationResult, error) {
	pb, err := s.pbRepo.Get(pitchbookID)
	if err != nil {
		return nil, err
	}
	prior, ok := pb.Generated[slideKey][placeholderID]
	if !ok {
		return nil, fmt.Errorf("no generated content for %s/%s", slideKey, placeholderID)
	}

	res := s.orch.Regenerate(ctx, prior, overrides)
	if res.Success {
		merger.Merge(pb, model.GeneratedContent{slideKey: {placeholderID: res}}, time.Now())
		if err := s.pbRepo.UpdateGenerated(pb.ID, pb.Generated, "", *pb.LastGenerated); err != nil {
			return &res, fmt.Errorf("storage write failed: %w", err)
		}
	}
	return &res, nil
}

// GenerateVariations produces count alternative renderings of a prompt.
func (s *GenerationService) GenerateVariations(ctx context.Context, prompt string, meta promptenhancer.Metadata, count int) []model.GenerationResult {
	if count <= 0 {
		count = 3
	}
	return s.orch.GenerateVariations(ctx, prompt, meta, count)
}
