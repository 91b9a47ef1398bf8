// Package generator drives enhanced prompts through the LLM under a
// bounded-concurrency, batch-paced, cancellation-aware contract.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pitchforge/backend/config"
	"github.com/pitchforge/backend/internal/model"
	"github.com/pitchforge/backend/internal/pkg/layouts"
	"github.com/pitchforge/backend/internal/service/promptenhancer"
	"github.com/pitchforge/backend/internal/service/promptresolver"
	"k8s.io/klog/v2"
)

// LLM is the provider surface the orchestrator needs. Sessions are
// stateful chat handles owned by exactly one run.
type LLM interface {
	StartChat(sessionID string) error
	SendMessage(ctx context.Context, sessionID, text string) (string, error)
	GenerateContent(ctx context.Context, prompt string) (string, error)
	ClearChat(sessionID string)
}

// temperatureGenerator is an optional capability of the LLM collaborator.
type temperatureGenerator interface {
	GenerateWithTemperature(ctx context.Context, prompt string, temperature float64) (string, error)
}

// ErrSessionInit indicates the chat session could not be brought up; the
// run fails before any batch and produces no partial results.
var ErrSessionInit = errors.New("failed to initialize LLM session")

// Reasons attached to a BatchResult.
const (
	ReasonNoPrompts = "no_prompts"
	ReasonCancelled = "cancelled"
)

// Progress is reported at batch granularity.
type Progress struct {
	Current    int `json:"current"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// Options control one batch generation run.
type Options struct {
	// Regenerate re-issues placeholders that already have generated content.
	Regenerate bool
	// SelectedSlides restricts tasks to a set of slide keys; nil selects all.
	SelectedSlides map[string]bool
	// BatchSize is the maximum number of in-flight LLM calls; 0 uses the
	// configured default.
	BatchSize int
	// OnProgress, if set, is invoked after each settled batch.
	OnProgress func(Progress)
}

// BatchResult is the outcome of one run. Results are keyed by
// (slideKey, placeholderID), independent of completion order.
type BatchResult struct {
	Results   model.GeneratedContent    `json:"results"`
	Context   promptenhancer.ContextTag `json:"context"`
	SessionID string                    `json:"session_id"`
	Success   bool                      `json:"success"`
	Reason    string                    `json:"reason,omitempty"`
}

type Orchestrator struct {
	llm     LLM
	catalog *layouts.Catalog
	gen     config.GenerationConfig
}

func New(llm LLM, catalog *layouts.Catalog, gen config.GenerationConfig) *Orchestrator {
	return &Orchestrator{
		llm:     llm,
		catalog: catalog,
		gen:     gen,
	}
}

// sessionSeq makes session ids unique within the process.
var sessionSeq uint64

func nextSessionID(pitchbookID uint) string {
	return fmt.Sprintf("gen_%d_%d", pitchbookID, atomic.AddUint64(&sessionSeq, 1))
}

// GenerateBatch materializes the task set for a pitchbook and executes it
// in batches of at most batchSize concurrent LLM calls. Cancellation is
// honored at batch boundaries; in-flight calls are never interrupted.
func (o *Orchestrator) GenerateBatch(ctx context.Context, pb *model.Pitchbook, opts Options) (*BatchResult, error) {
	leaves := promptresolver.Resolve(pb, o.catalog)
	tag := promptenhancer.InferContext(pb.Title, joinPrompts(leaves), pb.Type)

	result := &BatchResult{
		Results: make(model.GeneratedContent),
		Context: tag,
		Success: true,
	}

	if len(leaves) == 0 {
		klog.V(6).Infof("GenerateBatch: no placeholder prompts, pitchbookID=%d", pb.ID)
		result.Reason = ReasonNoPrompts
		return result, nil
	}

	tasks := o.selectTasks(pb, leaves, tag, opts)
	if len(tasks) == 0 {
		klog.V(6).Infof("GenerateBatch: all tasks gated out, pitchbookID=%d", pb.ID)
		return result, nil
	}

	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = o.gen.BatchSize
	}

	sessionID := nextSessionID(pb.ID)
	result.SessionID = sessionID
	if err := o.openSession(ctx, sessionID, tag); err != nil {
		return nil, err
	}
	defer o.llm.ClearChat(sessionID)

	pool, err := ants.NewPool(batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	total := len(tasks)
	settled := 0
	var mu sync.Mutex

	for start := 0; start < total; start += batchSize {
		if ctx.Err() != nil {
			klog.V(6).Infof("GenerateBatch: cancelled at batch boundary, settled=%d/%d", settled, total)
			result.Success = false
			result.Reason = ReasonCancelled
			return result, nil
		}
		// Full BatchDelay pause after each settled batch, for provider
		// rate limits.
		if start > 0 && o.gen.BatchDelay > 0 {
			select {
			case <-ctx.Done():
				klog.V(6).Infof("GenerateBatch: cancelled at batch boundary, settled=%d/%d", settled, total)
				result.Success = false
				result.Reason = ReasonCancelled
				return result, nil
			case <-time.After(o.gen.BatchDelay):
			}
		}

		end := min(start+batchSize, total)
		batch := tasks[start:end]

		var wg sync.WaitGroup
		for _, task := range batch {
			task := task
			wg.Add(1)
			run := func() {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						klog.Errorf("Generation task panic: slideKey=%s placeholder=%s err=%v",
							task.Metadata.SlideKey, task.Metadata.PlaceholderID, r)
						mu.Lock()
						o.record(result.Results, task, model.GenerationResult{
							Success:   false,
							Original:  task.Original,
							Enhanced:  task.Enhanced,
							Error:     fmt.Sprintf("panic: %v", r),
							Timestamp: time.Now(),
						})
						mu.Unlock()
					}
				}()
				res := o.executeTask(ctx, sessionID, task)
				mu.Lock()
				o.record(result.Results, task, res)
				mu.Unlock()
			}
			if err := pool.Submit(run); err != nil {
				wg.Done()
				mu.Lock()
				o.record(result.Results, task, model.GenerationResult{
					Success:   false,
					Original:  task.Original,
					Enhanced:  task.Enhanced,
					Error:     fmt.Sprintf("worker pool submit failed: %v", err),
					Timestamp: time.Now(),
				})
				mu.Unlock()
			}
		}
		wg.Wait()

		settled += len(batch)
		if opts.OnProgress != nil {
			opts.OnProgress(progressOf(settled, total))
		}
	}

	return result, nil
}

// GenerateSlide generates all placeholder prompts of one slide,
// sequentially, using a transient session.
func (o *Orchestrator) GenerateSlide(ctx context.Context, pb *model.Pitchbook, slideNumber int) (model.SlideResults, error) {
	leaves := promptresolver.Resolve(pb, o.catalog)
	tag := promptenhancer.InferContext(pb.Title, joinPrompts(leaves), pb.Type)

	results := make(model.SlideResults)
	slideKey := model.SlideKey(slideNumber)

	var slideTasks []promptenhancer.EnhancedPrompt
	for _, leaf := range leaves {
		if leaf.SlideNumber != slideNumber {
			continue
		}
		slideTasks = append(slideTasks, o.enhanceLeaf(pb, leaf, tag))
	}
	if len(slideTasks) == 0 {
		return results, nil
	}

	sessionID := nextSessionID(pb.ID)
	if err := o.openSession(ctx, sessionID, tag); err != nil {
		return nil, err
	}
	defer o.llm.ClearChat(sessionID)

	for _, task := range slideTasks {
		results[task.Metadata.PlaceholderID] = o.executeTask(ctx, sessionID, task)
	}
	klog.V(6).Infof("GenerateSlide done: pitchbookID=%d slideKey=%s tasks=%d", pb.ID, slideKey, len(slideTasks))
	return results, nil
}

// openSession starts the chat session and seeds it with the system
// prompt; the model's acknowledgement is discarded. Failures here are
// run-level (ErrSessionInit).
func (o *Orchestrator) openSession(ctx context.Context, sessionID string, tag promptenhancer.ContextTag) error {
	if err := o.llm.StartChat(sessionID); err != nil {
		return fmt.Errorf("%w: %w", ErrSessionInit, err)
	}
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout())
	defer cancel()
	if _, err := o.llm.SendMessage(callCtx, sessionID, promptenhancer.SystemPrompt(tag)); err != nil {
		o.llm.ClearChat(sessionID)
		return fmt.Errorf("%w: %w", ErrSessionInit, err)
	}
	return nil
}

// executeTask issues one content request with the per-call timeout.
// Failures become values; they never abort the batch.
func (o *Orchestrator) executeTask(ctx context.Context, sessionID string, task promptenhancer.EnhancedPrompt) model.GenerationResult {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout())
	defer cancel()

	content, err := o.llm.SendMessage(callCtx, sessionID, task.Enhanced)
	if err != nil {
		klog.Warningf("Generation failed: slideKey=%s placeholder=%s err=%v",
			task.Metadata.SlideKey, task.Metadata.PlaceholderID, err)
		return model.GenerationResult{
			Success:   false,
			Original:  task.Original,
			Enhanced:  task.Enhanced,
			Error:     err.Error(),
			Timestamp: time.Now(),
		}
	}
	return model.GenerationResult{
		Success:   true,
		Original:  task.Original,
		Enhanced:  task.Enhanced,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// selectTasks applies slide selection and regenerate gating, then
// materializes enhanced prompts for the surviving leaves.
func (o *Orchestrator) selectTasks(pb *model.Pitchbook, leaves []promptresolver.Leaf, tag promptenhancer.ContextTag, opts Options) []promptenhancer.EnhancedPrompt {
	var tasks []promptenhancer.EnhancedPrompt
	for _, leaf := range leaves {
		if opts.SelectedSlides != nil && !opts.SelectedSlides[leaf.SlideKey] {
			continue
		}
		if !opts.Regenerate && hasGenerated(pb.Generated, leaf.SlideKey, leaf.PlaceholderID) {
			continue
		}
		tasks = append(tasks, o.enhanceLeaf(pb, leaf, tag))
	}
	return tasks
}

func (o *Orchestrator) enhanceLeaf(pb *model.Pitchbook, leaf promptresolver.Leaf, tag promptenhancer.ContextTag) promptenhancer.EnhancedPrompt {
	return promptenhancer.Enhance(leaf.OriginalPrompt, promptenhancer.Metadata{
		SlideKey:        leaf.SlideKey,
		SlideNumber:     leaf.SlideNumber,
		PlaceholderID:   leaf.PlaceholderID,
		SlideType:       leaf.SlideType,
		PlaceholderType: leaf.PlaceholderType,
		SectionTitle:    leaf.SectionTitle,
		SlideTitle:      pb.Title,
		SectionCount:    promptresolver.SectionCount(pb),
		Ancestors:       leaf.Ancestors,
	}, tag)
}

func (o *Orchestrator) record(results model.GeneratedContent, task promptenhancer.EnhancedPrompt, res model.GenerationResult) {
	slideKey := task.Metadata.SlideKey
	if results[slideKey] == nil {
		results[slideKey] = make(model.SlideResults)
	}
	results[slideKey][task.Metadata.PlaceholderID] = res
}

func (o *Orchestrator) callTimeout() time.Duration {
	if o.gen.CallTimeout > 0 {
		return o.gen.CallTimeout
	}
	return 60 * time.Second
}

func hasGenerated(content model.GeneratedContent, slideKey, placeholderID string) bool {
	slideResults, ok := content[slideKey]
	if !ok {
		return false
	}
	prior, ok := slideResults[placeholderID]
	return ok && prior.Content != ""
}

func joinPrompts(leaves []promptresolver.Leaf) string {
	parts := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		parts = append(parts, leaf.OriginalPrompt)
	}
	return strings.Join(parts, " ")
}

func progressOf(current, total int) Progress {
	pct := 0
	if total > 0 {
		pct = int(float64(current)/float64(total)*100 + 0.5)
	}
	if pct > 100 {
		pct = 100
	}
	return Progress{Current: current, Total: total, Percentage: pct}
}
