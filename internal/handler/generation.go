package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pitchforge/backend/internal/repository"
	"github.com/pitchforge/backend/internal/service"
	"github.com/pitchforge/backend/internal/service/generator"
	"github.com/pitchforge/backend/internal/service/promptenhancer"
)

type GenerationHandler struct {
	service *service.GenerationService
}

func NewGenerationHandler(service *service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		service: service,
	}
}

// Generate starts an asynchronous batch run for a pitchbook.
func (h *GenerationHandler) Generate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pitchbook id"})
		return
	}

	var opts service.RunOptions
	if err := c.ShouldBindJSON(&opts); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := h.service.StartRun(id, opts)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pitchbook not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"run_id": run.RunID, "status": run.Status})
}

// GenerateSlide generates one slide synchronously.
func (h *GenerationHandler) GenerateSlide(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pitchbook id"})
		return
	}
	slideNumber, err := strconv.Atoi(c.Param("n"))
	if err != nil || slideNumber < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid slide number"})
		return
	}

	results, err := h.service.GenerateSlide(c.Request.Context(), id, slideNumber)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "slide not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, results)
}

// GetRun reports a run's status and progress.
func (h *GenerationHandler) GetRun(c *gin.Context) {
	run, err := h.service.GetRun(c.Param("runId"))
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, run)
}

// CancelRun requests cancellation of an active run.
func (h *GenerationHandler) CancelRun(c *gin.Context) {
	runID := c.Param("runId")
	if !h.service.CancelRun(runID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not active"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cancellation requested"})
}

type regenerateRequest struct {
	PitchbookID   uint                `json:"pitchbook_id"`
	SlideKey      string              `json:"slide_key"`
	PlaceholderID string              `json:"placeholder_id"`
	Overrides     generator.Overrides `json:"overrides"`
}

// Regenerate re-issues a single placeholder with overrides.
func (h *GenerationHandler) Regenerate(c *gin.Context) {
	var req regenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.service.RegenerateItem(c.Request.Context(), req.PitchbookID, req.SlideKey, req.PlaceholderID, req.Overrides)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pitchbook not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, res)
}

type variationsRequest struct {
	Prompt   string                  `json:"prompt"`
	Metadata promptenhancer.Metadata `json:"metadata"`
	Count    int                     `json:"count"`
}

// Variations produces alternative renderings of a prompt.
func (h *GenerationHandler) Variations(c *gin.Context) {
	var req variationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Prompt == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "prompt is required"})
		return
	}

	results := h.service.GenerateVariations(c.Request.Context(), req.Prompt, req.Metadata, req.Count)
	c.JSON(http.StatusOK, results)
}

// GetRunsByPitchbook lists a pitchbook's generation runs.
func (h *GenerationHandler) GetRunsByPitchbook(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pitchbook id"})
		return
	}

	runs, err := h.service.GetRunsByPitchbook(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, runs)
}
