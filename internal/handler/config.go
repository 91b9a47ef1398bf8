package handler

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/pitchforge/backend/config"
)

// ConfigHandler guards the shared config against concurrent GET/PUT
// requests; services copy the values they need at construction.
type ConfigHandler struct {
	mu  sync.RWMutex
	cfg *config.Config
}

func NewConfigHandler(cfg *config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

type ConfigResponse struct {
	LLM        LLMConfigResponse        `json:"llm"`
	Generation GenerationConfigResponse `json:"generation"`
}

type LLMConfigResponse struct {
	APIURL    string `json:"api_url"`
	APIKey    string `json:"api_key"`
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
}

type GenerationConfigResponse struct {
	BatchSize  int    `json:"batch_size"`
	BatchDelay string `json:"batch_delay"`
	AutoReview bool   `json:"auto_review"`
}

func (h *ConfigHandler) Get(c *gin.Context) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	resp := ConfigResponse{
		LLM: LLMConfigResponse{
			APIURL:    h.cfg.LLM.APIURL,
			APIKey:    maskKey(h.cfg.LLM.APIKey),
			Model:     h.cfg.LLM.Model,
			MaxTokens: h.cfg.LLM.MaxTokens,
		},
		Generation: GenerationConfigResponse{
			BatchSize:  h.cfg.Generation.BatchSize,
			BatchDelay: h.cfg.Generation.BatchDelay.String(),
			AutoReview: h.cfg.Generation.AutoReview,
		},
	}

	c.JSON(http.StatusOK, resp)
}

type UpdateConfigRequest struct {
	LLM        *LLMConfigRequest        `json:"llm,omitempty"`
	Generation *GenerationConfigRequest `json:"generation,omitempty"`
}

type LLMConfigRequest struct {
	APIURL    string `json:"api_url,omitempty"`
	APIKey    string `json:"api_key,omitempty"`
	Model     string `json:"model,omitempty"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

type GenerationConfigRequest struct {
	BatchSize  *int  `json:"batch_size,omitempty"`
	AutoReview *bool `json:"auto_review,omitempty"`
}

func (h *ConfigHandler) Update(c *gin.Context) {
	var req UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if req.LLM != nil {
		if req.LLM.APIURL != "" {
			h.cfg.LLM.APIURL = req.LLM.APIURL
		}
		if req.LLM.APIKey != "" && req.LLM.APIKey != maskKey(h.cfg.LLM.APIKey) {
			h.cfg.LLM.APIKey = req.LLM.APIKey
		}
		if req.LLM.Model != "" {
			h.cfg.LLM.Model = req.LLM.Model
		}
		if req.LLM.MaxTokens > 0 {
			h.cfg.LLM.MaxTokens = req.LLM.MaxTokens
		}
	}

	if req.Generation != nil {
		if req.Generation.BatchSize != nil && *req.Generation.BatchSize > 0 {
			h.cfg.Generation.BatchSize = *req.Generation.BatchSize
		}
		if req.Generation.AutoReview != nil {
			h.cfg.Generation.AutoReview = *req.Generation.AutoReview
		}
	}

	config.UpdateConfig(h.cfg)
	c.JSON(http.StatusOK, gin.H{"message": "config updated"})
}

// maskKey hides all but the last 4 characters of a secret.
func maskKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
