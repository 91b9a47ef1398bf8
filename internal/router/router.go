package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/pitchforge/backend/config"
	"github.com/pitchforge/backend/internal/handler"
)

func Setup(
	cfg *config.Config,
	pitchbookHandler *handler.PitchbookHandler,
	generationHandler *handler.GenerationHandler,
	layoutHandler *handler.LayoutHandler,
	configHandler *handler.ConfigHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	api := r.Group("/api")
	{
		pitchbooks := api.Group("/pitchbooks")
		{
			pitchbooks.POST("", pitchbookHandler.Create)
			pitchbooks.GET("", pitchbookHandler.List)
			pitchbooks.GET("/:id", pitchbookHandler.Get)
			pitchbooks.PUT("/:id", pitchbookHandler.Update)
			pitchbooks.DELETE("/:id", pitchbookHandler.Delete)
			pitchbooks.PUT("/:id/prompts", pitchbookHandler.UpdatePrompts)
			pitchbooks.POST("/:id/generate", generationHandler.Generate)
			pitchbooks.POST("/:id/slides/:n/generate", generationHandler.GenerateSlide)
			pitchbooks.GET("/:id/runs", generationHandler.GetRunsByPitchbook)
		}

		generation := api.Group("/generation")
		{
			generation.GET("/:runId", generationHandler.GetRun)
			generation.POST("/:runId/cancel", generationHandler.CancelRun)
			generation.POST("/regenerate", generationHandler.Regenerate)
			generation.POST("/variations", generationHandler.Variations)
		}

		api.GET("/layouts", layoutHandler.List)

		api.GET("/config", configHandler.Get)
		api.PUT("/config", configHandler.Update)
	}

	return r
}
