package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/middleware"
)

// generationHandler handles HTTP requests that drive expense generation.
type generationHandler struct {
	generationService portssvc.GenerationSvc
}

func newGenerationHandler(gs portssvc.GenerationSvc) *generationHandler {
	return &generationHandler{
		generationService: gs,
	}
}

// registerGenerationRoutes registers routes related to expense generation.
func registerGenerationRoutes(rg *gin.RouterGroup, generationService portssvc.GenerationSvc) {
	h := newGenerationHandler(generationService)

	generation := rg.Group("/generation")
	{
		generation.POST("/run", h.runGeneration)
		generation.GET("/missed", h.listMissed)
	}
}

// runGeneration godoc
// @Summary Run expense generation
// @Description Materializes upcoming expenses from active templates. Safe to call repeatedly.
// @Tags generation
// @Produce  json
// @Success 200 {object} dto.GenerationSummary
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Generation failed"
// @Security BearerAuth
// @Router /generation/run [post]
func (h *generationHandler) runGeneration(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to run generation")

	summary, err := h.generationService.GenerateUpcoming(c.Request.Context(), time.Now())
	if err != nil {
		logger.Error("Generation run failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Generation failed"})
		return
	}

	logger.Info("Generation run completed",
		slog.Int("templates", summary.TemplatesProcessed),
		slog.Int("created", summary.ExpensesCreated))
	c.JSON(http.StatusOK, summary)
}

// listMissed godoc
// @Summary List missed payments
// @Description Flags templates whose due date passed the grace period with no matching expense
// @Tags generation
// @Produce  json
// @Success 200 {object} []dto.MissedTemplate
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Missed payment check failed"
// @Security BearerAuth
// @Router /generation/missed [get]
func (h *generationHandler) listMissed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	missed, err := h.generationService.MissedTemplates(c.Request.Context(), time.Now())
	if err != nil {
		logger.Error("Missed payment check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Missed payment check failed"})
		return
	}

	c.JSON(http.StatusOK, missed)
}
