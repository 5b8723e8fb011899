package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planday-app/organizer_backend/internal/apperrors"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/dto"
	"github.com/planday-app/organizer_backend/internal/middleware"
)

// templateHandler handles HTTP requests related to recurring templates.
type templateHandler struct {
	templateService portssvc.TemplateSvc
	syncService     portssvc.TemplateSyncSvc
}

func newTemplateHandler(ts portssvc.TemplateSvc, ss portssvc.TemplateSyncSvc) *templateHandler {
	return &templateHandler{
		templateService: ts,
		syncService:     ss,
	}
}

// registerTemplateRoutes registers routes related to recurring templates.
func registerTemplateRoutes(rg *gin.RouterGroup, templateService portssvc.TemplateSvc, syncService portssvc.TemplateSyncSvc) {
	h := newTemplateHandler(templateService, syncService)

	templates := rg.Group("/templates")
	{
		templates.POST("", h.createTemplate)
		templates.GET("", h.listTemplates)
		templates.GET("/:id", h.getTemplate)
		templates.PUT("/:id", h.updateTemplate)
		templates.POST("/:id/pause", h.pauseTemplate)
		templates.POST("/:id/resume", h.resumeTemplate)
		templates.POST("/:id/undo-sync", h.undoSync)
		templates.DELETE("/:id", h.deleteTemplate)
	}
}

// createTemplate godoc
// @Summary Create a recurring template
// @Description Creates a new recurring expense template
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   template body dto.CreateTemplateRequest true "Template details"
// @Success 201 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to create template"
// @Security BearerAuth
// @Router /templates [post]
func (h *templateHandler) createTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create template", slog.String("title", req.Title))

	created, err := h.templateService.CreateTemplate(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating template", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create template in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create template"})
		}
		return
	}

	logger.Info("Template created successfully", slog.String("template_id", created.TemplateID))
	c.JSON(http.StatusCreated, dto.ToTemplateResponse(created, time.Now()))
}

// listTemplates godoc
// @Summary List templates
// @Description Lists recurring templates, optionally including inactive ones
// @Tags templates
// @Produce  json
// @Param   includeInactive query bool false "Include inactive templates"
// @Success 200 {object} []dto.TemplateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list templates"
// @Security BearerAuth
// @Router /templates [get]
func (h *templateHandler) listTemplates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive := c.Query("includeInactive") == "true"

	templates, err := h.templateService.ListTemplates(c.Request.Context(), includeInactive)
	if err != nil {
		logger.Error("Failed to list templates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list templates"})
		return
	}

	now := time.Now()
	responses := make([]dto.TemplateResponse, 0, len(templates))
	for i := range templates {
		responses = append(responses, dto.ToTemplateResponse(&templates[i], now))
	}
	c.JSON(http.StatusOK, responses)
}

// getTemplate godoc
// @Summary Get a template by ID
// @Description Retrieves a single recurring template
// @Tags templates
// @Produce  json
// @Param   id path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to retrieve template"
// @Security BearerAuth
// @Router /templates/{id} [get]
func (h *templateHandler) getTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")
	logger = logger.With(slog.String("template_id", templateID))

	template, err := h.templateService.GetTemplateByID(c.Request.Context(), templateID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Template not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
		} else {
			logger.Error("Failed to get template from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve template"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTemplateResponse(template, time.Now()))
}

// updateTemplate godoc
// @Summary Update a template
// @Description Updates a recurring template and syncs its generated expenses
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   id path string true "Template ID"
// @Param   template body dto.UpdateTemplateRequest true "Fields to update"
// @Success 200 {object} dto.TemplateResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to update template"
// @Security BearerAuth
// @Router /templates/{id} [put]
func (h *templateHandler) updateTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")
	logger = logger.With(slog.String("template_id", templateID))

	var req dto.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateTemplate", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to update template")

	updated, err := h.templateService.UpdateTemplate(c.Request.Context(), templateID, req)
	if err != nil {
		h.respondTemplateError(c, logger, err, "update")
		return
	}

	logger.Info("Template updated successfully")
	c.JSON(http.StatusOK, dto.ToTemplateResponse(updated, time.Now()))
}

// pauseTemplate godoc
// @Summary Pause a template
// @Description Pauses generation for a template, optionally until a given date
// @Tags templates
// @Accept  json
// @Produce  json
// @Param   id path string true "Template ID"
// @Param   pause body dto.PauseTemplateRequest false "Optional resume date"
// @Success 200 {object} dto.TemplateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to pause template"
// @Security BearerAuth
// @Router /templates/{id}/pause [post]
func (h *templateHandler) pauseTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")
	logger = logger.With(slog.String("template_id", templateID))

	// Body is optional; an indefinite pause sends no payload
	var req dto.PauseTemplateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for PauseTemplate", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	paused, err := h.templateService.PauseTemplate(c.Request.Context(), templateID, req.PausedUntil)
	if err != nil {
		h.respondTemplateError(c, logger, err, "pause")
		return
	}

	logger.Info("Template paused")
	c.JSON(http.StatusOK, dto.ToTemplateResponse(paused, time.Now()))
}

// resumeTemplate godoc
// @Summary Resume a paused template
// @Description Clears the paused state of a template
// @Tags templates
// @Produce  json
// @Param   id path string true "Template ID"
// @Success 200 {object} dto.TemplateResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to resume template"
// @Security BearerAuth
// @Router /templates/{id}/resume [post]
func (h *templateHandler) resumeTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")
	logger = logger.With(slog.String("template_id", templateID))

	resumed, err := h.templateService.ResumeTemplate(c.Request.Context(), templateID)
	if err != nil {
		h.respondTemplateError(c, logger, err, "resume")
		return
	}

	logger.Info("Template resumed")
	c.JSON(http.StatusOK, dto.ToTemplateResponse(resumed, time.Now()))
}

// undoSync godoc
// @Summary Undo the last template sync
// @Description Restores generated expenses to their state before the last template edit
// @Tags templates
// @Produce  json
// @Param   id path string true "Template ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to undo sync"
// @Security BearerAuth
// @Router /templates/{id}/undo-sync [post]
func (h *templateHandler) undoSync(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")
	logger = logger.With(slog.String("template_id", templateID))

	restored, err := h.syncService.UndoLastTemplateUpdate(c.Request.Context(), templateID)
	if err != nil {
		logger.Error("Failed to undo template sync", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to undo last template update"})
		return
	}

	logger.Info("Undo sync completed", slog.Bool("restored", restored))
	c.JSON(http.StatusOK, gin.H{"restored": restored})
}

// deleteTemplate godoc
// @Summary Delete a template
// @Description Deletes a template; already generated expenses are kept
// @Tags templates
// @Produce  json
// @Param   id path string true "Template ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Template not found"
// @Failure 500 {object} map[string]string "Failed to delete template"
// @Security BearerAuth
// @Router /templates/{id} [delete]
func (h *templateHandler) deleteTemplate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	templateID := c.Param("id")
	logger = logger.With(slog.String("template_id", templateID))

	if err := h.templateService.DeleteTemplate(c.Request.Context(), templateID); err != nil {
		h.respondTemplateError(c, logger, err, "delete")
		return
	}

	logger.Info("Template deleted")
	c.Status(http.StatusNoContent)
}

func (h *templateHandler) respondTemplateError(c *gin.Context, logger *slog.Logger, err error, action string) {
	if errors.Is(err, apperrors.ErrNotFound) {
		logger.Warn("Template not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Template not found"})
	} else if errors.Is(err, apperrors.ErrValidation) {
		logger.Warn("Validation error on template "+action, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	} else {
		logger.Error("Failed to "+action+" template in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + action + " template"})
	}
}
