package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/planday-app/organizer_backend/internal/apperrors"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/dto"
	"github.com/planday-app/organizer_backend/internal/middleware"
	"github.com/ulule/limiter/v3"
)

// importHandler handles HTTP requests related to bank statement imports.
type importHandler struct {
	importService portssvc.ImporterSvc
}

func newImportHandler(is portssvc.ImporterSvc) *importHandler {
	return &importHandler{
		importService: is,
	}
}

// registerImportRoutes registers routes related to statement imports.
func registerImportRoutes(rg *gin.RouterGroup, importService portssvc.ImporterSvc, limiterInstance *limiter.Limiter) {
	h := newImportHandler(importService)
	limitMiddleware := middleware.RateLimit(limiterInstance)

	imports := rg.Group("/imports")
	{
		imports.POST("", limitMiddleware, h.importStatement)
		imports.GET("/sessions", h.listSessions)
	}
}

// importStatement godoc
// @Summary Import a bank statement
// @Description Parses a CSV bank statement, filters duplicates and returns recurring pattern suggestions
// @Tags imports
// @Accept  json
// @Produce  json
// @Param   statement body dto.ImportStatementRequest true "Statement file name and content"
// @Success 200 {object} dto.ImportResult
// @Failure 400 {object} map[string]string "Invalid input or unparsable file"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to import statement"
// @Security BearerAuth
// @Router /imports [post]
func (h *importHandler) importStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ImportStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ImportStatement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("file_name", req.FileName))
	logger.Info("Received request to import statement", slog.Int("content_bytes", len(req.Content)))

	result, err := h.importService.ImportStatement(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidEncoding) {
			logger.Warn("Statement file is not valid UTF-8")
			c.JSON(http.StatusBadRequest, gin.H{"error": "File is not valid UTF-8 text"})
		} else if errors.Is(err, apperrors.ErrUnparsableFile) {
			logger.Warn("Statement file could not be parsed", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error importing statement", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to import statement in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import statement"})
		}
		return
	}

	logger.Info("Statement imported successfully",
		slog.Int("transactions", result.TransactionCount),
		slog.Int("duplicates", result.DuplicatesFound),
		slog.Int("suggestions", len(result.Suggestions)))
	c.JSON(http.StatusOK, result)
}

// listSessions godoc
// @Summary List import sessions
// @Description Retrieves recent import sessions, newest first
// @Tags imports
// @Produce  json
// @Success 200 {object} []dto.ImportSessionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list sessions"
// @Security BearerAuth
// @Router /imports/sessions [get]
func (h *importHandler) listSessions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sessions, err := h.importService.ListSessions(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list import sessions", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list import sessions"})
		return
	}

	c.JSON(http.StatusOK, sessions)
}
