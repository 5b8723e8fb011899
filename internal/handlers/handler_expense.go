package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/planday-app/organizer_backend/internal/apperrors"
	portssvc "github.com/planday-app/organizer_backend/internal/core/ports/services"
	"github.com/planday-app/organizer_backend/internal/dto"
	"github.com/planday-app/organizer_backend/internal/middleware"
)

const defaultUpcomingDays = 7

// expenseHandler handles HTTP requests related to expenses.
type expenseHandler struct {
	expenseService portssvc.ExpenseSvc
}

func newExpenseHandler(es portssvc.ExpenseSvc) *expenseHandler {
	return &expenseHandler{
		expenseService: es,
	}
}

// registerExpenseRoutes registers routes related to expenses.
func registerExpenseRoutes(rg *gin.RouterGroup, expenseService portssvc.ExpenseSvc) {
	h := newExpenseHandler(expenseService)

	expenses := rg.Group("/expenses")
	{
		expenses.GET("", h.listByMonth)
		expenses.GET("/upcoming", h.listUpcoming)
		expenses.PUT("/:id", h.updateExpense)
	}
}

// listByMonth godoc
// @Summary List expenses for a month
// @Description Retrieves all expenses dated within the given calendar month
// @Tags expenses
// @Produce  json
// @Param   year query int true "Year, e.g. 2024"
// @Param   month query int true "Month, 1-12"
// @Success 200 {object} []dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid year or month"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list expenses"
// @Security BearerAuth
// @Router /expenses [get]
func (h *expenseHandler) listByMonth(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1970 || year > 9999 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid month, must be 1-12"})
		return
	}

	expenses, err := h.expenseService.ListExpensesByMonth(c.Request.Context(), year, time.Month(month))
	if err != nil {
		logger.Error("Failed to list expenses by month", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expenses"})
		return
	}

	responses := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, dto.ToExpenseResponse(&expenses[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// listUpcoming godoc
// @Summary List upcoming expenses
// @Description Retrieves expenses due within the next N days (default 7)
// @Tags expenses
// @Produce  json
// @Param   days query int false "Look-ahead window in days"
// @Success 200 {object} []dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid days"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list upcoming expenses"
// @Security BearerAuth
// @Router /expenses/upcoming [get]
func (h *expenseHandler) listUpcoming(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	days := defaultUpcomingDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 365 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid days, must be 1-365"})
			return
		}
		days = parsed
	}

	expenses, err := h.expenseService.ListUpcoming(c.Request.Context(), time.Now(), days)
	if err != nil {
		logger.Error("Failed to list upcoming expenses", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list upcoming expenses"})
		return
	}

	responses := make([]dto.ExpenseResponse, 0, len(expenses))
	for i := range expenses {
		responses = append(responses, dto.ToExpenseResponse(&expenses[i]))
	}
	c.JSON(http.StatusOK, responses)
}

// updateExpense godoc
// @Summary Update an expense
// @Description Edits an expense; generated expenses become manually edited and stop syncing
// @Tags expenses
// @Accept  json
// @Produce  json
// @Param   id path string true "Expense ID"
// @Param   expense body dto.UpdateExpenseRequest true "Fields to update"
// @Success 200 {object} dto.ExpenseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Expense not found"
// @Failure 500 {object} map[string]string "Failed to update expense"
// @Security BearerAuth
// @Router /expenses/{id} [put]
func (h *expenseHandler) updateExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	expenseID := c.Param("id")
	logger = logger.With(slog.String("expense_id", expenseID))

	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateExpense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	updated, err := h.expenseService.UpdateExpense(c.Request.Context(), expenseID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Expense not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error updating expense", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to update expense in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update expense"})
		}
		return
	}

	logger.Info("Expense updated successfully")
	c.JSON(http.StatusOK, dto.ToExpenseResponse(updated))
}
