package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hdp-service/internal/export"
	"hdp-service/internal/middleware"
	"hdp-service/internal/models"
	"hdp-service/internal/services"
)

type HistoryLister interface {
	List(ctx context.Context, doctorID, patientName string, page int) (*models.HistoryPage, error)
	Export(ctx context.Context, doctorID, patientName string) ([]models.HeartSubmission, error)
}

type HistoryHandler struct {
	history HistoryLister
	logger  *zap.Logger
}

func NewHistoryHandler(history HistoryLister, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{history: history, logger: logger}
}

// List returns the caller's recorded submissions
// @Summary Submission history
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param patient_name query string false "Exact patient name"
// @Param page query int false "1-based page"
// @Success 200 {object} models.HistoryPage
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /submissions [get]
func (h *HistoryHandler) List(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error:   "invalid request",
				Details: "page must be a positive integer",
			})
			return
		}
		page = n
	}

	who := middleware.IdentityFrom(c)
	result, err := h.history.List(c.Request.Context(), who.Identity(), c.Query("patient_name"), page)
	if errors.Is(err, services.ErrInvalidPage) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid request", Details: err.Error()})
		return
	}
	if err != nil {
		h.logger.Error("History query failed", zap.String("doctor_id", who.Identity()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "history unavailable", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export downloads the caller's submissions as a spreadsheet
// @Summary Submission history export
// @Tags submissions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param patient_name query string false "Exact patient name"
// @Success 200 {file} file
// @Failure 401 {object} models.ErrorResponse
// @Router /submissions/export [get]
func (h *HistoryHandler) Export(c *gin.Context) {
	who := middleware.IdentityFrom(c)
	items, err := h.history.Export(c.Request.Context(), who.Identity(), c.Query("patient_name"))
	if err != nil {
		h.logger.Error("History export failed", zap.String("doctor_id", who.Identity()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "history unavailable", Details: err.Error()})
		return
	}

	data, err := export.Workbook(items)
	if err != nil {
		h.logger.Error("Workbook generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "export failed", Details: err.Error()})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=heart-submissions.xlsx")
	c.Data(http.StatusOK, export.ContentType, data)
}
