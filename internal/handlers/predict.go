package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hdp-service/internal/clinical"
	"hdp-service/internal/middleware"
	"hdp-service/internal/models"
	"hdp-service/internal/render"
	"hdp-service/internal/services"
)

type Submitter interface {
	Submit(ctx context.Context, sub services.Submission, who services.Identity) (*services.SubmissionResult, error)
}

// PredictHandler serves the intake form endpoints.
type PredictHandler struct {
	submitter Submitter
	logger    *zap.Logger
}

func NewPredictHandler(submitter Submitter, logger *zap.Logger) *PredictHandler {
	return &PredictHandler{submitter: submitter, logger: logger}
}

// Predict estimates the heart disease probability of one patient
// @Summary Heart disease prediction
// @Description Validates the intake form, runs the model and, for authenticated clinicians, records the submission
// @Tags predict
// @Accept json
// @Produce json
// @Param request body models.PredictRequest true "Intake form"
// @Success 200 {object} models.PredictResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 422 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	var req models.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Details: err.Error(),
		})
		return
	}

	raw, err := RawFieldsFromJSON(req.Fields)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid request",
			Details: err.Error(),
		})
		return
	}

	res, err := h.submitter.Submit(c.Request.Context(), services.Submission{
		PatientName: req.PatientName,
		Fields:      raw,
	}, middleware.IdentityFrom(c))
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}

	resp := models.PredictResponse{
		ProbabilityDisease:   res.Prediction.ProbabilityDisease,
		ProbabilityNoDisease: res.Prediction.ProbabilityNoDisease,
		DiseasePercent:       res.Prediction.DiseasePercent(),
		Persisted:            res.Persisted,
		RecordID:             res.RecordID,
	}
	if res.Chart != nil {
		resp.Chart = render.DataURI(res.Chart)
	}
	if res.PersistError != nil {
		resp.Warning = "prediction could not be saved to history"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PredictHandler) writeSubmitError(c *gin.Context, err error) {
	var incomplete *clinical.IncompleteSelectionError
	var outOfRange *clinical.FieldRangeError

	switch {
	case errors.As(err, &incomplete):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "incomplete form",
			Details: err.Error(),
			Fields:  incomplete.Fields,
		})
	case errors.As(err, &outOfRange):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error:   "invalid field",
			Details: err.Error(),
			Fields:  []string{outOfRange.Field},
		})
	default:
		h.logger.Error("Prediction failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "prediction failed",
			Details: err.Error(),
		})
	}
}

// Fields lists the choices of every categorical field
// @Summary Intake form vocabulary
// @Tags predict
// @Produce json
// @Success 200 {object} map[string][]clinical.Choice
// @Router /predict/fields [get]
func (h *PredictHandler) Fields(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"fields":      clinical.Fields,
		"categorical": clinical.Vocabulary(),
	})
}

// RawFieldsFromJSON flattens decoded JSON form values to raw text. Null
// becomes a blank selection.
func RawFieldsFromJSON(in map[string]interface{}) (clinical.RawFields, error) {
	raw := make(clinical.RawFields, len(in))
	for name, v := range in {
		switch val := v.(type) {
		case nil:
			raw[name] = ""
		case string:
			raw[name] = val
		case float64:
			raw[name] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("field %q: unsupported value type %T", name, v)
		}
	}
	return raw, nil
}
