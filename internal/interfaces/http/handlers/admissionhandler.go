package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portaria/internal/application/credential/usecases"
	"portaria/internal/domain/credential"
	"portaria/internal/shared/errors"
	"portaria/internal/shared/logger"
	"portaria/internal/shared/utils"
)

// AdmissionHandler serves checkpoint terminals. Gate faults never surface as
// HTTP errors; they come back as denial decisions so a terminal always has a
// definite answer to act on.
type AdmissionHandler struct {
	attemptAdmissionUC *usecases.AttemptAdmissionUseCase
	logger             logger.Interface
}

func NewAdmissionHandler(
	attemptAdmissionUC *usecases.AttemptAdmissionUseCase,
	log logger.Interface,
) *AdmissionHandler {
	return &AdmissionHandler{
		attemptAdmissionUC: attemptAdmissionUC,
		logger:             log,
	}
}

type AttemptAdmissionRequest struct {
	Code      string `json:"code" binding:"required"`
	Direction string `json:"direction" binding:"required,oneof=entry exit"`
	Location  string `json:"location" binding:"required"`
}

// AttemptAdmission handles POST /admission/attempt
func (h *AdmissionHandler) AttemptAdmission(c *gin.Context) {
	var req AttemptAdmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for admission attempt", "error", err)
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	cmd := usecases.AttemptAdmissionCommand{
		Code:      req.Code,
		Direction: credential.Direction(req.Direction),
		Location:  req.Location,
	}

	result, err := h.attemptAdmissionUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError(err.Error()))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
