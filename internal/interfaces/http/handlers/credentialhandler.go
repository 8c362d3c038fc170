package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portaria/internal/application/credential/usecases"
	"portaria/internal/shared/errors"
	"portaria/internal/shared/logger"
	"portaria/internal/shared/utils"
)

type CredentialHandler struct {
	issueCredentialUC       *usecases.IssueCredentialUseCase
	getCredentialUC         *usecases.GetCredentialUseCase
	listActiveCredentialsUC *usecases.ListActiveCredentialsUseCase
	listAccessEventsUC      *usecases.ListAccessEventsUseCase
	extendCredentialUC      *usecases.ExtendCredentialUseCase
	revokeCredentialUC      *usecases.RevokeCredentialUseCase
	logger                  logger.Interface
}

func NewCredentialHandler(
	issueCredentialUC *usecases.IssueCredentialUseCase,
	getCredentialUC *usecases.GetCredentialUseCase,
	listActiveCredentialsUC *usecases.ListActiveCredentialsUseCase,
	listAccessEventsUC *usecases.ListAccessEventsUseCase,
	extendCredentialUC *usecases.ExtendCredentialUseCase,
	revokeCredentialUC *usecases.RevokeCredentialUseCase,
	log logger.Interface,
) *CredentialHandler {
	return &CredentialHandler{
		issueCredentialUC:       issueCredentialUC,
		getCredentialUC:         getCredentialUC,
		listActiveCredentialsUC: listActiveCredentialsUC,
		listAccessEventsUC:      listAccessEventsUC,
		extendCredentialUC:      extendCredentialUC,
		revokeCredentialUC:      revokeCredentialUC,
		logger:                  log,
	}
}

type IssueCredentialRequest struct {
	Name       string    `json:"name" binding:"required"`
	Document   string    `json:"document"`
	Phone      string    `json:"phone"`
	SponsorID  uint      `json:"sponsor_id" binding:"required"`
	EmployeeID uint      `json:"employee_id"`
	ValidFrom  time.Time `json:"valid_from" binding:"required"`
	ValidUntil time.Time `json:"valid_until" binding:"required"`
	MaxEntries int       `json:"max_entries" binding:"required"`
	Locations  []string  `json:"locations" binding:"required,min=1"`
	Biometric  bool      `json:"biometric"`
}

type ExtendCredentialRequest struct {
	AdditionalMinutes int    `json:"additional_minutes" binding:"required"`
	Actor             string `json:"actor" binding:"required"`
	Reason            string `json:"reason"`
}

type RevokeCredentialRequest struct {
	Actor  string `json:"actor" binding:"required"`
	Reason string `json:"reason"`
}

// IssueCredential handles POST /credentials
func (h *CredentialHandler) IssueCredential(c *gin.Context) {
	var req IssueCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for issue credential", "error", err)
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	cmd := usecases.IssueCredentialCommand{
		Name:       req.Name,
		Document:   req.Document,
		Phone:      req.Phone,
		SponsorID:  req.SponsorID,
		EmployeeID: req.EmployeeID,
		ValidFrom:  req.ValidFrom.UTC(),
		ValidUntil: req.ValidUntil.UTC(),
		MaxEntries: req.MaxEntries,
		Locations:  req.Locations,
		Biometric:  req.Biometric,
	}

	result, err := h.issueCredentialUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Credential issued successfully")
}

// GetCredential handles GET /credentials/:id
func (h *CredentialHandler) GetCredential(c *gin.Context) {
	credentialID := c.Param("id")
	if credentialID == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("credential ID is required"))
		return
	}

	result, err := h.getCredentialUC.Execute(c.Request.Context(), credentialID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListActiveCredentials handles GET /credentials
func (h *CredentialHandler) ListActiveCredentials(c *gin.Context) {
	condoParam := c.Query("condominium_id")
	if condoParam == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("condominium_id query parameter is required"))
		return
	}

	condominiumID, err := strconv.ParseUint(condoParam, 10, 32)
	if err != nil || condominiumID == 0 {
		utils.ErrorResponseWithError(c, errors.NewValidationError("condominium_id must be a positive integer"))
		return
	}

	result, err := h.listActiveCredentialsUC.Execute(c.Request.Context(), uint(condominiumID))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ListAccessEvents handles GET /credentials/:id/events
func (h *CredentialHandler) ListAccessEvents(c *gin.Context) {
	credentialID := c.Param("id")
	if credentialID == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("credential ID is required"))
		return
	}

	limit := 0
	if limitParam := c.Query("limit"); limitParam != "" {
		parsed, err := strconv.Atoi(limitParam)
		if err != nil || parsed <= 0 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	result, err := h.listAccessEventsUC.Execute(c.Request.Context(), credentialID, limit)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ExtendCredential handles POST /credentials/:id/extend
func (h *CredentialHandler) ExtendCredential(c *gin.Context) {
	credentialID := c.Param("id")
	if credentialID == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("credential ID is required"))
		return
	}

	var req ExtendCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for extend credential",
			"credential_id", credentialID,
			"error", err)
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	cmd := usecases.ExtendCredentialCommand{
		ShortID:           credentialID,
		AdditionalMinutes: req.AdditionalMinutes,
		Actor:             req.Actor,
		Reason:            req.Reason,
	}

	result, err := h.extendCredentialUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Credential extended successfully", result)
}

// RevokeCredential handles POST /credentials/:id/revoke
func (h *CredentialHandler) RevokeCredential(c *gin.Context) {
	credentialID := c.Param("id")
	if credentialID == "" {
		utils.ErrorResponseWithError(c, errors.NewValidationError("credential ID is required"))
		return
	}

	var req RevokeCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for revoke credential",
			"credential_id", credentialID,
			"error", err)
		utils.ErrorResponseWithError(c, utils.FormatBindingError(err))
		return
	}

	cmd := usecases.RevokeCredentialCommand{
		ShortID: credentialID,
		Actor:   req.Actor,
		Reason:  req.Reason,
	}

	result, err := h.revokeCredentialUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Credential revoked successfully", result)
}

// HealthCheck handles GET /health
func (h *CredentialHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "portaria",
	})
}
