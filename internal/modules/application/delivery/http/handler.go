package handler

import (
	"net/http"

	"anoa.com/recruitportal/internal/middleware"
	"anoa.com/recruitportal/internal/modules/application/dto"
	application "anoa.com/recruitportal/internal/modules/application/service"
	"anoa.com/recruitportal/pkg/apperror"
	"anoa.com/recruitportal/pkg/i18n"
	"anoa.com/recruitportal/pkg/response"
	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	service application.ApplicationService
}

func NewApplicationHandler(service application.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

func (h *ApplicationHandler) GetCompetences(c *gin.Context) {
	competences, err := h.service.ListCompetences(c.Request.Context(), response.Meta(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, competences)
}

func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.ResponseError(c, apperror.New(apperror.KindUnauthenticated, i18n.AuthTokenRequired, nil))
		return
	}

	var req dto.SubmitApplicationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, apperror.Validation(i18n.RequestInvalidBody))
		return
	}

	if err := h.service.SubmitApplication(c.Request.Context(), identity, req, response.Meta(c)); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, i18n.ApplicationSubmitted, nil)
}

func (h *ApplicationHandler) GetApplications(c *gin.Context) {
	applications, err := h.service.ListApplications(c.Request.Context(), response.Meta(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

func (h *ApplicationHandler) SetApplicationStatus(c *gin.Context) {
	var req dto.SetStatusInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, apperror.Validation(i18n.RequestInvalidBody))
		return
	}

	updated, err := h.service.SetApplicationStatus(c.Request.Context(), req, response.Meta(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, i18n.ApplicationStatusUpdated, gin.H{"updated": updated})
}
