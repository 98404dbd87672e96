package handler

import (
	"anoa.com/recruitportal/internal/modules/user/dto"
	auth "anoa.com/recruitportal/internal/modules/user/service"
	"anoa.com/recruitportal/pkg/apperror"
	"anoa.com/recruitportal/pkg/i18n"
	"anoa.com/recruitportal/pkg/response"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service auth.AuthService
}

func NewAuthHandler(service auth.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, apperror.Validation(i18n.RequestInvalidBody))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req, response.Meta(c))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, i18n.LoginSuccess, gin.H{
		"user":       res.User,
		"token":      res.Token,
		"expires_at": res.ExpiresAt,
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ResponseError(c, apperror.Validation(i18n.RequestInvalidBody))
		return
	}

	if err := h.service.Register(c.Request.Context(), req, response.Meta(c)); err != nil {
		response.ResponseError(c, err)
		return
	}

	response.Success(c, i18n.RegisterSuccess, nil)
}
