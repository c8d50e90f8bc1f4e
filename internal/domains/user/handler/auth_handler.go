package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"harvest-backend/internal/domains/user"
	"harvest-backend/internal/shared/middleware"
	"harvest-backend/internal/shared/response"
	"harvest-backend/pkg/logger"
)

type AuthHandler struct {
	service user.Service
}

func NewAuthHandler(svc user.Service) *AuthHandler {
	return &AuthHandler{service: svc}
}

// ========== CREATE: POST /v1/auth/signup ==========
func (h *AuthHandler) Signup(c *gin.Context) {
	var req user.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Signup(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ========== AUTH: POST /v1/auth/login ==========
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========== AUTH: POST /v1/auth/forgot-password ==========
// Responds 200 whether or not the email exists.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req user.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ForgotPassword(c.Request.Context(), req); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "If the email is registered, a reset link has been sent.",
	})
}

// ========== AUTH: POST /v1/auth/reset-password ==========
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req user.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), req); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password has been reset."})
}

// ========== AUTH: POST /v1/auth/change-password ==========
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := c.GetInt64(middleware.CtxUserID)
	if userID == 0 {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req user.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.service.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Password has been changed."})
}

func (h *AuthHandler) writeError(c *gin.Context, err error) {
	switch user.GetHTTPStatusCode(err) {
	case http.StatusUnauthorized:
		response.Unauthorized(c, err.Error())
	case http.StatusConflict:
		response.Conflict(c, err.Error())
	case http.StatusBadRequest:
		response.BadRequest(c, err.Error())
	default:
		logger.Error("auth handler: internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
