package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"harvest-backend/internal/domains/cooperative"
	"harvest-backend/internal/shared/response"
	"harvest-backend/pkg/logger"
)

// AdminHandler exposes the cooperative approval workflow. Routes are guarded
// by the admin role middleware.
type AdminHandler struct {
	service cooperative.Service
}

func NewAdminHandler(svc cooperative.Service) *AdminHandler {
	return &AdminHandler{service: svc}
}

// ========== READ: GET /v1/admin/cooperatives/pending ==========
func (h *AdminHandler) ListPending(c *gin.Context) {
	pending, err := h.service.ListPending(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, pending)
}

// ========== UPDATE: POST /v1/admin/cooperatives/:id/approve ==========
func (h *AdminHandler) Approve(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid cooperative id")
		return
	}

	account, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, account)
}

// ========== DELETE: POST /v1/admin/cooperatives/:id/reject ==========
func (h *AdminHandler) Reject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid cooperative id")
		return
	}

	if err := h.service.Reject(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rejected": true})
}

func (h *AdminHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cooperative.ErrCooperativeNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, cooperative.ErrAlreadyApproved):
		response.Conflict(c, err.Error())
	default:
		logger.Error("admin handler: internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
