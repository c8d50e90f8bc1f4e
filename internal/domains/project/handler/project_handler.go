package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"harvest-backend/internal/domains/farmer"
	"harvest-backend/internal/domains/project"
	"harvest-backend/internal/shared/middleware"
	"harvest-backend/internal/shared/response"
	"harvest-backend/pkg/logger"
)

type ProjectHandler struct {
	service project.Service
}

func NewProjectHandler(svc project.Service) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// ========== READ: GET /v1/cooperative/farmers/:id/projects ==========
func (h *ProjectHandler) ListByFarmer(c *gin.Context) {
	cooperativeID, farmerID, ok := h.scope(c)
	if !ok {
		return
	}

	projects, err := h.service.ListByFarmer(c.Request.Context(), cooperativeID, farmerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, projects)
}

// ========== CREATE: POST /v1/cooperative/farmers/:id/projects ==========
func (h *ProjectHandler) Create(c *gin.Context) {
	cooperativeID, farmerID, ok := h.scope(c)
	if !ok {
		return
	}

	var req project.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), cooperativeID, farmerID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ========== UPDATE: PUT /v1/cooperative/farmers/:id/projects/:projectId ==========
func (h *ProjectHandler) Update(c *gin.Context) {
	cooperativeID, farmerID, ok := h.scope(c)
	if !ok {
		return
	}
	projectID, err := strconv.ParseInt(c.Param("projectId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req project.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), cooperativeID, farmerID, projectID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========== UPDATE: PATCH /v1/cooperative/farmers/:id/projects/:projectId/status ==========
func (h *ProjectHandler) UpdateStatus(c *gin.Context) {
	cooperativeID, farmerID, ok := h.scope(c)
	if !ok {
		return
	}
	projectID, err := strconv.ParseInt(c.Param("projectId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), cooperativeID, farmerID, projectID, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========== DELETE: DELETE /v1/cooperative/farmers/:id/projects/:projectId ==========
func (h *ProjectHandler) Delete(c *gin.Context) {
	cooperativeID, farmerID, ok := h.scope(c)
	if !ok {
		return
	}
	projectID, err := strconv.ParseInt(c.Param("projectId"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), cooperativeID, farmerID, projectID); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// scope resolves the tenant and the farmer path param, writing the error
// response itself on failure.
func (h *ProjectHandler) scope(c *gin.Context) (cooperativeID, farmerID int64, ok bool) {
	cooperativeID, found := middleware.CooperativeID(c)
	if !found {
		response.Unauthorized(c, "account is not linked to a cooperative")
		return 0, 0, false
	}
	farmerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid farmer id")
		return 0, 0, false
	}
	return cooperativeID, farmerID, true
}

func (h *ProjectHandler) writeError(c *gin.Context, err error) {
	switch farmer.GetHTTPStatusCode(err) {
	case http.StatusNotFound:
		response.NotFound(c, err.Error())
	case http.StatusBadRequest:
		response.BadRequest(c, err.Error())
	default:
		logger.Error("project handler: internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
