package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"harvest-backend/internal/domains/farmer"
	"harvest-backend/internal/shared/middleware"
	"harvest-backend/internal/shared/response"
	"harvest-backend/pkg/logger"
)

type FarmerHandler struct {
	service farmer.Service
}

func NewFarmerHandler(svc farmer.Service) *FarmerHandler {
	return &FarmerHandler{service: svc}
}

// ========== CREATE: POST /v1/cooperative/farmers ==========
func (h *FarmerHandler) Create(c *gin.Context) {
	cooperativeID, ok := middleware.CooperativeID(c)
	if !ok {
		response.Unauthorized(c, "account is not linked to a cooperative")
		return
	}

	var req farmer.FarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), cooperativeID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp)
}

// ========== READ: GET /v1/cooperative/farmers ==========
// Query params: page, size, status, search
func (h *FarmerHandler) List(c *gin.Context) {
	cooperativeID, ok := middleware.CooperativeID(c)
	if !ok {
		response.Unauthorized(c, "account is not linked to a cooperative")
		return
	}

	filter := farmer.ListFilter{
		Page:   parseIntQuery(c, "page", 1),
		Size:   parseIntQuery(c, "size", 20),
		Search: c.Query("search"),
	}
	if raw := c.Query("status"); raw != "" {
		status, err := farmer.ParseStatus(raw)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		filter.Status = &status
	}

	farmers, total, err := h.service.List(c.Request.Context(), cooperativeID, filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	filter.Normalize()
	totalPages := int((total + int64(filter.Size) - 1) / int64(filter.Size))
	response.SuccessWithMeta(c, http.StatusOK, farmers, &response.Meta{
		Page:       filter.Page,
		Size:       filter.Size,
		Total:      total,
		TotalPages: totalPages,
	})
}

// ========== READ: GET /v1/cooperative/farmers/:id ==========
func (h *FarmerHandler) GetByID(c *gin.Context) {
	cooperativeID, ok := middleware.CooperativeID(c)
	if !ok {
		response.Unauthorized(c, "account is not linked to a cooperative")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid farmer id")
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), cooperativeID, id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========== UPDATE: PUT /v1/cooperative/farmers/:id ==========
// The projects list in the body is authoritative: persisted projects missing
// from it are deleted.
func (h *FarmerHandler) Update(c *gin.Context) {
	cooperativeID, ok := middleware.CooperativeID(c)
	if !ok {
		response.Unauthorized(c, "account is not linked to a cooperative")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid farmer id")
		return
	}

	var req farmer.FarmerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), cooperativeID, id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========== DELETE: DELETE /v1/cooperative/farmers/:id ==========
func (h *FarmerHandler) Delete(c *gin.Context) {
	cooperativeID, ok := middleware.CooperativeID(c)
	if !ok {
		response.Unauthorized(c, "account is not linked to a cooperative")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid farmer id")
		return
	}

	if err := h.service.Delete(c.Request.Context(), cooperativeID, id); err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// ========== UPDATE: PATCH /v1/cooperative/farmers/:id/status ==========
func (h *FarmerHandler) UpdateStatus(c *gin.Context) {
	cooperativeID, ok := middleware.CooperativeID(c)
	if !ok {
		response.Unauthorized(c, "account is not linked to a cooperative")
		return
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid farmer id")
		return
	}

	var req farmer.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.UpdateStatus(c.Request.Context(), cooperativeID, id, req.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

// ========== READ: GET /v1/cooperative/farmers/statistics ==========
func (h *FarmerHandler) Statistics(c *gin.Context) {
	cooperativeID, ok := middleware.CooperativeID(c)
	if !ok {
		response.Unauthorized(c, "account is not linked to a cooperative")
		return
	}

	stats, err := h.service.Statistics(c.Request.Context(), cooperativeID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// ========== CREATE: POST /v1/cooperative/farmers/bulk-import ==========
// Always returns 200: per-row outcomes live in the body. A row failing
// validation or a duplicate check is reported, not fatal.
func (h *FarmerHandler) BulkImport(c *gin.Context) {
	cooperativeID, ok := middleware.CooperativeID(c)
	if !ok {
		response.Unauthorized(c, "account is not linked to a cooperative")
		return
	}

	var req farmer.BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.service.BulkImport(c.Request.Context(), cooperativeID, req.Farmers)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp)
}

func (h *FarmerHandler) writeError(c *gin.Context, err error) {
	switch farmer.GetHTTPStatusCode(err) {
	case http.StatusNotFound:
		response.NotFound(c, err.Error())
	case http.StatusBadRequest:
		response.BadRequest(c, err.Error())
	default:
		logger.Error("farmer handler: internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}

func parseIDParam(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func parseIntQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
