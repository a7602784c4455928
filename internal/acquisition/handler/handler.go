// Package handler exposes the acquisition engine over HTTP.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"akquise_backend/internal/acquisition/domain"
	"akquise_backend/internal/acquisition/repository"
	"akquise_backend/internal/acquisition/service"
	"akquise_backend/internal/acquisition/transport"
	"akquise_backend/platform/httpkit"
	"akquise_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the engine's routes on the leads group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)
	rg.POST("/:id/calls", h.RecordCall)
	rg.POST("/import", h.ImportBatch)
}

// RegisterAuxRoutes mounts the routes that are not lead-scoped.
func (h *Handler) RegisterAuxRoutes(v1 *gin.RouterGroup) {
	v1.GET("/follow-ups/due", h.DueFollowUps)
	v1.GET("/lookup/phone", h.LookupByPhone)
	v1.PATCH("/calls/:id/transcript", h.AttachTranscript)
}

func (h *Handler) List(c *gin.Context) {
	params := repository.ListLeadsParams{
		Search: c.Query("search"),
	}
	if status := c.Query("status"); status != "" {
		s := domain.Status(status)
		if !domain.IsKnown(s) {
			httpkit.Error(c, http.StatusBadRequest, "unknown status", nil)
			return
		}
		params.Status = &s
	}
	if companyID := c.Query("companyId"); companyID != "" {
		id, err := uuid.Parse(companyID)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
			return
		}
		params.CompanyID = &id
	}
	params.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	params.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "25"))

	resp, err := h.svc.ListLeads(c.Request.Context(), params)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	detail, err := h.svc.GetLead(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, detail)
}

func (h *Handler) RecordCall(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.RecordCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.RecordCall(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}

func (h *Handler) ImportBatch(c *gin.Context) {
	var req transport.ImportBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	summary, err := h.svc.ImportBatch(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, summary)
}

func (h *Handler) DueFollowUps(c *gin.Context) {
	asOf := time.Now()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "asOf must be YYYY-MM-DD", nil)
			return
		}
		asOf = parsed
	}

	due, err := h.svc.GetDueFollowUps(c.Request.Context(), asOf)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, due)
}

func (h *Handler) LookupByPhone(c *gin.Context) {
	phone := c.Query("number")
	if phone == "" {
		httpkit.Error(c, http.StatusBadRequest, "number query parameter is required", nil)
		return
	}

	resp, err := h.svc.LookupByPhone(c.Request.Context(), phone)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, resp)
}

func (h *Handler) AttachTranscript(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.AttachTranscriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.AttachTranscript(c.Request.Context(), id, req.Transcript); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}
