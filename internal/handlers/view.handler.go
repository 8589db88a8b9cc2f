package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/pkg/xhttp"
)

type ViewService interface {
	Website(ctx context.Context) (int64, error)
	Project(ctx context.Context, projectID int64, title string) error
	Stats(ctx context.Context) (*model.SiteViews, error)
}

type ViewHandler struct {
	svc ViewService
}

func NewViewHandler(viewService ViewService) *ViewHandler {
	return &ViewHandler{svc: viewService}
}

func RegisterViewRoutes(e *router.Group, h *ViewHandler) {
	e.GET("/view/website", h.Website)
	e.POST("/view/project", h.Project)
	e.GET("/view/stats", h.Stats)
}

type projectViewRequest struct {
	ProjectID int64  `json:"projectId"`
	Title     string `json:"title"`
}

func (h *ViewHandler) Website(ctx *xhttp.RequestCtx) {
	count, err := h.svc.Website(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"count": count})
}

func (h *ViewHandler) Project(ctx *xhttp.RequestCtx) {
	var req projectViewRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	err := h.svc.Project(ctx, req.ProjectID, req.Title)
	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(ctx, xhttp.StatusBadRequest, map[string]any{"success": false, "errors": vErr.Fields})
	case err != nil:
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	default:
		writeJSON(ctx, xhttp.StatusOK, map[string]any{"success": true})
	}
}

func (h *ViewHandler) Stats(ctx *xhttp.RequestCtx) {
	stats, err := h.svc.Stats(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, stats)
}
