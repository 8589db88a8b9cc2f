package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/pkg/xhttp"
)

type EnquiryService interface {
	Create(ctx context.Context, req model.EnquiryCreateRequest) (*model.Enquiry, error)
	List(ctx context.Context, source model.EnquirySource) ([]*model.Enquiry, int64, error)
	Delete(ctx context.Context, id int64) error
	ReplaceImported(ctx context.Context, drafts []model.EnquiryDraft) (int, error)
	ClearImported(ctx context.Context) error
}

type EnquiryHandler struct {
	svc EnquiryService
}

func NewEnquiryHandler(enquiryService EnquiryService) *EnquiryHandler {
	return &EnquiryHandler{svc: enquiryService}
}

func RegisterEnquiryRoutes(e *router.Group, h *EnquiryHandler) {
	e.POST("/mail/send-email", h.CreateEnquiry)
	e.GET("/mail", h.ListEnquiries)
	e.DELETE("/mail/enquiry/{id}", h.DeleteEnquiry)
}

type createEnquiryRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Project  string `json:"project"`
	Message  string `json:"message"`
}

type listResponse struct {
	Items []*model.Enquiry `json:"items"`
	Total int64            `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *EnquiryHandler) CreateEnquiry(ctx *xhttp.RequestCtx) {
	var req createEnquiryRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	enq, err := h.svc.Create(ctx, model.EnquiryCreateRequest{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Project:  req.Project,
		Message:  req.Message,
	})

	var vErr *model.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(ctx, xhttp.StatusBadRequest, map[string]any{
			"success": false,
			"errors":  vErr.Fields,
		})
	case errors.Is(err, model.ErrNotificationFailed):
		// the enquiry is saved; the client shows it with a warning banner
		writeJSON(ctx, xhttp.StatusOK, map[string]any{
			"success": true,
			"data":    enq,
			"warning": err.Error(),
		})
	case err != nil:
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	default:
		writeJSON(ctx, xhttp.StatusOK, map[string]any{
			"success": true,
			"data":    enq,
		})
	}
}

func (h *EnquiryHandler) ListEnquiries(ctx *xhttp.RequestCtx) {
	items, total, err := h.svc.List(ctx, model.SourceManual)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse{Items: items, Total: total})
}

func (h *EnquiryHandler) DeleteEnquiry(ctx *xhttp.RequestCtx) {
	id, err := pathInt64(ctx, "id")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid id")
		return
	}
	err = h.svc.Delete(ctx, id)
	switch {
	case errors.Is(err, model.ErrNotFound):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	case err != nil:
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	default:
		writeJSON(ctx, xhttp.StatusOK, map[string]any{"success": true})
	}
}

/* -------------------------------- Helpers ------------------------------------ */

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	return json.Unmarshal(ctx.PostBody(), dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]any{"success": false, "error": msg})
}

func pathInt64(ctx *xhttp.RequestCtx, name string) (int64, error) {
	s, _ := ctx.UserValue(name).(string)
	return strconv.ParseInt(s, 10, 64)
}
