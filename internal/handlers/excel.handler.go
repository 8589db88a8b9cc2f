package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/fasthttp/router"
	"github.com/shubamdev/enquiry-gateway/internal/excel"
	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/internal/validate"
	"github.com/shubamdev/enquiry-gateway/pkg/xhttp"
)

type ImportService interface {
	ReplaceImported(ctx context.Context, drafts []model.EnquiryDraft) (int, error)
	List(ctx context.Context, source model.EnquirySource) ([]*model.Enquiry, int64, error)
	ClearImported(ctx context.Context) error
}

type ExcelHandler struct {
	svc ImportService
}

func NewExcelHandler(importService ImportService) *ExcelHandler {
	return &ExcelHandler{svc: importService}
}

func RegisterExcelRoutes(e *router.Group, h *ExcelHandler) {
	e.POST("/excel-enquiry/preview", h.Preview)
	e.POST("/excel-enquiry/import", h.Import)
	e.GET("/excel-enquiry", h.ListImported)
	e.DELETE("/excel-enquiry", h.ClearImported)
	e.GET("/excel-enquiry/export", h.ExportAll)
	e.GET("/excel-enquiry/template", h.Template)
}

type previewResponse struct {
	Valid      []model.EnquiryDraft `json:"valid"`
	Errors     []model.RowError     `json:"errors"`
	ValidCount int                  `json:"validCount"`
	ErrorCount int                  `json:"errorCount"`
}

/* --------------------------------- Routes ----------------------------------- */

// Preview parses an uploaded workbook and reports, without writing
// anything, which rows would import and which would fail.
func (h *ExcelHandler) Preview(ctx *xhttp.RequestCtx) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "missing file upload")
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "unreadable file upload")
		return
	}
	defer f.Close()

	drafts, rowErrs, err := excel.Parse(f)
	if errors.Is(err, model.ErrParse) {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(ctx, xhttp.StatusOK, previewResponse{
		Valid:      drafts,
		Errors:     rowErrs,
		ValidCount: len(drafts),
		ErrorCount: len(rowErrs),
	})
}

// Import takes the previewed rows back as JSON, re-validates them and swaps
// the whole imported pool for the valid ones. Row numbers in the error
// report follow spreadsheet convention (first data row is 2).
func (h *ExcelHandler) Import(ctx *xhttp.RequestCtx) {
	var rows []model.EnquiryDraft
	if err := readJSON(ctx, &rows); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var drafts []model.EnquiryDraft
	var rowErrs []model.RowError
	for i, row := range rows {
		draft, fieldErrs := validate.Enquiry(row.FullName, row.Email, row.Phone, row.Project, row.Message)
		if len(fieldErrs) > 0 {
			rowErrs = append(rowErrs, model.RowError{Row: i + 2, Errors: fieldErrs, Data: row})
			continue
		}
		drafts = append(drafts, draft)
	}

	count, err := h.svc.ReplaceImported(ctx, drafts)
	if errors.Is(err, model.ErrEmptyBatch) {
		writeJSON(ctx, xhttp.StatusBadRequest, map[string]any{
			"success": false,
			"error":   err.Error(),
			"errors":  rowErrs,
		})
		return
	}
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(ctx, xhttp.StatusOK, map[string]any{
		"success":  true,
		"imported": count,
		"errors":   rowErrs,
	})
}

func (h *ExcelHandler) ListImported(ctx *xhttp.RequestCtx) {
	items, total, err := h.svc.List(ctx, model.SourceImported)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse{Items: items, Total: total})
}

func (h *ExcelHandler) ClearImported(ctx *xhttp.RequestCtx) {
	if err := h.svc.ClearImported(ctx); err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]any{"success": true})
}

func (h *ExcelHandler) ExportAll(ctx *xhttp.RequestCtx) {
	items, _, err := h.svc.List(ctx, model.SourceImported)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	f, filename, err := excel.Export(items)
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()
	writeWorkbook(ctx, f, filename)
}

func (h *ExcelHandler) Template(ctx *xhttp.RequestCtx) {
	f, filename, err := excel.Template()
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	defer f.Close()
	writeWorkbook(ctx, f, filename)
}

func writeWorkbook(ctx *xhttp.RequestCtx, f interface{ WriteToBuffer() (*bytes.Buffer, error) }, filename string) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
		return
	}
	ctx.Response.Header.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Response.SetStatusCode(xhttp.StatusOK)
	ctx.Response.SetBodyRaw(buf.Bytes())
}
