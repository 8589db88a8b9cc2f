package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"testing"

	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func importRows() []model.EnquiryDraft {
	return []model.EnquiryDraft{
		{FullName: "Alice Smith", Email: "alice@example.com", Phone: "1111111111", Project: "Green Valley"},
		{FullName: "Bob Jones", Email: "bob@example.com", Phone: "2222222222", Project: "Green Valley", Message: "call me"},
	}
}

func TestExcelHandler_Import(t *testing.T) {
	t.Run("valid rows are replaced and counted", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewExcelHandler(svc)

		svc.On("ReplaceImported", mock.Anything, mock.MatchedBy(func(drafts []model.EnquiryDraft) bool {
			return len(drafts) == 2 && drafts[0].Email == "alice@example.com"
		})).Return(2, nil)

		bodyBytes, _ := json.Marshal(importRows())
		ctx := setupTestContext("POST", "/api/excel-enquiry/import", bodyBytes)
		handler.Import(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response struct {
			Success  bool             `json:"success"`
			Imported int              `json:"imported"`
			Errors   []model.RowError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, 2, response.Imported)
		assert.Empty(t, response.Errors)
	})

	t.Run("invalid rows are reported with spreadsheet row numbers", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewExcelHandler(svc)

		rows := importRows()
		rows[1].Phone = "12345"

		svc.On("ReplaceImported", mock.Anything, mock.MatchedBy(func(drafts []model.EnquiryDraft) bool {
			return len(drafts) == 1
		})).Return(1, nil)

		bodyBytes, _ := json.Marshal(rows)
		ctx := setupTestContext("POST", "/api/excel-enquiry/import", bodyBytes)
		handler.Import(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response struct {
			Imported int              `json:"imported"`
			Errors   []model.RowError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, 1, response.Imported)
		require.Len(t, response.Errors, 1)
		assert.Equal(t, 3, response.Errors[0].Row)
	})

	t.Run("all-invalid batch is a 400 and the pool is untouched", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewExcelHandler(svc)

		svc.On("ReplaceImported", mock.Anything, mock.Anything).Return(0, model.ErrEmptyBatch)

		rows := []model.EnquiryDraft{{FullName: "123", Email: "nope", Phone: "1", Project: ""}}
		bodyBytes, _ := json.Marshal(rows)
		ctx := setupTestContext("POST", "/api/excel-enquiry/import", bodyBytes)
		handler.Import(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())

		var response struct {
			Success bool             `json:"success"`
			Errors  []model.RowError `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.False(t, response.Success)
		assert.Len(t, response.Errors, 1)
	})

	t.Run("empty array is a 400", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewExcelHandler(svc)

		svc.On("ReplaceImported", mock.Anything, mock.Anything).Return(0, model.ErrEmptyBatch)

		ctx := setupTestContext("POST", "/api/excel-enquiry/import", []byte("[]"))
		handler.Import(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestExcelHandler_Preview(t *testing.T) {
	buildUpload := func(t *testing.T, workbook []byte) ([]byte, string) {
		t.Helper()
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", "enquiries.xlsx")
		require.NoError(t, err)
		_, err = part.Write(workbook)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		return buf.Bytes(), w.FormDataContentType()
	}

	t.Run("reports valid and invalid rows without writing", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewExcelHandler(svc)

		f := excelize.NewFile()
		sheet := f.GetSheetName(0)
		headers := []string{"Full Name", "Email", "Phone", "Project", "Message"}
		for col, h := range headers {
			axis, _ := excelize.CoordinatesToCellName(col+1, 1)
			require.NoError(t, f.SetCellValue(sheet, axis, h))
		}
		data := [][]string{
			{"Alice Smith", "alice@example.com", "1111111111", "Green Valley", ""},
			{"Bob Jones", "bob@example.com", "12345", "Green Valley", ""},
		}
		for i, row := range data {
			for col, v := range row {
				axis, _ := excelize.CoordinatesToCellName(col+1, i+2)
				require.NoError(t, f.SetCellValue(sheet, axis, v))
			}
		}
		wb, err := f.WriteToBuffer()
		require.NoError(t, err)
		f.Close()

		body, contentType := buildUpload(t, wb.Bytes())
		ctx := setupTestContext("POST", "/api/excel-enquiry/preview", body)
		ctx.Request.Header.SetContentType(contentType)
		handler.Preview(ctx)

		assert.Equal(t, 200, ctx.Response.StatusCode())

		var response previewResponse
		require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
		assert.Equal(t, 1, response.ValidCount)
		assert.Equal(t, 1, response.ErrorCount)
		require.Len(t, response.Errors, 1)
		assert.Equal(t, 3, response.Errors[0].Row)

		svc.AssertNotCalled(t, "ReplaceImported", mock.Anything, mock.Anything)
	})

	t.Run("unreadable upload is a 400", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewExcelHandler(svc)

		body, contentType := buildUpload(t, []byte("definitely,not,xlsx"))
		ctx := setupTestContext("POST", "/api/excel-enquiry/preview", body)
		ctx.Request.Header.SetContentType(contentType)
		handler.Preview(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})

	t.Run("missing file field is a 400", func(t *testing.T) {
		svc := new(MockEnquiryService)
		handler := NewExcelHandler(svc)

		ctx := setupTestContext("POST", "/api/excel-enquiry/preview", nil)
		handler.Preview(ctx)

		assert.Equal(t, 400, ctx.Response.StatusCode())
	})
}

func TestExcelHandler_ExportAll(t *testing.T) {
	svc := new(MockEnquiryService)
	handler := NewExcelHandler(svc)

	svc.On("List", mock.Anything, model.SourceImported).
		Return([]*model.Enquiry{
			{ID: 1, FullName: "Alice Smith", Email: "alice@example.com", Phone: "1111111111", ProjectTitle: "Green Valley"},
		}, int64(1), nil)

	ctx := setupTestContext("GET", "/api/excel-enquiry/export", nil)
	handler.ExportAll(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Header.Peek("Content-Disposition")), "enquiries_")
	assert.Contains(t, string(ctx.Response.Header.Peek("Content-Type")), "spreadsheetml")

	// body must be a readable workbook
	f, err := excelize.OpenReader(bytes.NewReader(ctx.Response.Body()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Enquiries")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice Smith", rows[1][0])
}

func TestExcelHandler_Template(t *testing.T) {
	handler := NewExcelHandler(new(MockEnquiryService))

	ctx := setupTestContext("GET", "/api/excel-enquiry/template", nil)
	handler.Template(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Header.Peek("Content-Disposition")), "enquiry_import_template.xlsx")
}

func TestExcelHandler_ClearImported(t *testing.T) {
	svc := new(MockEnquiryService)
	handler := NewExcelHandler(svc)

	svc.On("ClearImported", mock.Anything).Return(nil)

	ctx := setupTestContext("DELETE", "/api/excel-enquiry", nil)
	handler.ClearImported(ctx)

	assert.Equal(t, 200, ctx.Response.StatusCode())
	svc.AssertExpectations(t)
}
