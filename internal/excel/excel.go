package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/internal/validate"
	"github.com/xuri/excelize/v2"
)

const (
	ExportSheet   = "Enquiries"
	TemplateSheet = "Template"
)

// header aliases accepted by the importer, matched case-insensitively in
// order. The canonical form is what Export and Template write out.
var columnAliases = []struct {
	field   string
	aliases []string
}{
	{"fullName", []string{"full name", "fullname"}},
	{"email", []string{"email"}},
	{"phone", []string{"phone"}},
	{"project", []string{"project"}},
	{"message", []string{"message"}},
}

var exportHeaders = []string{"Full Name", "Email", "Phone", "Project", "Message", "Submitted On"}
var exportWidths = []float64{20, 30, 15, 25, 40, 20}

// Parse reads the first sheet of an uploaded workbook and validates every
// data row. Valid and invalid rows are returned side by side so the caller
// can show a full preview; row numbers are the spreadsheet's own (header
// is row 1, first data row is row 2). Only an unreadable file is an error.
func Parse(r io.Reader) ([]model.EnquiryDraft, []model.RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", model.ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("%w: workbook has no sheets", model.ErrParse)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", model.ErrParse, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("%w: sheet %q is empty", model.ErrParse, sheets[0])
	}

	columns, err := resolveColumns(rows[0])
	if err != nil {
		return nil, nil, err
	}

	var drafts []model.EnquiryDraft
	var rowErrs []model.RowError
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		rowNum := i + 2

		raw := model.EnquiryDraft{
			FullName: cell(row, columns["fullName"]),
			Email:    cell(row, columns["email"]),
			Phone:    normalizePhoneCell(cell(row, columns["phone"])),
			Project:  cell(row, columns["project"]),
			Message:  cell(row, columns["message"]),
		}

		draft, fieldErrs := validate.Enquiry(raw.FullName, raw.Email, raw.Phone, raw.Project, raw.Message)
		if len(fieldErrs) > 0 {
			rowErrs = append(rowErrs, model.RowError{Row: rowNum, Errors: fieldErrs, Data: raw})
			continue
		}
		drafts = append(drafts, draft)
	}

	return drafts, rowErrs, nil
}

// Export renders the given enquiries onto a fresh workbook and returns it
// with a date-stamped download filename.
func Export(enquiries []*model.Enquiry) (*excelize.File, string, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		f.Close()
		return nil, "", err
	}
	if err := writeHeader(f, ExportSheet); err != nil {
		f.Close()
		return nil, "", err
	}

	for i, enq := range enquiries {
		rowNum := i + 2
		values := []interface{}{
			enq.FullName,
			enq.Email,
			enq.Phone,
			enq.ProjectTitle,
			enq.Message,
			enq.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			axis, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				f.Close()
				return nil, "", err
			}
			if err := f.SetCellValue(ExportSheet, axis, v); err != nil {
				f.Close()
				return nil, "", err
			}
		}
	}

	filename := fmt.Sprintf("enquiries_%s.xlsx", time.Now().Format("2006-01-02"))
	return f, filename, nil
}

// Template builds the blank import workbook with one example row showing
// the expected formats.
func Template() (*excelize.File, string, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), TemplateSheet); err != nil {
		f.Close()
		return nil, "", err
	}
	if err := writeHeader(f, TemplateSheet); err != nil {
		f.Close()
		return nil, "", err
	}

	example := []interface{}{"John Doe", "john@example.com", "9876543210", "Green Valley", "Looking for a site visit"}
	for col, v := range example {
		axis, err := excelize.CoordinatesToCellName(col+1, 2)
		if err != nil {
			f.Close()
			return nil, "", err
		}
		if err := f.SetCellValue(TemplateSheet, axis, v); err != nil {
			f.Close()
			return nil, "", err
		}
	}

	return f, "enquiry_import_template.xlsx", nil
}

func writeHeader(f *excelize.File, sheet string) error {
	headers := exportHeaders
	if sheet == TemplateSheet {
		headers = exportHeaders[:5]
	}
	for col, h := range headers {
		axis, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, axis, h); err != nil {
			return err
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, exportWidths[col]); err != nil {
			return err
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last+"1", style)
}

func resolveColumns(header []string) (map[string]int, error) {
	columns := map[string]int{}
	for idx, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		for _, c := range columnAliases {
			if _, seen := columns[c.field]; seen {
				continue
			}
			for _, alias := range c.aliases {
				if key == alias {
					columns[c.field] = idx
					break
				}
			}
		}
	}
	for _, required := range []string{"fullName", "email", "phone", "project"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", model.ErrParse, required)
		}
	}
	if _, ok := columns["message"]; !ok {
		columns["message"] = -1
	}
	return columns, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// normalizePhoneCell undoes the formatting excel applies to numeric cells:
// ten-digit numbers stored as numbers come back as floats, sometimes in
// scientific notation.
func normalizePhoneCell(s string) string {
	if s == "" || !strings.ContainsAny(s, ".eE") {
		return s
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
