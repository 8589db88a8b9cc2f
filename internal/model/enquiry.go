package model

import (
	"time"
)

// EnquirySource records provenance: submitted through the contact form or
// loaded through a bulk spreadsheet import. The imported pool is managed
// separately (listed, replaced and cleared wholesale).
type EnquirySource string

const (
	SourceManual   EnquirySource = "manual"
	SourceImported EnquirySource = "imported"
)

// DefaultImportMessage fills the optional message field for imported rows.
const DefaultImportMessage = "Imported from Excel"

type Enquiry struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Message  string `json:"message"`
	// ProjectID links to a known project when the submitted name resolved;
	// ProjectTitle is the denormalized snapshot taken at write time and is
	// allowed to go stale if the project is later renamed.
	ProjectID    *int64        `json:"projectId,omitempty"`
	ProjectTitle string        `json:"project"`
	Source       EnquirySource `json:"source"`
	CreatedAt    time.Time     `json:"createdAt"`
}

// EnquiryCreateRequest is the raw contact-form payload. Project carries the
// project title as submitted (may be empty or unknown to the catalog).
type EnquiryCreateRequest struct {
	FullName string
	Email    string
	Phone    string
	Message  string
	Project  string
}

// EnquiryDraft is a validated, normalized record that has not been
// persisted yet: trimmed name, lowercased email, 10-digit phone.
type EnquiryDraft struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Project  string `json:"project"`
	Message  string `json:"message"`
}

type EnquiryFilter struct {
	Source *EnquirySource
	Limit  int
	Offset int
}
