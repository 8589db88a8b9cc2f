// Package validate holds the field rules applied to every enquiry before
// it can reach the store, whether it arrives as a form submission or as a
// spreadsheet row. Validation is pure: no I/O, never panics past the
// boundary, and reports every failing field rather than the first one.
package validate

import (
	"regexp"
	"strings"

	"github.com/shubamdev/enquiry-gateway/internal/model"
)

var (
	// one-or-more alphabetic words separated by single spaces; leading,
	// trailing and doubled spaces fail after the initial trim
	nameRe  = regexp.MustCompile(`^[A-Za-z]+( [A-Za-z]+)*$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`^[0-9]{10}$`)
)

// Enquiry checks a candidate payload and returns the normalized draft
// along with any field errors. The draft is only meaningful when the
// error list is empty. The message field is optional and passed through;
// callers on the bulk path default it afterwards.
func Enquiry(fullName, email, phone, project, message string) (model.EnquiryDraft, []model.FieldError) {
	var errs []model.FieldError

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		errs = append(errs, model.FieldError{Field: "fullName", Message: "Full name is required"})
	} else if !nameRe.MatchString(fullName) {
		errs = append(errs, model.FieldError{Field: "fullName", Message: "Only letters with single space allowed"})
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		errs = append(errs, model.FieldError{Field: "email", Message: "Email is required"})
	} else if strings.ContainsAny(email, " \t\r\n") {
		errs = append(errs, model.FieldError{Field: "email", Message: "Spaces not allowed"})
	} else if !emailRe.MatchString(email) {
		errs = append(errs, model.FieldError{Field: "email", Message: "Invalid email"})
	}

	phone = strings.TrimSpace(phone)
	if phone == "" {
		errs = append(errs, model.FieldError{Field: "phone", Message: "Phone number is required"})
	} else if !phoneRe.MatchString(phone) {
		errs = append(errs, model.FieldError{Field: "phone", Message: "Phone must be exactly 10 digits"})
	}

	project = strings.TrimSpace(project)
	if project == "" {
		errs = append(errs, model.FieldError{Field: "project", Message: "Project is required"})
	}

	return model.EnquiryDraft{
		FullName: fullName,
		Email:    email,
		Phone:    phone,
		Project:  project,
		Message:  strings.TrimSpace(message),
	}, errs
}
