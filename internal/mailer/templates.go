package mailer

import (
	"bytes"
	"html/template"

	"github.com/shubamdev/enquiry-gateway/internal/model"
)

const cardTemplate = `
<div style="font-family: Arial, sans-serif; padding: 20px; background:#f7f7f7;">
  <div style="max-width: 600px; margin: auto; background:#ffffff; padding: 20px; border-radius: 10px; box-shadow:0 4px 10px rgba(0,0,0,0.1);">

    {{if .Project}}<h2 style="color:#C29A2D; margin-bottom: 15px;">New Project Enquiry</h2>{{else}}<h2 style="color:#C29A2D; margin-bottom: 15px;">New General Enquiry</h2>{{end}}

    <p><strong>Name:</strong> {{.FullName}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Phone:</strong> {{.Phone}}</p>
    {{if .Project}}<p><strong>Project:</strong> {{.Project}}</p>{{end}}

    <div style="margin-top: 15px; padding:15px; background:#fafafa; border-left: 4px solid #C29A2D;">
      <p><strong>Message:</strong></p>
      <p style="white-space: pre-line;">{{.Message}}</p>
    </div>

  </div>
</div>`

var card = template.Must(template.New("enquiry").Parse(cardTemplate))

// Render produces the subject and HTML body for an enquiry notification.
// A project title selects the project variant, otherwise the general one.
func Render(enq *model.Enquiry) (subject, html string, err error) {
	data := struct {
		FullName string
		Email    string
		Phone    string
		Project  string
		Message  string
	}{enq.FullName, enq.Email, enq.Phone, enq.ProjectTitle, enq.Message}

	var buf bytes.Buffer
	if err := card.Execute(&buf, data); err != nil {
		return "", "", err
	}

	subject = "General Enquiry"
	if enq.ProjectTitle != "" {
		subject = "Enquiry - " + enq.ProjectTitle
	}
	return subject, buf.String(), nil
}
