// Package mailer composes and delivers the operator notification for a
// newly submitted enquiry. Delivery failures never invalidate the already
// persisted record; the service layer maps them to a distinct outcome.
package mailer

import (
	"context"
	"fmt"

	"github.com/shubamdev/enquiry-gateway/internal/model"
)

// Email is a fully rendered message ready for a transport. The submitter
// appears as the From identity so the operator can reply directly.
type Email struct {
	FromName string `json:"fromName"`
	FromAddr string `json:"fromAddr"`
	To       string `json:"to"`
	Subject  string `json:"subject"`
	HTML     string `json:"html"`
}

type Transport interface {
	Send(ctx context.Context, e *Email) error
}

type Dispatcher struct {
	transport Transport
	inbox     string
}

func NewDispatcher(transport Transport, inbox string) *Dispatcher {
	return &Dispatcher{transport: transport, inbox: inbox}
}

// Notify renders the project-specific or general template for the
// enquiry and hands it to the transport, addressed to the operator inbox.
func (d *Dispatcher) Notify(ctx context.Context, enq *model.Enquiry) error {
	subject, html, err := Render(enq)
	if err != nil {
		return fmt.Errorf("render notification: %w", err)
	}

	return d.transport.Send(ctx, &Email{
		FromName: enq.FullName,
		FromAddr: enq.Email,
		To:       d.inbox,
		Subject:  subject,
		HTML:     html,
	})
}
