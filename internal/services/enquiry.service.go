package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shubamdev/enquiry-gateway/internal/broker"
	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/internal/validate"
	"github.com/shubamdev/enquiry-gateway/pkg/logger"
	"github.com/shubamdev/enquiry-gateway/pkg/prom"
)

type EnquiryRepository interface {
	Create(ctx context.Context, enq *model.Enquiry) (*model.Enquiry, error)
	List(ctx context.Context, f model.EnquiryFilter) ([]*model.Enquiry, int64, error)
	DeleteByID(ctx context.Context, id int64) error
	ReplaceImported(ctx context.Context, batch []*model.Enquiry) ([]*model.Enquiry, error)
	ClearImported(ctx context.Context) error
}

type ProjectRepository interface {
	GetByTitle(ctx context.Context, title string) (*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
}

// Notifier emails a persisted enquiry to the operator inbox.
type Notifier interface {
	Notify(ctx context.Context, enq *model.Enquiry) error
}

// Publisher fans a persisted enquiry out to connected dashboards.
type Publisher interface {
	Publish(ctx context.Context, ev broker.Event) error
}

type EnquiryService struct {
	enquiries EnquiryRepository
	projects  ProjectRepository
	notifier  Notifier
	publisher Publisher
}

func NewEnquiryService(enquiries EnquiryRepository, projects ProjectRepository, notifier Notifier, publisher Publisher) *EnquiryService {
	return &EnquiryService{
		enquiries: enquiries,
		projects:  projects,
		notifier:  notifier,
		publisher: publisher,
	}
}

// Create validates, persists, emails and broadcasts one enquiry, in that
// order. A mail failure after the insert does not roll anything back: the
// record and a model.ErrNotificationFailed are both returned so the UI can
// tell "saved but not emailed" apart from "nothing saved". There is no
// transaction across the three steps; a crash mid-sequence leaves the
// record without its side effects.
func (s *EnquiryService) Create(ctx context.Context, req model.EnquiryCreateRequest) (*model.Enquiry, error) {
	draft, fieldErrs := validate.Enquiry(req.FullName, req.Email, req.Phone, req.Project, req.Message)
	if len(fieldErrs) > 0 {
		return nil, &model.ValidationError{Fields: fieldErrs}
	}

	enq := &model.Enquiry{
		FullName: draft.FullName,
		Email:    draft.Email,
		Phone:    draft.Phone,
		Message:  draft.Message,
		Source:   model.SourceManual,
	}
	s.resolveProject(ctx, enq, draft.Project)

	created, err := s.enquiries.Create(ctx, enq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	prom.IncCounter(prom.SystemEnquiries, prom.MetricCreatedTotal)

	var notifyErr error
	if err := s.notifier.Notify(ctx, created); err != nil {
		logger.Error("enquiry email dispatch failed", "enquiry_id", created.ID, "error", err)
		prom.IncCounterVec(prom.SystemEnquiries, prom.MetricEmailTotal, "failed")
		notifyErr = model.ErrNotificationFailed
	} else {
		prom.IncCounterVec(prom.SystemEnquiries, prom.MetricEmailTotal, "sent")
	}

	s.broadcast(ctx, created)

	return created, notifyErr
}

// ReplaceImported validates nothing itself; it receives rows that already
// passed the validation layer. The whole imported pool is swapped for the
// batch and every inserted record is broadcast in insertion order. An
// empty batch is rejected before any delete, leaving the prior pool
// untouched.
func (s *EnquiryService) ReplaceImported(ctx context.Context, drafts []model.EnquiryDraft) (int, error) {
	if len(drafts) == 0 {
		return 0, model.ErrEmptyBatch
	}

	batch := make([]*model.Enquiry, len(drafts))
	for i, d := range drafts {
		message := d.Message
		if message == "" {
			message = model.DefaultImportMessage
		}
		enq := &model.Enquiry{
			FullName: d.FullName,
			Email:    d.Email,
			Phone:    d.Phone,
			Message:  message,
			Source:   model.SourceImported,
		}
		s.resolveProject(ctx, enq, d.Project)
		batch[i] = enq
	}

	inserted, err := s.enquiries.ReplaceImported(ctx, batch)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrStorage, err)
	}

	for _, enq := range inserted {
		prom.IncCounterVec(prom.SystemEnquiries, prom.MetricImportRowsTotal, "inserted")
		s.broadcast(ctx, enq)
	}

	return len(inserted), nil
}

func (s *EnquiryService) List(ctx context.Context, source model.EnquirySource) ([]*model.Enquiry, int64, error) {
	items, total, err := s.enquiries.List(ctx, model.EnquiryFilter{Source: &source})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	return items, total, nil
}

func (s *EnquiryService) Delete(ctx context.Context, id int64) error {
	err := s.enquiries.DeleteByID(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	return nil
}

func (s *EnquiryService) ClearImported(ctx context.Context) error {
	if err := s.enquiries.ClearImported(ctx); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	return nil
}

// resolveProject snapshots the denormalized title. A title that matches a
// catalog project also links its id; an unknown title is kept verbatim
// with no link, matching the submitted free text.
func (s *EnquiryService) resolveProject(ctx context.Context, enq *model.Enquiry, title string) {
	enq.ProjectTitle = title
	if title == "" || s.projects == nil {
		return
	}
	p, err := s.projects.GetByTitle(ctx, title)
	if err != nil {
		logger.Warn("project lookup failed, keeping raw title", "title", title, "error", err)
		return
	}
	if p != nil {
		enq.ProjectID = &p.ID
		enq.ProjectTitle = p.Title
	}
}

func (s *EnquiryService) broadcast(ctx context.Context, enq *model.Enquiry) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, broker.EventFromEnquiry(enq)); err != nil {
		// delivery to dashboards is best effort, the record is safe
		logger.Error("enquiry broadcast failed", "enquiry_id", enq.ID, "error", err)
		return
	}
	prom.IncCounter(prom.SystemEnquiries, prom.MetricEventsPublishedTotal)
}
