package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/pkg/prom"
)

type ViewRepository interface {
	IncrementWebsite(ctx context.Context) (int64, error)
	IncrementProject(ctx context.Context, projectID int64, title string) error
	Get(ctx context.Context) (*model.SiteViews, error)
}

type ViewService struct {
	views ViewRepository
}

func NewViewService(views ViewRepository) *ViewService {
	return &ViewService{views: views}
}

// Website bumps the site-wide counter and returns the new total. Counts are
// best effort page hits, not deduplicated visitors.
func (s *ViewService) Website(ctx context.Context) (int64, error) {
	count, err := s.views.IncrementWebsite(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	prom.IncCounterVec(prom.SystemViews, prom.MetricHitsTotal, "website")
	return count, nil
}

func (s *ViewService) Project(ctx context.Context, projectID int64, title string) error {
	title = strings.TrimSpace(title)
	if projectID <= 0 || title == "" {
		return &model.ValidationError{Fields: []model.FieldError{
			{Field: "project", Message: "Project is required"},
		}}
	}
	if err := s.views.IncrementProject(ctx, projectID, title); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	prom.IncCounterVec(prom.SystemViews, prom.MetricHitsTotal, "project")
	return nil
}

func (s *ViewService) Stats(ctx context.Context) (*model.SiteViews, error) {
	stats, err := s.views.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorage, err)
	}
	return stats, nil
}
