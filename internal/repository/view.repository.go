package repository

import (
	"context"

	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/pkg/pg"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ViewRepository struct {
	*pg.DB
}

func NewViewRepository(db *pg.DB) *ViewRepository {
	return &ViewRepository{db}
}

// IncrementWebsite bumps the site-wide counter and returns the new value.
// The row is created lazily on first view.
func (r *ViewRepository) IncrementWebsite(ctx context.Context) (int64, error) {
	entity := &SiteViewEntity{ID: 1, WebsiteCount: 1}
	err := r.Write(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"website_count": gorm.Expr("site_view.website_count + 1")}),
	}).Create(entity).Error
	if err != nil {
		return 0, err
	}

	var row SiteViewEntity
	if err := r.Read(ctx).First(&row, 1).Error; err != nil {
		return 0, err
	}
	return row.WebsiteCount, nil
}

// IncrementProject bumps (or lazily creates) the per-project counter. The
// cached title is written on first hit only, same as the original.
func (r *ViewRepository) IncrementProject(ctx context.Context, projectID int64, title string) error {
	entity := &ProjectViewEntity{ProjectID: projectID, Title: title, Count: 1}
	return r.Write(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "project_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"count": gorm.Expr("project_view.count + 1")}),
	}).Create(entity).Error
}

func (r *ViewRepository) Get(ctx context.Context) (*model.SiteViews, error) {
	views := &model.SiteViews{}

	var site SiteViewEntity
	err := r.Read(ctx).First(&site, 1).Error
	if err == nil {
		views.WebsiteCount = site.WebsiteCount
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	var rows []ProjectViewEntity
	if err := r.Read(ctx).Order("count DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		views.ProjectViews = append(views.ProjectViews, model.ProjectView{
			ProjectID: row.ProjectID,
			Title:     row.Title,
			Count:     row.Count,
		})
	}

	return views, nil
}
