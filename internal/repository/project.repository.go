package repository

import (
	"context"
	"errors"

	"github.com/shubamdev/enquiry-gateway/internal/model"
	"github.com/shubamdev/enquiry-gateway/pkg/pg"
	"gorm.io/gorm"
)

// ProjectRepository only resolves projects for title denormalization;
// project CRUD belongs to the content-management side.
type ProjectRepository struct {
	*pg.DB
}

func NewProjectRepository(db *pg.DB) *ProjectRepository {
	return &ProjectRepository{db}
}

// GetByTitle resolves a project by its title, case-insensitively. A miss
// is not an error: unknown names stay as free-text titles on the enquiry.
func (r *ProjectRepository) GetByTitle(ctx context.Context, title string) (*model.Project, error) {
	var entity ProjectEntity
	err := r.Read(ctx).Where("LOWER(title) = LOWER(?)", title).First(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toProjectModel(&entity), nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	var entity ProjectEntity
	err := r.Read(ctx).First(&entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toProjectModel(&entity), nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) (*model.Project, error) {
	entity := &ProjectEntity{Title: p.Title}
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, err
	}
	return toProjectModel(entity), nil
}
