package repository

import (
	"time"

	"github.com/shubamdev/enquiry-gateway/internal/model"
)

type ProjectEntity struct {
	ID        int64     `db:"id"         gorm:"primaryKey;autoIncrement;column:id"`
	Title     string    `db:"title"      gorm:"column:title;not null;uniqueIndex"`
	CreatedAt time.Time `db:"created_at" gorm:"column:created_at;autoCreateTime"`
}

func (ProjectEntity) TableName() string { return "projects" }

func toProjectModel(e *ProjectEntity) *model.Project {
	if e == nil {
		return nil
	}
	return &model.Project{
		ID:        e.ID,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
	}
}
