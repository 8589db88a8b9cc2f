package repository

import (
	"time"

	"github.com/shubamdev/enquiry-gateway/internal/model"
)

type EnquiryEntity struct {
	ID           int64     `db:"id"            gorm:"primaryKey;autoIncrement;column:id"`
	FullName     string    `db:"full_name"     gorm:"column:full_name;not null"`
	Email        string    `db:"email"         gorm:"column:email;not null"`
	Phone        string    `db:"phone"         gorm:"column:phone;not null"`
	Message      string    `db:"message"       gorm:"column:message"`
	ProjectID    *int64    `db:"project_id"    gorm:"column:project_id;index"`
	ProjectTitle string    `db:"project_title" gorm:"column:project_title"`
	Source       string    `db:"source"        gorm:"column:source;not null;index;default:manual"`
	CreatedAt    time.Time `db:"created_at"    gorm:"column:created_at;autoCreateTime"`
}

func (EnquiryEntity) TableName() string { return "enquiries" }

func toEnquiryEntity(m *model.Enquiry) *EnquiryEntity {
	if m == nil {
		return nil
	}
	return &EnquiryEntity{
		ID:           m.ID,
		FullName:     m.FullName,
		Email:        m.Email,
		Phone:        m.Phone,
		Message:      m.Message,
		ProjectID:    m.ProjectID,
		ProjectTitle: m.ProjectTitle,
		Source:       string(m.Source),
		CreatedAt:    m.CreatedAt,
	}
}

func toEnquiryModel(e *EnquiryEntity) *model.Enquiry {
	if e == nil {
		return nil
	}
	return &model.Enquiry{
		ID:           e.ID,
		FullName:     e.FullName,
		Email:        e.Email,
		Phone:        e.Phone,
		Message:      e.Message,
		ProjectID:    e.ProjectID,
		ProjectTitle: e.ProjectTitle,
		Source:       model.EnquirySource(e.Source),
		CreatedAt:    e.CreatedAt,
	}
}

func toEnquiryModels(entities []*EnquiryEntity) []*model.Enquiry {
	if entities == nil {
		return nil
	}
	models := make([]*model.Enquiry, len(entities))
	for i, e := range entities {
		models[i] = toEnquiryModel(e)
	}
	return models
}
