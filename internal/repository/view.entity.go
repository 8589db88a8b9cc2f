package repository

type SiteViewEntity struct {
	// single-row table, id pinned to 1
	ID           int16 `db:"id"            gorm:"primaryKey;column:id"`
	WebsiteCount int64 `db:"website_count" gorm:"column:website_count;not null;default:0"`
}

func (SiteViewEntity) TableName() string { return "site_view" }

type ProjectViewEntity struct {
	ProjectID int64  `db:"project_id" gorm:"primaryKey;column:project_id"`
	Title     string `db:"title"      gorm:"column:title;not null"`
	Count     int64  `db:"count"      gorm:"column:count;not null;default:0"`
}

func (ProjectViewEntity) TableName() string { return "project_view" }
