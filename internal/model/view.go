package model

// SiteViews is the process-wide view aggregate: one site counter plus
// per-project counters. Every call increments; there is no dedup window.
type SiteViews struct {
	WebsiteCount int64         `json:"websiteCount"`
	ProjectViews []ProjectView `json:"projectViews"`
}

type ProjectView struct {
	ProjectID int64  `json:"projectId"`
	Title     string `json:"title"`
	Count     int64  `json:"count"`
}
