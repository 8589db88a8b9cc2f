package model

import "time"

// Project is owned by the content-management side of the site; this
// service only reads it to resolve and denormalize titles.
type Project struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProjectRef is the denormalized pair carried by fan-out events.
type ProjectRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
