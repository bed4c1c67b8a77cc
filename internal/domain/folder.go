package domain

import "time"

// Folder groups links. A public folder is readable by anyone holding its slug.
type Folder struct {
	ID       string `json:"id"`
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsPublic bool   `json:"isPublic"`

	// LinkCount is computed on listing and never stored.
	LinkCount int `json:"linkCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
