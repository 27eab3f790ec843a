package models

import "time"

// Page is a published article. Name is the public slug, ID the secret edit key.
type Page struct {
	ID        string    `db:"id"        json:"id"        example:"aoAAhc5i4bmKMSZk"`
	Name      string    `db:"name"      json:"name"      example:"first-post-chzc9BkU"`
	Title     string    `db:"title"     json:"title"     example:"First Post"`
	Author    string    `db:"author"    json:"author"    example:"Andrew Chilton"`
	Website   string    `db:"website"   json:"website,omitempty"`
	Twitter   string    `db:"twitter"   json:"twitter,omitempty"`
	Facebook  string    `db:"facebook"  json:"facebook,omitempty"`
	Github    string    `db:"github"    json:"github,omitempty"`
	Instagram string    `db:"instagram" json:"instagram,omitempty"`
	Content   string    `db:"content"   json:"content"   example:"My story."`
	Inserted  time.Time `db:"inserted"  json:"inserted"`
	Updated   time.Time `db:"updated"   json:"updated"`
}

// swagger:model SavePageRequest
type SavePageRequest struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name,omitempty"`
	Title     string `json:"title"     example:"First Post"`
	Author    string `json:"author"    example:"Andrew Chilton"`
	Website   string `json:"website"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Github    string `json:"github"`
	Instagram string `json:"instagram"`
	Content   string `json:"content"   example:"My story."`
}

// SavedPage is returned by create and update.
type SavedPage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Apply copies the editable fields of req onto p.
func (p *Page) Apply(req SavePageRequest) {
	p.Title = req.Title
	p.Author = req.Author
	p.Website = req.Website
	p.Twitter = req.Twitter
	p.Facebook = req.Facebook
	p.Github = req.Github
	p.Instagram = req.Instagram
	p.Content = req.Content
}
