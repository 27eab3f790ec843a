package repository

import (
	"context"
	"errors"

	"publish/internal/models"
)

var ErrNotFound = errors.New("page not found")

// PageRepo stores pages keyed by name, with a unique index on id.
type PageRepo interface {
	Migrate(ctx context.Context) error
	Insert(ctx context.Context, p *models.Page) error
	Update(ctx context.Context, p *models.Page) error
	GetByName(ctx context.Context, name string) (*models.Page, error)
	GetByID(ctx context.Context, id string) (*models.Page, error)
	List(ctx context.Context, limit, offset int) ([]*models.Page, error)
	Delete(ctx context.Context, name string) error
}

const pageColumns = `id, name, title, author, website, twitter, facebook, github, instagram, content, inserted, updated`
