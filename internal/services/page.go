package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"publish/internal/logger"
	"publish/internal/models"
	"publish/internal/repository"
	"publish/internal/utils"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

const (
	idLength         = 16
	nameSuffixLength = 8
)

var (
	ErrNoID             = errors.New("no page id given")
	ErrNoTitle          = errors.New("title is empty")
	ErrPageNotFound     = errors.New("page not found")
	ErrUnknownName      = errors.New("page name does not exist")
	ErrPermissionDenied = errors.New("page id does not match name")
)

type PageService interface {
	Create(ctx context.Context, req models.SavePageRequest) (*models.SavedPage, error)
	Update(ctx context.Context, req models.SavePageRequest) (*models.SavedPage, error)
	GetByID(ctx context.Context, id string) (*models.Page, error)
	GetByName(ctx context.Context, name string) (*models.Page, error)
	List(ctx context.Context, limit, offset int) ([]*models.Page, error)
	Delete(ctx context.Context, name string) error
}

type pageService struct {
	repo repository.PageRepo
	now  func() time.Time
}

func NewPageService(repo repository.PageRepo) PageService {
	return &pageService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *pageService) Create(ctx context.Context, req models.SavePageRequest) (*models.SavedPage, error) {
	log := logger.WithCtx(ctx)

	base := slug.Make(req.Title)
	if base == "" {
		log.Warn("validation failed: title", zap.Int("title_len", len(req.Title)))
		return nil, ErrNoTitle
	}

	now := s.now()
	p := &models.Page{
		ID:       utils.RandomString(idLength),
		Name:     base + "-" + utils.RandomString(nameSuffixLength),
		Inserted: now,
		Updated:  now,
	}
	p.Apply(req)

	if err := s.repo.Insert(ctx, p); err != nil {
		log.Error("create page failed (repo)", zap.Error(err))
		return nil, fmt.Errorf("insert page: %w", err)
	}

	log.Info("page created", zap.String("name", p.Name), zap.Int("content_len", len(p.Content)))
	return &models.SavedPage{ID: p.ID, Name: p.Name}, nil
}

func (s *pageService) Update(ctx context.Context, req models.SavePageRequest) (*models.SavedPage, error) {
	log := logger.WithCtx(ctx).With(zap.String("name", req.Name))

	existing, err := s.repo.GetByName(ctx, req.Name)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("update of unknown page")
		return nil, ErrUnknownName
	}
	if err != nil {
		log.Error("load page for update failed (repo)", zap.Error(err))
		return nil, fmt.Errorf("get page: %w", err)
	}

	if existing.ID != req.ID {
		log.Warn("update rejected: id mismatch")
		return nil, ErrPermissionDenied
	}

	if strings.TrimSpace(req.Title) == "" {
		log.Warn("validation failed: title")
		return nil, ErrNoTitle
	}

	// Only editable fields come from the request; id, name and inserted stay.
	existing.Apply(req)
	existing.Updated = s.now()

	if err := s.repo.Update(ctx, existing); err != nil {
		log.Error("update page failed (repo)", zap.Error(err))
		return nil, fmt.Errorf("update page: %w", err)
	}

	log.Info("page updated")
	return &models.SavedPage{ID: existing.ID, Name: existing.Name}, nil
}

func (s *pageService) GetByID(ctx context.Context, id string) (*models.Page, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNoID
	}
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		logger.WithCtx(ctx).Debug("page not found by id")
		return nil, ErrPageNotFound
	}
	return p, err
}

func (s *pageService) GetByName(ctx context.Context, name string) (*models.Page, error) {
	p, err := s.repo.GetByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPageNotFound
	}
	return p, err
}

func (s *pageService) List(ctx context.Context, limit, offset int) ([]*models.Page, error) {
	list, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		logger.WithCtx(ctx).Error("list pages failed (repo)", zap.Error(err))
		return nil, err
	}
	return list, nil
}

func (s *pageService) Delete(ctx context.Context, name string) error {
	log := logger.WithCtx(ctx)
	if err := s.repo.Delete(ctx, name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPageNotFound
		}
		log.Error("delete page failed (repo)", zap.String("name", name), zap.Error(err))
		return err
	}
	log.Info("page deleted", zap.String("name", name))
	return nil
}
