package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"publish/internal/models"
	"publish/internal/repository"
)

// In-memory repository stub
type mockPageRepo struct {
	pages     map[string]*models.Page
	insertErr error
}

func newMockPageRepo() *mockPageRepo {
	return &mockPageRepo{pages: map[string]*models.Page{}}
}

func (m *mockPageRepo) Migrate(context.Context) error { return nil }

func (m *mockPageRepo) Insert(_ context.Context, p *models.Page) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	cp := *p
	m.pages[p.Name] = &cp
	return nil
}

func (m *mockPageRepo) Update(_ context.Context, p *models.Page) error {
	if _, ok := m.pages[p.Name]; !ok {
		return repository.ErrNotFound
	}
	cp := *p
	m.pages[p.Name] = &cp
	return nil
}

func (m *mockPageRepo) GetByName(_ context.Context, name string) (*models.Page, error) {
	p, ok := m.pages[name]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockPageRepo) GetByID(_ context.Context, id string) (*models.Page, error) {
	for _, p := range m.pages {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockPageRepo) List(context.Context, int, int) ([]*models.Page, error) {
	var out []*models.Page
	for _, p := range m.pages {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPageRepo) Delete(_ context.Context, name string) error {
	if _, ok := m.pages[name]; !ok {
		return repository.ErrNotFound
	}
	delete(m.pages, name)
	return nil
}

func newTestService(repo *mockPageRepo, now time.Time) *pageService {
	return &pageService{repo: repo, now: func() time.Time { return now }}
}

func TestCreate_AssignsIDAndSluggedName(t *testing.T) {
	repo := newMockPageRepo()
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := newTestService(repo, now)

	saved, err := svc.Create(context.Background(), models.SavePageRequest{
		Title:   "First Post!",
		Author:  "Andrew",
		Content: "My story.",
		// id and name on a create request are ignored
		ID:   "chosen-by-client",
		Name: "chosen-by-client",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !regexp.MustCompile(`^[a-zA-Z]{16}$`).MatchString(saved.ID) {
		t.Errorf("unexpected id %q", saved.ID)
	}
	if !regexp.MustCompile(`^first-post-[a-zA-Z]{8}$`).MatchString(saved.Name) {
		t.Errorf("unexpected name %q", saved.Name)
	}

	stored := repo.pages[saved.Name]
	if stored == nil {
		t.Fatal("page not stored")
	}
	if stored.Title != "First Post!" || stored.Author != "Andrew" || stored.Content != "My story." {
		t.Errorf("fields not stored: %+v", stored)
	}
	if !stored.Inserted.Equal(now) || !stored.Updated.Equal(now) {
		t.Errorf("timestamps not set: %+v", stored)
	}
}

func TestCreate_RejectsBlankTitle(t *testing.T) {
	svc := newTestService(newMockPageRepo(), time.Now())

	for _, title := range []string{"", "   ", "\t\n", "!!!"} {
		if _, err := svc.Create(context.Background(), models.SavePageRequest{Title: title}); !errors.Is(err, ErrNoTitle) {
			t.Errorf("title %q: expected ErrNoTitle, got %v", title, err)
		}
	}
}

func TestCreate_RepoFailure(t *testing.T) {
	repo := newMockPageRepo()
	repo.insertErr = errors.New("disk full")
	svc := newTestService(repo, time.Now())

	_, err := svc.Create(context.Background(), models.SavePageRequest{Title: "Hello"})
	if err == nil || errors.Is(err, ErrNoTitle) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	inserted := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := inserted.Add(time.Hour)

	seed := func() *mockPageRepo {
		repo := newMockPageRepo()
		repo.pages["hello-abcdefgh"] = &models.Page{
			ID: "secret", Name: "hello-abcdefgh", Title: "Hello", Content: "old",
			Inserted: inserted, Updated: inserted,
		}
		return repo
	}

	t.Run("success keeps id name and inserted", func(t *testing.T) {
		repo := seed()
		svc := newTestService(repo, later)

		saved, err := svc.Update(context.Background(), models.SavePageRequest{
			ID: "secret", Name: "hello-abcdefgh", Title: "Hello again", Content: "new", Github: "chilts",
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if saved.ID != "secret" || saved.Name != "hello-abcdefgh" {
			t.Errorf("unexpected saved page %+v", saved)
		}
		got := repo.pages["hello-abcdefgh"]
		if got.Title != "Hello again" || got.Content != "new" || got.Github != "chilts" {
			t.Errorf("fields not updated: %+v", got)
		}
		if !got.Inserted.Equal(inserted) || !got.Updated.Equal(later) {
			t.Errorf("timestamps wrong: %+v", got)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		svc := newTestService(seed(), later)
		_, err := svc.Update(context.Background(), models.SavePageRequest{ID: "secret", Name: "missing", Title: "x"})
		if !errors.Is(err, ErrUnknownName) {
			t.Errorf("expected ErrUnknownName, got %v", err)
		}
	})

	t.Run("wrong id", func(t *testing.T) {
		repo := seed()
		svc := newTestService(repo, later)
		_, err := svc.Update(context.Background(), models.SavePageRequest{ID: "guess", Name: "hello-abcdefgh", Title: "Pwned"})
		if !errors.Is(err, ErrPermissionDenied) {
			t.Errorf("expected ErrPermissionDenied, got %v", err)
		}
		if repo.pages["hello-abcdefgh"].Title != "Hello" {
			t.Error("page must not change on permission failure")
		}
	})

	t.Run("blank title", func(t *testing.T) {
		svc := newTestService(seed(), later)
		_, err := svc.Update(context.Background(), models.SavePageRequest{ID: "secret", Name: "hello-abcdefgh", Title: "  "})
		if !errors.Is(err, ErrNoTitle) {
			t.Errorf("expected ErrNoTitle, got %v", err)
		}
	})
}

func TestGetByID(t *testing.T) {
	repo := newMockPageRepo()
	repo.pages["a-aaaaaaaa"] = &models.Page{ID: "key", Name: "a-aaaaaaaa", Title: "A"}
	svc := newTestService(repo, time.Now())

	if _, err := svc.GetByID(context.Background(), ""); !errors.Is(err, ErrNoID) {
		t.Errorf("expected ErrNoID, got %v", err)
	}
	if _, err := svc.GetByID(context.Background(), "other"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("expected ErrPageNotFound, got %v", err)
	}
	p, err := svc.GetByID(context.Background(), "key")
	if err != nil || p.Name != "a-aaaaaaaa" {
		t.Errorf("unexpected result %+v, %v", p, err)
	}
}

func TestDelete(t *testing.T) {
	repo := newMockPageRepo()
	repo.pages["a-aaaaaaaa"] = &models.Page{ID: "key", Name: "a-aaaaaaaa"}
	svc := newTestService(repo, time.Now())

	if err := svc.Delete(context.Background(), "a-aaaaaaaa"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), "a-aaaaaaaa"); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("expected ErrPageNotFound on second delete, got %v", err)
	}
}
