package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"publish/internal/logger"
	"publish/internal/models"

	"go.uber.org/zap"
)

// SQLitePageRepo keeps timestamps as unix nanoseconds.
type SQLitePageRepo struct {
	db *sql.DB
}

func NewSQLitePageRepo(db *sql.DB) *SQLitePageRepo {
	return &SQLitePageRepo{db: db}
}

func (r *SQLitePageRepo) Migrate(ctx context.Context) error {
	const q = `
		CREATE TABLE IF NOT EXISTS pages (
			name      TEXT PRIMARY KEY,
			id        TEXT NOT NULL UNIQUE,
			title     TEXT NOT NULL,
			author    TEXT NOT NULL DEFAULT '',
			website   TEXT NOT NULL DEFAULT '',
			twitter   TEXT NOT NULL DEFAULT '',
			facebook  TEXT NOT NULL DEFAULT '',
			github    TEXT NOT NULL DEFAULT '',
			instagram TEXT NOT NULL DEFAULT '',
			content   TEXT NOT NULL DEFAULT '',
			inserted  INTEGER NOT NULL,
			updated   INTEGER NOT NULL
		)`
	_, err := r.db.ExecContext(ctx, q)
	return err
}

func (r *SQLitePageRepo) Insert(ctx context.Context, p *models.Page) error {
	const q = `INSERT INTO pages (` + pageColumns + `) VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.Name, p.Title, p.Author, p.Website,
		p.Twitter, p.Facebook, p.Github, p.Instagram,
		p.Content, p.Inserted.UnixNano(), p.Updated.UnixNano(),
	)
	if err != nil {
		logger.WithCtx(ctx).Error("insert page failed (repo)", zap.String("name", p.Name), zap.Error(err))
	}
	return err
}

func (r *SQLitePageRepo) Update(ctx context.Context, p *models.Page) error {
	const q = `
		UPDATE pages
		SET title=?, author=?, website=?, twitter=?, facebook=?,
		    github=?, instagram=?, content=?, updated=?
		WHERE name=? AND id=?`
	res, err := r.db.ExecContext(ctx, q,
		p.Title, p.Author, p.Website, p.Twitter, p.Facebook,
		p.Github, p.Instagram, p.Content, p.Updated.UnixNano(),
		p.Name, p.ID,
	)
	if err != nil {
		logger.WithCtx(ctx).Error("update page failed (repo)", zap.String("name", p.Name), zap.Error(err))
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLitePageRepo) GetByName(ctx context.Context, name string) (*models.Page, error) {
	return r.getOne(ctx, `SELECT `+pageColumns+` FROM pages WHERE name=?`, name)
}

func (r *SQLitePageRepo) GetByID(ctx context.Context, id string) (*models.Page, error) {
	return r.getOne(ctx, `SELECT `+pageColumns+` FROM pages WHERE id=?`, id)
}

func (r *SQLitePageRepo) getOne(ctx context.Context, q string, arg string) (*models.Page, error) {
	p, err := scanSQLitePage(r.db.QueryRowContext(ctx, q, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *SQLitePageRepo) List(ctx context.Context, limit, offset int) ([]*models.Page, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY inserted DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Page
	for rows.Next() {
		p, err := scanSQLitePage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *SQLitePageRepo) Delete(ctx context.Context, name string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pages WHERE name=?`, name)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSQLitePage(row rowScanner) (*models.Page, error) {
	var (
		p                 models.Page
		inserted, updated int64
	)
	if err := row.Scan(
		&p.ID, &p.Name, &p.Title, &p.Author, &p.Website,
		&p.Twitter, &p.Facebook, &p.Github, &p.Instagram,
		&p.Content, &inserted, &updated,
	); err != nil {
		return nil, err
	}
	p.Inserted = time.Unix(0, inserted).UTC()
	p.Updated = time.Unix(0, updated).UTC()
	return &p, nil
}
