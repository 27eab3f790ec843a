package repository

import (
	"context"
	"errors"

	"publish/internal/logger"
	"publish/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PostgresPageRepo struct {
	db *pgxpool.Pool
}

func NewPostgresPageRepo(db *pgxpool.Pool) *PostgresPageRepo {
	return &PostgresPageRepo{db: db}
}

func (r *PostgresPageRepo) Migrate(ctx context.Context) error {
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
			inserted  TIMESTAMPTZ NOT NULL,
			updated   TIMESTAMPTZ NOT NULL
		)`
	_, err := r.db.Exec(ctx, q)
	return err
}

func (r *PostgresPageRepo) Insert(ctx context.Context, p *models.Page) error {
	const q = `INSERT INTO pages (` + pageColumns + `)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`
	_, err := r.db.Exec(ctx, q,
		p.ID, p.Name, p.Title, p.Author, p.Website,
		p.Twitter, p.Facebook, p.Github, p.Instagram,
		p.Content, p.Inserted, p.Updated,
	)
	if err != nil {
		logger.WithCtx(ctx).Error("insert page failed (repo)", zap.String("name", p.Name), zap.Error(err))
	}
	return err
}

func (r *PostgresPageRepo) Update(ctx context.Context, p *models.Page) error {
	const q = `
		UPDATE pages
		SET title=$1, author=$2, website=$3, twitter=$4, facebook=$5,
		    github=$6, instagram=$7, content=$8, updated=$9
		WHERE name=$10 AND id=$11`
	tag, err := r.db.Exec(ctx, q,
		p.Title, p.Author, p.Website, p.Twitter, p.Facebook,
		p.Github, p.Instagram, p.Content, p.Updated,
		p.Name, p.ID,
	)
	if err != nil {
		logger.WithCtx(ctx).Error("update page failed (repo)", zap.String("name", p.Name), zap.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresPageRepo) GetByName(ctx context.Context, name string) (*models.Page, error) {
	return r.getOne(ctx, `SELECT `+pageColumns+` FROM pages WHERE name=$1`, name)
}

func (r *PostgresPageRepo) GetByID(ctx context.Context, id string) (*models.Page, error) {
	return r.getOne(ctx, `SELECT `+pageColumns+` FROM pages WHERE id=$1`, id)
}

func (r *PostgresPageRepo) getOne(ctx context.Context, q string, arg string) (*models.Page, error) {
	p, err := scanPage(r.db.QueryRow(ctx, q, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

func (r *PostgresPageRepo) List(ctx context.Context, limit, offset int) ([]*models.Page, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+pageColumns+` FROM pages ORDER BY inserted DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *PostgresPageRepo) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pages WHERE name=$1`, name)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*models.Page, error) {
	var p models.Page
	if err := row.Scan(
		&p.ID, &p.Name, &p.Title, &p.Author, &p.Website,
		&p.Twitter, &p.Facebook, &p.Github, &p.Instagram,
		&p.Content, &p.Inserted, &p.Updated,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
