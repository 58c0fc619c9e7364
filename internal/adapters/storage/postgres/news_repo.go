package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"abrigo-animais/internal/domain/news"
)

type NewsRepo struct {
	db *sql.DB
}

func NewNewsRepo(db *sql.DB) *NewsRepo {
	return &NewsRepo{db: db}
}

const newsColumns = `
	id, title, content, excerpt, slug,
	image_url, image_storage_path, tags, featured,
	status, published_at, views,
	author_id, created_at, updated_at`

func (r *NewsRepo) Create(ctx context.Context, a news.Article) error {
	tags, err := toJSON(a.Tags)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO news (`+newsColumns+`)
		VALUES ($1,$2,$3,$4,$5,
			$6,$7,$8,$9,
			$10,$11,$12,
			$13,$14,$15)
	`,
		a.ID, a.Title, a.Content, a.Excerpt, a.Slug,
		a.ImageURL, a.ImageStoragePath, tags, a.Featured,
		a.Status, toNullTime(a.PublishedAt), a.Views,
		a.AuthorID, a.CreatedAt, a.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return news.ErrSlugConflict
	}
	return err
}

func scanArticle(row rowScanner) (news.Article, error) {
	var a news.Article
	var tags []byte
	var publishedAt sql.NullTime

	if err := row.Scan(
		&a.ID, &a.Title, &a.Content, &a.Excerpt, &a.Slug,
		&a.ImageURL, &a.ImageStoragePath, &tags, &a.Featured,
		&a.Status, &publishedAt, &a.Views,
		&a.AuthorID, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return news.Article{}, news.ErrNotFound
		}
		return news.Article{}, err
	}

	if err := fromJSON(tags, &a.Tags); err != nil {
		return news.Article{}, err
	}
	a.PublishedAt = fromNullTime(publishedAt)
	return a, nil
}

func (r *NewsRepo) GetByID(ctx context.Context, id string) (news.Article, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return news.Article{}, news.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+newsColumns+`
		FROM news
		WHERE id = $1
	`, id)
	return scanArticle(row)
}

func (r *NewsRepo) GetBySlug(ctx context.Context, slug string) (news.Article, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+newsColumns+`
		FROM news
		WHERE slug = $1
	`, slug)
	return scanArticle(row)
}

func (r *NewsRepo) List(ctx context.Context, f news.ListFilter, page, limit int) ([]news.Article, int64, error) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Tag != "" {
		// a tag vira um array jsonb de um elemento para o operador de contenção
		tag, err := jsonStringArray(f.Tag)
		if err != nil {
			return nil, 0, err
		}
		args = append(args, tag)
		conds = append(conds, fmt.Sprintf("tags @> $%d::jsonb", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", n, n))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM news `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offsetFor(page, limit))
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+newsColumns+`
		FROM news `+where+`
		ORDER BY created_at DESC
		LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]news.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *NewsRepo) Update(ctx context.Context, a news.Article) error {
	tags, err := toJSON(a.Tags)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE news SET
			title = $2, content = $3, excerpt = $4,
			image_url = $5, image_storage_path = $6, tags = $7, featured = $8,
			status = $9, published_at = $10,
			updated_at = $11
		WHERE id = $1
	`,
		a.ID, a.Title, a.Content, a.Excerpt,
		a.ImageURL, a.ImageStoragePath, tags, a.Featured,
		a.Status, toNullTime(a.PublishedAt),
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return news.ErrNotFound
	}
	return nil
}

func (r *NewsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return news.ErrNotFound
	}
	return nil
}

// IncrementViews soma no próprio UPDATE, sem ida e volta de leitura.
func (r *NewsRepo) IncrementViews(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE news SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return news.ErrNotFound
	}
	return nil
}
