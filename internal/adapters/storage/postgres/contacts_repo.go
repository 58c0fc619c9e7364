package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"abrigo-animais/internal/domain/contacts"
)

type ContactsRepo struct {
	db *sql.DB
}

func NewContactsRepo(db *sql.DB) *ContactsRepo {
	return &ContactsRepo{db: db}
}

const contactColumns = `
	id, name, email, phone, subject, message,
	status, priority, category,
	responder_id, response, responded_at,
	created_at, updated_at`

func (r *ContactsRepo) Create(ctx context.Context, c contacts.Contact) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO contacts (`+contactColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,
			$7,$8,$9,
			$10,$11,$12,
			$13,$14)
	`,
		c.ID, c.Name, c.Email, c.Phone, c.Subject, c.Message,
		c.Status, c.Priority, c.Category,
		c.ResponderID, c.Response, toNullTime(c.RespondedAt),
		c.CreatedAt, c.UpdatedAt,
	)
	return err
}

func scanContact(row rowScanner) (contacts.Contact, error) {
	var c contacts.Contact
	var respondedAt sql.NullTime

	if err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message,
		&c.Status, &c.Priority, &c.Category,
		&c.ResponderID, &c.Response, &respondedAt,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return contacts.Contact{}, contacts.ErrNotFound
		}
		return contacts.Contact{}, err
	}

	c.RespondedAt = fromNullTime(respondedAt)
	return c, nil
}

func (r *ContactsRepo) GetByID(ctx context.Context, id string) (contacts.Contact, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return contacts.Contact{}, contacts.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+contactColumns+`
		FROM contacts
		WHERE id = $1
	`, id)
	return scanContact(row)
}

func (r *ContactsRepo) List(ctx context.Context, f contacts.ListFilter, page, limit int) ([]contacts.Contact, int64, error) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 5)

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category ILIKE $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		conds = append(conds, fmt.Sprintf("priority = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM contacts `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offsetFor(page, limit))
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+contactColumns+`
		FROM contacts `+where+`
		ORDER BY created_at DESC
		LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]contacts.Contact, 0)
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *ContactsRepo) Update(ctx context.Context, c contacts.Contact) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE contacts SET
			status = $2, priority = $3, category = $4,
			responder_id = $5, response = $6, responded_at = $7,
			updated_at = $8
		WHERE id = $1
	`,
		c.ID, c.Status, c.Priority, c.Category,
		c.ResponderID, c.Response, toNullTime(c.RespondedAt),
		c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contacts.ErrNotFound
	}
	return nil
}

func (r *ContactsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return contacts.ErrNotFound
	}
	return nil
}
