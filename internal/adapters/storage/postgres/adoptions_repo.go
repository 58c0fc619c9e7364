package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"abrigo-animais/internal/domain/adoptions"
)

type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

const adoptionColumns = `
	id, animal_id,
	adopter_name, adopter_email, adopter_phone,
	profession, housing_type, has_yard, has_other_pets, other_pets, has_children,
	motivation, status, reviewed_by, reviewed_at,
	created_at, updated_at`

func (r *AdoptionsRepo) Create(ctx context.Context, a adoptions.Adoption) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adoptions (`+adoptionColumns+`)
		VALUES ($1,$2,
			$3,$4,$5,
			$6,$7,$8,$9,$10,$11,
			$12,$13,$14,$15,
			$16,$17)
	`,
		a.ID, a.AnimalID,
		a.AdopterName, a.AdopterEmail, a.AdopterPhone,
		a.Profession, a.HousingType, a.HasYard, a.HasOtherPets, a.OtherPets, a.HasChildren,
		a.Motivation, a.Status, a.ReviewedBy, toNullTime(a.ReviewedAt),
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func scanAdoption(row rowScanner) (adoptions.Adoption, error) {
	var a adoptions.Adoption
	var reviewedAt sql.NullTime

	if err := row.Scan(
		&a.ID, &a.AnimalID,
		&a.AdopterName, &a.AdopterEmail, &a.AdopterPhone,
		&a.Profession, &a.HousingType, &a.HasYard, &a.HasOtherPets, &a.OtherPets, &a.HasChildren,
		&a.Motivation, &a.Status, &a.ReviewedBy, &reviewedAt,
		&a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return adoptions.Adoption{}, adoptions.ErrNotFound
		}
		return adoptions.Adoption{}, err
	}

	a.ReviewedAt = fromNullTime(reviewedAt)
	return a, nil
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id string) (adoptions.Adoption, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return adoptions.Adoption{}, adoptions.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+adoptionColumns+`
		FROM adoptions
		WHERE id = $1
	`, id)
	return scanAdoption(row)
}

func (r *AdoptionsRepo) List(ctx context.Context, f adoptions.ListFilter, page, limit int) ([]adoptions.Adoption, int64, error) {
	conds := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.AnimalID != "" {
		args = append(args, f.AnimalID)
		conds = append(conds, fmt.Sprintf("animal_id = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM adoptions `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offsetFor(page, limit))
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+adoptionColumns+`
		FROM adoptions `+where+`
		ORDER BY created_at DESC
		LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]adoptions.Adoption, 0)
	for rows.Next() {
		a, err := scanAdoption(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r *AdoptionsRepo) Update(ctx context.Context, a adoptions.Adoption) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE adoptions SET
			status = $2, reviewed_by = $3, reviewed_at = $4, updated_at = $5
		WHERE id = $1
	`,
		a.ID, a.Status, a.ReviewedBy, toNullTime(a.ReviewedAt), a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return adoptions.ErrNotFound
	}
	return nil
}

func (r *AdoptionsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM adoptions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return adoptions.ErrNotFound
	}
	return nil
}

func (r *AdoptionsRepo) FindActive(ctx context.Context, animalID, adopterEmail string) (adoptions.Adoption, bool, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+adoptionColumns+`
		FROM adoptions
		WHERE animal_id = $1
		  AND lower(adopter_email) = lower($2)
		  AND status IN ('pending', 'inReview')
		LIMIT 1
	`, animalID, adopterEmail)

	a, err := scanAdoption(row)
	if err != nil {
		if err == adoptions.ErrNotFound {
			return adoptions.Adoption{}, false, nil
		}
		return adoptions.Adoption{}, false, err
	}
	return a, true, nil
}
