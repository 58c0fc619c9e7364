package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"abrigo-animais/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

const animalColumns = `
	id, name, species, breed, age, size, gender, description, city, state,
	vaccinated, neutered, dewormed, special_needs,
	friendly, playful, calm, protective, social, independent, active, docile,
	photos, status, featured,
	adopter_name, adopter_contact, adopted_at,
	created_by, created_at, updated_at`

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	photos, err := toJSON(a.Photos)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO animals (`+animalColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,
			$11,$12,$13,$14,
			$15,$16,$17,$18,$19,$20,$21,$22,
			$23,$24,$25,
			$26,$27,$28,
			$29,$30,$31)
	`,
		a.ID, a.Name, a.Species, a.Breed, a.Age, a.Size, a.Gender, a.Description, a.City, a.State,
		a.Vaccinated, a.Neutered, a.Dewormed, a.SpecialNeeds,
		a.Friendly, a.Playful, a.Calm, a.Protective, a.Social, a.Independent, a.Active, a.Docile,
		photos, a.Status, a.Featured,
		a.AdopterName, a.AdopterContact, toNullTime(a.AdoptedAt),
		a.CreatedBy, a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals
		WHERE id = $1
	`, id)
	return scanAnimal(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var photos []byte
	var adoptedAt sql.NullTime

	if err := row.Scan(
		&a.ID, &a.Name, &a.Species, &a.Breed, &a.Age, &a.Size, &a.Gender, &a.Description, &a.City, &a.State,
		&a.Vaccinated, &a.Neutered, &a.Dewormed, &a.SpecialNeeds,
		&a.Friendly, &a.Playful, &a.Calm, &a.Protective, &a.Social, &a.Independent, &a.Active, &a.Docile,
		&photos, &a.Status, &a.Featured,
		&a.AdopterName, &a.AdopterContact, &adoptedAt,
		&a.CreatedBy, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}

	if err := fromJSON(photos, &a.Photos); err != nil {
		return animals.Animal{}, err
	}
	a.AdoptedAt = fromNullTime(adoptedAt)
	return a, nil
}

func (r *AnimalsRepo) List(ctx context.Context, f animals.ListFilter, page, limit int) ([]animals.Animal, int64, error) {
	where, args := animalFilter(f)

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM animals `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offsetFor(page, limit))
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+animalColumns+`
		FROM animals `+where+`
		ORDER BY created_at DESC
		LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// animalFilter monta o WHERE da vitrine; status vazio exclui adopted.
func animalFilter(f animals.ListFilter) (string, []any) {
	conds := make([]string, 0, 8)
	args := make([]any, 0, 8)

	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.Status == "" {
		conds = append(conds, "status <> 'adopted'")
	} else {
		add("status = $%d", f.Status)
	}
	if f.Species != "" {
		add("species = $%d", f.Species)
	}
	if f.Size != "" {
		add("size = $%d", f.Size)
	}
	if f.Gender != "" {
		add("gender = $%d", f.Gender)
	}
	if f.Age != "" {
		add("age = $%d", f.Age)
	}
	if f.City != "" {
		add("city ILIKE $%d", "%"+f.City+"%")
	}
	if f.State != "" {
		add("state ILIKE $%d", f.State)
	}
	if f.Featured != nil {
		add("featured = $%d", *f.Featured)
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR breed ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}

	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	photos, err := toJSON(a.Photos)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE animals SET
			name = $2, species = $3, breed = $4, age = $5, size = $6,
			gender = $7, description = $8, city = $9, state = $10,
			vaccinated = $11, neutered = $12, dewormed = $13, special_needs = $14,
			friendly = $15, playful = $16, calm = $17, protective = $18,
			social = $19, independent = $20, active = $21, docile = $22,
			photos = $23, status = $24, featured = $25,
			adopter_name = $26, adopter_contact = $27, adopted_at = $28,
			updated_at = $29
		WHERE id = $1
	`,
		a.ID,
		a.Name, a.Species, a.Breed, a.Age, a.Size,
		a.Gender, a.Description, a.City, a.State,
		a.Vaccinated, a.Neutered, a.Dewormed, a.SpecialNeeds,
		a.Friendly, a.Playful, a.Calm, a.Protective,
		a.Social, a.Independent, a.Active, a.Docile,
		photos, a.Status, a.Featured,
		a.AdopterName, a.AdopterContact, toNullTime(a.AdoptedAt),
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}
