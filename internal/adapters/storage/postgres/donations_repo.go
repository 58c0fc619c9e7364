package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"abrigo-animais/internal/domain/donations"
)

type DonationsRepo struct {
	db *sql.DB
}

func NewDonationsRepo(db *sql.DB) *DonationsRepo {
	return &DonationsRepo{db: db}
}

const donationColumns = `
	id, donor_name, donor_email, donor_phone,
	donation_type, amount, description, status,
	recurring, recurrence_interval, registrar_id,
	created_at, updated_at`

func (r *DonationsRepo) Create(ctx context.Context, d donations.Donation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO donations (`+donationColumns+`)
		VALUES ($1,$2,$3,$4,
			$5,$6,$7,$8,
			$9,$10,$11,
			$12,$13)
	`,
		d.ID, d.DonorName, d.DonorEmail, d.DonorPhone,
		d.Type, toNullFloat(d.Amount), d.Description, d.Status,
		d.Recurring, d.RecurrenceInterval, d.RegistrarID,
		d.CreatedAt, d.UpdatedAt,
	)
	return err
}

func scanDonation(row rowScanner) (donations.Donation, error) {
	var d donations.Donation
	var amount sql.NullFloat64

	if err := row.Scan(
		&d.ID, &d.DonorName, &d.DonorEmail, &d.DonorPhone,
		&d.Type, &amount, &d.Description, &d.Status,
		&d.Recurring, &d.RecurrenceInterval, &d.RegistrarID,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return donations.Donation{}, donations.ErrNotFound
		}
		return donations.Donation{}, err
	}

	d.Amount = fromNullFloat(amount)
	return d, nil
}

func (r *DonationsRepo) GetByID(ctx context.Context, id string) (donations.Donation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return donations.Donation{}, donations.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+donationColumns+`
		FROM donations
		WHERE id = $1
	`, id)
	return scanDonation(row)
}

func (r *DonationsRepo) List(ctx context.Context, f donations.ListFilter, page, limit int) ([]donations.Donation, int64, error) {
	conds := make([]string, 0, 2)
	args := make([]any, 0, 4)

	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("donation_type = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM donations `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offsetFor(page, limit))
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+donationColumns+`
		FROM donations `+where+`
		ORDER BY created_at DESC
		LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]donations.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *DonationsRepo) Update(ctx context.Context, d donations.Donation) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE donations SET
			status = $2, updated_at = $3
		WHERE id = $1
	`,
		d.ID, d.Status, d.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return donations.ErrNotFound
	}
	return nil
}

func (r *DonationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM donations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return donations.ErrNotFound
	}
	return nil
}

// Stats agrega tudo no banco: contagens por tipo e status e a soma do
// dinheiro confirmado + recebido.
func (r *DonationsRepo) Stats(ctx context.Context) (donations.Stats, error) {
	stats := donations.Stats{
		ByType:   map[string]int64{},
		ByStatus: map[string]int64{},
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT donation_type, status, COUNT(*)
		FROM donations
		GROUP BY donation_type, status
	`)
	if err != nil {
		return donations.Stats{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var dType, status string
		var count int64
		if err := rows.Scan(&dType, &status, &count); err != nil {
			return donations.Stats{}, err
		}
		stats.Total += count
		stats.ByType[dType] += count
		stats.ByStatus[status] += count
	}
	if err := rows.Err(); err != nil {
		return donations.Stats{}, err
	}

	if err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM donations
		WHERE donation_type = 'money'
		  AND status IN ('confirmed', 'received')
	`).Scan(&stats.TotalAmount); err != nil {
		return donations.Stats{}, err
	}

	return stats, nil
}
