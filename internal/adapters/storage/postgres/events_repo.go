package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"abrigo-animais/internal/domain/shelterevents"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

const eventColumns = `
	id, title, description, event_type,
	starts_at, ends_at, location, latitude, longitude,
	max_participants, participants,
	status, public,
	created_by, created_at, updated_at`

func (r *EventsRepo) Create(ctx context.Context, e shelterevents.Event) error {
	participants, err := toJSON(e.Participants)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO events (`+eventColumns+`)
		VALUES ($1,$2,$3,$4,
			$5,$6,$7,$8,$9,
			$10,$11,
			$12,$13,
			$14,$15,$16)
	`,
		e.ID, e.Title, e.Description, e.Type,
		e.StartsAt, toNullTime(e.EndsAt), e.Location, toNullFloat(e.Latitude), toNullFloat(e.Longitude),
		toNullInt(e.MaxParticipants), participants,
		e.Status, e.Public,
		e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	)
	return err
}

func scanEvent(row rowScanner) (shelterevents.Event, error) {
	var e shelterevents.Event
	var endsAt sql.NullTime
	var lat, lon sql.NullFloat64
	var maxPart sql.NullInt64
	var participants []byte

	if err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Type,
		&e.StartsAt, &endsAt, &e.Location, &lat, &lon,
		&maxPart, &participants,
		&e.Status, &e.Public,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return shelterevents.Event{}, shelterevents.ErrNotFound
		}
		return shelterevents.Event{}, err
	}

	if err := fromJSON(participants, &e.Participants); err != nil {
		return shelterevents.Event{}, err
	}
	e.EndsAt = fromNullTime(endsAt)
	e.Latitude = fromNullFloat(lat)
	e.Longitude = fromNullFloat(lon)
	e.MaxParticipants = fromNullInt(maxPart)
	return e, nil
}

func (r *EventsRepo) GetByID(ctx context.Context, id string) (shelterevents.Event, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return shelterevents.Event{}, shelterevents.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1
	`, id)
	return scanEvent(row)
}

func (r *EventsRepo) List(ctx context.Context, f shelterevents.ListFilter, page, limit int) ([]shelterevents.Event, int64, error) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 6)

	if f.Type != "" {
		args = append(args, f.Type)
		conds = append(conds, fmt.Sprintf("event_type = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.PublicOnly {
		conds = append(conds, "public = TRUE")
	}
	if f.UpcomingAfter != nil {
		args = append(args, *f.UpcomingAfter)
		conds = append(conds, fmt.Sprintf("starts_at > $%d", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events `+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	// A agenda sai em ordem cronológica, diferente das outras listagens.
	args = append(args, limit, offsetFor(page, limit))
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events `+where+`
		ORDER BY starts_at ASC
		LIMIT $`+fmt.Sprint(len(args)-1)+` OFFSET $`+fmt.Sprint(len(args)),
		args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]shelterevents.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

func (r *EventsRepo) Update(ctx context.Context, e shelterevents.Event) error {
	participants, err := toJSON(e.Participants)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE events SET
			title = $2, description = $3, event_type = $4,
			starts_at = $5, ends_at = $6, location = $7, latitude = $8, longitude = $9,
			max_participants = $10, participants = $11,
			status = $12, public = $13,
			updated_at = $14
		WHERE id = $1
	`,
		e.ID, e.Title, e.Description, e.Type,
		e.StartsAt, toNullTime(e.EndsAt), e.Location, toNullFloat(e.Latitude), toNullFloat(e.Longitude),
		toNullInt(e.MaxParticipants), participants,
		e.Status, e.Public,
		e.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return shelterevents.ErrNotFound
	}
	return nil
}

func (r *EventsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return shelterevents.ErrNotFound
	}
	return nil
}
