// Package storage provides the Postgres-backed ping registry used when
// storage.driver is "postgres". The in-memory registry remains the default.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/unilinkup/bot/meetup"
)

// PostgresRegistry persists pings in the pings table.
type PostgresRegistry struct {
	db *sqlx.DB
}

// NewPostgresRegistry wraps an open database handle.
func NewPostgresRegistry(db *sqlx.DB) *PostgresRegistry {
	return &PostgresRegistry{db: db}
}

type pingRow struct {
	ID          int64          `db:"id"`
	OrganizerID int64          `db:"organizer_id"`
	Organizer   string         `db:"organizer_name"`
	Kind        string         `db:"kind"`
	Location    string         `db:"location"`
	MeetTime    string         `db:"meet_time"`
	Invitees    pq.StringArray `db:"invitees"`
	SentAt      time.Time      `db:"sent_at"`
}

func (r pingRow) toPing() meetup.Ping {
	return meetup.Ping{
		ID:          r.ID,
		OrganizerID: r.OrganizerID,
		Organizer:   r.Organizer,
		Kind:        meetup.Kind(r.Kind),
		Location:    r.Location,
		Time:        r.MeetTime,
		Invitees:    append([]string(nil), r.Invitees...),
		SentAt:      r.SentAt,
	}
}

// Record inserts the ping and returns the generated id.
func (r *PostgresRegistry) Record(ctx context.Context, p *meetup.Ping) (int64, error) {
	const query = `
		INSERT INTO pings (organizer_id, organizer_name, kind, location, meet_time, invitees, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		p.OrganizerID, p.Organizer, string(p.Kind), p.Location, p.Time,
		pq.StringArray(p.Invitees), p.SentAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert ping: %w", err)
	}
	return id, nil
}

// Recent returns up to limit pings for the organizer, newest first. Equal
// sent times keep insertion order via the ascending id column.
func (r *PostgresRegistry) Recent(ctx context.Context, organizerID int64, limit int) ([]meetup.Ping, error) {
	if limit <= 0 {
		return nil, nil
	}

	const query = `
		SELECT id, organizer_id, organizer_name, kind, location, meet_time, invitees, sent_at
		FROM pings
		WHERE organizer_id = $1
		ORDER BY sent_at DESC, id ASC
		LIMIT $2`

	var rows []pingRow
	if err := r.db.SelectContext(ctx, &rows, query, organizerID, limit); err != nil {
		return nil, fmt.Errorf("select recent pings: %w", err)
	}

	pings := make([]meetup.Ping, 0, len(rows))
	for _, row := range rows {
		pings = append(pings, row.toPing())
	}
	return pings, nil
}
