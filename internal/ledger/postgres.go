// Package ledger keeps a Postgres record of bookings that reached the calendar.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"booking-service/internal/booking"
)

// DB is the subset of pgxpool.Pool the ledger uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const schema = `CREATE TABLE IF NOT EXISTS booking_events (
	id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	event_id     TEXT NOT NULL UNIQUE,
	name         TEXT NOT NULL,
	email        TEXT NOT NULL,
	booking_date DATE NOT NULL,
	booking_time TEXT NOT NULL,
	notes        TEXT NOT NULL DEFAULT '',
	meet_link    TEXT,
	lang         TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
)`

type Postgres struct {
	DB  DB
	Now func() time.Time
}

// Connect opens a pool against url and makes sure the table exists.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, *Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, nil, fmt.Errorf("connect ledger db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping ledger db: %w", err)
	}
	l := New(pool)
	if err := l.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pool, l, nil
}

func New(db DB) *Postgres {
	return &Postgres{DB: db, Now: time.Now}
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create booking_events: %w", err)
	}
	return nil
}

// Record implements booking.Ledger. A repeated event id is ignored.
func (p *Postgres) Record(ctx context.Context, r booking.Record) error {
	q := `INSERT INTO booking_events
	      (event_id, name, email, booking_date, booking_time, notes, meet_link, lang, created_at)
	      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	      ON CONFLICT (event_id) DO NOTHING`

	var meet *string
	if r.MeetLink != "" {
		meet = &r.MeetLink
	}
	_, err := p.DB.Exec(ctx, q,
		r.EventID, r.Name, r.Email, r.Date, r.Time, r.Notes, meet, string(r.Lang), p.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert booking %s: %w", r.EventID, err)
	}
	return nil
}

// Entry is a stored booking as returned by ListByDate.
type Entry struct {
	EventID   string
	Name      string
	Email     string
	Time      string
	MeetLink  string
	CreatedAt time.Time
}

// ListByDate returns the bookings recorded for date (YYYY-MM-DD) ordered by time.
func (p *Postgres) ListByDate(ctx context.Context, date string) ([]Entry, error) {
	q := `SELECT event_id, name, email, booking_time, COALESCE(meet_link, ''), created_at
	      FROM booking_events WHERE booking_date = $1 ORDER BY booking_time`
	rows, err := p.DB.Query(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.EventID, &e.Name, &e.Email, &e.Time, &e.MeetLink, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
