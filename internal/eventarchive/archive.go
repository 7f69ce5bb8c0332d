// Package eventarchive provides a durable, queryable history of
// ledger events backed by SQLite.
//
// The archive is an append-only side record: the ledger does not
// depend on it, and a failed append never fails the originating
// operation. Its main consumer is the per-token history API.
package eventarchive

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/yndnr/mintvault-go/internal/core/domain"
)

// DefaultPageSize bounds history queries with no explicit limit.
const DefaultPageSize = 50

// MaxPageSize is the hard cap on one history page.
const MaxPageSize = 500

// Archive stores ledger events in a SQLite database.
type Archive struct {
	db *sql.DB
}

// Open opens (and if needed creates) the archive database at path.
// Use ":memory:" for an ephemeral archive.
func Open(path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("eventarchive: open %s: %w", path, err)
	}

	// The archive has a single writer; one connection avoids
	// SQLITE_BUSY under concurrent appends.
	db.SetMaxOpenConns(1)

	a := &Archive{db: db}
	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("eventarchive: migrate: %w", err)
	}
	return a, nil
}

func (a *Archive) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id        TEXT PRIMARY KEY,
		kind      TEXT NOT NULL,
		ts        INTEGER NOT NULL,
		token_id  INTEGER,
		from_addr TEXT,
		to_addr   TEXT,
		owner     TEXT,
		spender   TEXT,
		operator  TEXT,
		approved  INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_events_token ON events(token_id, ts);
	CREATE INDEX IF NOT EXISTS idx_events_ts ON events(ts);
	`
	_, err := a.db.Exec(schema)
	return err
}

// Append records one event. Duplicate event ids are ignored so that
// replays stay idempotent.
func (a *Archive) Append(ctx context.Context, ev *domain.Event) error {
	if ev == nil {
		return domain.ErrInvalidArgument.WithDetails("nil event")
	}

	_, err := a.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO events
			(id, kind, ts, token_id, from_addr, to_addr, owner, spender, operator, approved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Kind), ev.Timestamp, ev.TokenID,
		string(ev.From), string(ev.To),
		string(ev.Owner), string(ev.Spender), string(ev.Operator),
		boolToInt(ev.Approved),
	)
	if err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}

// TokenHistory returns events for one token, oldest first, starting
// at offset. Limit <= 0 selects the default page size.
func (a *Archive) TokenHistory(ctx context.Context, tokenID uint64, offset, limit int) ([]*domain.Event, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, kind, ts, token_id, from_addr, to_addr, owner, spender, operator, approved
		FROM events
		WHERE token_id = ?
		ORDER BY ts ASC, id ASC
		LIMIT ? OFFSET ?`,
		tokenID, limit, offset,
	)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Recent returns the newest events across all tokens, newest first.
func (a *Archive) Recent(ctx context.Context, limit int) ([]*domain.Event, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT id, kind, ts, token_id, from_addr, to_addr, owner, spender, operator, approved
		FROM events
		ORDER BY ts DESC, id DESC
		LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// Count returns the total number of archived events.
func (a *Archive) Count(ctx context.Context) (int64, error) {
	var n int64
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	if err != nil {
		return 0, domain.ErrStorage.WithCause(err)
	}
	return n, nil
}

// Close closes the underlying database.
func (a *Archive) Close() error {
	return a.db.Close()
}

func scanEvents(rows *sql.Rows) ([]*domain.Event, error) {
	var out []*domain.Event
	for rows.Next() {
		var (
			ev       domain.Event
			kind     string
			from     string
			toAddr   string
			owner    string
			spender  string
			operator string
			approved int
		)
		if err := rows.Scan(&ev.ID, &kind, &ev.Timestamp, &ev.TokenID,
			&from, &toAddr, &owner, &spender, &operator, &approved); err != nil {
			return nil, domain.ErrStorage.WithCause(err)
		}
		ev.Kind = domain.EventKind(kind)
		ev.From = domain.Address(from)
		ev.To = domain.Address(toAddr)
		ev.Owner = domain.Address(owner)
		ev.Spender = domain.Address(spender)
		ev.Operator = domain.Address(operator)
		ev.Approved = approved != 0
		out = append(out, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrStorage.WithCause(err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
