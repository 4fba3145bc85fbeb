package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema for the Postgres store. Applied by Migrate; idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS participants (
	id           TEXT PRIMARY KEY,
	session_id   TEXT NOT NULL REFERENCES sessions(id),
	display_name TEXT NOT NULL,
	avatar_color TEXT NOT NULL,
	role         TEXT NOT NULL,
	active       BOOLEAN NOT NULL DEFAULT true,
	joined_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS cursors (
	session_id     TEXT NOT NULL,
	participant_id TEXT NOT NULL,
	file_path      TEXT NOT NULL,
	line           INT NOT NULL,
	col            INT NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (session_id, participant_id, file_path)
);

CREATE TABLE IF NOT EXISTS operations (
	id             TEXT PRIMARY KEY,
	session_id     TEXT NOT NULL,
	participant_id TEXT NOT NULL,
	file_path      TEXT NOT NULL,
	kind           TEXT NOT NULL,
	position       INT NOT NULL,
	length         INT NOT NULL,
	text           TEXT NOT NULL,
	base_version   BIGINT NOT NULL,
	version        BIGINT NOT NULL,
	applied_at     TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS operations_session_file_idx
	ON operations (session_id, file_path, version);

CREATE TABLE IF NOT EXISTS turn_events (
	session_id     TEXT NOT NULL,
	participant_id TEXT NOT NULL,
	action         TEXT NOT NULL,
	at             TIMESTAMPTZ NOT NULL
);
`

// Postgres is the production Store, backed by a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres connects to the database and verifies the connection.
func NewPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Migrate applies the schema. Idempotent; safe to run on every start.
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// FindSession implements Store.
func (p *Postgres) FindSession(ctx context.Context, id string) (SessionRecord, error) {
	var rec SessionRecord
	err := p.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM sessions WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Name, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return SessionRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return SessionRecord{}, fmt.Errorf("find session: %w", err)
	}
	return rec, nil
}

// CreateSession implements Store.
func (p *Postgres) CreateSession(ctx context.Context, rec SessionRecord) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO sessions (id, name, created_at) VALUES ($1, $2, $3)`,
		rec.ID, rec.Name, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// InsertParticipant implements Store. A reconnecting participant reuses its
// id, so the insert upserts on conflict.
func (p *Postgres) InsertParticipant(ctx context.Context, rec ParticipantRecord) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO participants (id, session_id, display_name, avatar_color, role, active, joined_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET active = EXCLUDED.active, joined_at = EXCLUDED.joined_at`,
		rec.ID, rec.SessionID, rec.DisplayName, rec.AvatarColor, rec.Role, rec.Active, rec.JoinedAt)
	if err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

// MarkParticipantInactive implements Store.
func (p *Postgres) MarkParticipantInactive(ctx context.Context, participantID string) error {
	_, err := p.pool.Exec(ctx,
		`UPDATE participants SET active = false WHERE id = $1`, participantID)
	if err != nil {
		return fmt.Errorf("mark participant inactive: %w", err)
	}
	return nil
}

// UpsertCursor implements Store.
func (p *Postgres) UpsertCursor(ctx context.Context, rec CursorRecord) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO cursors (session_id, participant_id, file_path, line, col, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (session_id, participant_id, file_path)
		 DO UPDATE SET line = EXCLUDED.line, col = EXCLUDED.col, updated_at = EXCLUDED.updated_at`,
		rec.SessionID, rec.ParticipantID, rec.FilePath, rec.Line, rec.Column, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert cursor: %w", err)
	}
	return nil
}

// InsertOperation implements Store.
func (p *Postgres) InsertOperation(ctx context.Context, rec OperationRecord) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO operations
		 (id, session_id, participant_id, file_path, kind, position, length, text, base_version, version, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.SessionID, rec.ParticipantID, rec.FilePath, rec.Kind,
		rec.Position, rec.Length, rec.Text, rec.BaseVersion, rec.Version, rec.AppliedAt)
	if err != nil {
		return fmt.Errorf("insert operation: %w", err)
	}
	return nil
}

// InsertTurnEvents implements Store. The batch is written in one round trip.
func (p *Postgres) InsertTurnEvents(ctx context.Context, sessionID string, events []TurnEventRecord) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(
			`INSERT INTO turn_events (session_id, participant_id, action, at) VALUES ($1, $2, $3, $4)`,
			sessionID, e.ParticipantID, e.Action, e.At)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert turn events: %w", err)
	}
	return nil
}

// Close implements Store.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

var _ Store = (*Postgres)(nil)
