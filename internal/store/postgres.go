package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dgallion1/poolproposal/internal/proposal"
)

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS proposals (
		id          TEXT PRIMARY KEY,
		status      VARCHAR(50) NOT NULL DEFAULT 'draft',
		status_note TEXT NOT NULL DEFAULT '',
		data        JSONB NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS proposals_updated_at_idx ON proposals (updated_at DESC);
`

// PostgresStore keeps each proposal as a jsonb document. Status columns are
// authoritative over the copy inside the document.
type PostgresStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore connects, pings and creates the schema if needed.
func NewPostgresStore(ctx context.Context, dsn string, maxConns int32, logger *slog.Logger) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = maxConns
	cfg.MinConns = 1
	cfg.MaxConnLifetime = time.Hour

	db, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	logger.Info("connected to postgres", "max_conns", maxConns)
	return &PostgresStore{db: db, logger: logger}, nil
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProposal(row scanner) (*proposal.Proposal, error) {
	var (
		data    []byte
		status  string
		note    string
		created time.Time
		updated time.Time
	)
	if err := row.Scan(&data, &status, &note, &created, &updated); err != nil {
		return nil, err
	}
	var p proposal.Proposal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode stored proposal: %w", err)
	}
	p.Status = proposal.Status(status)
	p.StatusNote = note
	p.CreatedAt = created
	p.UpdatedAt = updated
	return &p, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*proposal.Proposal, error) {
	row := s.db.QueryRow(ctx, `
		SELECT data, status, status_note, created_at, updated_at
		FROM proposals
		WHERE id = $1
	`, id)
	p, err := scanProposal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get proposal %s: %w", id, err)
	}
	return p, nil
}

func (s *PostgresStore) Put(ctx context.Context, p *proposal.Proposal) error {
	if err := validate(p); err != nil {
		return err
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode proposal %s: %w", p.ID, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO proposals (id, status, status_note, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET status = EXCLUDED.status,
			status_note = EXCLUDED.status_note,
			data = EXCLUDED.data,
			updated_at = now()
	`, p.ID, string(p.Status), p.StatusNote, data)
	if err != nil {
		return fmt.Errorf("put proposal %s: %w", p.ID, err)
	}
	return nil
}

// UpdateStatus locks the row so concurrent reviewers cannot both move the
// proposal out of the same state.
func (s *PostgresStore) UpdateStatus(ctx context.Context, id string, status proposal.Status, note string) (*proposal.Proposal, error) {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin status update: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	err = tx.QueryRow(ctx, `SELECT status FROM proposals WHERE id = $1 FOR UPDATE`, id).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read status %s: %w", id, err)
	}
	if err := checkTransition(proposal.Status(current), status); err != nil {
		return nil, err
	}

	row := tx.QueryRow(ctx, `
		UPDATE proposals
		SET status = $2, status_note = $3, updated_at = now()
		WHERE id = $1
		RETURNING data, status, status_note, created_at, updated_at
	`, id, string(status), note)
	p, err := scanProposal(row)
	if err != nil {
		return nil, fmt.Errorf("update status %s: %w", id, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit status %s: %w", id, err)
	}

	s.logger.Info("proposal status changed", "proposal_id", id, "from", current, "to", status)
	return p, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*proposal.Proposal, error) {
	rows, err := s.db.Query(ctx, `
		SELECT data, status, status_note, created_at, updated_at
		FROM proposals
		ORDER BY updated_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list proposals: %w", err)
	}
	defer rows.Close()

	var out []*proposal.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, fmt.Errorf("list proposals: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
