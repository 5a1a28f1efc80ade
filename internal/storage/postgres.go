package storage

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists wallet state in a key/value table, one row per
// (scope, key). Save upserts all buffered writes in one transaction.
//
// Expected schema:
//
//	CREATE TABLE wallet_state (
//	    scope      TEXT NOT NULL,
//	    key        TEXT NOT NULL,
//	    value      TEXT NOT NULL,
//	    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    PRIMARY KEY (scope, key)
//	);
type Postgres struct {
	db    *pgxpool.Pool
	scope string

	mu      sync.Mutex
	pending map[string]string
}

// NewPostgres builds a Postgres-backed store scoped to one wallet.
func NewPostgres(db *pgxpool.Pool, scope string) *Postgres {
	return &Postgres{
		db:      db,
		scope:   scope,
		pending: make(map[string]string),
	}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRow(ctx,
		`SELECT value FROM wallet_state WHERE scope = $1 AND key = $2`,
		p.scope, key).Scan(&value)
	if err == pgx.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *Postgres) Set(_ context.Context, key, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending[key] = value
	return nil
}

func (p *Postgres) Save(ctx context.Context) error {
	p.mu.Lock()
	pending := p.pending
	p.pending = make(map[string]string)
	p.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	tx, err := p.db.Begin(ctx)
	if err != nil {
		p.restore(pending)
		return err
	}
	defer tx.Rollback(ctx)

	for k, v := range pending {
		if _, err := tx.Exec(ctx,
			`INSERT INTO wallet_state (scope, key, value, updated_at)
			 VALUES ($1, $2, $3, now())
			 ON CONFLICT (scope, key) DO UPDATE SET value = $3, updated_at = now()`,
			p.scope, k, v); err != nil {
			p.restore(pending)
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		p.restore(pending)
		return err
	}
	return nil
}

func (p *Postgres) restore(pending map[string]string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for k, v := range pending {
		if _, exists := p.pending[k]; !exists {
			p.pending[k] = v
		}
	}
}
