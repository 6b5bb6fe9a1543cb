// MIT License
//
// Copyright (c) 2025-2026 icx-labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/icx-labs/localic/ledger"
)

const schema = `
CREATE TABLE IF NOT EXISTS counters (
    canister TEXT PRIMARY KEY,
    value    BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS ledgers (
    canister TEXT PRIMARY KEY,
    snapshot JSONB NOT NULL
);`

// PostgresConfig holds the database connection settings.
type PostgresConfig struct {
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
}

// PostgresStore persists canister state in postgres.
type PostgresStore struct {
	config  *PostgresConfig
	pool    *pgxpool.Pool
	connStr string
	sb      sq.StatementBuilderType
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store for the given connection settings.
func NewPostgresStore(config *PostgresConfig) *PostgresStore {
	store := new(PostgresStore)
	store.config = config
	store.connStr = createConnectionString(config.DBHost, config.DBPort, config.DBName, config.DBUser, config.DBPassword)
	store.sb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	return store
}

func (s *PostgresStore) ID() string {
	return StateStoreID
}

func (s *PostgresStore) Start(ctx context.Context) error {
	config, err := pgxpool.ParseConfig(s.connStr)
	if err != nil {
		return errors.Wrap(err, "failed to parse connection string")
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return errors.Wrap(err, "failed to create the connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		return errors.Wrap(err, "failed to ping the database connection")
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		return errors.Wrap(err, "failed to bootstrap the schema")
	}

	s.pool = pool
	return nil
}

func (s *PostgresStore) Stop(context.Context) error {
	if s.pool == nil {
		return nil
	}
	s.pool.Close()
	return nil
}

func (s *PostgresStore) WriteCounter(ctx context.Context, name string, value uint64) error {
	query, args, err := s.sb.
		Insert("counters").
		Columns("canister", "value").
		Values(name, int64(value)).
		Suffix("ON CONFLICT (canister) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to write counter state for %s", name)
	}
	return nil
}

func (s *PostgresStore) GetCounter(ctx context.Context, name string) (uint64, bool, error) {
	query, args, err := s.sb.
		Select("value").
		From("counters").
		Where(sq.Eq{"canister": name}).
		ToSql()
	if err != nil {
		return 0, false, err
	}

	var value int64
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, errors.Wrapf(err, "failed to get counter state for %s", name)
	}
	return uint64(value), true, nil
}

func (s *PostgresStore) WriteLedger(ctx context.Context, name string, snapshot *ledger.Snapshot) error {
	if snapshot == nil {
		return errors.New("nil ledger snapshot")
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "failed to encode ledger snapshot")
	}

	query, args, err := s.sb.
		Insert("ledgers").
		Columns("canister", "snapshot").
		Values(name, payload).
		Suffix("ON CONFLICT (canister) DO UPDATE SET snapshot = EXCLUDED.snapshot").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "failed to write ledger snapshot for %s", name)
	}
	return nil
}

func (s *PostgresStore) GetLedger(ctx context.Context, name string) (*ledger.Snapshot, error) {
	query, args, err := s.sb.
		Select("snapshot").
		From("ledgers").
		Where(sq.Eq{"canister": name}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var payload []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to get ledger snapshot for %s", name)
	}

	snapshot := new(ledger.Snapshot)
	if err := json.Unmarshal(payload, snapshot); err != nil {
		return nil, errors.Wrap(err, "failed to decode ledger snapshot")
	}
	return snapshot, nil
}

func createConnectionString(host string, port int, name, user, password string) string {
	info := fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", host, port, user, name)
	if password != "" {
		info += fmt.Sprintf(" password=%s", password)
	}
	return info
}
