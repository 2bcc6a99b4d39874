// Package postgres persists forecast snapshots in PostgreSQL.
//
// Each row holds the binary encoding of one forecast plus a few columns
// lifted out of it for querying. The document column is the source of truth.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/forecast-client/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by Latest when no snapshot exists for a location.
var ErrNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS forecasts (
	location_key TEXT             NOT NULL,
	lat          DOUBLE PRECISION NOT NULL,
	lon          DOUBLE PRECISION NOT NULL,
	fetched_at   TIMESTAMPTZ      NOT NULL,
	temperature  DOUBLE PRECISION,
	icon         TEXT,
	alert_count  INTEGER          NOT NULL DEFAULT 0,
	document     BYTEA            NOT NULL,
	PRIMARY KEY (location_key, fetched_at)
)`

const insertSnapshot = `
INSERT INTO forecasts (location_key, lat, lon, fetched_at, temperature, icon, alert_count, document)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (location_key, fetched_at) DO UPDATE SET
	temperature = $5, icon = $6, alert_count = $7, document = $8`

// Store writes and reads snapshots. It implements pipeline.Sink.
type Store struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// New connects to the database and checks it is reachable.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to db: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return &Store{pool: pool, logger: logger}, nil
}

// Migrate creates the snapshot table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (s *Store) Name() string { return "postgres" }

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// CheckReadiness pings the database.
func (s *Store) CheckReadiness(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// StoreBatch upserts all snapshots in one round trip.
func (s *Store) StoreBatch(ctx context.Context, snaps []domain.Snapshot) error {
	if len(snaps) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range snaps {
		args, err := snapshotRow(snaps[i])
		if err != nil {
			return err
		}
		batch.Queue(insertSnapshot, args...)
	}
	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()
	for i := range snaps {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert snapshot %s: %w", snaps[i].Location.Key(), err)
		}
	}
	s.logger.Debug("snapshots stored", "count", len(snaps))
	return nil
}

// Latest returns the most recent snapshot stored for a location.
func (s *Store) Latest(ctx context.Context, loc domain.Location) (domain.Snapshot, error) {
	var (
		snap = domain.Snapshot{Location: loc}
		doc  []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT fetched_at, document
		 FROM forecasts
		 WHERE location_key = $1
		 ORDER BY fetched_at DESC
		 LIMIT 1`,
		loc.Key(),
	).Scan(&snap.FetchedAt, &doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return snap, fmt.Errorf("latest snapshot %s: %w", loc.Key(), ErrNotFound)
	}
	if err != nil {
		return snap, fmt.Errorf("latest snapshot %s: %w", loc.Key(), err)
	}
	f, err := domain.DecodeBinary(doc)
	if err != nil {
		return snap, fmt.Errorf("latest snapshot %s: %w", loc.Key(), err)
	}
	snap.Forecast = f
	snap.FetchedAt = snap.FetchedAt.UTC()
	return snap, nil
}

// snapshotRow builds the insertSnapshot arguments for a snapshot.
func snapshotRow(snap domain.Snapshot) ([]any, error) {
	doc, err := domain.EncodeBinary(snap.Forecast)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot %s: %w", snap.Location.Key(), err)
	}
	var (
		temperature *float64
		icon        *string
	)
	if c := snap.Forecast.Currently; c != nil {
		temperature = c.Temperature
		if c.Icon != nil {
			name := c.Icon.String()
			icon = &name
		}
	}
	return []any{
		snap.Location.Key(),
		snap.Location.Lat,
		snap.Location.Lon,
		snap.FetchedAt,
		temperature,
		icon,
		len(snap.Forecast.Alerts),
		doc,
	}, nil
}
