package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wonny/finhealth/backend/internal/contracts"
)

// ErrSnapshotNotArchived means no snapshot was ever stored for the symbol
var ErrSnapshotNotArchived = errors.New("snapshot not archived")

// SnapshotRepository implements contracts.SnapshotArchive on PostgreSQL
// ⭐ SSOT: 스냅샷 아카이브 저장소는 여기서만
type SnapshotRepository struct {
	pool *pgxpool.Pool
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(pool *pgxpool.Pool) *SnapshotRepository {
	return &SnapshotRepository{pool: pool}
}

// EnsureSchema creates the archive table if it does not exist
func (r *SnapshotRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE SCHEMA IF NOT EXISTS finhealth;
		CREATE TABLE IF NOT EXISTS finhealth.snapshots (
			symbol     TEXT        NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL,
			payload    JSONB       NOT NULL,
			PRIMARY KEY (symbol, fetched_at)
		);
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure snapshot schema: %w", err)
	}
	return nil
}

// Save archives one raw provider snapshot
func (r *SnapshotRepository) Save(ctx context.Context, symbol string, snapshot *contracts.MarketSnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", symbol, err)
	}

	query := `
		INSERT INTO finhealth.snapshots (symbol, fetched_at, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (symbol, fetched_at) DO UPDATE SET
			payload = EXCLUDED.payload
	`

	if _, err := r.pool.Exec(ctx, query, strings.ToUpper(symbol), snapshot.FetchedAt, payload); err != nil {
		return fmt.Errorf("save snapshot %s: %w", symbol, err)
	}
	return nil
}

// Latest returns the most recently archived snapshot for symbol
func (r *SnapshotRepository) Latest(ctx context.Context, symbol string) (*contracts.MarketSnapshot, error) {
	query := `
		SELECT payload
		FROM finhealth.snapshots
		WHERE symbol = $1
		ORDER BY fetched_at DESC
		LIMIT 1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, strings.ToUpper(symbol)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", symbol, ErrSnapshotNotArchived)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", symbol, err)
	}

	var snapshot contracts.MarketSnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", symbol, err)
	}
	return &snapshot, nil
}
