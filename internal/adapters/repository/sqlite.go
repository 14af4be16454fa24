package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/fancred/fancred/internal/domain/model"
)

// SQLiteStore persists activity records to a SQLite database so counters
// survive restarts. The driver serializes writes; the UPSERT increments
// keep concurrent actions for the same account lossless.
type SQLiteStore struct {
	db       *sql.DB
	baseline BaselineGenerator
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at path and runs
// migrations.
func NewSQLiteStore(path string, opts ...Option) (*SQLiteStore, error) {
	st := newSettings(opts)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode keeps reads cheap while actions write.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, baseline: st.baseline}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	const stmt = `CREATE TABLE IF NOT EXISTS activity (
		account_id        TEXT PRIMARY KEY,
		nfts_held         INTEGER NOT NULL,
		rituals_completed INTEGER NOT NULL,
		chz_balance       REAL    NOT NULL
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("create activity table: %w", err)
	}
	return nil
}

// ensure seeds a baseline row for accountID if none exists. The insert
// is a no-op when another writer got there first.
func (s *SQLiteStore) ensure(ctx context.Context, accountID string) error {
	rec := s.baseline.Baseline(accountID)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity (account_id, nfts_held, rituals_completed, chz_balance)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(account_id) DO NOTHING`,
		accountID, rec.NFTsHeld, rec.RitualsCompleted, rec.CHZBalance,
	)
	if err != nil {
		return fmt.Errorf("seed activity row: %w", err)
	}
	return nil
}

func (s *SQLiteStore) get(ctx context.Context, accountID string) (model.ActivityRecord, error) {
	rec := model.ActivityRecord{AccountID: accountID}
	err := s.db.QueryRowContext(ctx,
		`SELECT nfts_held, rituals_completed, chz_balance FROM activity WHERE account_id = ?`,
		accountID,
	).Scan(&rec.NFTsHeld, &rec.RitualsCompleted, &rec.CHZBalance)
	if err != nil {
		return model.ActivityRecord{}, fmt.Errorf("read activity row: %w", err)
	}
	return rec, nil
}

// GetOrCreate returns the record for accountID, seeding it if unseen.
func (s *SQLiteStore) GetOrCreate(ctx context.Context, accountID string) (model.ActivityRecord, error) {
	if accountID == "" {
		return model.ActivityRecord{}, ErrInvalidAccount
	}
	rec, err := s.get(ctx, accountID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.ActivityRecord{}, err
	}
	if err := s.ensure(ctx, accountID); err != nil {
		return model.ActivityRecord{}, err
	}
	return s.get(ctx, accountID)
}

// Apply increments the counter named by action atomically in SQL and
// returns the updated record.
func (s *SQLiteStore) Apply(ctx context.Context, accountID string, action Action) (model.ActivityRecord, error) {
	if accountID == "" {
		return model.ActivityRecord{}, ErrInvalidAccount
	}

	var column string
	switch action {
	case ActionCompleteRitual:
		column = "rituals_completed"
	case ActionAcquireNFT:
		column = "nfts_held"
	default:
		return model.ActivityRecord{}, ErrInvalidAction
	}

	if _, err := s.GetOrCreate(ctx, accountID); err != nil {
		return model.ActivityRecord{}, err
	}

	// column comes from the switch above, never from input.
	stmt := fmt.Sprintf(`UPDATE activity SET %s = %s + 1 WHERE account_id = ?`, column, column)
	if _, err := s.db.ExecContext(ctx, stmt, accountID); err != nil {
		return model.ActivityRecord{}, fmt.Errorf("apply %s: %w", action, err)
	}
	return s.get(ctx, accountID)
}

// Count returns the number of accounts tracked.
func (s *SQLiteStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM activity`).Scan(&n); err != nil {
		return 0
	}
	return n
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}
