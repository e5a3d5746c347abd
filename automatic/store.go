package automatic

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	run_id     TEXT    NOT NULL,
	game_id    INTEGER NOT NULL,
	seed       INTEGER NOT NULL,
	pieces     INTEGER NOT NULL,
	lines      INTEGER NOT NULL,
	garbage    INTEGER NOT NULL,
	topped_out INTEGER NOT NULL,
	field_hash TEXT    NOT NULL,
	PRIMARY KEY (run_id, game_id)
)`

// ResultStore keeps finished self-play games in a sqlite database.
type ResultStore struct {
	db *sql.DB
}

// OpenResultStore opens (creating if needed) the database at path.
func OpenResultStore(ctx context.Context, path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening results db: %w", err)
	}
	// sqlite allows a single writer.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating results schema: %w", err)
	}
	return &ResultStore{db: db}, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

// Save records a game under runID, replacing an earlier record of the same
// game.
func (s *ResultStore) Save(ctx context.Context, runID string, res *GameResult) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO games
		(run_id, game_id, seed, pieces, lines, garbage, topped_out, field_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, res.GameID, int64(res.Seed), res.Pieces, res.Lines, res.Garbage,
		res.ToppedOut, fmt.Sprintf("%016x", res.FieldHash))
	if err != nil {
		return fmt.Errorf("saving game %d: %w", res.GameID, err)
	}
	return nil
}

// Load returns the games of a run ordered by game id.
func (s *ResultStore) Load(ctx context.Context, runID string) ([]*GameResult, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT game_id, seed, pieces, lines, garbage,
		topped_out, field_hash FROM games WHERE run_id = ? ORDER BY game_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*GameResult
	for rows.Next() {
		var (
			res  GameResult
			seed int64
			hash string
		)
		if err := rows.Scan(&res.GameID, &seed, &res.Pieces, &res.Lines, &res.Garbage,
			&res.ToppedOut, &hash); err != nil {
			return nil, err
		}
		res.Seed = uint64(seed)
		if _, err := fmt.Sscanf(hash, "%x", &res.FieldHash); err != nil {
			return nil, fmt.Errorf("bad field hash %q: %w", hash, err)
		}
		out = append(out, &res)
	}
	return out, rows.Err()
}

// Runs lists the run ids in the store.
func (s *ResultStore) Runs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT run_id FROM games ORDER BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}
