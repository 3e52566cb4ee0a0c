package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/lixenwraith/reelspin/game"
	"github.com/lixenwraith/reelspin/reel"
)

// ErrNotFound is returned when no round has the requested ID
var ErrNotFound = errors.New("round not found")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MemoryPath opens a private in-memory journal
const MemoryPath = ":memory:"

// Store is the SQLite round journal, implements game.Recorder
type Store struct {
	db      *sql.DB
	session uuid.UUID
}

// Open opens or creates the journal at path and starts a new session
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// One connection: an in-memory database exists per connection, and writes serialize anyway
	db.SetMaxOpenConns(1)

	if path != MemoryPath {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	return &Store{db: db, session: uuid.New()}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Session returns the ID stamped on rounds recorded through this store
func (s *Store) Session() uuid.UUID {
	return s.session
}

// Migrate creates the schema; safe to run on every start
func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			session TEXT NOT NULL,
			number INTEGER NOT NULL,
			symbols TEXT NOT NULL,
			matched TEXT NOT NULL DEFAULT '',
			multiplier INTEGER NOT NULL,
			positions TEXT NOT NULL,
			price INTEGER NOT NULL,
			win INTEGER NOT NULL,
			balance_before INTEGER NOT NULL,
			balance_after INTEGER NOT NULL,
			stop TEXT NOT NULL,
			completed_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_completed ON rounds(completed_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_session ON rounds(session, number)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("journal migration failed: %w", err)
		}
	}
	return nil
}

const insertRound = `INSERT INTO rounds (
	id, session, number, symbols, matched, multiplier, positions,
	price, win, balance_before, balance_after, stop, completed_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) insert(ex execer, r game.Round) error {
	symbols, err := json.Marshal(r.Symbols)
	if err != nil {
		return fmt.Errorf("encode symbols: %w", err)
	}
	positions := r.Payout.Positions
	if positions == nil {
		positions = []int{}
	}
	posJSON, err := json.Marshal(positions)
	if err != nil {
		return fmt.Errorf("encode positions: %w", err)
	}

	_, err = ex.Exec(insertRound,
		r.ID.String(), s.session.String(), r.Number, string(symbols), r.Payout.Symbol,
		r.Payout.Multiplier, string(posJSON), r.Price, r.Win, r.BalanceBefore,
		r.BalanceAfter, r.Stop.String(), r.CompletedAt.UnixMilli(),
	)
	return err
}

// Record stores one completed round
func (s *Store) Record(r game.Round) error {
	if err := s.insert(s.db, r); err != nil {
		return fmt.Errorf("record round %d: %w", r.Number, err)
	}
	return nil
}

// RecordBatch stores rounds in one transaction
func (s *Store) RecordBatch(rounds []game.Round) error {
	if len(rounds) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range rounds {
		if err := s.insert(tx, r); err != nil {
			return fmt.Errorf("record round %d: %w", r.Number, err)
		}
	}
	return tx.Commit()
}

const selectRound = `SELECT
	id, number, symbols, matched, multiplier, positions,
	price, win, balance_before, balance_after, stop, completed_at
	FROM rounds`

type scanner interface {
	Scan(dest ...any) error
}

func scanRound(row scanner) (game.Round, error) {
	var (
		r         game.Round
		id        string
		symbols   string
		positions string
		stop      string
		completed int64
	)
	err := row.Scan(
		&id, &r.Number, &symbols, &r.Payout.Symbol, &r.Payout.Multiplier, &positions,
		&r.Price, &r.Win, &r.BalanceBefore, &r.BalanceAfter, &stop, &completed,
	)
	if err != nil {
		return game.Round{}, err
	}

	if r.ID, err = uuid.Parse(id); err != nil {
		return game.Round{}, fmt.Errorf("decode id: %w", err)
	}
	if err := json.Unmarshal([]byte(symbols), &r.Symbols); err != nil {
		return game.Round{}, fmt.Errorf("decode symbols: %w", err)
	}
	if err := json.Unmarshal([]byte(positions), &r.Payout.Positions); err != nil {
		return game.Round{}, fmt.Errorf("decode positions: %w", err)
	}
	if len(r.Payout.Positions) == 0 {
		r.Payout.Positions = nil
	}
	r.Stop = reel.ParseStopKind(stop)
	r.CompletedAt = time.UnixMilli(completed).UTC()
	return r, nil
}

// Get returns the round with id
func (s *Store) Get(id uuid.UUID) (game.Round, error) {
	r, err := scanRound(s.db.QueryRow(selectRound+` WHERE id = ?`, id.String()))
	if errors.Is(err, sql.ErrNoRows) {
		return game.Round{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// Recent returns up to limit rounds, newest first
func (s *Store) Recent(limit int) ([]game.Round, error) {
	rows, err := s.db.Query(selectRound+` ORDER BY completed_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []game.Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary aggregates every recorded round
type Summary struct {
	Rounds     int64
	Wins       int64
	Wagered    int64
	Paid       int64
	BiggestWin int64
}

// RTP returns paid over wagered, zero for an empty journal
func (s Summary) RTP() decimal.Decimal {
	if s.Wagered == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.Paid).Div(decimal.NewFromInt(s.Wagered))
}

// HitRate returns the fraction of winning rounds
func (s Summary) HitRate() decimal.Decimal {
	if s.Rounds == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(s.Wins).Div(decimal.NewFromInt(s.Rounds))
}

// Summary returns totals over the whole journal
func (s *Store) Summary() (Summary, error) {
	var sum Summary
	err := s.db.QueryRow(`SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN win > 0 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(price), 0),
		COALESCE(SUM(win), 0),
		COALESCE(MAX(win), 0)
		FROM rounds`).Scan(&sum.Rounds, &sum.Wins, &sum.Wagered, &sum.Paid, &sum.BiggestWin)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize journal: %w", err)
	}
	return sum, nil
}
