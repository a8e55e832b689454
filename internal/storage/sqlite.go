package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"bubbledash/internal/provider"
)

// DefaultListLimit caps List calls made without a positive limit.
const DefaultListLimit = 100

// SQLite persists settings and snapshots to a SQLite database.
type SQLite struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// SQLiteOption configures a SQLite store.
type SQLiteOption func(*SQLite)

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) SQLiteOption {
	return func(s *SQLite) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) SQLiteOption {
	return func(s *SQLite) { s.log = log }
}

// OpenSQLite opens (or creates) the database at path and runs migrations.
func OpenSQLite(path string, options ...SQLiteOption) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer; readers go through the same pool
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLite{db: db, log: zerolog.Nop(), now: time.Now}
	for _, option := range options {
		option(s)
	}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s.log.Info().Str("path", path).Msg("sqlite store opened")
	return s, nil
}

func (s *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS settings (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS quote_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at    INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			price          REAL,
			change         REAL,
			change_percent TEXT,
			volume         INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quote_symbol_ts ON quote_snapshots(symbol, recorded_at)`,

		`CREATE TABLE IF NOT EXISTS news_snapshots (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			recorded_at   INTEGER NOT NULL,
			query         TEXT NOT NULL,
			origin        TEXT NOT NULL,
			sentiment     REAL,
			intensity     REAL,
			article_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_news_query_ts ON news_snapshots(query, recorded_at)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLite) GetSetting(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLite) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO settings (key, value, updated_at) VALUES (?,?,?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, s.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (s *SQLite) RecordQuote(ctx context.Context, q *provider.Quote) error {
	if q == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO quote_snapshots
		(recorded_at, symbol, price, change, change_percent, volume)
		VALUES (?,?,?,?,?,?)`,
		s.now().UnixMilli(), q.Symbol, q.Price, q.Change, q.ChangePercent, q.Volume,
	)
	if err != nil {
		return fmt.Errorf("record quote %s: %w", q.Symbol, err)
	}
	return nil
}

func (s *SQLite) RecordNews(ctx context.Context, query string, res provider.NewsResult) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO news_snapshots
		(recorded_at, query, origin, sentiment, intensity, article_count)
		VALUES (?,?,?,?,?,?)`,
		s.now().UnixMilli(), query, string(res.Origin),
		res.Summary.Sentiment, res.Summary.Intensity, res.Summary.ArticleCount,
	)
	if err != nil {
		return fmt.Errorf("record news %q: %w", query, err)
	}
	return nil
}

// ListQuotes returns up to limit snapshots for symbol, newest first.
func (s *SQLite) ListQuotes(ctx context.Context, symbol string, limit int) ([]QuoteSnapshot, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT recorded_at, symbol, price, change, change_percent, volume
		FROM quote_snapshots WHERE symbol = ?
		ORDER BY recorded_at DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("list quotes %s: %w", symbol, err)
	}
	defer rows.Close()

	out := []QuoteSnapshot{}
	for rows.Next() {
		var (
			snap QuoteSnapshot
			ts   int64
		)
		if err := rows.Scan(&ts, &snap.Quote.Symbol, &snap.Quote.Price, &snap.Quote.Change, &snap.Quote.ChangePercent, &snap.Quote.Volume); err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		snap.RecordedAt = time.UnixMilli(ts).UTC()
		out = append(out, snap)
	}
	return out, rows.Err()
}

// ListNews returns up to limit snapshots for query, newest first.
func (s *SQLite) ListNews(ctx context.Context, query string, limit int) ([]NewsSnapshot, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `SELECT recorded_at, query, origin, sentiment, intensity, article_count
		FROM news_snapshots WHERE query = ?
		ORDER BY recorded_at DESC, id DESC LIMIT ?`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list news %q: %w", query, err)
	}
	defer rows.Close()

	out := []NewsSnapshot{}
	for rows.Next() {
		var (
			snap   NewsSnapshot
			ts     int64
			origin string
		)
		if err := rows.Scan(&ts, &snap.Query, &origin, &snap.Sentiment, &snap.Intensity, &snap.ArticleCount); err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		snap.Origin = provider.Origin(origin)
		snap.RecordedAt = time.UnixMilli(ts).UTC()
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *SQLite) Close() error {
	s.log.Info().Msg("closing sqlite store")
	return s.db.Close()
}
