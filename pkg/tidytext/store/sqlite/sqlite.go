package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/tidytext/pkg/tidytext/internalerr"
	"github.com/cognicore/tidytext/pkg/tidytext/store"
	"github.com/cognicore/tidytext/pkg/tidytext/table"
)

// sqliteStore implements store.Store on a single SQLite file.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a SQLite database with WAL mode enabled.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS stopwords (
	list TEXT NOT NULL,
	word TEXT NOT NULL,
	PRIMARY KEY (list, word)
);

CREATE TABLE IF NOT EXISTS lexicons (
	name TEXT PRIMARY KEY,
	scored INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS lexicon_entries (
	lexicon TEXT NOT NULL REFERENCES lexicons(name) ON DELETE CASCADE,
	word TEXT NOT NULL,
	sentiment TEXT NOT NULL DEFAULT '',
	value INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (lexicon, word, sentiment)
);

CREATE TABLE IF NOT EXISTS tidy_tables (
	name TEXT PRIMARY KEY,
	body TEXT NOT NULL,
	saved_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lexicon_entries_word ON lexicon_entries(word);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// PutStopwords replaces the named list in a single transaction. An empty
// list removes it.
func (s *sqliteStore) PutStopwords(ctx context.Context, name string, terms []string) error {
	if name == "" {
		return fmt.Errorf("stopwords need a name: %w", internalerr.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stopwords WHERE list=?`, name); err != nil {
		return err
	}
	if len(terms) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO stopwords (list, word) VALUES (?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, w := range terms {
			if w == "" {
				continue
			}
			if _, err := stmt.ExecContext(ctx, name, w); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Stopwords(ctx context.Context, name string) ([]string, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stopwords WHERE list=?`, name).Scan(&n); err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("stopwords %q: %w", name, internalerr.ErrNotFound)
	}
	return s.loadStringColumn(ctx, `SELECT word FROM stopwords WHERE list=? ORDER BY word`, name)
}

func (s *sqliteStore) StopwordNames(ctx context.Context) ([]string, error) {
	return s.loadStringColumn(ctx, `SELECT DISTINCT list FROM stopwords ORDER BY list`)
}

// PutLexicon replaces the named lexicon and all its entries.
func (s *sqliteStore) PutLexicon(ctx context.Context, lex store.Lexicon) error {
	if lex.Name == "" {
		return fmt.Errorf("lexicon needs a name: %w", internalerr.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// foreign_keys is per connection, so entries are not left to the cascade
	if _, err := tx.ExecContext(ctx, `DELETE FROM lexicon_entries WHERE lexicon=?`, lex.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM lexicons WHERE name=?`, lex.Name); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO lexicons (name, scored) VALUES (?, ?)`, lex.Name, boolInt(lex.Scored)); err != nil {
		return err
	}
	if len(lex.Entries) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO lexicon_entries (lexicon, word, sentiment, value) VALUES (?, ?, ?, ?)
ON CONFLICT(lexicon, word, sentiment) DO UPDATE SET value=excluded.value;
`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, e := range lex.Entries {
			if _, err := stmt.ExecContext(ctx, lex.Name, e.Word, e.Sentiment, e.Value); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

func (s *sqliteStore) Lexicon(ctx context.Context, name string) (store.Lexicon, error) {
	out := store.Lexicon{Name: name}
	var scored int64
	err := s.db.QueryRowContext(ctx, `SELECT scored FROM lexicons WHERE name=?`, name).Scan(&scored)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Lexicon{}, fmt.Errorf("lexicon %q: %w", name, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Lexicon{}, err
	}
	out.Scored = scored != 0

	rows, err := s.db.QueryContext(ctx, `
SELECT word, sentiment, value FROM lexicon_entries
WHERE lexicon=? ORDER BY word, sentiment`, name)
	if err != nil {
		return store.Lexicon{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var e store.LexiconEntry
		if err := rows.Scan(&e.Word, &e.Sentiment, &e.Value); err != nil {
			return store.Lexicon{}, err
		}
		out.Entries = append(out.Entries, e)
	}
	return out, rows.Err()
}

func (s *sqliteStore) LexiconNames(ctx context.Context) ([]string, error) {
	return s.loadStringColumn(ctx, `SELECT name FROM lexicons ORDER BY name`)
}

// SaveTable stores t, schema included, replacing any table of the same name.
func (s *sqliteStore) SaveTable(ctx context.Context, name string, t *table.Table) error {
	if name == "" || t == nil {
		return fmt.Errorf("save table needs a name and a table: %w", internalerr.ErrInvalidInput)
	}
	body, err := store.EncodeTable(t)
	if err != nil {
		return fmt.Errorf("encode table %q: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO tidy_tables (name, body, saved_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET body=excluded.body, saved_at=excluded.saved_at;
`, name, string(body), time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *sqliteStore) LoadTable(ctx context.Context, name string) (*table.Table, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM tidy_tables WHERE name=?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("table %q: %w", name, internalerr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return store.DecodeTable([]byte(body))
}

func (s *sqliteStore) TableNames(ctx context.Context) ([]string, error) {
	names, err := s.loadStringColumn(ctx, `SELECT name FROM tidy_tables`)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (s *sqliteStore) loadStringColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []string{}
	for rows.Next() {
		var val string
		if err := rows.Scan(&val); err != nil {
			return nil, err
		}
		result = append(result, val)
	}
	return result, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
