package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/cognicore/tidytext/pkg/tidytext/store"
)

func TestSchemaCreationIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open database: %v", err)
	}
	defer db.Close()

	for i := 0; i < 3; i++ {
		if err := initSchema(ctx, db); err != nil {
			t.Fatalf("initSchema iteration %d: %v", i, err)
		}
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&count)
	if err != nil {
		t.Fatalf("Count tables: %v", err)
	}
	if count != 4 { // stopwords, lexicons, lexicon_entries, tidy_tables
		t.Errorf("expected 4 tables, got %d", count)
	}
}

func TestReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tidy.db")

	st, err := OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := st.PutStopwords(ctx, "mine", []string{"zap"}); err != nil {
		t.Fatalf("PutStopwords: %v", err)
	}
	st.Close()

	st, err = OpenSQLite(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer st.Close()
	got, err := st.Stopwords(ctx, "mine")
	if err != nil || len(got) != 1 || got[0] != "zap" {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestPutLexiconReplacesWithoutForeignKeys(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "nofk.db"))
	if err != nil {
		t.Fatalf("Open database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=OFF"); err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if err := initSchema(ctx, db); err != nil {
		t.Fatalf("initSchema: %v", err)
	}
	st := &sqliteStore{db: db}
	defer st.Close()

	first := store.Lexicon{Name: "mine", Entries: []store.LexiconEntry{
		{Word: "good", Sentiment: "positive"},
		{Word: "bad", Sentiment: "negative"},
	}}
	if err := st.PutLexicon(ctx, first); err != nil {
		t.Fatalf("PutLexicon: %v", err)
	}
	second := store.Lexicon{Name: "mine", Entries: []store.LexiconEntry{
		{Word: "great", Sentiment: "positive"},
	}}
	if err := st.PutLexicon(ctx, second); err != nil {
		t.Fatalf("PutLexicon replace: %v", err)
	}

	got, err := st.Lexicon(ctx, "mine")
	if err != nil {
		t.Fatalf("Lexicon: %v", err)
	}
	if len(got.Entries) != 1 || got.Entries[0].Word != "great" {
		t.Errorf("expected only the replacement entry, got %+v", got.Entries)
	}
}
