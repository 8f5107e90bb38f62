package content

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/JuniperCanon/core/bible"
	"github.com/FocuswithJustin/JuniperCanon/core/errors"
	"github.com/FocuswithJustin/JuniperCanon/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS verses (
	translation TEXT    NOT NULL,
	ordinal     INTEGER NOT NULL,
	text        TEXT    NOT NULL,
	PRIMARY KEY (translation, ordinal)
);
CREATE TABLE IF NOT EXISTS datasets (
	translation TEXT PRIMARY KEY,
	fingerprint TEXT NOT NULL
);
`

// Store is a SQLite-backed Source holding imported verse text.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	// A single connection keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.NewIO("initialise", path, err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Name identifies the store in logs.
func (s *Store) Name() string { return "sqlite:" + driverType }

// Path returns the database path.
func (s *Store) Path() string { return s.path }

// Put stores the text of one verse, replacing any previous text.
func (s *Store) Put(ctx context.Context, key Key, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO verses (translation, ordinal, text) VALUES (?, ?, ?)
		 ON CONFLICT (translation, ordinal) DO UPDATE SET text = excluded.text`,
		key.Translation, key.Ordinal, text)
	if err != nil {
		return errors.NewIO("store", key.String(), err)
	}
	return nil
}

// Text implements Source.
func (s *Store) Text(ctx context.Context, key Key) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT text FROM verses WHERE translation = ? AND ordinal = ?`,
		key.Translation, key.Ordinal).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", &errors.NotFoundError{Key: "text for " + key.String()}
	}
	if err != nil {
		return "", errors.NewIO("query", key.String(), err)
	}
	return text, nil
}

// Count returns the number of verses stored for translation.
func (s *Store) Count(ctx context.Context, translation string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM verses WHERE translation = ?`, translation).Scan(&n)
	if err != nil {
		return 0, errors.NewIO("count", translation, err)
	}
	return n, nil
}

// Import reads tab-separated "ordinal<TAB>text" lines into the store in a
// single transaction. Blank lines and lines starting with '#' are skipped.
// Every ordinal must name a verse of t. On success the fingerprint is
// recorded against the translation.
func (s *Store) Import(ctx context.Context, t *bible.Translation, fingerprint string, r io.Reader) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.NewIO("begin", s.path, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO verses (translation, ordinal, text) VALUES (?, ?, ?)
		 ON CONFLICT (translation, ordinal) DO UPDATE SET text = excluded.text`)
	if err != nil {
		return 0, errors.NewIO("prepare", s.path, err)
	}
	defer stmt.Close()

	n, line := 0, 0
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line++
		raw := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(raw) == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		ordinal, text, err := parseLine(raw)
		if err != nil {
			return n, errors.NewParse("TSV", fmt.Sprintf("line %d", line), err.Error())
		}
		if _, err := t.Verse(ordinal); err != nil {
			return n, errors.NewParse("TSV", fmt.Sprintf("line %d", line), err.Error())
		}
		if _, err := stmt.ExecContext(ctx, t.Name(), ordinal, text); err != nil {
			return n, errors.NewIO("store", fmt.Sprintf("line %d", line), err)
		}
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, errors.NewIO("read", "import", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO datasets (translation, fingerprint) VALUES (?, ?)
		 ON CONFLICT (translation) DO UPDATE SET fingerprint = excluded.fingerprint`,
		t.Name(), fingerprint); err != nil {
		return n, errors.NewIO("store", "fingerprint", err)
	}
	if err := tx.Commit(); err != nil {
		return n, errors.NewIO("commit", s.path, err)
	}
	return n, nil
}

func parseLine(raw string) (int, string, error) {
	num, text, ok := strings.Cut(raw, "\t")
	if !ok {
		return 0, "", fmt.Errorf("expected ordinal<TAB>text")
	}
	ordinal, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil {
		return 0, "", fmt.Errorf("ordinal %q is not a number", num)
	}
	return ordinal, text, nil
}

// Fingerprint returns the dataset fingerprint recorded by the last import
// for translation, or "" when none was recorded.
func (s *Store) Fingerprint(ctx context.Context, translation string) (string, error) {
	var fp string
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint FROM datasets WHERE translation = ?`, translation).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.NewIO("query", "fingerprint", err)
	}
	return fp, nil
}

// CheckFingerprint reports whether text for translation was imported
// against the dataset with the given fingerprint. A store with no recorded
// fingerprint matches. Mismatches are logged as warnings.
func (s *Store) CheckFingerprint(ctx context.Context, translation, fingerprint string) (bool, error) {
	recorded, err := s.Fingerprint(ctx, translation)
	if err != nil {
		return false, err
	}
	if recorded == "" || recorded == fingerprint {
		return true, nil
	}
	logging.WarnContext(ctx, "content_fingerprint_mismatch",
		"translation", translation, "recorded", recorded, "current", fingerprint)
	return false, nil
}
