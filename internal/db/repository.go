package db

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"checktxt/internal/check"
)

// CheckSummary is one row of the check history.
type CheckSummary struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"createdAt"`
	Language         string    `json:"language"`
	WordCount        int       `json:"wordCount"`
	ReadabilityLevel string    `json:"readabilityLevel,omitempty"`
	Uniqueness       *int      `json:"uniqueness,omitempty"`
	Warnings         int       `json:"warnings"`
	Highlights       int       `json:"highlights"`
}

// PersistCheck stores a report and its highlights. Only a hash of the text is
// kept.
func PersistCheck(dbPath string, report *check.Report, text string) error {
	conn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var level sql.NullString
	if report.Readability != nil {
		level = sql.NullString{String: string(report.Readability.Level), Valid: true}
	}
	var uniqueness sql.NullInt64
	if report.Plagiarism != nil {
		uniqueness = sql.NullInt64{Int64: int64(report.Plagiarism.Uniqueness), Valid: true}
	}
	sum := sha256.Sum256([]byte(text))

	if _, err := tx.Exec(
		`INSERT INTO checks(id, created_at, language, word_count, readability_level, uniqueness, warnings, text_sha) VALUES(?,?,?,?,?,?,?,?)`,
		report.ID,
		report.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(report.Language),
		report.WordCount,
		level,
		uniqueness,
		len(report.Warnings),
		hex.EncodeToString(sum[:]),
	); err != nil {
		return fmt.Errorf("insert check: %w", err)
	}

	for _, h := range report.Highlights {
		if _, err := tx.Exec(
			`INSERT INTO highlights(check_id, "offset", length, type, severity, message) VALUES(?,?,?,?,?,?)`,
			report.ID,
			h.Offset,
			h.Length,
			string(h.Type),
			string(h.Severity),
			h.Message,
		); err != nil {
			return fmt.Errorf("insert highlight: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// ListChecks returns the most recent checks first.
func ListChecks(dbPath string, limit int) ([]CheckSummary, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if limit <= 0 {
		limit = 20
	}
	rows, err := conn.Query(`
SELECT c.id, c.created_at, c.language, c.word_count, c.readability_level, c.uniqueness, c.warnings,
       (SELECT COUNT(*) FROM highlights h WHERE h.check_id = c.id)
FROM checks c
ORDER BY c.created_at DESC, c.id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	out := []CheckSummary{}
	for rows.Next() {
		var (
			s          CheckSummary
			created    string
			level      sql.NullString
			uniqueness sql.NullInt64
		)
		if err := rows.Scan(&s.ID, &created, &s.Language, &s.WordCount, &level, &uniqueness, &s.Warnings, &s.Highlights); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		s.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		s.ReadabilityLevel = level.String
		if uniqueness.Valid {
			u := int(uniqueness.Int64)
			s.Uniqueness = &u
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checks: %w", err)
	}
	return out, nil
}

func CountRows(dbPath, table string) (int, error) {
	conn, err := Open(dbPath)
	if err != nil {
		return 0, err
	}
	defer conn.Close()
	return countRowsConn(conn, table)
}

func countRowsConn(conn *sql.DB, table string) (int, error) {
	switch table {
	case "checks", "highlights":
	default:
		return 0, fmt.Errorf("unknown table %q", table)
	}
	row := conn.QueryRow(`SELECT COUNT(*) FROM ` + table)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count: %w", err)
	}
	return count, nil
}
