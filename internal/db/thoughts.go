package db

import (
	"database/sql"
	"strings"

	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = errors.NewConflict("unique constraint violation")

// InsertThought stores a newly captured thought.
func InsertThought(db *sql.DB, t *para.Thought) error {
	query := `
		INSERT INTO thoughts (
			id, title, content, content_norm, status, processed,
			project_tag, area_tag, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		t.ID, t.Title, t.Content, para.Normalize(t.Content),
		t.Status.String(), boolToInt(t.Processed),
		toNullString(t.ProjectTag), toNullString(t.AreaTag), t.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// GetThought retrieves a thought by its ULID.
func GetThought(db *sql.DB, id string) (*para.Thought, error) {
	query := `
		SELECT id, title, content, status, processed, project_tag, area_tag, created_at
		FROM thoughts
		WHERE id = ?
	`

	row := db.QueryRow(query, id)
	t, err := scanThought(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("thought", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return t, nil
}

// UpdateThoughtStatus persists the lifecycle fields of a thought.
func UpdateThoughtStatus(db *sql.DB, t *para.Thought) error {
	query := `
		UPDATE thoughts
		SET status = ?, processed = ?
		WHERE id = ?
	`

	result, err := db.Exec(query, t.Status.String(), boolToInt(t.Processed), t.ID)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("thought", t.ID)
	}

	return nil
}

// ListThoughts returns thoughts newest-first, optionally filtered by status.
// A limit of 0 means no limit.
func ListThoughts(db *sql.DB, status string, limit int) ([]*para.Thought, error) {
	query := `
		SELECT id, title, content, status, processed, project_tag, area_tag, created_at
		FROM thoughts
	`
	args := []any{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var thoughts []*para.Thought
	for rows.Next() {
		t, err := scanThoughtRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		thoughts = append(thoughts, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return thoughts, nil
}

// CompletedContentExists reports whether a completed thought already carries
// the given content. With normalized=true the comparison ignores case and
// whitespace differences; otherwise it is exact.
func CompletedContentExists(db *sql.DB, content string, normalized bool) (bool, error) {
	var query string
	var arg string
	if normalized {
		query = `SELECT 1 FROM thoughts WHERE content_norm = ? AND status = 'completed' LIMIT 1`
		arg = para.Normalize(content)
	} else {
		query = `SELECT 1 FROM thoughts WHERE content = ? AND status = 'completed' LIMIT 1`
		arg = content
	}

	var exists int
	err := db.QueryRow(query, arg).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}

	return true, nil
}

func scanThought(row *sql.Row) (*para.Thought, error) {
	var (
		t          para.Thought
		status     string
		processed  int
		projectTag sql.NullString
		areaTag    sql.NullString
	)

	err := row.Scan(&t.ID, &t.Title, &t.Content, &status, &processed, &projectTag, &areaTag, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	t.Status = para.Status(status)
	t.Processed = processed != 0
	t.ProjectTag = fromNullString(projectTag)
	t.AreaTag = fromNullString(areaTag)

	return &t, nil
}

func scanThoughtRows(rows *sql.Rows) (*para.Thought, error) {
	var (
		t          para.Thought
		status     string
		processed  int
		projectTag sql.NullString
		areaTag    sql.NullString
	)

	err := rows.Scan(&t.ID, &t.Title, &t.Content, &status, &processed, &projectTag, &areaTag, &t.CreatedAt)
	if err != nil {
		return nil, err
	}

	t.Status = para.Status(status)
	t.Processed = processed != 0
	t.ProjectTag = fromNullString(projectTag)
	t.AreaTag = fromNullString(areaTag)

	return &t, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
