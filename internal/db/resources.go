package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
)

// InsertResource stores a new resource.
func InsertResource(db *sql.DB, r *para.Resource) error {
	tagsJSON, err := tagsToJSON(r.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO resources (
			id, title, content, category, tags_json,
			source_thought, deadline, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		r.ID, r.Title, r.Content, r.Category.String(), tagsJSON,
		toNullString(r.SourceThought), toNullInt64(r.Deadline),
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetResource retrieves a resource by its ULID.
func GetResource(db *sql.DB, id string) (*para.Resource, error) {
	query := `
		SELECT id, title, content, category, tags_json,
			source_thought, deadline, created_at, updated_at
		FROM resources
		WHERE id = ?
	`

	row := db.QueryRow(query, id)
	r, err := scanResource(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("resource", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// UpdateResource updates the mutable fields of an existing resource.
// Sets updated_at to current timestamp.
// Does NOT change: id, source_thought, created_at
func UpdateResource(db *sql.DB, r *para.Resource) error {
	tagsJSON, err := tagsToJSON(r.Tags)
	if err != nil {
		return err
	}

	now := time.Now().Unix()

	query := `
		UPDATE resources
		SET title = ?, content = ?, category = ?, tags_json = ?,
			deadline = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.Exec(query,
		r.Title, r.Content, r.Category.String(), tagsJSON,
		toNullInt64(r.Deadline), now, r.ID,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("resource", r.ID)
	}

	r.UpdatedAt = now

	return nil
}

// ListResources returns resources newest-first, optionally filtered by
// category. A limit of 0 means no limit.
func ListResources(db *sql.DB, category string, limit int) ([]*para.Resource, error) {
	query := `
		SELECT id, title, content, category, tags_json,
			source_thought, deadline, created_at, updated_at
		FROM resources
	`
	args := []any{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY updated_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var resources []*para.Resource
	for rows.Next() {
		r, err := scanResourceRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		resources = append(resources, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return resources, nil
}

func scanResource(row *sql.Row) (*para.Resource, error) {
	var (
		r             para.Resource
		category      string
		tagsJSON      sql.NullString
		sourceThought sql.NullString
		deadline      sql.NullInt64
	)

	err := row.Scan(&r.ID, &r.Title, &r.Content, &category, &tagsJSON,
		&sourceThought, &deadline, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return finishResource(&r, category, tagsJSON, sourceThought, deadline)
}

func scanResourceRows(rows *sql.Rows) (*para.Resource, error) {
	var (
		r             para.Resource
		category      string
		tagsJSON      sql.NullString
		sourceThought sql.NullString
		deadline      sql.NullInt64
	)

	err := rows.Scan(&r.ID, &r.Title, &r.Content, &category, &tagsJSON,
		&sourceThought, &deadline, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return finishResource(&r, category, tagsJSON, sourceThought, deadline)
}

func finishResource(r *para.Resource, category string, tagsJSON, sourceThought sql.NullString, deadline sql.NullInt64) (*para.Resource, error) {
	r.Category = para.Category(category)
	r.SourceThought = fromNullString(sourceThought)
	if deadline.Valid {
		r.Deadline = &deadline.Int64
	}

	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &r.Tags); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// tagsToJSON marshals tags to a nullable JSON column value.
func tagsToJSON(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, errors.NewInternal(err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

// toNullInt64 converts a *int64 to sql.NullInt64.
func toNullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
