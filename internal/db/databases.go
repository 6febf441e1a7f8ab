package db

import (
	"database/sql"
	"encoding/json"

	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/schema"
)

// InsertDatabase stores a new database definition. Property schemas are
// stored as a JSON column.
func InsertDatabase(db *sql.DB, d *schema.Database) error {
	propsJSON, err := json.Marshal(d.Properties)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO databases (
			id, title, description, properties_json, parent_id,
			state, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		d.ID, d.Title, toNullStringValue(d.Description), string(propsJSON),
		toNullString(d.ParentID), string(d.State), d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	return nil
}

// GetDatabase retrieves a database definition by its ULID.
func GetDatabase(db *sql.DB, id string) (*schema.Database, error) {
	query := `
		SELECT id, title, description, properties_json, parent_id,
			state, created_at, updated_at
		FROM databases
		WHERE id = ?
	`

	row := db.QueryRow(query, id)
	d, err := scanDatabase(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("database", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return d, nil
}

// GetDatabaseByTitle retrieves the active database with the given title.
func GetDatabaseByTitle(db *sql.DB, title string) (*schema.Database, error) {
	query := `
		SELECT id, title, description, properties_json, parent_id,
			state, created_at, updated_at
		FROM databases
		WHERE title = ? AND state != 'archived'
	`

	row := db.QueryRow(query, title)
	d, err := scanDatabase(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("database", title)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return d, nil
}

// UpdateDatabase persists schema and lifecycle changes to a database.
func UpdateDatabase(db *sql.DB, d *schema.Database) error {
	propsJSON, err := json.Marshal(d.Properties)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		UPDATE databases
		SET title = ?, description = ?, properties_json = ?, parent_id = ?,
			state = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.Exec(query,
		d.Title, toNullStringValue(d.Description), string(propsJSON),
		toNullString(d.ParentID), string(d.State), d.UpdatedAt, d.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("database", d.ID)
	}

	return nil
}

// ListDatabases returns database definitions newest-first. With
// includeArchived=false, archived databases are excluded.
func ListDatabases(db *sql.DB, includeArchived bool) ([]*schema.Database, error) {
	query := `
		SELECT id, title, description, properties_json, parent_id,
			state, created_at, updated_at
		FROM databases
	`
	if !includeArchived {
		query += " WHERE state != 'archived'"
	}
	query += " ORDER BY updated_at DESC, id DESC"

	rows, err := db.Query(query)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var databases []*schema.Database
	for rows.Next() {
		d, err := scanDatabaseRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		databases = append(databases, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return databases, nil
}

func scanDatabase(row *sql.Row) (*schema.Database, error) {
	var (
		d           schema.Database
		description sql.NullString
		propsJSON   string
		parentID    sql.NullString
		state       string
	)

	err := row.Scan(&d.ID, &d.Title, &description, &propsJSON, &parentID,
		&state, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return finishDatabase(&d, description, propsJSON, parentID, state)
}

func scanDatabaseRows(rows *sql.Rows) (*schema.Database, error) {
	var (
		d           schema.Database
		description sql.NullString
		propsJSON   string
		parentID    sql.NullString
		state       string
	)

	err := rows.Scan(&d.ID, &d.Title, &description, &propsJSON, &parentID,
		&state, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return finishDatabase(&d, description, propsJSON, parentID, state)
}

func finishDatabase(d *schema.Database, description sql.NullString, propsJSON string, parentID sql.NullString, state string) (*schema.Database, error) {
	if description.Valid {
		d.Description = description.String
	}
	d.ParentID = fromNullString(parentID)
	d.State = schema.LifecycleState(state)

	if err := json.Unmarshal([]byte(propsJSON), &d.Properties); err != nil {
		return nil, err
	}

	return d, nil
}

// toNullStringValue converts a possibly-empty string to sql.NullString.
func toNullStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
