package db

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/schema"
)

// InsertRecord stores a new record. Property values are stored as a JSON
// column; conformance checks happen before the record reaches this layer.
func InsertRecord(db *sql.DB, r *schema.Record) error {
	propsJSON, err := json.Marshal(r.Properties)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO records (
			id, database_id, properties_json, archived, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = db.Exec(query,
		r.ID, r.DatabaseID, string(propsJSON), boolToInt(r.Archived),
		r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return errors.NewInternal(err)
	}

	return nil
}

// GetRecord retrieves a record by its ULID.
func GetRecord(db *sql.DB, id string) (*schema.Record, error) {
	query := `
		SELECT id, database_id, properties_json, archived, created_at, updated_at
		FROM records
		WHERE id = ?
	`

	row := db.QueryRow(query, id)
	r, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound("record", id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return r, nil
}

// UpdateRecord persists new property values for an existing record.
func UpdateRecord(db *sql.DB, r *schema.Record) error {
	propsJSON, err := json.Marshal(r.Properties)
	if err != nil {
		return errors.NewInternal(err)
	}

	now := time.Now().Unix()

	query := `
		UPDATE records
		SET properties_json = ?, archived = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := db.Exec(query, string(propsJSON), boolToInt(r.Archived), now, r.ID)
	if err != nil {
		return errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound("record", r.ID)
	}

	r.UpdatedAt = now

	return nil
}

// ListRecords returns the records of a database newest-first. With
// includeArchived=false, archived records are excluded.
func ListRecords(db *sql.DB, databaseID string, includeArchived bool) ([]*schema.Record, error) {
	query := `
		SELECT id, database_id, properties_json, archived, created_at, updated_at
		FROM records
		WHERE database_id = ?
	`
	if !includeArchived {
		query += " AND archived = 0"
	}
	query += " ORDER BY updated_at DESC, id DESC"

	rows, err := db.Query(query, databaseID)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var records []*schema.Record
	for rows.Next() {
		r, err := scanRecordRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return records, nil
}

// ArchiveRecordsByDatabase marks every active record of a database as
// archived. Returns the number of records archived.
func ArchiveRecordsByDatabase(db *sql.DB, databaseID string) (int64, error) {
	now := time.Now().Unix()

	query := `
		UPDATE records
		SET archived = 1, updated_at = ?
		WHERE database_id = ? AND archived = 0
	`

	result, err := db.Exec(query, now, databaseID)
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewInternal(err)
	}

	return rowsAffected, nil
}

// CountActiveRecords counts non-archived records in a database.
func CountActiveRecords(db *sql.DB, databaseID string) (int, error) {
	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM records WHERE database_id = ? AND archived = 0`,
		databaseID,
	).Scan(&count)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

func scanRecord(row *sql.Row) (*schema.Record, error) {
	var (
		r         schema.Record
		propsJSON string
		archived  int
	)

	err := row.Scan(&r.ID, &r.DatabaseID, &propsJSON, &archived, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	r.Archived = archived != 0
	if err := json.Unmarshal([]byte(propsJSON), &r.Properties); err != nil {
		return nil, err
	}

	return &r, nil
}

func scanRecordRows(rows *sql.Rows) (*schema.Record, error) {
	var (
		r         schema.Record
		propsJSON string
		archived  int
	)

	err := rows.Scan(&r.ID, &r.DatabaseID, &propsJSON, &archived, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}

	r.Archived = archived != 0
	if err := json.Unmarshal([]byte(propsJSON), &r.Properties); err != nil {
		return nil, err
	}

	return &r, nil
}
