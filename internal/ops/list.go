package ops

import (
	"context"
	"database/sql"

	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/db"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
	"github.com/dkoenawan/paraflow/internal/schema"
)

// ListThoughtsInput contains parameters for the ListThoughts operation.
type ListThoughtsInput struct {
	Status string // optional filter
	Limit  int    // 0 means default
}

// ListThoughtsOutput contains the matching thoughts.
type ListThoughtsOutput struct {
	Thoughts []*para.Thought `json:"thoughts"`
	Total    int             `json:"total"`
}

// ListThoughts lists captured thoughts newest-first, optionally by status.
func ListThoughts(ctx context.Context, database *sql.DB, cfg *config.Config, input ListThoughtsInput) (*ListThoughtsOutput, error) {
	if input.Status != "" {
		if _, err := para.StatusFromString(input.Status); err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
	}

	thoughts, err := db.ListThoughts(database, input.Status, clampLimit(input.Limit))
	if err != nil {
		return nil, err
	}

	return &ListThoughtsOutput{Thoughts: thoughts, Total: len(thoughts)}, nil
}

// ListDatabasesInput contains parameters for the ListDatabases operation.
type ListDatabasesInput struct {
	IncludeArchived bool
}

// ListDatabasesOutput contains the database definitions.
type ListDatabasesOutput struct {
	Databases []*schema.Database `json:"databases"`
	Total     int                `json:"total"`
}

// ListDatabases lists database definitions newest-first.
func ListDatabases(ctx context.Context, database *sql.DB, cfg *config.Config, input ListDatabasesInput) (*ListDatabasesOutput, error) {
	databases, err := db.ListDatabases(database, input.IncludeArchived)
	if err != nil {
		return nil, err
	}

	return &ListDatabasesOutput{Databases: databases, Total: len(databases)}, nil
}

// ListRecordsInput contains parameters for the ListRecords operation.
type ListRecordsInput struct {
	DatabaseID      string // required
	IncludeArchived bool
}

// ListRecordsOutput contains the records of one database.
type ListRecordsOutput struct {
	Records []*schema.Record `json:"records"`
	Total   int              `json:"total"`
}

// ListRecords lists a database's records newest-first.
func ListRecords(ctx context.Context, database *sql.DB, cfg *config.Config, input ListRecordsInput) (*ListRecordsOutput, error) {
	if input.DatabaseID == "" {
		return nil, errors.NewInvalidRequest("database_id is required")
	}
	if _, err := db.GetDatabase(database, input.DatabaseID); err != nil {
		return nil, err
	}

	records, err := db.ListRecords(database, input.DatabaseID, input.IncludeArchived)
	if err != nil {
		return nil, err
	}

	return &ListRecordsOutput{Records: records, Total: len(records)}, nil
}

// SummaryInput contains parameters for the Summary operation.
type SummaryInput struct{}

// SummaryOutput aggregates counts across the store.
type SummaryOutput struct {
	ThoughtsByStatus    map[string]int `json:"thoughts_by_status"`
	ResourcesByCategory map[string]int `json:"resources_by_category"`
	ActiveDatabases     int            `json:"active_databases"`
}

// Summary reports thought counts per lifecycle status, resource counts per
// PARA category, and the number of active databases.
func Summary(ctx context.Context, database *sql.DB, cfg *config.Config, input SummaryInput) (*SummaryOutput, error) {
	out := &SummaryOutput{
		ThoughtsByStatus:    make(map[string]int),
		ResourcesByCategory: make(map[string]int),
	}

	rows, err := database.Query(`SELECT status, COUNT(*) FROM thoughts GROUP BY status`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.NewInternal(err)
		}
		out.ThoughtsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	catRows, err := database.Query(`SELECT category, COUNT(*) FROM resources GROUP BY category`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer catRows.Close()
	for catRows.Next() {
		var category string
		var count int
		if err := catRows.Scan(&category, &count); err != nil {
			return nil, errors.NewInternal(err)
		}
		out.ResourcesByCategory[category] = count
	}
	if err := catRows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := database.QueryRow(
		`SELECT COUNT(*) FROM databases WHERE state != 'archived'`,
	).Scan(&out.ActiveDatabases); err != nil {
		return nil, errors.NewInternal(err)
	}

	return out, nil
}
