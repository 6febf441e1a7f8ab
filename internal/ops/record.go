package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/db"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
	"github.com/dkoenawan/paraflow/internal/schema"
)

// conformingDatabase loads the database a record points at, failing closed:
// a missing or archived database is NOT_FOUND either way, so records can
// never validate against a schema that no longer serves.
func conformingDatabase(database *sql.DB, databaseID string) (*schema.Database, error) {
	d, err := db.GetDatabase(database, databaseID)
	if err != nil {
		return nil, err
	}
	if d.IsArchived() {
		return nil, errors.NewNotFound("database", databaseID)
	}
	return d, nil
}

// CreateRecordInput contains parameters for the CreateRecord operation.
type CreateRecordInput struct {
	DatabaseID string         // required
	Properties map[string]any // required, must conform to the schema
}

// CreateRecordOutput contains the created record.
type CreateRecordOutput struct {
	Record *schema.Record `json:"record"`
}

// CreateRecord validates property values against the owning schema and
// stores the record. All violations are collected before rejecting, so one
// failed call reports every problem at once.
func CreateRecord(ctx context.Context, database *sql.DB, cfg *config.Config, input CreateRecordInput) (*CreateRecordOutput, error) {
	if input.DatabaseID == "" {
		return nil, errors.NewInvalidRequest("database_id is required")
	}
	if len(input.Properties) == 0 {
		return nil, errors.NewInvalidRequest("properties is required")
	}

	d, err := conformingDatabase(database, input.DatabaseID)
	if err != nil {
		return nil, err
	}

	if result := schema.ValidateRecord(d, input.Properties); !result.Valid {
		return nil, result.Err()
	}

	id, err := para.NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	now := time.Now().Unix()
	r := &schema.Record{
		ID:         id,
		DatabaseID: d.ID,
		Properties: input.Properties,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := db.InsertRecord(database, r); err != nil {
		return nil, err
	}

	return &CreateRecordOutput{Record: r}, nil
}

// GetRecordInput contains parameters for the GetRecord operation.
type GetRecordInput struct {
	ID string // required
}

// GetRecordOutput contains the fetched record.
type GetRecordOutput struct {
	Record *schema.Record `json:"record"`
}

// GetRecord fetches one record by ID.
func GetRecord(ctx context.Context, database *sql.DB, cfg *config.Config, input GetRecordInput) (*GetRecordOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	r, err := db.GetRecord(database, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetRecordOutput{Record: r}, nil
}

// UpdateRecordInput contains parameters for the UpdateRecord operation.
type UpdateRecordInput struct {
	ID         string         // required
	Properties map[string]any // required replacement values
}

// UpdateRecordOutput contains the updated record.
type UpdateRecordOutput struct {
	Record *schema.Record `json:"record"`
}

// UpdateRecord replaces a record's property values after revalidating them
// against the current schema.
func UpdateRecord(ctx context.Context, database *sql.DB, cfg *config.Config, input UpdateRecordInput) (*UpdateRecordOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if len(input.Properties) == 0 {
		return nil, errors.NewInvalidRequest("properties is required")
	}

	r, err := db.GetRecord(database, input.ID)
	if err != nil {
		return nil, err
	}
	if r.Archived {
		return nil, errors.NewConflict("record is archived")
	}

	d, err := conformingDatabase(database, r.DatabaseID)
	if err != nil {
		return nil, err
	}

	if result := schema.ValidateRecord(d, input.Properties); !result.Valid {
		return nil, result.Err()
	}

	r.Properties = input.Properties
	if err := db.UpdateRecord(database, r); err != nil {
		return nil, err
	}

	return &UpdateRecordOutput{Record: r}, nil
}

// ValidateRecordInput contains parameters for the ValidateRecord operation.
type ValidateRecordInput struct {
	DatabaseID string         // required
	Properties map[string]any // values to check
}

// ValidateRecordOutput carries the full violation report.
type ValidateRecordOutput struct {
	Result *schema.ValidationResult `json:"result"`
}

// ValidateRecord checks property values against a schema without persisting
// anything. The report lists every violation, not just the first.
func ValidateRecord(ctx context.Context, database *sql.DB, cfg *config.Config, input ValidateRecordInput) (*ValidateRecordOutput, error) {
	if input.DatabaseID == "" {
		return nil, errors.NewInvalidRequest("database_id is required")
	}

	d, err := conformingDatabase(database, input.DatabaseID)
	if err != nil {
		return nil, err
	}

	return &ValidateRecordOutput{Result: schema.ValidateRecord(d, input.Properties)}, nil
}
