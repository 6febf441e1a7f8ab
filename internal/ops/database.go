package ops

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/db"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
	"github.com/dkoenawan/paraflow/internal/schema"
)

// PropertyInput is the wire form of a property definition.
type PropertyInput struct {
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Options      []string `json:"options,omitempty"`
	Required     bool     `json:"required,omitempty"`
	NumberFormat string   `json:"number_format,omitempty"`
}

// buildProperties converts wire property definitions into validated schema
// properties.
func buildProperties(inputs []PropertyInput) ([]schema.Property, error) {
	props := make([]schema.Property, 0, len(inputs))
	for _, in := range inputs {
		pt, err := schema.PropertyTypeFromString(in.Type)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}

		var opts []schema.PropertyOption
		if len(in.Options) > 0 {
			opts = append(opts, schema.WithOptions(in.Options...))
		}
		if in.Required {
			opts = append(opts, schema.WithRequired())
		}
		if in.NumberFormat != "" {
			opts = append(opts, schema.WithNumberFormat(in.NumberFormat))
		}

		p, err := schema.NewProperty(in.Name, pt, opts...)
		if err != nil {
			return nil, errors.NewInvalidRequest(err.Error())
		}
		props = append(props, p)
	}
	return props, nil
}

// CreateDatabaseInput contains parameters for the CreateDatabase operation.
type CreateDatabaseInput struct {
	Title       string          // required
	Description string          // optional
	Properties  []PropertyInput // required, exactly one title property
	ParentID    *string         // optional parent database
}

// CreateDatabaseOutput contains the created database.
type CreateDatabaseOutput struct {
	Database *schema.Database `json:"database"`
}

// CreateDatabase validates and stores a new database definition. Creation is
// not destructive, so unlike archive it needs no confirmation gate.
func CreateDatabase(ctx context.Context, database *sql.DB, cfg *config.Config, input CreateDatabaseInput) (*CreateDatabaseOutput, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}

	props, err := buildProperties(input.Properties)
	if err != nil {
		return nil, err
	}

	d, err := schema.NewDatabase(input.Title, input.Description, props)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}
	d.ParentID = cleanOptionalString(input.ParentID)

	id, err := para.NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	now := time.Now().Unix()
	d.ID = id
	d.State = schema.StateCreated
	d.CreatedAt = now
	d.UpdatedAt = now

	if err := db.InsertDatabase(database, d); err != nil {
		return nil, err
	}

	return &CreateDatabaseOutput{Database: d}, nil
}

// GetDatabaseInput contains parameters for the GetDatabase operation.
type GetDatabaseInput struct {
	ID    string // database ULID
	Title string // or active database title
}

// GetDatabaseOutput contains the fetched database and its active record count.
type GetDatabaseOutput struct {
	Database      *schema.Database `json:"database"`
	ActiveRecords int              `json:"active_records"`
}

// GetDatabase fetches a database by ID or by active title.
func GetDatabase(ctx context.Context, database *sql.DB, cfg *config.Config, input GetDatabaseInput) (*GetDatabaseOutput, error) {
	var d *schema.Database
	var err error
	switch {
	case input.ID != "":
		d, err = db.GetDatabase(database, input.ID)
	case input.Title != "":
		d, err = db.GetDatabaseByTitle(database, input.Title)
	default:
		return nil, errors.NewInvalidRequest("must specify either id or title")
	}
	if err != nil {
		return nil, err
	}

	count, err := db.CountActiveRecords(database, d.ID)
	if err != nil {
		return nil, err
	}

	return &GetDatabaseOutput{Database: d, ActiveRecords: count}, nil
}

// UpdateDatabaseInput contains parameters for the UpdateDatabase operation.
// Nil fields are left unchanged.
type UpdateDatabaseInput struct {
	ID          string          // required
	Title       *string         // optional new title
	Description *string         // optional new description
	Properties  []PropertyInput // optional replacement schema
	Confirm     bool            // required when existing record data would be stranded
}

// UpdateDatabaseOutput contains the updated database and the schema diff.
type UpdateDatabaseOutput struct {
	Database *schema.Database `json:"database"`
	Added    []string         `json:"added,omitempty"`
	Removed  []string         `json:"removed,omitempty"`
	Retyped  []string         `json:"retyped,omitempty"`
}

// UpdateDatabase changes a database's title, description, or schema. Schema
// changes that would strand values held by active records (removed or
// retyped properties) require Confirm; without it the operation stops with
// CONFIRMATION_REQUIRED naming the affected properties.
func UpdateDatabase(ctx context.Context, database *sql.DB, cfg *config.Config, input UpdateDatabaseInput) (*UpdateDatabaseOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	d, err := db.GetDatabase(database, input.ID)
	if err != nil {
		return nil, err
	}
	if d.IsArchived() {
		return nil, errors.NewInvalidStateTransition(string(schema.StateArchived), string(schema.StateUpdated))
	}

	out := &UpdateDatabaseOutput{}

	if input.Properties != nil {
		props, err := buildProperties(input.Properties)
		if err != nil {
			return nil, err
		}

		added, removed, retyped := d.PropertyChanges(props)
		out.Added, out.Removed, out.Retyped = added, removed, retyped

		stranded, affected, err := strandedProperties(database, d.ID, append(removed, retyped...))
		if err != nil {
			return nil, err
		}
		if len(stranded) > 0 && !input.Confirm {
			confirmErr := errors.NewConfirmationRequired("schema change would strand existing record data")
			confirmErr.Details = map[string]any{
				"stranded_properties": stranded,
				"affected_records":    affected,
			}
			return nil, confirmErr
		}

		d.Properties = props
	}

	if input.Title != nil {
		d.Title = *input.Title
	}
	if input.Description != nil {
		d.Description = *input.Description
	}

	if err := d.Validate(); err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	d.State = schema.StateUpdated
	d.UpdatedAt = time.Now().Unix()

	if err := db.UpdateDatabase(database, d); err != nil {
		return nil, err
	}

	out.Database = d
	return out, nil
}

// strandedProperties returns which of the given property names still carry
// values on active records, along with how many records are affected.
func strandedProperties(database *sql.DB, databaseID string, names []string) ([]string, int, error) {
	if len(names) == 0 {
		return nil, 0, nil
	}

	records, err := db.ListRecords(database, databaseID, false)
	if err != nil {
		return nil, 0, err
	}

	strandedSet := make(map[string]bool)
	affected := 0
	for _, r := range records {
		hit := false
		for _, name := range names {
			if r.HasValue(name) {
				strandedSet[name] = true
				hit = true
			}
		}
		if hit {
			affected++
		}
	}

	stranded := make([]string, 0, len(strandedSet))
	for _, name := range names {
		if strandedSet[name] {
			stranded = append(stranded, name)
		}
	}
	return stranded, affected, nil
}

// ArchiveDatabaseInput contains parameters for the ArchiveDatabase operation.
type ArchiveDatabaseInput struct {
	ID      string // required
	Confirm bool   // archiving requires explicit confirmation
}

// ArchiveDatabaseOutput reports the archive outcome.
type ArchiveDatabaseOutput struct {
	Database        *schema.Database `json:"database"`
	ArchivedRecords int64            `json:"archived_records"`
}

// ArchiveDatabase moves a database to its terminal ARCHIVED state. Records
// are swept along when cascade_archive is configured; either way the
// database stops serving validation afterwards. There is no hard delete.
func ArchiveDatabase(ctx context.Context, database *sql.DB, cfg *config.Config, input ArchiveDatabaseInput) (*ArchiveDatabaseOutput, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	d, err := db.GetDatabase(database, input.ID)
	if err != nil {
		return nil, err
	}
	if d.IsArchived() {
		return nil, errors.NewConflict("database is already archived")
	}

	count, err := db.CountActiveRecords(database, d.ID)
	if err != nil {
		return nil, err
	}

	if !input.Confirm {
		confirmErr := errors.NewConfirmationRequired("archiving a database requires confirmation")
		confirmErr.Details = map[string]any{
			"title":          d.Title,
			"active_records": count,
		}
		return nil, confirmErr
	}

	d.State = schema.StateArchived
	d.UpdatedAt = time.Now().Unix()
	if err := db.UpdateDatabase(database, d); err != nil {
		return nil, err
	}

	var archived int64
	if cfg.CascadeArchive {
		archived, err = db.ArchiveRecordsByDatabase(database, d.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ArchiveDatabaseOutput{Database: d, ArchivedRecords: archived}, nil
}
