package ops

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/db"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/schema"
)

func taskProperties() []PropertyInput {
	return []PropertyInput{
		{Name: "Name", Type: "title", Required: true},
		{Name: "Status", Type: "select", Options: []string{"Todo", "Done"}},
		{Name: "Priority", Type: "number"},
	}
}

func createTaskDB(t *testing.T, database *sql.DB, cfg *config.Config) *schema.Database {
	t.Helper()
	out, err := CreateDatabase(context.Background(), database, cfg, CreateDatabaseInput{
		Title:      "Tasks",
		Properties: taskProperties(),
	})
	if err != nil {
		t.Fatalf("CreateDatabase() error = %v", err)
	}
	return out.Database
}

func TestCreateDatabase(t *testing.T) {
	database, cfg := testEnv(t)

	d := createTaskDB(t, database, cfg)
	if d.State != schema.StateCreated {
		t.Errorf("State = %v, want created", d.State)
	}
	if d.ID == "" {
		t.Error("ID not assigned")
	}

	stored, err := db.GetDatabase(database, d.ID)
	if err != nil {
		t.Fatalf("GetDatabase() error = %v", err)
	}
	if len(stored.Properties) != 3 {
		t.Errorf("Properties = %d, want 3", len(stored.Properties))
	}
}

func TestCreateDatabase_SchemaInvariants(t *testing.T) {
	database, cfg := testEnv(t)

	cases := []struct {
		name  string
		input CreateDatabaseInput
	}{
		{"no properties", CreateDatabaseInput{Title: "T"}},
		{"no title property", CreateDatabaseInput{Title: "T",
			Properties: []PropertyInput{{Name: "N", Type: "number"}}}},
		{"two title properties", CreateDatabaseInput{Title: "T",
			Properties: []PropertyInput{{Name: "A", Type: "title"}, {Name: "B", Type: "title"}}}},
		{"duplicate names", CreateDatabaseInput{Title: "T",
			Properties: []PropertyInput{{Name: "A", Type: "title"}, {Name: "A", Type: "number"}}}},
		{"select without options", CreateDatabaseInput{Title: "T",
			Properties: []PropertyInput{{Name: "A", Type: "title"}, {Name: "S", Type: "select"}}}},
		{"unknown type", CreateDatabaseInput{Title: "T",
			Properties: []PropertyInput{{Name: "A", Type: "formula"}}}},
	}

	for _, tc := range cases {
		if _, err := CreateDatabase(context.Background(), database, cfg, tc.input); !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("%s: expected INVALID_REQUEST, got %v", tc.name, err)
		}
	}
}

func TestCreateDatabase_DuplicateTitle(t *testing.T) {
	database, cfg := testEnv(t)
	createTaskDB(t, database, cfg)

	_, err := CreateDatabase(context.Background(), database, cfg, CreateDatabaseInput{
		Title:      "Tasks",
		Properties: taskProperties(),
	})
	if !errors.Is(err, errors.ErrConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestGetDatabaseOp(t *testing.T) {
	database, cfg := testEnv(t)
	d := createTaskDB(t, database, cfg)

	byID, err := GetDatabase(context.Background(), database, cfg, GetDatabaseInput{ID: d.ID})
	if err != nil {
		t.Fatalf("GetDatabase(id) error = %v", err)
	}
	if byID.Database.Title != "Tasks" {
		t.Errorf("Title = %q, want Tasks", byID.Database.Title)
	}

	byTitle, err := GetDatabase(context.Background(), database, cfg, GetDatabaseInput{Title: "Tasks"})
	if err != nil {
		t.Fatalf("GetDatabase(title) error = %v", err)
	}
	if byTitle.Database.ID != d.ID {
		t.Errorf("ID = %q, want %q", byTitle.Database.ID, d.ID)
	}

	if _, err := GetDatabase(context.Background(), database, cfg, GetDatabaseInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("expected INVALID_REQUEST without id or title, got %v", err)
	}
}

func TestUpdateDatabase_AddingPropertyNeedsNoConfirm(t *testing.T) {
	database, cfg := testEnv(t)
	d := createTaskDB(t, database, cfg)

	props := append(taskProperties(), PropertyInput{Name: "Due", Type: "date"})
	out, err := UpdateDatabase(context.Background(), database, cfg, UpdateDatabaseInput{
		ID:         d.ID,
		Properties: props,
	})
	if err != nil {
		t.Fatalf("UpdateDatabase() error = %v", err)
	}
	if len(out.Added) != 1 || out.Added[0] != "Due" {
		t.Errorf("Added = %v, want [Due]", out.Added)
	}
	if out.Database.State != schema.StateUpdated {
		t.Errorf("State = %v, want updated", out.Database.State)
	}
}

func TestUpdateDatabase_StrandedDataNeedsConfirm(t *testing.T) {
	database, cfg := testEnv(t)
	d := createTaskDB(t, database, cfg)

	// A record that actually holds a Priority value.
	if _, err := CreateRecord(context.Background(), database, cfg, CreateRecordInput{
		DatabaseID: d.ID,
		Properties: map[string]any{"Name": "Ship", "Priority": 2},
	}); err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}

	// Dropping Priority strands that value.
	withoutPriority := []PropertyInput{
		{Name: "Name", Type: "title", Required: true},
		{Name: "Status", Type: "select", Options: []string{"Todo", "Done"}},
	}

	_, err := UpdateDatabase(context.Background(), database, cfg, UpdateDatabaseInput{
		ID:         d.ID,
		Properties: withoutPriority,
	})
	if !errors.Is(err, errors.ErrConfirmationRequired) {
		t.Fatalf("expected CONFIRMATION_REQUIRED, got %v", err)
	}

	// Confirmed, the change goes through.
	out, err := UpdateDatabase(context.Background(), database, cfg, UpdateDatabaseInput{
		ID:         d.ID,
		Properties: withoutPriority,
		Confirm:    true,
	})
	if err != nil {
		t.Fatalf("confirmed UpdateDatabase() error = %v", err)
	}
	if len(out.Removed) != 1 || out.Removed[0] != "Priority" {
		t.Errorf("Removed = %v, want [Priority]", out.Removed)
	}
}

func TestUpdateDatabase_RemovingUnusedPropertyNeedsNoConfirm(t *testing.T) {
	database, cfg := testEnv(t)
	d := createTaskDB(t, database, cfg)

	// Record without a Priority value; dropping Priority strands nothing.
	if _, err := CreateRecord(context.Background(), database, cfg, CreateRecordInput{
		DatabaseID: d.ID,
		Properties: map[string]any{"Name": "Ship"},
	}); err != nil {
		t.Fatalf("CreateRecord() error = %v", err)
	}

	_, err := UpdateDatabase(context.Background(), database, cfg, UpdateDatabaseInput{
		ID: d.ID,
		Properties: []PropertyInput{
			{Name: "Name", Type: "title", Required: true},
			{Name: "Status", Type: "select", Options: []string{"Todo", "Done"}},
		},
	})
	if err != nil {
		t.Fatalf("UpdateDatabase() error = %v", err)
	}
}

func TestUpdateDatabase_ArchivedRejected(t *testing.T) {
	database, cfg := testEnv(t)
	d := createTaskDB(t, database, cfg)

	if _, err := ArchiveDatabase(context.Background(), database, cfg, ArchiveDatabaseInput{ID: d.ID, Confirm: true}); err != nil {
		t.Fatalf("ArchiveDatabase() error = %v", err)
	}

	title := "Renamed"
	_, err := UpdateDatabase(context.Background(), database, cfg, UpdateDatabaseInput{ID: d.ID, Title: &title})
	if !errors.Is(err, errors.ErrInvalidStateTransition) {
		t.Fatalf("expected INVALID_STATE_TRANSITION, got %v", err)
	}
}

func TestArchiveDatabase_ConfirmGateAndCascade(t *testing.T) {
	database, cfg := testEnv(t)
	cfg.CascadeArchive = true
	d := createTaskDB(t, database, cfg)

	for _, name := range []string{"a", "b"} {
		if _, err := CreateRecord(context.Background(), database, cfg, CreateRecordInput{
			DatabaseID: d.ID,
			Properties: map[string]any{"Name": name},
		}); err != nil {
			t.Fatalf("CreateRecord() error = %v", err)
		}
	}

	_, err := ArchiveDatabase(context.Background(), database, cfg, ArchiveDatabaseInput{ID: d.ID})
	if !errors.Is(err, errors.ErrConfirmationRequired) {
		t.Fatalf("expected CONFIRMATION_REQUIRED, got %v", err)
	}

	out, err := ArchiveDatabase(context.Background(), database, cfg, ArchiveDatabaseInput{ID: d.ID, Confirm: true})
	if err != nil {
		t.Fatalf("confirmed ArchiveDatabase() error = %v", err)
	}
	if out.Database.State != schema.StateArchived {
		t.Errorf("State = %v, want archived", out.Database.State)
	}
	if out.ArchivedRecords != 2 {
		t.Errorf("ArchivedRecords = %d, want 2", out.ArchivedRecords)
	}

	// Archiving twice is a conflict.
	if _, err := ArchiveDatabase(context.Background(), database, cfg, ArchiveDatabaseInput{ID: d.ID, Confirm: true}); !errors.Is(err, errors.ErrConflict) {
		t.Errorf("expected CONFLICT on second archive, got %v", err)
	}
}

func TestListDatabasesOp(t *testing.T) {
	database, cfg := testEnv(t)
	d := createTaskDB(t, database, cfg)
	if _, err := ArchiveDatabase(context.Background(), database, cfg, ArchiveDatabaseInput{ID: d.ID, Confirm: true}); err != nil {
		t.Fatalf("ArchiveDatabase() error = %v", err)
	}

	visible, err := ListDatabases(context.Background(), database, cfg, ListDatabasesInput{})
	if err != nil {
		t.Fatalf("ListDatabases() error = %v", err)
	}
	if visible.Total != 0 {
		t.Errorf("Total = %d, want 0", visible.Total)
	}

	all, err := ListDatabases(context.Background(), database, cfg, ListDatabasesInput{IncludeArchived: true})
	if err != nil {
		t.Fatalf("ListDatabases() error = %v", err)
	}
	if all.Total != 1 {
		t.Errorf("Total = %d, want 1", all.Total)
	}
}
