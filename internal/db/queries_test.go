package db

import (
	"database/sql"
	"testing"
	"time"

	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/para"
	"github.com/dkoenawan/paraflow/internal/schema"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func mustThought(t *testing.T, title, content string) *para.Thought {
	t.Helper()
	th, err := para.NewThought(title, content, nil, nil)
	if err != nil {
		t.Fatalf("NewThought() error = %v", err)
	}
	return th
}

func TestThought_InsertAndGet(t *testing.T) {
	database := openTestDB(t)

	proj := "alpha"
	th, err := para.NewThought("Plan", "draft the plan", &proj, nil)
	if err != nil {
		t.Fatalf("NewThought() error = %v", err)
	}

	if err := InsertThought(database, th); err != nil {
		t.Fatalf("InsertThought() error = %v", err)
	}

	got, err := GetThought(database, th.ID)
	if err != nil {
		t.Fatalf("GetThought() error = %v", err)
	}
	if got.Title != "Plan" || got.Content != "draft the plan" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.Status != para.StatusNew {
		t.Errorf("Status = %v, want new", got.Status)
	}
	if got.ProjectTag == nil || *got.ProjectTag != "alpha" {
		t.Errorf("ProjectTag = %v, want alpha", got.ProjectTag)
	}
	if got.AreaTag != nil {
		t.Errorf("AreaTag = %v, want nil", got.AreaTag)
	}
}

func TestThought_GetMissing(t *testing.T) {
	database := openTestDB(t)

	_, err := GetThought(database, "no-such-id")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestThought_DuplicateIDRejected(t *testing.T) {
	database := openTestDB(t)

	th := mustThought(t, "t", "c")
	if err := InsertThought(database, th); err != nil {
		t.Fatalf("InsertThought() error = %v", err)
	}
	if err := InsertThought(database, th); !errors.Is(err, errors.ErrConflict) {
		t.Fatalf("expected CONFLICT on duplicate id, got %v", err)
	}
}

func TestThought_UpdateStatus(t *testing.T) {
	database := openTestDB(t)

	th := mustThought(t, "t", "c")
	if err := InsertThought(database, th); err != nil {
		t.Fatalf("InsertThought() error = %v", err)
	}

	processing, err := th.WithStatus(para.StatusProcessing)
	if err != nil {
		t.Fatalf("WithStatus() error = %v", err)
	}
	completed, err := processing.WithStatus(para.StatusCompleted)
	if err != nil {
		t.Fatalf("WithStatus() error = %v", err)
	}

	if err := UpdateThoughtStatus(database, completed); err != nil {
		t.Fatalf("UpdateThoughtStatus() error = %v", err)
	}

	got, err := GetThought(database, th.ID)
	if err != nil {
		t.Fatalf("GetThought() error = %v", err)
	}
	if got.Status != para.StatusCompleted {
		t.Errorf("Status = %v, want completed", got.Status)
	}
	if !got.Processed {
		t.Error("Processed = false, want true")
	}
}

func TestThought_List(t *testing.T) {
	database := openTestDB(t)

	for _, content := range []string{"one", "two", "three"} {
		th := mustThought(t, "t", content)
		if err := InsertThought(database, th); err != nil {
			t.Fatalf("InsertThought() error = %v", err)
		}
	}

	all, err := ListThoughts(database, "", 0)
	if err != nil {
		t.Fatalf("ListThoughts() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}

	limited, err := ListThoughts(database, "new", 2)
	if err != nil {
		t.Fatalf("ListThoughts() error = %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("len = %d, want 2", len(limited))
	}

	none, err := ListThoughts(database, "failed", 0)
	if err != nil {
		t.Fatalf("ListThoughts() error = %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("len = %d, want 0", len(none))
	}
}

func TestCompletedContentExists(t *testing.T) {
	database := openTestDB(t)

	th := mustThought(t, "t", "Buy   Milk")
	th.Status = para.StatusCompleted
	if err := InsertThought(database, th); err != nil {
		t.Fatalf("InsertThought() error = %v", err)
	}

	// Normalized comparison matches cosmetic variants.
	exists, err := CompletedContentExists(database, "buy milk", true)
	if err != nil {
		t.Fatalf("CompletedContentExists() error = %v", err)
	}
	if !exists {
		t.Error("normalized match not found")
	}

	// Exact comparison does not.
	exists, err = CompletedContentExists(database, "buy milk", false)
	if err != nil {
		t.Fatalf("CompletedContentExists() error = %v", err)
	}
	if exists {
		t.Error("exact comparison matched a cosmetic variant")
	}

	// Non-completed thoughts never count.
	pending := mustThought(t, "t", "walk the dog")
	if err := InsertThought(database, pending); err != nil {
		t.Fatalf("InsertThought() error = %v", err)
	}
	exists, err = CompletedContentExists(database, "walk the dog", true)
	if err != nil {
		t.Fatalf("CompletedContentExists() error = %v", err)
	}
	if exists {
		t.Error("pending thought counted as processed content")
	}
}

func TestResource_RoundTrip(t *testing.T) {
	database := openTestDB(t)

	source := "src-thought"
	r, err := para.NewResource("Guide", "# Notes", para.CategoryResource,
		[]string{"reading", "go"}, &source, nil)
	if err != nil {
		t.Fatalf("NewResource() error = %v", err)
	}

	if err := InsertResource(database, r); err != nil {
		t.Fatalf("InsertResource() error = %v", err)
	}

	got, err := GetResource(database, r.ID)
	if err != nil {
		t.Fatalf("GetResource() error = %v", err)
	}
	if got.Category != para.CategoryResource {
		t.Errorf("Category = %v, want resource", got.Category)
	}
	if len(got.Tags) != 2 {
		t.Errorf("Tags = %v, want 2 entries", got.Tags)
	}
	if got.SourceThought == nil || *got.SourceThought != source {
		t.Errorf("SourceThought = %v, want %q", got.SourceThought, source)
	}
}

func TestResource_Update(t *testing.T) {
	database := openTestDB(t)

	r, err := para.NewResource("Guide", "v1", para.CategoryResource, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewResource() error = %v", err)
	}
	if err := InsertResource(database, r); err != nil {
		t.Fatalf("InsertResource() error = %v", err)
	}

	moved, err := r.WithCategory(para.CategoryProject)
	if err != nil {
		t.Fatalf("WithCategory() error = %v", err)
	}
	deadline := time.Now().AddDate(0, 0, 7).Unix()
	moved.Deadline = &deadline

	if err := UpdateResource(database, moved); err != nil {
		t.Fatalf("UpdateResource() error = %v", err)
	}

	got, err := GetResource(database, r.ID)
	if err != nil {
		t.Fatalf("GetResource() error = %v", err)
	}
	if got.Category != para.CategoryProject {
		t.Errorf("Category = %v, want project", got.Category)
	}
	if got.Deadline == nil || *got.Deadline != deadline {
		t.Errorf("Deadline = %v, want %d", got.Deadline, deadline)
	}
}

func TestResource_UpdateMissing(t *testing.T) {
	database := openTestDB(t)

	r, err := para.NewResource("ghost", "x", para.CategoryResource, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewResource() error = %v", err)
	}
	if err := UpdateResource(database, r); !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestResource_ListByCategory(t *testing.T) {
	database := openTestDB(t)

	for i, cat := range []para.Category{para.CategoryProject, para.CategoryProject, para.CategoryArea} {
		r, err := para.NewResource("r", "c", cat, nil, nil, nil)
		if err != nil {
			t.Fatalf("NewResource() error = %v", err)
		}
		r.UpdatedAt = int64(i)
		if err := InsertResource(database, r); err != nil {
			t.Fatalf("InsertResource() error = %v", err)
		}
	}

	projects, err := ListResources(database, "project", 0)
	if err != nil {
		t.Fatalf("ListResources() error = %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("len = %d, want 2", len(projects))
	}

	all, err := ListResources(database, "", 0)
	if err != nil {
		t.Fatalf("ListResources() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, want 3", len(all))
	}
}

func testDatabase(t *testing.T, title string) *schema.Database {
	t.Helper()
	name, err := schema.NewProperty("Name", schema.TypeTitle, schema.WithRequired())
	if err != nil {
		t.Fatalf("NewProperty() error = %v", err)
	}
	status, err := schema.NewProperty("Status", schema.TypeSelect, schema.WithOptions("Todo", "Done"))
	if err != nil {
		t.Fatalf("NewProperty() error = %v", err)
	}
	d, err := schema.NewDatabase(title, "test schema", []schema.Property{name, status})
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	d.ID = mustID(t)
	now := time.Now().Unix()
	d.CreatedAt = now
	d.UpdatedAt = now
	d.State = schema.StateCreated
	return d
}

func TestDatabase_RoundTrip(t *testing.T) {
	database := openTestDB(t)

	d := testDatabase(t, "Tasks")
	if err := InsertDatabase(database, d); err != nil {
		t.Fatalf("InsertDatabase() error = %v", err)
	}

	got, err := GetDatabase(database, d.ID)
	if err != nil {
		t.Fatalf("GetDatabase() error = %v", err)
	}
	if got.Title != "Tasks" {
		t.Errorf("Title = %q, want Tasks", got.Title)
	}
	if len(got.Properties) != 2 {
		t.Fatalf("Properties = %d, want 2", len(got.Properties))
	}
	if got.Properties[0].Type != schema.TypeTitle {
		t.Errorf("Properties[0].Type = %v, want title", got.Properties[0].Type)
	}
	if !got.Properties[1].HasOption("Done") {
		t.Error("select options lost in round trip")
	}
	if got.State != schema.StateCreated {
		t.Errorf("State = %v, want created", got.State)
	}
}

func TestDatabase_DuplicateTitleConflict(t *testing.T) {
	database := openTestDB(t)

	if err := InsertDatabase(database, testDatabase(t, "Tasks")); err != nil {
		t.Fatalf("InsertDatabase() error = %v", err)
	}
	err := InsertDatabase(database, testDatabase(t, "Tasks"))
	if !errors.Is(err, errors.ErrConflict) {
		t.Fatalf("expected CONFLICT, got %v", err)
	}
}

func TestDatabase_ArchivedTitleReusable(t *testing.T) {
	database := openTestDB(t)

	first := testDatabase(t, "Tasks")
	first.State = schema.StateArchived
	if err := InsertDatabase(database, first); err != nil {
		t.Fatalf("InsertDatabase() error = %v", err)
	}

	// The unique title index only guards active databases.
	if err := InsertDatabase(database, testDatabase(t, "Tasks")); err != nil {
		t.Fatalf("InsertDatabase() after archive error = %v", err)
	}
}

func TestDatabase_GetByTitle(t *testing.T) {
	database := openTestDB(t)

	d := testDatabase(t, "Tasks")
	if err := InsertDatabase(database, d); err != nil {
		t.Fatalf("InsertDatabase() error = %v", err)
	}

	got, err := GetDatabaseByTitle(database, "Tasks")
	if err != nil {
		t.Fatalf("GetDatabaseByTitle() error = %v", err)
	}
	if got.ID != d.ID {
		t.Errorf("ID = %q, want %q", got.ID, d.ID)
	}

	if _, err := GetDatabaseByTitle(database, "Nope"); !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestDatabase_List(t *testing.T) {
	database := openTestDB(t)

	active := testDatabase(t, "Active")
	archived := testDatabase(t, "Old")
	archived.State = schema.StateArchived
	if err := InsertDatabase(database, active); err != nil {
		t.Fatalf("InsertDatabase() error = %v", err)
	}
	if err := InsertDatabase(database, archived); err != nil {
		t.Fatalf("InsertDatabase() error = %v", err)
	}

	visible, err := ListDatabases(database, false)
	if err != nil {
		t.Fatalf("ListDatabases() error = %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("len = %d, want 1", len(visible))
	}

	all, err := ListDatabases(database, true)
	if err != nil {
		t.Fatalf("ListDatabases() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
}

func mustID(t *testing.T) string {
	t.Helper()
	id, err := para.NewID()
	if err != nil {
		t.Fatalf("NewID() error = %v", err)
	}
	return id
}

func testRecord(t *testing.T, databaseID string, props map[string]any) *schema.Record {
	t.Helper()
	now := time.Now().Unix()
	return &schema.Record{
		ID:         mustID(t),
		DatabaseID: databaseID,
		Properties: props,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	database := openTestDB(t)

	r := testRecord(t, "db-1", map[string]any{"Name": "Write tests", "Status": "Todo"})
	if err := InsertRecord(database, r); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	got, err := GetRecord(database, r.ID)
	if err != nil {
		t.Fatalf("GetRecord() error = %v", err)
	}
	if got.Properties["Name"] != "Write tests" {
		t.Errorf("Properties[Name] = %v, want Write tests", got.Properties["Name"])
	}
	if got.Archived {
		t.Error("new record should not be archived")
	}
}

func TestRecord_CascadeArchive(t *testing.T) {
	database := openTestDB(t)

	for i := 0; i < 3; i++ {
		if err := InsertRecord(database, testRecord(t, "db-1", map[string]any{"n": i})); err != nil {
			t.Fatalf("InsertRecord() error = %v", err)
		}
	}
	other := testRecord(t, "db-2", map[string]any{"n": 9})
	if err := InsertRecord(database, other); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	n, err := ArchiveRecordsByDatabase(database, "db-1")
	if err != nil {
		t.Fatalf("ArchiveRecordsByDatabase() error = %v", err)
	}
	if n != 3 {
		t.Errorf("archived %d records, want 3", n)
	}

	count, err := CountActiveRecords(database, "db-1")
	if err != nil {
		t.Fatalf("CountActiveRecords() error = %v", err)
	}
	if count != 0 {
		t.Errorf("active records = %d, want 0", count)
	}

	// Other databases are untouched.
	count, err = CountActiveRecords(database, "db-2")
	if err != nil {
		t.Fatalf("CountActiveRecords() error = %v", err)
	}
	if count != 1 {
		t.Errorf("active records = %d, want 1", count)
	}
}

func TestRecord_ListExcludesArchived(t *testing.T) {
	database := openTestDB(t)

	kept := testRecord(t, "db-1", map[string]any{"n": 1})
	swept := testRecord(t, "db-1", map[string]any{"n": 2})
	swept.Archived = true
	if err := InsertRecord(database, kept); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}
	if err := InsertRecord(database, swept); err != nil {
		t.Fatalf("InsertRecord() error = %v", err)
	}

	active, err := ListRecords(database, "db-1", false)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("len = %d, want 1", len(active))
	}

	all, err := ListRecords(database, "db-1", true)
	if err != nil {
		t.Fatalf("ListRecords() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("len = %d, want 2", len(all))
	}
}
