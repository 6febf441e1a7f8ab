package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Names follow the "type_action" pattern so related tools
// group together in client tool lists.

var captureToolDef = mcp.NewTool("thought_capture",
	mcp.WithDescription("Capture a raw thought for later PARA processing. Optional project/area tags become categorization hints."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Short thought title")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Thought content")),
	mcp.WithString("project_tag", mcp.Description("Optional project hint")),
	mcp.WithString("area_tag", mcp.Description("Optional area hint")),
)

var processToolDef = mcp.NewTool("thought_process",
	mcp.WithDescription("Process one captured thought: validate, check duplicates, categorize, and create a resource."),
	mcp.WithString("thought_id", mcp.Required(), mcp.Description("ULID of the thought")),
)

var processBatchToolDef = mcp.NewTool("thought_process_batch",
	mcp.WithDescription("Process several thoughts with bounded concurrency. Results are index-aligned with the input IDs."),
	mcp.WithArray("thought_ids", mcp.Required(), mcp.Description("ULIDs of the thoughts to process")),
	mcp.WithNumber("concurrency", mcp.Description("Max concurrent workers (default from config)")),
)

var retryToolDef = mcp.NewTool("thought_retry",
	mcp.WithDescription("Re-run processing for a thought that previously failed."),
	mcp.WithString("thought_id", mcp.Required(), mcp.Description("ULID of the failed thought")),
)

var listThoughtsToolDef = mcp.NewTool("thought_list",
	mcp.WithDescription("List captured thoughts newest-first, optionally filtered by lifecycle status."),
	mcp.WithString("status", mcp.Description("Filter: new, processing, completed, failed, skipped")),
	mcp.WithNumber("limit", mcp.Description("Max results (default 20, max 100)")),
)

var categorizeToolDef = mcp.NewTool("categorize_preview",
	mcp.WithDescription("Preview how content would be categorized without capturing or persisting anything."),
	mcp.WithString("title", mcp.Description("Optional title")),
	mcp.WithString("content", mcp.Required(), mcp.Description("Content to categorize")),
	mcp.WithString("project_tag", mcp.Description("Optional project hint")),
	mcp.WithString("area_tag", mcp.Description("Optional area hint")),
)

var getResourceToolDef = mcp.NewTool("resource_get",
	mcp.WithDescription("Fetch one resource by ID."),
	mcp.WithString("id", mcp.Required(), mcp.Description("ULID of the resource")),
)

var updateResourceToolDef = mcp.NewTool("resource_update",
	mcp.WithDescription("Update a resource's content, tags, or deadline. Category moves go through resource_move."),
	mcp.WithString("id", mcp.Required(), mcp.Description("ULID of the resource")),
	mcp.WithString("content", mcp.Description("Replacement content")),
	mcp.WithArray("tags", mcp.Description("Replacement tag set")),
	mcp.WithNumber("deadline", mcp.Description("Deadline as Unix timestamp")),
)

var moveResourceToolDef = mcp.NewTool("resource_move",
	mcp.WithDescription("Move a resource to another PARA category, enforcing the category transition table."),
	mcp.WithString("id", mcp.Required(), mcp.Description("ULID of the resource")),
	mcp.WithString("category", mcp.Required(), mcp.Description("Target: project, area, resource, archive")),
)

var listResourcesToolDef = mcp.NewTool("resource_list",
	mcp.WithDescription("List resources newest-first, optionally filtered by PARA category."),
	mcp.WithString("category", mcp.Description("Filter: project, area, resource, archive")),
	mcp.WithNumber("limit", mcp.Description("Max results (default 20, max 100)")),
)

var createDatabaseToolDef = mcp.NewTool("database_create",
	mcp.WithDescription("Create a structured database with a property schema."),
	mcp.WithString("title", mcp.Required(), mcp.Description("Database title (unique among active databases)")),
	mcp.WithString("description", mcp.Description("Optional description")),
	mcp.WithArray("properties", mcp.Required(), mcp.Description("Property definitions: {name, type, options, required, number_format}")),
	mcp.WithString("parent_id", mcp.Description("Optional parent database ULID")),
)

var getDatabaseToolDef = mcp.NewTool("database_get",
	mcp.WithDescription("Fetch a database definition by ID or by active title."),
	mcp.WithString("id", mcp.Description("ULID of the database")),
	mcp.WithString("title", mcp.Description("Active database title")),
)

var updateDatabaseToolDef = mcp.NewTool("database_update",
	mcp.WithDescription("Change a database's title, description, or schema. Changes that strand existing record data require confirm=true."),
	mcp.WithString("id", mcp.Required(), mcp.Description("ULID of the database")),
	mcp.WithString("title", mcp.Description("New title")),
	mcp.WithString("description", mcp.Description("New description")),
	mcp.WithArray("properties", mcp.Description("Replacement property definitions")),
	mcp.WithBoolean("confirm", mcp.Description("Confirm a destructive schema change")),
)

var archiveDatabaseToolDef = mcp.NewTool("database_archive",
	mcp.WithDescription("Archive a database (terminal, no hard delete). Requires confirm=true. Archived databases stop serving validation."),
	mcp.WithString("id", mcp.Required(), mcp.Description("ULID of the database")),
	mcp.WithBoolean("confirm", mcp.Description("Confirm the archive")),
)

var listDatabasesToolDef = mcp.NewTool("database_list",
	mcp.WithDescription("List database definitions newest-first."),
	mcp.WithBoolean("include_archived", mcp.Description("Include archived databases")),
)

var createRecordToolDef = mcp.NewTool("record_create",
	mcp.WithDescription("Create a record after validating its property values against the owning schema. All violations are reported at once."),
	mcp.WithString("database_id", mcp.Required(), mcp.Description("ULID of the owning database")),
	mcp.WithObject("properties", mcp.Required(), mcp.Description("Property name to value map")),
)

var getRecordToolDef = mcp.NewTool("record_get",
	mcp.WithDescription("Fetch one record by ID."),
	mcp.WithString("id", mcp.Required(), mcp.Description("ULID of the record")),
)

var updateRecordToolDef = mcp.NewTool("record_update",
	mcp.WithDescription("Replace a record's property values after revalidating against the current schema."),
	mcp.WithString("id", mcp.Required(), mcp.Description("ULID of the record")),
	mcp.WithObject("properties", mcp.Required(), mcp.Description("Replacement property values")),
)

var validateRecordToolDef = mcp.NewTool("record_validate",
	mcp.WithDescription("Check property values against a schema without persisting. Returns the full violation list."),
	mcp.WithString("database_id", mcp.Required(), mcp.Description("ULID of the database")),
	mcp.WithObject("properties", mcp.Description("Property values to check")),
)

var listRecordsToolDef = mcp.NewTool("record_list",
	mcp.WithDescription("List a database's records newest-first."),
	mcp.WithString("database_id", mcp.Required(), mcp.Description("ULID of the database")),
	mcp.WithBoolean("include_archived", mcp.Description("Include archived records")),
)

var summaryToolDef = mcp.NewTool("para_summary",
	mcp.WithDescription("Aggregate counts: thoughts per status, resources per category, active databases."),
)
