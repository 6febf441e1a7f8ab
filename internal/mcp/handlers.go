package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// CaptureRequest represents the arguments for thought_capture.
type CaptureRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	ProjectTag *string `json:"project_tag,omitempty"`
	AreaTag    *string `json:"area_tag,omitempty"`
}

// ProcessRequest represents the arguments for thought_process and thought_retry.
type ProcessRequest struct {
	ThoughtID string `json:"thought_id"`
}

// ProcessBatchRequest represents the arguments for thought_process_batch.
type ProcessBatchRequest struct {
	ThoughtIDs  []string `json:"thought_ids"`
	Concurrency int      `json:"concurrency,omitempty"`
}

// ListThoughtsRequest represents the arguments for thought_list.
type ListThoughtsRequest struct {
	Status string `json:"status,omitempty"`
	Limit  int    `json:"limit,omitempty"`
}

// CategorizeRequest represents the arguments for categorize_preview.
type CategorizeRequest struct {
	Title      string  `json:"title"`
	Content    string  `json:"content"`
	ProjectTag *string `json:"project_tag,omitempty"`
	AreaTag    *string `json:"area_tag,omitempty"`
}

// GetResourceRequest represents the arguments for resource_get.
type GetResourceRequest struct {
	ID string `json:"id"`
}

// UpdateResourceRequest represents the arguments for resource_update.
type UpdateResourceRequest struct {
	ID       string   `json:"id"`
	Content  *string  `json:"content,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Deadline *int64   `json:"deadline,omitempty"`
}

// MoveResourceRequest represents the arguments for resource_move.
type MoveResourceRequest struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

// ListResourcesRequest represents the arguments for resource_list.
type ListResourcesRequest struct {
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// CreateDatabaseRequest represents the arguments for database_create.
type CreateDatabaseRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Properties  []ops.PropertyInput `json:"properties"`
	ParentID    *string             `json:"parent_id,omitempty"`
}

// GetDatabaseRequest represents the arguments for database_get.
type GetDatabaseRequest struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
}

// UpdateDatabaseRequest represents the arguments for database_update.
type UpdateDatabaseRequest struct {
	ID          string              `json:"id"`
	Title       *string             `json:"title,omitempty"`
	Description *string             `json:"description,omitempty"`
	Properties  []ops.PropertyInput `json:"properties,omitempty"`
	Confirm     bool                `json:"confirm,omitempty"`
}

// ArchiveDatabaseRequest represents the arguments for database_archive.
type ArchiveDatabaseRequest struct {
	ID      string `json:"id"`
	Confirm bool   `json:"confirm,omitempty"`
}

// ListDatabasesRequest represents the arguments for database_list.
type ListDatabasesRequest struct {
	IncludeArchived bool `json:"include_archived,omitempty"`
}

// CreateRecordRequest represents the arguments for record_create.
type CreateRecordRequest struct {
	DatabaseID string         `json:"database_id"`
	Properties map[string]any `json:"properties"`
}

// GetRecordRequest represents the arguments for record_get.
type GetRecordRequest struct {
	ID string `json:"id"`
}

// UpdateRecordRequest represents the arguments for record_update.
type UpdateRecordRequest struct {
	ID         string         `json:"id"`
	Properties map[string]any `json:"properties"`
}

// ValidateRecordRequest represents the arguments for record_validate.
type ValidateRecordRequest struct {
	DatabaseID string         `json:"database_id"`
	Properties map[string]any `json:"properties"`
}

// ListRecordsRequest represents the arguments for record_list.
type ListRecordsRequest struct {
	DatabaseID      string `json:"database_id"`
	IncludeArchived bool   `json:"include_archived,omitempty"`
}

// SummaryRequest represents the arguments for para_summary.
type SummaryRequest struct{}

// Handler implementations

// HandleCapture handles the thought_capture tool call.
func (h *Handlers) HandleCapture(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Capture(ctx, h.db, h.cfg, ops.CaptureInput{
		Title:      input.Title,
		Content:    input.Content,
		ProjectTag: input.ProjectTag,
		AreaTag:    input.AreaTag,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleProcess handles the thought_process tool call.
func (h *Handlers) HandleProcess(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProcessRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Process(ctx, h.db, h.cfg, ops.ProcessInput{
		ThoughtID: input.ThoughtID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleProcessBatch handles the thought_process_batch tool call.
func (h *Handlers) HandleProcessBatch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProcessBatchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ProcessBatch(ctx, h.db, h.cfg, ops.ProcessBatchInput{
		ThoughtIDs:  input.ThoughtIDs,
		Concurrency: input.Concurrency,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRetry handles the thought_retry tool call.
func (h *Handlers) HandleRetry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ProcessRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Retry(ctx, h.db, h.cfg, ops.RetryInput{
		ThoughtID: input.ThoughtID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleListThoughts handles the thought_list tool call.
func (h *Handlers) HandleListThoughts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListThoughtsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListThoughts(ctx, h.db, h.cfg, ops.ListThoughtsInput{
		Status: input.Status,
		Limit:  input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCategorize handles the categorize_preview tool call.
func (h *Handlers) HandleCategorize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CategorizeRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Categorize(ctx, h.db, h.cfg, ops.CategorizeInput{
		Title:      input.Title,
		Content:    input.Content,
		ProjectTag: input.ProjectTag,
		AreaTag:    input.AreaTag,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGetResource handles the resource_get tool call.
func (h *Handlers) HandleGetResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetResourceRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetResource(ctx, h.db, h.cfg, ops.GetResourceInput{
		ID: input.ID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdateResource handles the resource_update tool call.
func (h *Handlers) HandleUpdateResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateResourceRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateResource(ctx, h.db, h.cfg, ops.UpdateResourceInput{
		ID:       input.ID,
		Content:  input.Content,
		Tags:     input.Tags,
		Deadline: input.Deadline,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleMoveResource handles the resource_move tool call.
func (h *Handlers) HandleMoveResource(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[MoveResourceRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.MoveResource(ctx, h.db, h.cfg, ops.MoveResourceInput{
		ID:       input.ID,
		Category: input.Category,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleListResources handles the resource_list tool call.
func (h *Handlers) HandleListResources(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListResourcesRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListResources(ctx, h.db, h.cfg, ops.ListResourcesInput{
		Category: input.Category,
		Limit:    input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCreateDatabase handles the database_create tool call.
func (h *Handlers) HandleCreateDatabase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateDatabaseRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CreateDatabase(ctx, h.db, h.cfg, ops.CreateDatabaseInput{
		Title:       input.Title,
		Description: input.Description,
		Properties:  input.Properties,
		ParentID:    input.ParentID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGetDatabase handles the database_get tool call.
func (h *Handlers) HandleGetDatabase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetDatabaseRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetDatabase(ctx, h.db, h.cfg, ops.GetDatabaseInput{
		ID:    input.ID,
		Title: input.Title,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdateDatabase handles the database_update tool call.
func (h *Handlers) HandleUpdateDatabase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateDatabaseRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateDatabase(ctx, h.db, h.cfg, ops.UpdateDatabaseInput{
		ID:          input.ID,
		Title:       input.Title,
		Description: input.Description,
		Properties:  input.Properties,
		Confirm:     input.Confirm,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleArchiveDatabase handles the database_archive tool call.
func (h *Handlers) HandleArchiveDatabase(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ArchiveDatabaseRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ArchiveDatabase(ctx, h.db, h.cfg, ops.ArchiveDatabaseInput{
		ID:      input.ID,
		Confirm: input.Confirm,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleListDatabases handles the database_list tool call.
func (h *Handlers) HandleListDatabases(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListDatabasesRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListDatabases(ctx, h.db, h.cfg, ops.ListDatabasesInput{
		IncludeArchived: input.IncludeArchived,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCreateRecord handles the record_create tool call.
func (h *Handlers) HandleCreateRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRecordRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.CreateRecord(ctx, h.db, h.cfg, ops.CreateRecordInput{
		DatabaseID: input.DatabaseID,
		Properties: input.Properties,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleGetRecord handles the record_get tool call.
func (h *Handlers) HandleGetRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[GetRecordRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.GetRecord(ctx, h.db, h.cfg, ops.GetRecordInput{
		ID: input.ID,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdateRecord handles the record_update tool call.
func (h *Handlers) HandleUpdateRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[UpdateRecordRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.UpdateRecord(ctx, h.db, h.cfg, ops.UpdateRecordInput{
		ID:         input.ID,
		Properties: input.Properties,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleValidateRecord handles the record_validate tool call.
func (h *Handlers) HandleValidateRecord(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValidateRecordRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ValidateRecord(ctx, h.db, h.cfg, ops.ValidateRecordInput{
		DatabaseID: input.DatabaseID,
		Properties: input.Properties,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleListRecords handles the record_list tool call.
func (h *Handlers) HandleListRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRecordsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.ListRecords(ctx, h.db, h.cfg, ops.ListRecordsInput{
		DatabaseID:      input.DatabaseID,
		IncludeArchived: input.IncludeArchived,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSummary handles the para_summary tool call.
func (h *Handlers) HandleSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if _, err := decode[SummaryRequest](req); err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Summary(ctx, h.db, h.cfg, ops.SummaryInput{})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if paraErr, ok := err.(*errors.ParaError); ok {
		errorObj := map[string]any{
			"code":    paraErr.Code,
			"message": paraErr.Message,
			"status":  paraErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if paraErr.Code != errors.ErrInternal && paraErr.Details != nil {
			errorObj["details"] = paraErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
