package mcp

import (
	"context"
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dkoenawan/paraflow/internal/config"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"thought_capture": {
		def:     captureToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCapture },
	},
	"thought_process": {
		def:     processToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProcess },
	},
	"thought_process_batch": {
		def:     processBatchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleProcessBatch },
	},
	"thought_retry": {
		def:     retryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRetry },
	},
	"thought_list": {
		def:     listThoughtsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListThoughts },
	},
	"categorize_preview": {
		def:     categorizeToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCategorize },
	},
	"resource_get": {
		def:     getResourceToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetResource },
	},
	"resource_update": {
		def:     updateResourceToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUpdateResource },
	},
	"resource_move": {
		def:     moveResourceToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleMoveResource },
	},
	"resource_list": {
		def:     listResourcesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListResources },
	},
	"database_create": {
		def:     createDatabaseToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreateDatabase },
	},
	"database_get": {
		def:     getDatabaseToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetDatabase },
	},
	"database_update": {
		def:     updateDatabaseToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUpdateDatabase },
	},
	"database_archive": {
		def:     archiveDatabaseToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleArchiveDatabase },
	},
	"database_list": {
		def:     listDatabasesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListDatabases },
	},
	"record_create": {
		def:     createRecordToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCreateRecord },
	},
	"record_get": {
		def:     getRecordToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleGetRecord },
	},
	"record_update": {
		def:     updateRecordToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleUpdateRecord },
	},
	"record_validate": {
		def:     validateRecordToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleValidateRecord },
	},
	"record_list": {
		def:     listRecordsToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleListRecords },
	},
	"para_summary": {
		def:     summaryToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleSummary },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with ParaFlow tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"paraflow",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, cfg)

	disabled := make(map[string]bool)
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	// Register tools (skip disabled)
	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, cfg *config.Config, version string) error {
	s := NewServer(db, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
