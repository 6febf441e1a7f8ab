package web

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/dkoenawan/paraflow/internal/config"
	"github.com/dkoenawan/paraflow/internal/errors"
	"github.com/dkoenawan/paraflow/internal/ops"
	"github.com/dkoenawan/paraflow/internal/para"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleResourceList handles GET /resources — browse resources by category.
func (h *Handlers) HandleResourceList(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	result, err := ops.ListResources(r.Context(), h.db, h.cfg, ops.ListResourcesInput{
		Category: category,
		Limit:    parseIntParam(r, "limit", 50),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "resources", ResourceListPageData{
		PageData: PageData{
			Title:   "Resources",
			Version: h.renderer.version,
			Nav:     "resources",
		},
		Resources:  result.Resources,
		Total:      result.Total,
		Category:   category,
		Categories: para.AllCategories,
	})
}

// HandleResourceDetail handles GET /resources/{id} — view one resource with
// its markdown body rendered to HTML.
func (h *Handlers) HandleResourceDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("resource ID is required"))
		return
	}

	result, err := ops.GetResource(r.Context(), h.db, h.cfg, ops.GetResourceInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "resource", ResourceDetailPageData{
		PageData: PageData{
			Title:   result.Resource.Title,
			Version: h.renderer.version,
			Nav:     "resources",
		},
		Resource:     result.Resource,
		RenderedHTML: renderMarkdown(result.Resource.Content),
	})
}

// HandleThoughtList handles GET /thoughts — the inbox of captured thoughts.
func (h *Handlers) HandleThoughtList(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")

	result, err := ops.ListThoughts(r.Context(), h.db, h.cfg, ops.ListThoughtsInput{
		Status: status,
		Limit:  parseIntParam(r, "limit", 50),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "thoughts", ThoughtListPageData{
		PageData: PageData{
			Title:   "Thought Inbox",
			Version: h.renderer.version,
			Nav:     "thoughts",
		},
		Thoughts: result.Thoughts,
		Total:    result.Total,
		Status:   status,
		Statuses: para.AllStatuses,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
