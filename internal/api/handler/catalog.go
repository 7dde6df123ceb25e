package handler

import (
	"net/http"

	"github.com/Rrens/lookup-bot/internal/api/response"
	"github.com/Rrens/lookup-bot/internal/catalog"
	"github.com/Rrens/lookup-bot/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler exposes the operation catalog read-only
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// CategoryResponse is a category with its operations expanded
type CategoryResponse struct {
	ID         domain.CategoryID   `json:"id"`
	Name       string              `json:"name"`
	Operations []*domain.Operation `json:"operations"`
}

// List returns every category with its operations. Endpoint templates are
// never serialized.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	cats := h.catalog.Categories()
	out := make([]CategoryResponse, 0, len(cats))
	for _, cat := range cats {
		out = append(out, h.category(cat))
	}

	response.OK(w, map[string]any{
		"categories": out,
		"operations": h.catalog.Len(),
	})
}

// Get returns a single category
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := domain.CategoryID(chi.URLParam(r, "categoryID"))

	cat, ok := h.catalog.Category(id)
	if !ok {
		response.NotFound(w, "category not found")
		return
	}

	response.OK(w, h.category(cat))
}

func (h *CatalogHandler) category(cat domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:         cat.ID,
		Name:       cat.Name,
		Operations: h.catalog.OperationsIn(cat.ID),
	}
}
