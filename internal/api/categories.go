package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/storefront-core/internal/auth"
	"github.com/nerrad567/storefront-core/internal/catalog"
	"github.com/nerrad567/storefront-core/internal/infrastructure/mqtt"
)

type categoryResponse struct {
	Message  string            `json:"message"`
	Category *catalog.Category `json:"category"`
}

// handleListCategories returns every category. Public.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.categories.List(r.Context())
	if err != nil {
		s.logger.Error("list categories failed", "error", err)
		writeInternalError(w)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

// handleCreateCategory adds a category. Staff only.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())

	var req catalog.Patch
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	category := &catalog.Category{Name: req.Name, Label: req.Label}
	if err := s.categories.Create(r.Context(), category); err != nil {
		s.writeCategoryError(w, err, category.Name)
		return
	}

	s.auditLog(actor.ID, fmt.Sprintf("Created category '%s'.", category.Name))
	s.publishEvent(mqtt.Topics{}.CatalogEvent("category", "created"), "created", category.ID, actor.ID)

	writeJSON(w, http.StatusCreated, categoryResponse{Message: "Category created.", Category: category})
}

// handleUpdateCategory edits a category, keeping fields left blank.
// Staff only.
func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var patch catalog.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	category, err := s.categories.Update(r.Context(), id, patch)
	if err != nil {
		s.writeCategoryError(w, err, patch.Name)
		return
	}

	s.auditLog(actor.ID, fmt.Sprintf("Updated category '%s'.", category.Name))
	s.publishEvent(mqtt.Topics{}.CatalogEvent("category", "updated"), "updated", category.ID, actor.ID)

	writeJSON(w, http.StatusOK, categoryResponse{Message: "Category updated.", Category: category})
}

// handleDeleteCategory removes a category. Staff only.
func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.categories.Delete(r.Context(), id); err != nil {
		s.writeCategoryError(w, err, "")
		return
	}

	s.auditLog(actor.ID, fmt.Sprintf("Deleted category %s.", id))
	s.publishEvent(mqtt.Topics{}.CatalogEvent("category", "deleted"), "deleted", id, actor.ID)

	writeJSON(w, http.StatusOK, message{Message: "Category deleted."})
}

func (s *Server) writeCategoryError(w http.ResponseWriter, err error, name string) {
	switch {
	case errors.Is(err, catalog.ErrMissingFields):
		writeBadRequest(w, "Please enter all fields")
	case errors.Is(err, catalog.ErrCategoryExists):
		writeBadRequest(w, fmt.Sprintf("Category with the name: '%s' already exists.", name))
	case errors.Is(err, catalog.ErrCategoryNotFound):
		writeNotFound(w, "Category not found")
	default:
		s.logger.Error("category operation failed", "error", err)
		writeInternalError(w)
	}
}
