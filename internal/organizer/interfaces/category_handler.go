package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
	orgErrors "github.com/furnidesk/FurniOrganizer/internal/organizer/errors"
)

type CategoryServiceInterface interface {
	GetSnapshot(userID string) (*domain.CategorySnapshot, error)
	CreateCategory(userID, name, color string, rule domain.AutoFilterRule) (*domain.Category, error)
	UpdateCategory(userID string, categoryID int64, patch domain.CategoryPatch) (*domain.Category, error)
	DeleteCategory(userID string, categoryID int64) error
	AssignItem(userID string, categoryID, itemType int64) error
	UnassignItem(userID string, categoryID, itemType int64) error
	ReorderCategories(userID string, order []int64) error
}

// CategoryHandler serves the category resource the game client's organizer
// engine consumes. Success bodies follow the wire contract the client parses
// (bare snapshot/category/success shapes); errors use the shared error
// envelope.
type CategoryHandler struct {
	service      CategoryServiceInterface
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
}

func NewCategoryHandler(
	service CategoryServiceInterface,
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
) *CategoryHandler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &CategoryHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

// ValidateCategoryPathMiddleware parses the {categoryID} path segment and
// stashes it in the request context before the handler runs.
func (h *CategoryHandler) ValidateCategoryPathMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.PathValue("categoryID")
		categoryID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || categoryID <= 0 {
			h.respondError(w, http.StatusBadRequest, "Invalid category id")
			return
		}
		ctx := context.WithValue(r.Context(), "categoryID", categoryID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *CategoryHandler) getUserIDReq(w http.ResponseWriter, r *http.Request) string {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Not authenticated")
		return ""
	}
	return userID
}

func (h *CategoryHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}
	snapshot, err := h.service.GetSnapshot(userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, snapshot)
}

type createCategoryRequest struct {
	Name       string  `json:"name"`
	Color      string  `json:"color"`
	AutoFilter *string `json:"autoFilter"`
}

func (h *CategoryHandler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	var rule domain.AutoFilterRule
	if req.AutoFilter != nil {
		rule = domain.AutoFilterRule(*req.AutoFilter)
	}
	category, err := h.service.CreateCategory(userID, req.Name, req.Color, rule)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}
	categoryID := r.Context().Value("categoryID").(int64)
	var patch domain.CategoryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	category, err := h.service.UpdateCategory(userID, categoryID, patch)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}
	categoryID := r.Context().Value("categoryID").(int64)
	if err := h.service.DeleteCategory(userID, categoryID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type assignmentRequest struct {
	ItemType int64 `json:"itemType"`
}

func (h *CategoryHandler) HandleAssignItem(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}
	categoryID := r.Context().Value("categoryID").(int64)
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemType == 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.AssignItem(userID, categoryID, req.ItemType); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CategoryHandler) HandleUnassignItem(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}
	categoryID := r.Context().Value("categoryID").(int64)
	var req assignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemType == 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.UnassignItem(userID, categoryID, req.ItemType); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

type reorderRequest struct {
	Order []int64 `json:"order"`
}

func (h *CategoryHandler) HandleReorderCategories(w http.ResponseWriter, r *http.Request) {
	userID := h.getUserIDReq(w, r)
	if userID == "" {
		return
	}
	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Order) == 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.service.ReorderCategories(userID, req.Order); err != nil {
		h.respondServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CategoryHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orgErrors.ErrCategoryNotFound):
		h.respondError(w, http.StatusNotFound, err.Error())
	case orgErrors.IsValidationError(err):
		h.respondError(w, http.StatusBadRequest, err.Error())
	default:
		h.respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
