package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
	orgErrors "github.com/furnidesk/FurniOrganizer/internal/organizer/errors"
	"github.com/stretchr/testify/assert"
)

func newTestHandler(service *MockCategoryService) *CategoryHandler {
	return NewCategoryHandler(service, respondJSON, respondError)
}

func authedRequest(method, target, body string) *http.Request {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(req.Context(), "userID", "user-1")
	return req.WithContext(ctx)
}

func withCategoryID(req *http.Request, categoryID int64) *http.Request {
	ctx := context.WithValue(req.Context(), "categoryID", categoryID)
	return req.WithContext(ctx)
}

func TestHandleGetSnapshot_ReturnsBareSnapshot(t *testing.T) {
	service := &MockCategoryService{
		SnapshotResult: &domain.CategorySnapshot{
			Categories: []domain.Category{
				{ID: 1, Name: "Rares", Color: "#ef4444", AutoFilter: domain.RuleRareFurni, Order: 0},
			},
			Assignments: map[int64][]int64{500: {1}},
		},
	}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	handler.HandleGetSnapshot(rr, authedRequest(http.MethodGet, "/categories/", ""))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-1", service.LastUserID)

	var snapshot domain.CategorySnapshot
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
	assert.Len(t, snapshot.Categories, 1)
	assert.Equal(t, []int64{1}, snapshot.Assignments[500])
}

func TestHandleGetSnapshot_MissingUserIsUnauthorized(t *testing.T) {
	handler := newTestHandler(&MockCategoryService{})
	rr := httptest.NewRecorder()

	handler.HandleGetSnapshot(rr, httptest.NewRequest(http.MethodGet, "/categories/", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandleCreateCategory_Success(t *testing.T) {
	service := &MockCategoryService{
		CreateResult: &domain.Category{ID: 42, Name: "Rares", Color: "#ef4444", AutoFilter: domain.RuleRareFurni, Order: 3},
	}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	body := `{"name":"Rares","color":"#ef4444","autoFilter":"rare"}`
	handler.HandleCreateCategory(rr, authedRequest(http.MethodPost, "/categories/", body))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Rares", service.LastName)
	assert.Equal(t, domain.RuleRareFurni, service.LastRule)

	var created domain.Category
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, int64(42), created.ID)
}

func TestHandleCreateCategory_NullRuleIsEmpty(t *testing.T) {
	service := &MockCategoryService{}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	body := `{"name":"Plain","color":"#3b82f6","autoFilter":null}`
	handler.HandleCreateCategory(rr, authedRequest(http.MethodPost, "/categories/", body))

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, domain.AutoFilterRule(""), service.LastRule)
}

func TestHandleCreateCategory_ValidationErrorIs400(t *testing.T) {
	service := &MockCategoryService{Err: orgErrors.ErrEmptyCategoryName}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	handler.HandleCreateCategory(rr, authedRequest(http.MethodPost, "/categories/", `{"name":"","color":"#3b82f6"}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleCreateCategory_InvalidBodyIs400(t *testing.T) {
	handler := newTestHandler(&MockCategoryService{})
	rr := httptest.NewRecorder()

	handler.HandleCreateCategory(rr, authedRequest(http.MethodPost, "/categories/", `not json`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleUpdateCategory_PassesPatchThrough(t *testing.T) {
	service := &MockCategoryService{}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	req := withCategoryID(authedRequest(http.MethodPatch, "/categories/7", `{"name":"Renamed"}`), 7)
	handler.HandleUpdateCategory(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(7), service.LastCategoryID)
	if assert.NotNil(t, service.LastPatch.Name) {
		assert.Equal(t, "Renamed", *service.LastPatch.Name)
	}
	assert.Nil(t, service.LastPatch.Color)
}

func TestHandleUpdateCategory_UnknownCategoryIs404(t *testing.T) {
	service := &MockCategoryService{Err: orgErrors.ErrCategoryNotFound}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	req := withCategoryID(authedRequest(http.MethodPatch, "/categories/99", `{"name":"X"}`), 99)
	handler.HandleUpdateCategory(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestHandleDeleteCategory_ReportsSuccess(t *testing.T) {
	service := &MockCategoryService{}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	req := withCategoryID(authedRequest(http.MethodDelete, "/categories/7", ""), 7)
	handler.HandleDeleteCategory(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	assert.Equal(t, int64(7), service.LastCategoryID)
}

func TestHandleAssignItem_Success(t *testing.T) {
	service := &MockCategoryService{}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	req := withCategoryID(authedRequest(http.MethodPost, "/categories/7/assignments", `{"itemType":500}`), 7)
	handler.HandleAssignItem(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	assert.Equal(t, int64(7), service.LastCategoryID)
	assert.Equal(t, int64(500), service.LastItemType)
}

func TestHandleAssignItem_MissingItemTypeIs400(t *testing.T) {
	handler := newTestHandler(&MockCategoryService{})
	rr := httptest.NewRecorder()

	req := withCategoryID(authedRequest(http.MethodPost, "/categories/7/assignments", `{}`), 7)
	handler.HandleAssignItem(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleUnassignItem_Success(t *testing.T) {
	service := &MockCategoryService{}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	req := withCategoryID(authedRequest(http.MethodDelete, "/categories/7/assignments", `{"itemType":500}`), 7)
	handler.HandleUnassignItem(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(500), service.LastItemType)
}

func TestHandleReorderCategories_Success(t *testing.T) {
	service := &MockCategoryService{}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	handler.HandleReorderCategories(rr, authedRequest(http.MethodPut, "/categories/reorder", `{"order":[3,1,2]}`))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	assert.Equal(t, []int64{3, 1, 2}, service.LastOrder)
}

func TestHandleReorderCategories_EmptyOrderIs400(t *testing.T) {
	handler := newTestHandler(&MockCategoryService{})
	rr := httptest.NewRecorder()

	handler.HandleReorderCategories(rr, authedRequest(http.MethodPut, "/categories/reorder", `{"order":[]}`))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandleReorderCategories_ServiceErrorIs500(t *testing.T) {
	service := &MockCategoryService{Err: errMockFailure}
	handler := newTestHandler(service)
	rr := httptest.NewRecorder()

	handler.HandleReorderCategories(rr, authedRequest(http.MethodPut, "/categories/reorder", `{"order":[1]}`))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestValidateCategoryPathMiddleware(t *testing.T) {
	handler := newTestHandler(&MockCategoryService{})

	var captured int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Context().Value("categoryID").(int64)
		w.WriteHeader(http.StatusOK)
	})
	wrapped := handler.ValidateCategoryPathMiddleware(next)

	mux := http.NewServeMux()
	mux.Handle("PATCH /categories/{categoryID}", wrapped)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/categories/7", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(7), captured)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/categories/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/categories/-3", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
