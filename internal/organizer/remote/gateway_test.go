package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
	"github.com/stretchr/testify/assert"
)

type recordedRequest struct {
	method string
	path   string
	cookie string
	body   map[string]interface{}
}

// recordingServer captures each request and answers with the configured
// status and payload.
func recordingServer(t *testing.T, status int, payload string) (*httptest.Server, *recordedRequest) {
	t.Helper()
	recorded := &recordedRequest{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recorded.method = r.Method
		recorded.path = r.URL.Path
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			recorded.cookie = cookie.Value
		}
		recorded.body = nil
		if r.Body != nil {
			var body map[string]interface{}
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				recorded.body = body
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)
	return server, recorded
}

func TestLoad_DecodesSnapshot(t *testing.T) {
	server, recorded := recordingServer(t, http.StatusOK,
		`{"categories":[{"id":1,"name":"Rares","color":"#ef4444","autoFilter":"rare","order":0}],"assignments":{"500":[1]}}`)
	gateway := NewCategoryGateway(server.URL, "session-token")

	snapshot, err := gateway.Load(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, http.MethodGet, recorded.method)
	assert.Equal(t, "/", recorded.path)
	assert.Equal(t, "session-token", recorded.cookie)
	assert.Len(t, snapshot.Categories, 1)
	assert.Equal(t, int64(1), snapshot.Categories[0].ID)
	assert.Equal(t, domain.RuleRareFurni, snapshot.Categories[0].AutoFilter)
	assert.Equal(t, []int64{1}, snapshot.Assignments[500])
}

func TestLoad_MissingAssignmentsBecomesEmptyMap(t *testing.T) {
	server, _ := recordingServer(t, http.StatusOK, `{"categories":[]}`)
	gateway := NewCategoryGateway(server.URL, "token")

	snapshot, err := gateway.Load(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, snapshot.Assignments)
}

func TestCreate_PostsToCollectionRoot(t *testing.T) {
	server, recorded := recordingServer(t, http.StatusCreated,
		`{"id":42,"name":"Rares","color":"#ef4444","autoFilter":"rare","order":3}`)
	gateway := NewCategoryGateway(server.URL+"/", "token")

	created, err := gateway.Create(context.Background(), "Rares", "#ef4444", domain.RuleRareFurni)
	assert.NoError(t, err)
	assert.Equal(t, http.MethodPost, recorded.method)
	assert.Equal(t, "/", recorded.path)
	assert.Equal(t, "Rares", recorded.body["name"])
	assert.Equal(t, "rare", recorded.body["autoFilter"])
	assert.Equal(t, int64(42), created.ID)
}

func TestCreate_OmittedRuleIsNull(t *testing.T) {
	server, recorded := recordingServer(t, http.StatusCreated, `{"id":1,"name":"Plain","color":"#3b82f6"}`)
	gateway := NewCategoryGateway(server.URL, "token")

	_, err := gateway.Create(context.Background(), "Plain", "#3b82f6", "")
	assert.NoError(t, err)
	value, present := recorded.body["autoFilter"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestUpdate_PatchesCategoryByID(t *testing.T) {
	server, recorded := recordingServer(t, http.StatusOK, `{"id":7,"name":"Renamed","color":"#3b82f6"}`)
	gateway := NewCategoryGateway(server.URL, "token")

	name := "Renamed"
	_, err := gateway.Update(context.Background(), 7, domain.CategoryPatch{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, http.MethodPatch, recorded.method)
	assert.Equal(t, "/7", recorded.path)
	assert.Equal(t, "Renamed", recorded.body["name"])
	_, colorSent := recorded.body["color"]
	assert.False(t, colorSent, "unset patch fields must not be sent")
}

func TestRemove_DeletesCategoryByID(t *testing.T) {
	server, recorded := recordingServer(t, http.StatusOK, `{"success":true}`)
	gateway := NewCategoryGateway(server.URL, "token")

	assert.NoError(t, gateway.Remove(context.Background(), 7))
	assert.Equal(t, http.MethodDelete, recorded.method)
	assert.Equal(t, "/7", recorded.path)
}

func TestAssign_PostsToAssignmentsSubresource(t *testing.T) {
	server, recorded := recordingServer(t, http.StatusOK, `{"success":true}`)
	gateway := NewCategoryGateway(server.URL, "token")

	assert.NoError(t, gateway.Assign(context.Background(), 7, 500))
	assert.Equal(t, http.MethodPost, recorded.method)
	assert.Equal(t, "/7/assignments", recorded.path)
	assert.Equal(t, float64(500), recorded.body["itemType"])
}

func TestUnassign_DeletesFromAssignmentsSubresource(t *testing.T) {
	server, recorded := recordingServer(t, http.StatusOK, `{"success":true}`)
	gateway := NewCategoryGateway(server.URL, "token")

	assert.NoError(t, gateway.Unassign(context.Background(), 7, 500))
	assert.Equal(t, http.MethodDelete, recorded.method)
	assert.Equal(t, "/7/assignments", recorded.path)
	assert.Equal(t, float64(500), recorded.body["itemType"])
}

func TestReorder_PutsFullOrder(t *testing.T) {
	server, recorded := recordingServer(t, http.StatusOK, `{"success":true}`)
	gateway := NewCategoryGateway(server.URL, "token")

	assert.NoError(t, gateway.Reorder(context.Background(), []int64{3, 1, 2}))
	assert.Equal(t, http.MethodPut, recorded.method)
	assert.Equal(t, "/reorder", recorded.path)
	assert.Equal(t, []interface{}{float64(3), float64(1), float64(2)}, recorded.body["order"])
}

func TestNon2xxIsFailure(t *testing.T) {
	server, _ := recordingServer(t, http.StatusInternalServerError, `{"message":"boom"}`)
	gateway := NewCategoryGateway(server.URL, "token")

	_, err := gateway.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, gateway.Remove(context.Background(), 1))
}

func TestSuccessFalseIsFailure(t *testing.T) {
	server, _ := recordingServer(t, http.StatusOK, `{"success":false}`)
	gateway := NewCategoryGateway(server.URL, "token")

	assert.Error(t, gateway.Remove(context.Background(), 1))
}

func TestMalformedResponseIsFailure(t *testing.T) {
	server, _ := recordingServer(t, http.StatusOK, `not json`)
	gateway := NewCategoryGateway(server.URL, "token")

	_, err := gateway.Load(context.Background())
	assert.Error(t, err)
}
