package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/furnidesk/FurniOrganizer/internal/organizer/domain"
)

// sessionCookieName matches the cookie the category service issues at login.
const sessionCookieName = "access_token"

// CategoryGateway talks to the remote category service. It is a thin
// request/response mapping: every call either succeeds or reports a plain
// error; any non-2xx response counts as failure regardless of status code or
// payload. Retry, backoff and persistence are the service's business, not
// this client's.
type CategoryGateway struct {
	baseURL      string
	sessionToken string
	httpClient   *http.Client
}

// NewCategoryGateway points the client at the category service base URL
// (everything up to and including the categories resource) and attaches the
// session token to every request as the service's auth cookie.
func NewCategoryGateway(baseURL, sessionToken string) *CategoryGateway {
	return &CategoryGateway{
		baseURL:      strings.TrimRight(baseURL, "/"),
		sessionToken: sessionToken,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *CategoryGateway) Load(ctx context.Context) (*domain.CategorySnapshot, error) {
	var snapshot domain.CategorySnapshot
	if err := g.do(ctx, http.MethodGet, "/", nil, &snapshot); err != nil {
		return nil, err
	}
	if snapshot.Assignments == nil {
		snapshot.Assignments = map[int64][]int64{}
	}
	return &snapshot, nil
}

func (g *CategoryGateway) Create(ctx context.Context, name, color string, rule domain.AutoFilterRule) (*domain.Category, error) {
	body := struct {
		Name       string  `json:"name"`
		Color      string  `json:"color"`
		AutoFilter *string `json:"autoFilter"`
	}{Name: name, Color: color}
	if rule != "" {
		filter := string(rule)
		body.AutoFilter = &filter
	}
	var created domain.Category
	if err := g.do(ctx, http.MethodPost, "/", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (g *CategoryGateway) Update(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error) {
	var updated domain.Category
	if err := g.do(ctx, http.MethodPatch, fmt.Sprintf("/%d", id), patch, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (g *CategoryGateway) Remove(ctx context.Context, id int64) error {
	return g.doExpectSuccess(ctx, http.MethodDelete, fmt.Sprintf("/%d", id), nil)
}

func (g *CategoryGateway) Assign(ctx context.Context, categoryID, itemType int64) error {
	body := struct {
		ItemType int64 `json:"itemType"`
	}{ItemType: itemType}
	return g.doExpectSuccess(ctx, http.MethodPost, fmt.Sprintf("/%d/assignments", categoryID), body)
}

func (g *CategoryGateway) Unassign(ctx context.Context, categoryID, itemType int64) error {
	body := struct {
		ItemType int64 `json:"itemType"`
	}{ItemType: itemType}
	return g.doExpectSuccess(ctx, http.MethodDelete, fmt.Sprintf("/%d/assignments", categoryID), body)
}

func (g *CategoryGateway) Reorder(ctx context.Context, order []int64) error {
	body := struct {
		Order []int64 `json:"order"`
	}{Order: order}
	return g.doExpectSuccess(ctx, http.MethodPut, "/reorder", body)
}

// doExpectSuccess performs a call whose response carries only a success flag.
// A 2xx with success=false is still a failure.
func (g *CategoryGateway) doExpectSuccess(ctx context.Context, method, path string, body interface{}) error {
	var result struct {
		Success bool `json:"success"`
	}
	if err := g.do(ctx, method, path, body, &result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("category service: %s %s reported failure", method, path)
	}
	return nil
}

func (g *CategoryGateway) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode request body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: g.sessionToken})

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("category service: %s %s returned %s", method, path, resp.Status)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("category service: malformed response for %s %s: %v", method, path, err)
		}
	}
	return nil
}
