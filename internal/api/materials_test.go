package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/productaware/ecoselect/internal/catalog"
	"github.com/productaware/ecoselect/internal/scoring"
)

// Mocks
type mockStore struct {
	materials []*catalog.Material
}

func (m *mockStore) Categories(_ context.Context) ([]string, error) {
	return []string{"Flooring", "Insulation"}, nil
}

func (m *mockStore) List(_ context.Context, category string) ([]*catalog.Material, error) {
	if category == "" {
		return m.materials, nil
	}
	var out []*catalog.Material
	for _, mat := range m.materials {
		if mat.HasCategory(category) {
			out = append(out, mat)
		}
	}
	return out, nil
}

func (m *mockStore) Get(_ context.Context, id int64) (*catalog.Material, error) {
	for _, mat := range m.materials {
		if mat.ID == id {
			return mat, nil
		}
	}
	return nil, nil
}

func (m *mockStore) Close() error { return nil }

func testMaterials() []*catalog.Material {
	return []*catalog.Material{
		{
			// hazard 100, CLSI 100, cert 0 -> total 80 with base weights
			ID:                        1,
			ProductName:               "Cork Tile",
			ProductCategories:         []catalog.CategoryRef{{CategoryName: "Flooring"}},
			VolatileOrganicCompounds:  "Yes - No Emissions",
			SubstancesOfConcern:       "No",
			RecycledContentPercentage: "100",
			RecyclablePercentage:      "100",
			ExpectedLifespanYears:     "20",
			Reusable:                  "Yes",
		},
		{
			// hazard 75, CLSI 70, cert 22.22 -> total 62.44
			ID:                        2,
			ProductName:               "Hemp Batt",
			ProductCategories:         []catalog.CategoryRef{{CategoryName: "Insulation"}, {CategoryName: "Flooring"}},
			VolatileOrganicCompounds:  "Yes - Low Emissions",
			SubstancesOfConcern:       "No",
			RecycledContentPercentage: "50",
			RecyclablePercentage:      "Unsure",
			ExpectedLifespanYears:     "40",
			Reusable:                  "Unsure",
			IndependentLCA:            "Yes",
		},
		{
			// hazard 0, CLSI 20, cert 0 -> total 8
			ID:                        3,
			ProductName:               "Vinyl Plank",
			ProductCategories:         []catalog.CategoryRef{{CategoryName: "Flooring"}},
			SubstancesOfConcern:       "Yes",
			RecycledContentPercentage: "0",
			RecyclablePercentage:      "0",
			ExpectedLifespanYears:     "10",
			Reusable:                  "No",
		},
	}
}

func setupTestRouter() http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	model := scoring.NewModel(20.0)
	return NewRouter(&mockStore{materials: testMaterials()}, model, nil, logger)
}

type recommendReply struct {
	Success bool                     `json:"success"`
	Count   int                      `json:"count"`
	Items   []scoring.ScoredMaterial `json:"items"`
	Error   string                   `json:"error"`
}

func postRecommend(t *testing.T, router http.Handler, body string) recommendReply {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/recommend", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var reply recommendReply
	if err := json.NewDecoder(w.Body).Decode(&reply); err != nil {
		t.Fatal(err)
	}
	return reply
}

func TestFilters(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/filters", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Categories []string           `json:"categories"`
			Metrics    []MetricDescriptor `json:"metrics"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Error("expected success")
	}
	if len(resp.Data.Categories) != 2 {
		t.Errorf("expected 2 categories, got %v", resp.Data.Categories)
	}
	if len(resp.Data.Metrics) != 3 {
		t.Errorf("expected 3 metric descriptors, got %d", len(resp.Data.Metrics))
	}
	if resp.Data.Metrics[0].ID != "hazardous_substances" {
		t.Errorf("unexpected first metric: %+v", resp.Data.Metrics[0])
	}
}

func TestRecommendSortsByTotalScore(t *testing.T) {
	router := setupTestRouter()
	reply := postRecommend(t, router, `{"category":"Flooring","required_metrics":[],"weights":{}}`)

	if !reply.Success || reply.Count != 3 {
		t.Fatalf("expected 3 flooring items, got %+v", reply)
	}
	var ids []int64
	for _, item := range reply.Items {
		ids = append(ids, item.ID)
	}
	if ids[0] != 1 || ids[1] != 2 || ids[2] != 3 {
		t.Errorf("expected descending total order [1 2 3], got %v", ids)
	}
	if reply.Items[0].TotalScore != 80.0 {
		t.Errorf("expected top total 80.0, got %v", reply.Items[0].TotalScore)
	}
	if reply.Items[0].TotalLabel != scoring.LabelExcellent {
		t.Errorf("expected Excellent, got %s", reply.Items[0].TotalLabel)
	}
}

func TestRecommendFiltersByCategory(t *testing.T) {
	router := setupTestRouter()
	reply := postRecommend(t, router, `{"category":"Insulation"}`)

	if reply.Count != 1 || reply.Items[0].ID != 2 {
		t.Errorf("expected only the insulation material, got %+v", reply)
	}
}

func TestRecommendRequiredMetricThreshold(t *testing.T) {
	router := setupTestRouter()

	reply := postRecommend(t, router, `{"required_metrics":["hazardous_substances"]}`)
	if reply.Count != 1 || reply.Items[0].ID != 1 {
		t.Errorf("expected only the material with hazard score >= 80, got %+v", reply)
	}

	reply = postRecommend(t, router, `{"required_metrics":["circularity"]}`)
	if reply.Count != 1 || reply.Items[0].ID != 1 {
		t.Errorf("expected only the material with CLSI >= 80, got %+v", reply)
	}

	// Both at once.
	reply = postRecommend(t, router, `{"required_metrics":["hazardous_substances","certification"]}`)
	if reply.Count != 0 {
		t.Errorf("expected no material excellent on certification, got %+v", reply)
	}
}

func TestRecommendCustomWeightsReorder(t *testing.T) {
	router := setupTestRouter()
	reply := postRecommend(t, router, `{"weights":{"hazardous_substances":0,"circularity":0,"certification":1}}`)

	if reply.Items[0].ID != 2 {
		t.Errorf("expected the only certified material first, got %+v", reply.Items[0])
	}
	if reply.Items[0].TotalScore != 22.22 {
		t.Errorf("expected total 22.22 under pure certification weight, got %v", reply.Items[0].TotalScore)
	}
}

func TestRecommendBadBody(t *testing.T) {
	router := setupTestRouter()
	req := httptest.NewRequest("POST", "/api/recommend", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestDetail(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/material/2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool                   `json:"success"`
		Item    scoring.ScoredMaterial `json:"item"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.Item.ID != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Item.TotalScore != 62.44 {
		t.Errorf("expected total 62.44, got %v", resp.Item.TotalScore)
	}
	if resp.Item.IndependentLCA != "Yes" {
		t.Errorf("expected raw fields echoed, got %+v", resp.Item)
	}
}

func TestDetailNotFound(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/material/999", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Success || resp.Error != "Material not found" {
		t.Errorf("unexpected body: %+v", resp)
	}
}

func TestDetailInvalidID(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest("GET", "/api/material/abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}
