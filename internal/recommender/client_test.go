package recommender

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/productaware/ecoselect/internal/scoring"
)

func TestLoadFilters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "GET" || r.URL.Path != "/api/filters" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"data": {
				"categories": ["Flooring", "Insulation"],
				"metrics": [
					{"id": "hazardous_substances", "label": "Hazardous substances", "description": "VOC and substances of concern"},
					{"id": "circularity", "label": "Circularity", "description": "CLSI"},
					{"id": "certification", "label": "Certifications", "description": "LCA and third-party"}
				]
			}
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	filters, err := client.LoadFilters(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(filters.Categories) != 2 || filters.Categories[0] != "Flooring" {
		t.Errorf("unexpected categories: %v", filters.Categories)
	}
	if len(filters.Metrics) != 3 || filters.Metrics[2].ID != "certification" {
		t.Errorf("unexpected metrics: %+v", filters.Metrics)
	}
}

func TestLoadFiltersFailureEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"success": false, "error": "catalog unavailable"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.LoadFilters(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "catalog unavailable") {
		t.Errorf("expected envelope error text, got: %v", err)
	}
}

func TestRecommendSendsRequestAndPreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/recommend" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req RecommendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Category != "Flooring" {
			t.Errorf("unexpected category: %q", req.Category)
		}
		if len(req.RequiredMetrics) != 1 || req.RequiredMetrics[0] != "circularity" {
			t.Errorf("unexpected required metrics: %v", req.RequiredMetrics)
		}
		if req.Weights.Circularity != 0.429 {
			t.Errorf("unexpected weights: %+v", req.Weights)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"success": true,
			"count": 2,
			"items": [
				{"id": 7, "product_name": "Cork Tile", "total_score": 80.0, "total_label": "Excellent"},
				{"id": 3, "product_name": "Hemp Batt", "total_score": 62.44, "total_label": "Pass"}
			]
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	items, err := client.Recommend(context.Background(), RecommendRequest{
		Category:        "Flooring",
		RequiredMetrics: []string{"circularity"},
		Weights:         scoring.ComputeWeights(scoring.DimensionCircularity),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0].ID != 7 || items[1].ID != 3 {
		t.Errorf("order not preserved: %+v", items)
	}
	if items[0].TotalLabel != "Excellent" {
		t.Errorf("unexpected label: %+v", items[0])
	}
}

func TestRecommendNilMetricsSentAsEmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if string(raw["required_metrics"]) != "[]" {
			t.Errorf("expected empty list, got %s", raw["required_metrics"])
		}
		w.Write([]byte(`{"success": true, "count": 0, "items": []}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	if _, err := client.Recommend(context.Background(), RecommendRequest{Weights: scoring.BaseWeights()}); err != nil {
		t.Fatal(err)
	}
}

func TestMaterialDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/material/42" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"success": true,
			"item": {
				"id": 42,
				"product_name": "Hemp Batt",
				"total_score": 62.44,
				"total_label": "Pass",
				"expected_lifespan_years": "40",
				"independent_lca": "Yes"
			}
		}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	detail, err := client.MaterialDetail(context.Background(), 42)
	if err != nil {
		t.Fatal(err)
	}
	if detail.ID != 42 || detail.IndependentLCA != "Yes" {
		t.Errorf("unexpected detail: %+v", detail)
	}
}

func TestMaterialDetailNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success": false, "error": "Material not found"}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)
	_, err := client.MaterialDetail(context.Background(), 999)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Material not found") {
		t.Errorf("expected not-found error text, got: %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewHTTPClient(server.URL)
	if _, err := client.LoadFilters(ctx); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
