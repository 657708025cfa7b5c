package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/productaware/ecoselect/internal/catalog"
	"github.com/productaware/ecoselect/internal/events"
	"github.com/productaware/ecoselect/internal/scoring"
)

// mustHaveThreshold is the component score (0–100) a material needs on every
// required metric; >=80 counts as "excellent".
const mustHaveThreshold = 80.0

// MetricDescriptor describes a selectable metric for the front-end filters.
type MetricDescriptor struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

func metricDescriptors() []MetricDescriptor {
	return []MetricDescriptor{
		{
			ID:          string(scoring.DimensionHazardousSubstances),
			Label:       "Hazardous substances (VOC + substances of concern)",
			Description: "Emphasizes low VOC emissions and minimized substances of concern.",
		},
		{
			ID:          string(scoring.DimensionCircularity),
			Label:       "Circularity & Lifetime (CLSI)",
			Description: "Combines recycled input, recyclability, lifetime, and reusability.",
		},
		{
			ID:          string(scoring.DimensionCertification),
			Label:       "Certifications (LCA & third-party)",
			Description: "Rewards independent LCA and high-value environmental certifications.",
		},
	}
}

type MaterialsHandler struct {
	store  catalog.Store
	model  *scoring.Model
	events events.Publisher
	logger *slog.Logger
}

func NewMaterialsHandler(store catalog.Store, model *scoring.Model, pub events.Publisher, logger *slog.Logger) *MaterialsHandler {
	return &MaterialsHandler{store: store, model: model, events: pub, logger: logger}
}

// Filters serves the metadata the wizard needs for its option screens: the
// category list and the metric definitions.
func (h *MaterialsHandler) Filters(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.Categories(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}
	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data": map[string]interface{}{
			"categories": categories,
			"metrics":    metricDescriptors(),
		},
	})
}

type recommendRequest struct {
	Category        string   `json:"category"`
	RequiredMetrics []string `json:"required_metrics"`
	Weights         struct {
		HazardousSubstances *float64 `json:"hazardous_substances"`
		Circularity         *float64 `json:"circularity"`
		Certification       *float64 `json:"certification"`
	} `json:"weights"`
}

// weightSet coerces the request weights, falling back to the base
// distribution for any missing key.
func (req *recommendRequest) weightSet() scoring.WeightSet {
	w := scoring.BaseWeights()
	if req.Weights.HazardousSubstances != nil {
		w.HazardousSubstances = *req.Weights.HazardousSubstances
	}
	if req.Weights.Circularity != nil {
		w.Circularity = *req.Weights.Circularity
	}
	if req.Weights.Certification != nil {
		w.Certification = *req.Weights.Certification
	}
	return w
}

// Recommend scores the catalog with the caller's weights, keeps only the
// materials that are excellent on every required metric, and returns them
// sorted by total score descending.
func (h *MaterialsHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		recommendRequests.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid request body"})
		return
	}

	category := strings.TrimSpace(req.Category)
	weights := req.weightSet()

	materials, err := h.store.List(r.Context(), category)
	if err != nil {
		recommendRequests.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}

	items := make([]scoring.ScoredMaterial, 0, len(materials))
	for _, m := range materials {
		scored := h.model.Score(m, weights)
		if !meetsRequirements(scored, req.RequiredMetrics) {
			continue
		}
		items = append(items, scored)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TotalScore > items[j].TotalScore
	})

	recommendRequests.WithLabelValues("ok").Inc()
	recommendResults.Observe(float64(len(items)))

	if h.events != nil {
		_ = h.events.Publish(events.SubjectRecommendServed, events.RecommendServedEvent{
			Category:        category,
			RequiredMetrics: req.RequiredMetrics,
			Count:           len(items),
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(items),
		"items":   items,
	})
}

// meetsRequirements checks that every required metric scores at or above the
// must-have threshold. A missing hazardous-substances score fails a
// hazardous_substances requirement.
func meetsRequirements(s scoring.ScoredMaterial, required []string) bool {
	for _, metric := range required {
		switch metric {
		case string(scoring.DimensionHazardousSubstances):
			if s.HazardousSubstancesScore == nil || *s.HazardousSubstancesScore < mustHaveThreshold {
				return false
			}
		case string(scoring.DimensionCircularity):
			if s.CircularityLifespanScore < mustHaveThreshold {
				return false
			}
		case string(scoring.DimensionCertification):
			if s.CertificationScore < mustHaveThreshold {
				return false
			}
		}
	}
	return true
}

// Detail serves one scored material by id.
func (h *MaterialsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		detailRequests.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{"success": false, "error": "invalid material id"})
		return
	}

	material, err := h.store.Get(r.Context(), id)
	if err != nil {
		detailRequests.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"success": false, "error": err.Error()})
		return
	}
	if material == nil {
		detailRequests.WithLabelValues("not_found").Inc()
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"success": false, "error": "Material not found"})
		return
	}

	scored := h.model.Score(material, scoring.BaseWeights())

	detailRequests.WithLabelValues("ok").Inc()
	if h.events != nil {
		_ = h.events.Publish(events.SubjectMaterialViewed, events.MaterialViewedEvent{MaterialID: id})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"item":    scored,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
