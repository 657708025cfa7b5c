package recommender

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/productaware/ecoselect/internal/scoring"
)

// MetricDescriptor describes one selectable metric offered by the filters
// endpoint.
type MetricDescriptor struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Filters is the startup metadata: category and metric option lists.
type Filters struct {
	Categories []string           `json:"categories"`
	Metrics    []MetricDescriptor `json:"metrics"`
}

// MaterialSummary is one ranked result entry. The service sorts by total
// score descending; callers must preserve the received order.
type MaterialSummary struct {
	ID                 int64    `json:"id"`
	ManufacturerName   string   `json:"manufacturer_name"`
	ProductName        string   `json:"product_name"`
	ProductCode        string   `json:"product_code"`
	ProductDescription string   `json:"product_description"`
	Categories         []string `json:"categories"`

	TotalScore               float64  `json:"total_score"`
	TotalLabel               string   `json:"total_label"`
	HazardousSubstancesScore *float64 `json:"hazardous_substances_score"`
	CircularityLifespanScore float64  `json:"circularity_lifespan_score"`
	CertificationScore       float64  `json:"certification_score"`

	ImageURL string `json:"image_url,omitempty"`
}

// MaterialDetail extends the summary with the per-criterion raw fields shown
// in the drill-down view.
type MaterialDetail struct {
	MaterialSummary

	VolatileOrganicCompounds  string          `json:"volatile_organic_compounds"`
	SubstancesOfConcern       string          `json:"substances_of_concern"`
	RecyclablePercentage      json.RawMessage `json:"recyclable_percentage"`
	RecycledContentPercentage json.RawMessage `json:"recycled_content_percentage"`
	Reusable                  string          `json:"reusable"`
	ExpectedLifespanYears     json.RawMessage `json:"expected_lifespan_years"`
	IndependentLCA            string          `json:"independent_lca"`
	Certifications            json.RawMessage `json:"certifications"`
}

// RecommendRequest is the body of POST /api/recommend.
type RecommendRequest struct {
	Category        string            `json:"category"`
	RequiredMetrics []string          `json:"required_metrics"`
	Weights         scoring.WeightSet `json:"weights"`
}

type Client interface {
	LoadFilters(ctx context.Context) (*Filters, error)
	Recommend(ctx context.Context, req RecommendRequest) ([]MaterialSummary, error)
	MaterialDetail(ctx context.Context, id int64) (*MaterialDetail, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) doReq(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		// Failed calls still answer with the envelope; prefer its error text.
		var envelope struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &envelope) == nil && envelope.Error != "" {
			return nil, fmt.Errorf("ecoselect %s %s: %s", method, path, envelope.Error)
		}
		return nil, fmt.Errorf("ecoselect %s %s: %d %s", method, path, resp.StatusCode, string(data))
	}
	return data, nil
}

type filtersResponse struct {
	Success bool    `json:"success"`
	Data    Filters `json:"data"`
	Error   string  `json:"error"`
}

func (c *HTTPClient) LoadFilters(ctx context.Context) (*Filters, error) {
	data, err := c.doReq(ctx, "GET", "/api/filters", nil)
	if err != nil {
		return nil, err
	}
	var resp filtersResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("filters: %s", orUnknown(resp.Error))
	}
	return &resp.Data, nil
}

type recommendResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Items   []MaterialSummary `json:"items"`
	Error   string            `json:"error"`
}

func (c *HTTPClient) Recommend(ctx context.Context, req RecommendRequest) ([]MaterialSummary, error) {
	if req.RequiredMetrics == nil {
		req.RequiredMetrics = []string{}
	}
	data, err := c.doReq(ctx, "POST", "/api/recommend", req)
	if err != nil {
		return nil, err
	}
	var resp recommendResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("recommend: %s", orUnknown(resp.Error))
	}
	return resp.Items, nil
}

type detailResponse struct {
	Success bool            `json:"success"`
	Item    *MaterialDetail `json:"item"`
	Error   string          `json:"error"`
}

func (c *HTTPClient) MaterialDetail(ctx context.Context, id int64) (*MaterialDetail, error) {
	data, err := c.doReq(ctx, "GET", "/api/material/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}
	var resp detailResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	if !resp.Success || resp.Item == nil {
		return nil, fmt.Errorf("material %d: %s", id, orUnknown(resp.Error))
	}
	return resp.Item, nil
}

func orUnknown(s string) string {
	if s == "" {
		return "service reported failure"
	}
	return s
}
