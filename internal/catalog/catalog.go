package catalog

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
)

// mediaBaseURL prefixes dataset image paths that are not absolute URLs.
const mediaBaseURL = "https://architectsdeclareapp.s3.amazonaws.com/media/"

// FlexValue carries a dataset field that may arrive as a JSON number, a
// string, or null. The raw text form is kept; callers parse what they need.
type FlexValue string

func (f *FlexValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexValue(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexValue(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

func (f FlexValue) MarshalJSON() ([]byte, error) {
	if f == "" {
		return []byte("null"), nil
	}
	return json.Marshal(string(f))
}

func (f FlexValue) String() string { return string(f) }

type CategoryRef struct {
	CategoryName string `json:"category_name"`
}

type CertificationRef struct {
	Certification string `json:"certification"`
}

// ImageRef accepts either a bare URL string or an object carrying the URL
// under one of several keys, matching the dataset's mixed image entries.
type ImageRef struct {
	URL string
}

func (r *ImageRef) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.URL = s
		return nil
	}
	var obj struct {
		URL   string `json:"url"`
		Image string `json:"image"`
		Src   string `json:"src"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	for _, v := range []string{obj.URL, obj.Image, obj.Src} {
		if strings.TrimSpace(v) != "" {
			r.URL = v
			return nil
		}
	}
	return nil
}

func (r ImageRef) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.URL)
}

// Material is one entry of the Product Aware dataset. Free-form fields such
// as percentages and lifespans keep their raw text; the scoring package owns
// their interpretation.
type Material struct {
	ID                 int64         `json:"id"`
	ManufacturerName   string        `json:"manufacturer_name"`
	ProductName        string        `json:"product_name"`
	ProductCode        string        `json:"product_code"`
	ProductDescription string        `json:"product_description"`
	ProductCategories  []CategoryRef `json:"product_categories"`

	VolatileOrganicCompounds string `json:"volatile_organic_compounds"`
	SubstancesOfConcern      string `json:"substances_of_concern"`

	RecyclablePercentage      FlexValue `json:"recyclable_percentage"`
	RecycledContentPercentage FlexValue `json:"recycled_content_percentage"`
	Reusable                  string    `json:"reusable"`
	ExpectedLifespanYears     FlexValue `json:"expected_lifespan_years"`

	IndependentLCA string             `json:"independent_lca"`
	Certifications []CertificationRef `json:"certifications"`

	Image        string     `json:"image,omitempty"`
	CoverImage   string     `json:"cover_image,omitempty"`
	Thumbnail    string     `json:"thumbnail,omitempty"`
	ProductImage string     `json:"product_image,omitempty"`
	ProductPhoto string     `json:"product_photo,omitempty"`
	Images       []ImageRef `json:"images,omitempty"`
}

// CategoryNames returns the non-empty category names, in dataset order.
func (m *Material) CategoryNames() []string {
	names := make([]string, 0, len(m.ProductCategories))
	for _, c := range m.ProductCategories {
		if c.CategoryName != "" {
			names = append(names, c.CategoryName)
		}
	}
	return names
}

// HasCategory reports whether the material belongs to the named category.
func (m *Material) HasCategory(name string) bool {
	for _, c := range m.ProductCategories {
		if c.CategoryName == name {
			return true
		}
	}
	return false
}

// ResolveImage picks the best available image URL for a material, trying the
// dedicated image fields first and the images list last. Relative paths are
// rewritten against the media bucket.
func ResolveImage(m *Material) string {
	for _, candidate := range []string{m.Image, m.CoverImage, m.Thumbnail, m.ProductImage, m.ProductPhoto} {
		if v := strings.TrimSpace(candidate); v != "" {
			return normalizeImageURL(v)
		}
	}
	if len(m.Images) > 0 {
		if v := strings.TrimSpace(m.Images[0].URL); v != "" {
			return normalizeImageURL(v)
		}
	}
	return ""
}

func normalizeImageURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return mediaBaseURL + strings.TrimPrefix(path, "/")
}

// Store provides read access to the material catalog. Implementations are
// safe for concurrent readers.
type Store interface {
	Categories(ctx context.Context) ([]string, error)
	List(ctx context.Context, category string) ([]*Material, error)
	Get(ctx context.Context, id int64) (*Material, error)
	Close() error
}
