package scoring

import (
	"math"
	"strconv"
	"strings"

	"github.com/productaware/ecoselect/internal/catalog"
)

// DefaultReferenceLifespan is the baseline (years) for the CLSI lifetime
// factor. 25–30 is typical for long-lived structural materials.
const DefaultReferenceLifespan = 20.0

// Grade labels derived from a total or component score.
const (
	LabelExcellent   = "Excellent"
	LabelPass        = "Pass"
	LabelFail        = "Fail"
	LabelMissingData = "Missing data"
)

// HazardMissing flags which hazardous-substances inputs were absent.
type HazardMissing struct {
	VOC        bool `json:"voc_missing"`
	Substances bool `json:"substances_missing"`
}

// CircularityMissing flags which CLSI inputs were absent.
type CircularityMissing struct {
	RecycledContent bool `json:"recycled_content_missing"`
	Recyclable      bool `json:"recyclable_missing"`
	Lifespan        bool `json:"lifespan_missing"`
	Reusable        bool `json:"reusable_missing"`
}

// ScoredMaterial is a material with its computed scores, shaped for the API
// responses.
type ScoredMaterial struct {
	ID                 int64    `json:"id"`
	ManufacturerName   string   `json:"manufacturer_name"`
	ProductName        string   `json:"product_name"`
	ProductCode        string   `json:"product_code"`
	ProductDescription string   `json:"product_description"`
	Categories         []string `json:"categories"`

	HazardousSubstancesScore        *float64           `json:"hazardous_substances_score"`
	HazardousSubstancesScoreMissing HazardMissing      `json:"hazardous_substances_score_missing"`
	CircularityLifespanScore        float64            `json:"circularity_lifespan_score"`
	CircularityLifespanScoreMissing CircularityMissing `json:"circularity_lifespan_score_missing"`
	CertificationScore              float64            `json:"certification_score"`
	TotalScore                      float64            `json:"total_score"`
	TotalLabel                      string             `json:"total_label"`

	VolatileOrganicCompounds  string                     `json:"volatile_organic_compounds"`
	SubstancesOfConcern       string                     `json:"substances_of_concern"`
	RecyclablePercentage      catalog.FlexValue          `json:"recyclable_percentage"`
	RecycledContentPercentage catalog.FlexValue          `json:"recycled_content_percentage"`
	Reusable                  string                     `json:"reusable"`
	ExpectedLifespanYears     catalog.FlexValue          `json:"expected_lifespan_years"`
	IndependentLCA            string                     `json:"independent_lca"`
	Certifications            []catalog.CertificationRef `json:"certifications"`
	ImageURL                  string                     `json:"image_url,omitempty"`
}

// Model computes per-material sustainability scores.
type Model struct {
	referenceLifespan float64
}

func NewModel(referenceLifespan float64) *Model {
	if referenceLifespan <= 0 {
		referenceLifespan = DefaultReferenceLifespan
	}
	return &Model{referenceLifespan: referenceLifespan}
}

// Score computes the three component scores and the weighted total for one
// material. A missing hazardous-substances score stays nil in the output but
// contributes zero to the total.
func (mo *Model) Score(m *catalog.Material, w WeightSet) ScoredMaterial {
	hazard, hazardMissing := HazardousSubstancesScore(m)
	clsi, clsiMissing := mo.CircularityLifespanScore(m)
	cert := CertificationScore(m)

	hazardForTotal := 0.0
	if hazard != nil {
		hazardForTotal = *hazard
	}
	total := round2(hazardForTotal*w.HazardousSubstances + clsi*w.Circularity + cert*w.Certification)

	certs := m.Certifications
	if certs == nil {
		certs = []catalog.CertificationRef{}
	}

	return ScoredMaterial{
		ID:                 m.ID,
		ManufacturerName:   m.ManufacturerName,
		ProductName:        m.ProductName,
		ProductCode:        m.ProductCode,
		ProductDescription: m.ProductDescription,
		Categories:         m.CategoryNames(),

		HazardousSubstancesScore:        hazard,
		HazardousSubstancesScoreMissing: hazardMissing,
		CircularityLifespanScore:        clsi,
		CircularityLifespanScoreMissing: clsiMissing,
		CertificationScore:              cert,
		TotalScore:                      total,
		TotalLabel:                      GradeLabel(&total),

		VolatileOrganicCompounds:  m.VolatileOrganicCompounds,
		SubstancesOfConcern:       m.SubstancesOfConcern,
		RecyclablePercentage:      m.RecyclablePercentage,
		RecycledContentPercentage: m.RecycledContentPercentage,
		Reusable:                  m.Reusable,
		ExpectedLifespanYears:     m.ExpectedLifespanYears,
		IndependentLCA:            m.IndependentLCA,
		Certifications:            certs,
		ImageURL:                  catalog.ResolveImage(m),
	}
}

// GradeLabel maps a 0–100 score to its categorical label. A nil score means
// the underlying data was missing.
func GradeLabel(score *float64) string {
	switch {
	case score == nil:
		return LabelMissingData
	case *score >= 80:
		return LabelExcellent
	case *score >= 50:
		return LabelPass
	default:
		return LabelFail
	}
}

// ParsePercent parses a free-form dataset value into a percentage. Text that
// does not begin with a digit (or a negative sign followed by one), such as
// "Unsure", is treated as absent.
func ParsePercent(v catalog.FlexValue) (float64, bool) {
	s := strings.TrimSpace(v.String())
	if s == "" {
		return 0, false
	}
	leadsNumeric := s[0] >= '0' && s[0] <= '9'
	if !leadsNumeric && s[0] == '-' && len(s) > 1 {
		leadsNumeric = s[1] >= '0' && s[1] <= '9'
	}
	if !leadsNumeric {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// HazardousSubstancesScore scores VOC emissions and substances of concern on
// a 0–100 scale. Each present input covers half the scale; if only one is
// present it covers the full 50 points it owns and the missing half counts as
// zero. Both missing yields a nil score.
func HazardousSubstancesScore(m *catalog.Material) (*float64, HazardMissing) {
	voc := strings.TrimSpace(m.VolatileOrganicCompounds)
	subs := strings.TrimSpace(m.SubstancesOfConcern)

	missing := HazardMissing{}

	var vocPoints *float64
	switch vocLower := strings.ToLower(voc); {
	case strings.Contains(vocLower, "no emissions"):
		vocPoints = ptr(2.0)
	case strings.Contains(vocLower, "low emissions"):
		vocPoints = ptr(1.0)
	case strings.Contains(vocLower, "high emissions"):
		vocPoints = ptr(0.0)
	default:
		missing.VOC = true
	}

	var subsPoints *float64
	switch subs {
	case "No":
		subsPoints = ptr(1.0)
	case "Yes":
		subsPoints = ptr(0.0)
	default: // "Unsure" or empty
		missing.Substances = true
	}

	switch {
	case vocPoints == nil && subsPoints == nil:
		return nil, missing
	case vocPoints == nil:
		return ptr(round2(*subsPoints * 50.0)), missing
	case subsPoints == nil:
		return ptr(round2(*vocPoints / 2.0 * 50.0)), missing
	default:
		return ptr(round2(*vocPoints/2.0*50.0 + *subsPoints*50.0)), missing
	}
}

// clsiWeights blend the circularity sub-scores: material circularity,
// lifetime utility, and reusability.
const (
	clsiWeightMaterial = 0.4
	clsiWeightLifetime = 0.4
	clsiWeightReuse    = 0.2

	// Neutral fill-in for a sub-score whose inputs are all missing.
	clsiNeutral = 0.5
)

// CircularityLifespanScore computes the Circularity & Lifespan Score Index
// (CLSI) on a 0–100 scale, blending recycled input, recyclable output,
// lifetime relative to the reference lifespan, and reusability.
func (mo *Model) CircularityLifespanScore(m *catalog.Material) (float64, CircularityMissing) {
	missing := CircularityMissing{}

	var rIn, rOut *float64
	if pct, ok := ParsePercent(m.RecycledContentPercentage); ok {
		rIn = ptr(pct / 100.0)
	} else {
		missing.RecycledContent = true
	}
	if pct, ok := ParsePercent(m.RecyclablePercentage); ok {
		rOut = ptr(pct / 100.0)
	} else {
		missing.Recyclable = true
	}

	var sLife *float64
	if years, ok := ParsePercent(m.ExpectedLifespanYears); ok {
		sLife = ptr(math.Min(1.0, years/mo.referenceLifespan))
	} else {
		missing.Lifespan = true
	}

	var sReuse *float64
	switch strings.TrimSpace(m.Reusable) {
	case "":
		missing.Reusable = true
	case "Yes":
		sReuse = ptr(1.0)
	case "Unsure":
		sReuse = ptr(0.5)
	default: // "No" or anything else
		sReuse = ptr(0.0)
	}

	var sMat *float64
	switch {
	case rIn == nil && rOut == nil:
		// leave nil, neutral fill below
	case rIn == nil:
		sMat = rOut
	case rOut == nil:
		sMat = rIn
	default:
		sMat = ptr((*rIn + *rOut) / 2.0)
	}

	clsi := clsiWeightMaterial*orNeutral(sMat) +
		clsiWeightLifetime*orNeutral(sLife) +
		clsiWeightReuse*orNeutral(sReuse)
	return round2(100.0 * clsi), missing
}

// highValueCertKeywords mark certifications that carry double weight in the
// certification score.
var highValueCertKeywords = []string{
	"Environmental Product Declaration", // EPD
	"EPD",
	"Cradle to Cradle",
	"C2C",
	"Declare label",
	"GreenTag – Green Rate",
	"GreenTag – Health Rate",
	"GreenTag – LCA Rate",
	"GECA",
	"GREENGUARD",
	"Health Product Declaration",
	"HPD",
	"SCS Indoor Advantage",
}

// certMaxPoints is the raw-point ceiling: two high-value certifications (+2
// each), three other certifications (+1 each), independent LCA (+2).
const certMaxPoints = 9.0

// CertificationScore scores certifications and independent LCA on a 0–100
// scale.
func CertificationScore(m *catalog.Material) float64 {
	highValue, other := 0, 0
	for _, c := range m.Certifications {
		name := strings.TrimSpace(c.Certification)
		if name == "" {
			continue
		}
		if isHighValueCert(name) {
			highValue++
		} else {
			other++
		}
	}

	points := float64(min(highValue, 2)*2 + min(other, 3))
	if strings.TrimSpace(m.IndependentLCA) == "Yes" {
		points += 2
	}
	return round2(points / certMaxPoints * 100.0)
}

func isHighValueCert(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range highValueCertKeywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func orNeutral(v *float64) float64 {
	if v == nil {
		return clsiNeutral
	}
	return *v
}

func ptr(v float64) *float64 { return &v }

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
