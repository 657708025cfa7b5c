package scoring

import (
	"fmt"
	"math"
)

// Dimension is one of the three fixed scoring axes.
type Dimension string

const (
	DimensionHazardousSubstances Dimension = "hazardous_substances"
	DimensionCircularity         Dimension = "circularity"
	DimensionCertification       Dimension = "certification"
)

// emphasisBonus is added to the emphasized dimension before renormalizing.
const emphasisBonus = 0.05

// WeightSet defines the relative importance of each scoring dimension.
// All weights must sum to 1.0 (±0.001 tolerance).
type WeightSet struct {
	HazardousSubstances float64 `json:"hazardous_substances" yaml:"hazardous_substances"`
	Circularity         float64 `json:"circularity" yaml:"circularity"`
	Certification       float64 `json:"certification" yaml:"certification"`
}

// BaseWeights returns the default weight distribution used when the user
// expresses no emphasis.
func BaseWeights() WeightSet {
	return WeightSet{
		HazardousSubstances: 0.4,
		Circularity:         0.4,
		Certification:       0.2,
	}
}

// ComputeWeights derives the weight distribution for an optional emphasis
// dimension: the base weights with a fixed bonus on the emphasized axis,
// renormalized so the three weights sum to 1.0 and rounded to 3 decimals.
// An empty or unrecognized dimension yields the base weights unchanged.
func ComputeWeights(emphasis Dimension) WeightSet {
	w := BaseWeights()
	switch emphasis {
	case DimensionHazardousSubstances:
		w.HazardousSubstances += emphasisBonus
	case DimensionCircularity:
		w.Circularity += emphasisBonus
	case DimensionCertification:
		w.Certification += emphasisBonus
	default:
		return w
	}

	sum := w.Sum()
	w.HazardousSubstances = round3(w.HazardousSubstances / sum)
	w.Circularity = round3(w.Circularity / sum)
	w.Certification = round3(w.Certification / sum)
	return w
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.HazardousSubstances + w.Circularity + w.Certification
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightSet) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range []float64{w.HazardousSubstances, w.Circularity, w.Certification} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// DimensionMap resolves a user-selectable metric id to the dimension whose
// weight an emphasis on that metric boosts. The mapping is configuration, not
// a naming convention, so new metric ids can be introduced without touching
// the weight math.
type DimensionMap map[string]Dimension

// DefaultDimensionMap maps the three built-in metric ids to themselves.
func DefaultDimensionMap() DimensionMap {
	return DimensionMap{
		string(DimensionHazardousSubstances): DimensionHazardousSubstances,
		string(DimensionCircularity):         DimensionCircularity,
		string(DimensionCertification):       DimensionCertification,
	}
}

// Resolve returns the dimension for a metric id, or "" when the id is not
// mapped (treated downstream as no emphasis).
func (m DimensionMap) Resolve(metricID string) Dimension {
	return m[metricID]
}
