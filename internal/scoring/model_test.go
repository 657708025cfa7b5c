package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productaware/ecoselect/internal/catalog"
)

func TestParsePercent(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"76", 76, true},
		{"12.5", 12.5, true},
		{"-5", -5, true},
		{"0", 0, true},
		{"Unsure", 0, false},
		{"", 0, false},
		{"  ", 0, false},
		{"N/A", 0, false},
		{"-", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParsePercent(catalog.FlexValue(tt.in))
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if ok {
			assert.Equal(t, tt.want, got, "input %q", tt.in)
		}
	}
}

func TestHazardousSubstancesScore(t *testing.T) {
	tests := []struct {
		name    string
		voc     string
		subs    string
		want    *float64
		missing HazardMissing
	}{
		{"both best", "Yes - No Emissions", "No", ptr(100.0), HazardMissing{}},
		{"low emissions with concern", "Yes - Low Emissions", "Yes", ptr(25.0), HazardMissing{}},
		{"high emissions clean", "High Emissions", "No", ptr(50.0), HazardMissing{}},
		{"only voc", "Yes - Low Emissions", "Unsure", ptr(25.0), HazardMissing{Substances: true}},
		{"only substances", "", "No", ptr(50.0), HazardMissing{VOC: true}},
		{"both missing", "", "Unsure", nil, HazardMissing{VOC: true, Substances: true}},
		{"unknown voc text", "Unknown", "Yes", ptr(0.0), HazardMissing{VOC: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &catalog.Material{VolatileOrganicCompounds: tt.voc, SubstancesOfConcern: tt.subs}
			got, missing := HazardousSubstancesScore(m)
			assert.Equal(t, tt.missing, missing)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestCircularityLifespanScore(t *testing.T) {
	model := NewModel(20.0)

	t.Run("all inputs missing uses neutral fill", func(t *testing.T) {
		got, missing := model.CircularityLifespanScore(&catalog.Material{})
		assert.Equal(t, 50.0, got)
		assert.Equal(t, CircularityMissing{
			RecycledContent: true, Recyclable: true, Lifespan: true, Reusable: true,
		}, missing)
	})

	t.Run("best case", func(t *testing.T) {
		m := &catalog.Material{
			RecycledContentPercentage: "100",
			RecyclablePercentage:      "100",
			ExpectedLifespanYears:     "20",
			Reusable:                  "Yes",
		}
		got, missing := model.CircularityLifespanScore(m)
		assert.Equal(t, 100.0, got)
		assert.Equal(t, CircularityMissing{}, missing)
	})

	t.Run("lifetime capped at reference", func(t *testing.T) {
		long := &catalog.Material{ExpectedLifespanYears: "60", Reusable: "No"}
		short := &catalog.Material{ExpectedLifespanYears: "20", Reusable: "No"}
		longScore, _ := model.CircularityLifespanScore(long)
		shortScore, _ := model.CircularityLifespanScore(short)
		assert.Equal(t, shortScore, longScore)
	})

	t.Run("single percentage covers material sub-score", func(t *testing.T) {
		m := &catalog.Material{
			RecyclablePercentage: "50",
			Reusable:             "Unsure",
		}
		// S_mat=0.5, S_life neutral 0.5, S_reuse 0.5 -> 50.
		got, missing := model.CircularityLifespanScore(m)
		assert.Equal(t, 50.0, got)
		assert.True(t, missing.RecycledContent)
		assert.True(t, missing.Lifespan)
		assert.False(t, missing.Recyclable)
	})
}

func TestCertificationScore(t *testing.T) {
	certs := func(names ...string) []catalog.CertificationRef {
		out := make([]catalog.CertificationRef, len(names))
		for i, n := range names {
			out[i] = catalog.CertificationRef{Certification: n}
		}
		return out
	}

	t.Run("nothing scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, CertificationScore(&catalog.Material{}))
	})

	t.Run("independent lca alone", func(t *testing.T) {
		got := CertificationScore(&catalog.Material{IndependentLCA: "Yes"})
		assert.Equal(t, 22.22, got)
	})

	t.Run("full house", func(t *testing.T) {
		m := &catalog.Material{
			IndependentLCA: "Yes",
			Certifications: certs("EPD verified", "Cradle to Cradle Gold", "ISO 14001", "Local ecolabel", "Some other"),
		}
		// 2 high-value (+4), 3 other (+3), LCA (+2) = 9/9.
		assert.Equal(t, 100.0, CertificationScore(m))
	})

	t.Run("high value count capped at two", func(t *testing.T) {
		m := &catalog.Material{
			Certifications: certs("EPD", "GECA", "GREENGUARD Gold"),
		}
		// Only two high-value certifications count: points = 4 out of 9.
		assert.Equal(t, 44.44, CertificationScore(m))
	})

	t.Run("blank names ignored", func(t *testing.T) {
		m := &catalog.Material{Certifications: certs("", "  ")}
		assert.Equal(t, 0.0, CertificationScore(m))
	})
}

func TestGradeLabel(t *testing.T) {
	assert.Equal(t, LabelMissingData, GradeLabel(nil))
	assert.Equal(t, LabelExcellent, GradeLabel(ptr(80.0)))
	assert.Equal(t, LabelExcellent, GradeLabel(ptr(96.3)))
	assert.Equal(t, LabelPass, GradeLabel(ptr(79.99)))
	assert.Equal(t, LabelPass, GradeLabel(ptr(50.0)))
	assert.Equal(t, LabelFail, GradeLabel(ptr(49.9)))
	assert.Equal(t, LabelFail, GradeLabel(ptr(0.0)))
}

func TestModelScoreTotal(t *testing.T) {
	model := NewModel(20.0)

	m := &catalog.Material{
		ID:          7,
		ProductName: "Recycled Acoustic Panel",
		ProductCategories: []catalog.CategoryRef{
			{CategoryName: "Flooring"},
		},
		VolatileOrganicCompounds:  "Yes - No Emissions",
		SubstancesOfConcern:       "No",
		RecycledContentPercentage: "100",
		RecyclablePercentage:      "100",
		ExpectedLifespanYears:     "20",
		Reusable:                  "Yes",
		IndependentLCA:            "Yes",
	}

	scored := model.Score(m, BaseWeights())
	require.NotNil(t, scored.HazardousSubstancesScore)
	assert.Equal(t, 100.0, *scored.HazardousSubstancesScore)
	assert.Equal(t, 100.0, scored.CircularityLifespanScore)
	assert.Equal(t, 22.22, scored.CertificationScore)
	// 100*0.4 + 100*0.4 + 22.22*0.2
	assert.Equal(t, 84.44, scored.TotalScore)
	assert.Equal(t, LabelExcellent, scored.TotalLabel)
	assert.Equal(t, []string{"Flooring"}, scored.Categories)
}

func TestModelScoreMissingHazardCountsZero(t *testing.T) {
	model := NewModel(20.0)
	m := &catalog.Material{
		RecycledContentPercentage: "100",
		RecyclablePercentage:      "100",
		ExpectedLifespanYears:     "20",
		Reusable:                  "Yes",
	}
	scored := model.Score(m, BaseWeights())
	assert.Nil(t, scored.HazardousSubstancesScore)
	// hazard contributes zero: 0*0.4 + 100*0.4 + 0*0.2
	assert.Equal(t, 40.0, scored.TotalScore)
	assert.Equal(t, LabelFail, scored.TotalLabel)
	assert.NotNil(t, scored.Certifications, "certifications must serialize as [] not null")
}
