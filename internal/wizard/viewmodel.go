package wizard

import (
	"github.com/productaware/ecoselect/internal/recommender"
	"github.com/productaware/ecoselect/internal/scoring"
)

// DetailView is the drill-down portion of the view-model.
type DetailView struct {
	MaterialID int64
	Loading    bool
	Data       *recommender.MaterialDetail
	Error      string
}

// ViewModel is a render snapshot of the wizard. The presentation layer reads
// it; mutating a ViewModel has no effect on the machine.
type ViewModel struct {
	Step Step

	Categories []string
	Metrics    []recommender.MetricDescriptor

	SelectedCategory string
	RequiredMetrics  []string
	EmphasisMetric   string

	Weights scoring.WeightSet
	Results []recommender.MaterialSummary

	// Busy is set while a scoring request is outstanding; forward controls
	// must be disabled.
	Busy  bool
	Error string

	Detail *DetailView
}

// ViewModel returns the current render snapshot.
func (m *Machine) ViewModel() ViewModel {
	vm := ViewModel{
		Step:             m.step,
		Categories:       m.categories,
		Metrics:          m.metrics,
		SelectedCategory: m.category,
		RequiredMetrics:  append([]string(nil), m.required...),
		EmphasisMetric:   m.emphasis,
		Weights:          m.weights,
		Results:          m.results,
		Busy:             m.pending != nil,
		Error:            m.scoringErr,
	}
	if m.detail.open {
		vm.Detail = &DetailView{
			MaterialID: m.detail.materialID,
			Loading:    m.detail.loading,
			Data:       m.detail.data,
			Error:      m.detail.err,
		}
	}
	return vm
}
