package wizard

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/productaware/ecoselect/internal/recommender"
	"github.com/productaware/ecoselect/internal/scoring"
)

// Step identifies one wizard screen.
type Step int

const (
	StepCategory Step = iota + 1
	StepMetrics
	StepEmphasis
	StepResults
)

func (s Step) String() string {
	switch s {
	case StepCategory:
		return "category"
	case StepMetrics:
		return "metrics"
	case StepEmphasis:
		return "emphasis"
	case StepResults:
		return "results"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// ErrRequestInFlight is returned while a scoring request is outstanding; the
// machine rejects further commands until the response is applied.
var ErrRequestInFlight = errors.New("a request is already in flight")

// BlockedError reports a transition whose precondition is not met. The
// machine state is unchanged.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string { return e.Reason }

func blocked(reason string) error { return &BlockedError{Reason: reason} }

type pendingScoring struct {
	token   uuid.UUID
	weights scoring.WeightSet
}

type detailState struct {
	open       bool
	materialID int64
	token      uuid.UUID
	loading    bool
	data       *recommender.MaterialDetail
	err        string
}

// Machine owns the wizard state: current step, selections, the last computed
// weights, and the result list. It is not safe for concurrent use; drive it
// from a single event loop.
type Machine struct {
	categories []string
	metrics    []recommender.MetricDescriptor
	dims       scoring.DimensionMap

	step     Step
	category string
	required []string // insertion order, no duplicates
	emphasis string   // metric id, "" = none

	weights    scoring.WeightSet
	results    []recommender.MaterialSummary
	scoringErr string

	pending *pendingScoring
	detail  detailState
}

// New builds a machine from the loaded filter metadata. A nil filters value
// (catalog load failure) yields a machine with empty option lists; that
// degrades the option screens but is not fatal.
func New(filters *recommender.Filters, dims scoring.DimensionMap) *Machine {
	m := &Machine{
		step:    StepCategory,
		dims:    dims,
		weights: scoring.BaseWeights(),
	}
	if m.dims == nil {
		m.dims = scoring.DefaultDimensionMap()
	}
	if filters != nil {
		m.categories = filters.Categories
		m.metrics = filters.Metrics
	}
	return m
}

// Transition applies one command. It returns a non-nil Effect when the caller
// must perform a fetch and feed the result back. Commands that are not legal
// edges from the current step are no-ops; commands whose precondition fails
// return a BlockedError and change nothing.
func (m *Machine) Transition(cmd Command) (Effect, error) {
	if m.pending != nil {
		return nil, ErrRequestInFlight
	}

	switch c := cmd.(type) {
	case SelectCategory:
		if m.step != StepCategory {
			return nil, nil
		}
		m.category = c.Name

	case ToggleMetric:
		if m.step != StepMetrics {
			return nil, nil
		}
		m.toggleMetric(c.ID)

	case SetEmphasis:
		if m.step != StepEmphasis {
			return nil, nil
		}
		if !contains(m.required, c.ID) {
			return nil, blocked("emphasis must be one of the required metrics")
		}
		m.emphasis = c.ID

	case ClearEmphasis:
		if m.step != StepEmphasis {
			return nil, nil
		}
		m.emphasis = ""

	case Next:
		return m.advance()

	case Back:
		m.back()

	case SkipMetrics:
		if m.step != StepMetrics {
			return nil, nil
		}
		// Explicit reset, distinct from the 2->3 capture.
		m.required = nil
		m.emphasis = ""
		return m.startScoring(scoring.ComputeWeights("")), nil

	case SkipEmphasis:
		if m.step != StepEmphasis {
			return nil, nil
		}
		if len(m.required) == 0 {
			return nil, blocked("select at least one metric")
		}
		m.emphasis = ""
		return m.startScoring(scoring.ComputeWeights("")), nil

	case Restart:
		if m.step != StepResults {
			return nil, nil
		}
		// Step-only reset: selections survive so the user can re-pick a
		// category without redoing the metric choices.
		m.step = StepCategory
		m.scoringErr = ""

	case OpenDetail:
		if m.step != StepResults {
			return nil, nil
		}
		token := uuid.New()
		m.detail = detailState{open: true, materialID: c.MaterialID, token: token, loading: true}
		return FetchDetail{Token: token, MaterialID: c.MaterialID}, nil

	case CloseDetail:
		m.detail = detailState{}
	}

	return nil, nil
}

func (m *Machine) advance() (Effect, error) {
	switch m.step {
	case StepCategory:
		if m.category == "" {
			return nil, blocked("select a category first")
		}
		m.step = StepMetrics
	case StepMetrics:
		// Captures the checked metrics as-is; a previous emphasis no longer
		// has a defined position among them, so it is cleared.
		m.emphasis = ""
		m.step = StepEmphasis
	case StepEmphasis:
		if len(m.required) == 0 {
			return nil, blocked("select at least one metric")
		}
		emphasis := scoring.Dimension("")
		if m.emphasis != "" && len(m.required) >= 2 {
			// A single required metric offers no ordering choice; emphasis is
			// only honored with two or more.
			emphasis = m.dims.Resolve(m.emphasis)
		}
		return m.startScoring(scoring.ComputeWeights(emphasis)), nil
	}
	return nil, nil
}

func (m *Machine) back() {
	switch m.step {
	case StepMetrics:
		m.step = StepCategory
	case StepEmphasis:
		m.step = StepMetrics
	case StepResults:
		if len(m.required) >= 2 {
			m.step = StepEmphasis
		} else {
			// No meaningful emphasis step to return to.
			m.step = StepMetrics
		}
	}
}

func (m *Machine) startScoring(w scoring.WeightSet) Effect {
	token := uuid.New()
	m.pending = &pendingScoring{token: token, weights: w}
	m.scoringErr = ""
	return FetchRecommendations{
		Token:           token,
		Category:        m.category,
		RequiredMetrics: append([]string(nil), m.required...),
		Weights:         w,
	}
}

// ApplyRecommendations feeds back the result of a FetchRecommendations
// effect. On success the machine commits to the results step; on failure the
// step is unchanged and the error is surfaced for display. Responses with a
// stale token are dropped.
func (m *Machine) ApplyRecommendations(token uuid.UUID, items []recommender.MaterialSummary, err error) {
	if m.pending == nil || m.pending.token != token {
		return
	}
	pending := m.pending
	m.pending = nil

	if err != nil {
		m.scoringErr = "unable to compute recommendations, please try again"
		return
	}
	m.weights = pending.weights
	m.results = items
	m.scoringErr = ""
	m.step = StepResults
}

// ApplyDetail feeds back the result of a FetchDetail effect. Only the latest
// requested material is shown: a response whose token no longer matches the
// active request is dropped, even if it arrives last.
func (m *Machine) ApplyDetail(token uuid.UUID, detail *recommender.MaterialDetail, err error) {
	if !m.detail.open || m.detail.token != token {
		return
	}
	m.detail.loading = false
	if err != nil {
		m.detail.err = "unable to load material detail"
		return
	}
	m.detail.data = detail
	m.detail.err = ""
}

func (m *Machine) toggleMetric(id string) {
	for i, v := range m.required {
		if v == id {
			m.required = append(m.required[:i:i], m.required[i+1:]...)
			if m.emphasis == id {
				m.emphasis = ""
			}
			return
		}
	}
	m.required = append(m.required, id)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
