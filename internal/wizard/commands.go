package wizard

import (
	"github.com/google/uuid"

	"github.com/productaware/ecoselect/internal/scoring"
)

// Command is a typed user intent consumed by Machine.Transition. Input
// handling produces commands; all transition logic lives in the machine.
type Command interface {
	isCommand()
}

// SelectCategory sets (or clears, with an empty name) the category choice on
// the category step.
type SelectCategory struct {
	Name string
}

// ToggleMetric adds or removes a metric from the required set on the metrics
// step. Removing the metric currently chosen as emphasis clears the emphasis.
type ToggleMetric struct {
	ID string
}

// SetEmphasis picks the emphasis metric on the emphasis step. The metric must
// be one of the required metrics.
type SetEmphasis struct {
	ID string
}

// ClearEmphasis drops the emphasis choice.
type ClearEmphasis struct{}

// Next advances one step. Advancing past the emphasis step triggers scoring;
// the step does not commit until the response arrives.
type Next struct{}

// Back moves one step toward the start.
type Back struct{}

// SkipMetrics jumps from the metrics step straight to results, clearing the
// required metrics and the emphasis so scoring runs with the base weights.
type SkipMetrics struct{}

// SkipEmphasis jumps from the emphasis step to results with the emphasis
// forced to none.
type SkipEmphasis struct{}

// Restart returns from the results step to the category step. Selections are
// kept so the user can re-pick a category without losing metric choices.
type Restart struct{}

// OpenDetail requests the drill-down view for one result. A newer OpenDetail
// supersedes a pending one.
type OpenDetail struct {
	MaterialID int64
}

// CloseDetail dismisses the drill-down view and discards its data.
type CloseDetail struct{}

func (SelectCategory) isCommand() {}
func (ToggleMetric) isCommand()   {}
func (SetEmphasis) isCommand()    {}
func (ClearEmphasis) isCommand()  {}
func (Next) isCommand()           {}
func (Back) isCommand()           {}
func (SkipMetrics) isCommand()    {}
func (SkipEmphasis) isCommand()   {}
func (Restart) isCommand()        {}
func (OpenDetail) isCommand()     {}
func (CloseDetail) isCommand()    {}

// Effect is a side request the caller must perform on behalf of the machine.
// The result is fed back through ApplyRecommendations or ApplyDetail with the
// effect's token; responses carrying a stale token are dropped.
type Effect interface {
	isEffect()
}

// FetchRecommendations asks the caller to run the scoring request. The
// machine stays on its current step until the matching ApplyRecommendations
// reports success.
type FetchRecommendations struct {
	Token           uuid.UUID
	Category        string
	RequiredMetrics []string
	Weights         scoring.WeightSet
}

// FetchDetail asks the caller to load one material's detail.
type FetchDetail struct {
	Token      uuid.UUID
	MaterialID int64
}

func (FetchRecommendations) isEffect() {}
func (FetchDetail) isEffect()          {}
