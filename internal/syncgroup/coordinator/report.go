package coordinator

import (
	"fmt"

	"github.com/tvmdash/chartsync/internal/chart"
)

// Outcome describes what a coordinator operation did
type Outcome string

const (
	// OutcomePropagated means the range was pushed to the other members
	OutcomePropagated Outcome = "propagated"
	// OutcomeReset means charts were restored to their full range
	OutcomeReset Outcome = "reset"
	// OutcomeDisabled means the group is in independent mode
	OutcomeDisabled Outcome = "disabled"
	// OutcomeFiltered means the group's filter rejected the event kind
	OutcomeFiltered Outcome = "filtered"
	// OutcomeInvalidRange means the range had Min > Max or a NaN bound
	OutcomeInvalidRange Outcome = "invalid-range"
	// OutcomeUnknownSource means the source chart is not registered
	OutcomeUnknownSource Outcome = "unknown-source"
	// OutcomeEcho means the source chart was itself receiving a synchronized
	// range when it notified, so the notification is a feedback echo
	OutcomeEcho Outcome = "echo"
)

// Skipped reports whether the outcome left every chart untouched
func (o Outcome) Skipped() bool {
	return o != OutcomePropagated && o != OutcomeReset
}

// HandleError records a chart that failed to apply a range
type HandleError struct {
	ChartID string
	Err     error
}

func (e HandleError) Error() string {
	return fmt.Sprintf("chart %s: %v", e.ChartID, e.Err)
}

func (e HandleError) Unwrap() error {
	return e.Err
}

// Report summarizes one NotifyZoom or ResetAll call. Callers that do not care
// may ignore it.
type Report struct {
	Group   string
	Outcome Outcome
	Source  string
	Kind    chart.EventKind
	Range   chart.Range

	// Applied lists the charts that accepted the range, in update order
	Applied []string

	// Failures lists the charts whose update failed
	Failures []HandleError
}
