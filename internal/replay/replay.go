package replay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tvmdash/chartsync/internal/chart"
	"github.com/tvmdash/chartsync/internal/syncgroup"
	"github.com/tvmdash/chartsync/internal/syncgroup/coordinator"
)

// OutcomeLocal marks a zoom that changed only its own chart because the chart
// no longer belongs to the group
const OutcomeLocal = "local"

// Target is the group a script runs against
type Target interface {
	// Key returns the group key
	Key() string

	// Coordinator returns the group's coordinator
	Coordinator() coordinator.Coordinator

	// Chart returns the adapter of a configured chart, registered or not
	Chart(id string) (*chart.Adapter, bool)

	// ChartIDs lists every configured chart in display order
	ChartIDs() []string

	// Unregister removes a chart from the group. It reports false when the
	// chart is unknown.
	Unregister(id string) bool

	// TakeReport returns the report of the latest zoom notification emitted
	// by the group's charts since the previous call, and clears it
	TakeReport() (coordinator.Report, bool)
}

// StepResult is the state of the group after one step
type StepResult struct {
	Index   int
	Step    Step
	Outcome string
	Applied int
	Failed  int
	Mode    syncgroup.Mode

	// Ranges holds the visible range of every configured chart
	Ranges map[string]chart.Range
}

// Run executes script against target. It stops at the first failing step and
// returns the results gathered so far along with the error.
func Run(ctx context.Context, script *Script, target Target) ([]StepResult, error) {
	if script.Group != "" && script.Group != target.Key() {
		return nil, fmt.Errorf("script targets group %q, got %q", script.Group, target.Key())
	}

	results := make([]StepResult, 0, len(script.Steps))
	for i, step := range script.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		res, err := runStep(ctx, step, target)
		if err != nil {
			return results, fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}

		res.Index = i + 1
		res.Step = step
		res.Mode = target.Coordinator().Registry().Mode()
		res.Ranges = snapshot(target)
		results = append(results, res)

		slog.Debug("Replay step executed",
			"group", target.Key(),
			"step", res.Index,
			"action", step.Action,
			"outcome", res.Outcome)
	}
	return results, nil
}

func runStep(ctx context.Context, step Step, target Target) (StepResult, error) {
	coord := target.Coordinator()
	reg := coord.Registry()

	switch step.Action {
	case ActionZoom:
		return zoom(step, target)

	case ActionToggle:
		enabled := !reg.IsEnabled()
		if step.Enabled != nil {
			enabled = *step.Enabled
		}
		reg.SetEnabled(enabled)
		return StepResult{Outcome: string(reg.Mode())}, nil

	case ActionFilter:
		reg.SetFilter(syncgroup.NewEventFilter(syncgroup.FilterOptions{
			PointerEvents: boolOr(step.PointerEvents, true),
			DragLifecycle: boolOr(step.DragLifecycle, true),
		}))
		return StepResult{Outcome: "filter"}, nil

	case ActionReset:
		report := coord.ResetAll(ctx)
		return fromReport(report), nil

	case ActionResetChart:
		err := coord.ResetChart(ctx, step.Chart)
		if errors.Is(err, coordinator.ErrUnknownChart) {
			// Unregistered charts keep their own reset button.
			a, ok := target.Chart(step.Chart)
			if !ok {
				return StepResult{}, err
			}
			err = a.ResetZoom()
		}
		if err != nil {
			return StepResult{}, err
		}
		res := StepResult{Outcome: string(coordinator.OutcomeReset)}
		if chartHasData(target, step.Chart) {
			res.Applied = 1
		}
		return res, nil

	case ActionUnregister:
		if !target.Unregister(step.Chart) {
			return StepResult{}, fmt.Errorf("%w: %s", coordinator.ErrUnknownChart, step.Chart)
		}
		return StepResult{Outcome: "unregistered"}, nil

	default:
		return StepResult{}, fmt.Errorf("unknown action %q", step.Action)
	}
}

func zoom(step Step, target Target) (StepResult, error) {
	a, ok := target.Chart(step.Chart)
	if !ok {
		return StepResult{}, fmt.Errorf("%w: %s", coordinator.ErrUnknownChart, step.Chart)
	}

	r, err := resolveRange(step, a)
	if err != nil {
		return StepResult{}, err
	}
	kind, err := chart.ParseEventKind(step.Event)
	if err != nil {
		return StepResult{}, err
	}

	target.TakeReport()
	if err := a.Zoom(r, kind); err != nil {
		return StepResult{}, err
	}

	report, ok := target.TakeReport()
	if !ok {
		return StepResult{Outcome: OutcomeLocal}, nil
	}
	return fromReport(report), nil
}

// resolveRange turns a step's min/max or fraction into a data-space range
func resolveRange(step Step, a *chart.Adapter) (chart.Range, error) {
	if step.Fraction == nil {
		return chart.Range{Min: *step.Min, Max: *step.Max}, nil
	}

	full, ok := a.FullRange()
	if !ok {
		return chart.Range{}, fmt.Errorf("chart %s has no data to zoom into", a.ID())
	}
	return chart.Range{
		Min: full.Min + step.Fraction.From*full.Width(),
		Max: full.Min + step.Fraction.To*full.Width(),
	}, nil
}

func fromReport(report coordinator.Report) StepResult {
	return StepResult{
		Outcome: string(report.Outcome),
		Applied: len(report.Applied),
		Failed:  len(report.Failures),
	}
}

func snapshot(target Target) map[string]chart.Range {
	ids := target.ChartIDs()
	ranges := make(map[string]chart.Range, len(ids))
	for _, id := range ids {
		if a, ok := target.Chart(id); ok {
			ranges[id] = a.VisibleRange()
		}
	}
	return ranges
}

// chartHasData reports whether a reset of the chart has a range to restore
func chartHasData(target Target, id string) bool {
	if h, ok := target.Coordinator().Registry().Get(id); ok {
		_, ok = h.FullRange()
		return ok
	}
	if a, ok := target.Chart(id); ok {
		_, ok = a.FullRange()
		return ok
	}
	return false
}
