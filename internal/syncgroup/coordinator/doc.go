// Package coordinator propagates zoom changes across the charts of a sync
// group.
//
// A Coordinator is constructed explicitly for one syncgroup.Registry and
// handed to the chart integrations that need it; there is no package-level
// instance. NotifyZoom pushes a range selected on one chart to every other
// member when the group is enabled and the event kind passes the group's
// filter. ResetAll restores every chart to its full range regardless of the
// enabled flag. Each chart update is isolated: a failing chart is logged and
// skipped without affecting the rest of the batch.
package coordinator
