// Package chart defines the contract between the zoom synchronization core and
// concrete chart integrations.
//
// A chart integration (a plotting library binding, a terminal renderer, a test
// double) exposes itself to a sync group through the Handle interface. The
// Adapter type implements the parts of that contract every integration shares:
// full range bookkeeping, a single redraw per applied range, and suppression of
// the zoom callbacks a library fires while a synchronized range is applied.
package chart
