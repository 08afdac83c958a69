// Package integration provides integration tests for chartsync.
// These tests build complete dashboards from configuration files, with every
// source type, and drive zoom synchronization end to end.
package integration
