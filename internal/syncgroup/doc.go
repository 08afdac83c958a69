// Package syncgroup keeps the membership and toggle state of a zoom
// synchronization group.
//
// A Registry holds the charts that may sync with one another, keyed by chart
// id, together with the group's enabled flag and event filter. It is safe for
// concurrent use; readers get snapshots so that charts may register or leave
// while a propagation is running. Propagation itself lives in the coordinator
// subpackage.
package syncgroup
