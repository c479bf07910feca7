// Package eligibility derives node statuses and edge classes from a
// catalog and a progress snapshot. Everything here is a pure query: no
// function modifies its inputs, and results depend only on them.
package eligibility

import (
	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/skilltree"
)

// Status is a node's derived state relative to one progress snapshot.
type Status string

const (
	StatusLocked      Status = "locked"
	StatusAvailable   Status = "available"
	StatusCompleted   Status = "completed"
	StatusRecommended Status = "recommended"
)

// AllStatuses returns every status in display order.
func AllStatuses() []Status {
	return []Status{StatusCompleted, StatusRecommended, StatusAvailable, StatusLocked}
}

// ResolveStatus returns the status of node for p. Precedence is
// completed, then recommended, then available, then locked. A node
// without prerequisites is never locked.
func ResolveStatus(node skilltree.Node, p progress.Progress) Status {
	if p.IsCompleted(node.ID) {
		return StatusCompleted
	}
	if p.IsRecommended(node.ID) {
		return StatusRecommended
	}
	for _, prereqID := range node.Prerequisites {
		if !p.IsCompleted(prereqID) {
			return StatusLocked
		}
	}
	return StatusAvailable
}

// MissingPrerequisites returns the prerequisites of node not yet completed
// in p, in declaration order.
func MissingPrerequisites(node skilltree.Node, p progress.Progress) []string {
	var missing []string
	for _, prereqID := range node.Prerequisites {
		if !p.IsCompleted(prereqID) {
			missing = append(missing, prereqID)
		}
	}
	return missing
}

// CanComplete reports whether node may be completed under the strict
// policy, i.e. its status is anything but locked.
func CanComplete(node skilltree.Node, p progress.Progress) bool {
	return ResolveStatus(node, p) != StatusLocked
}
