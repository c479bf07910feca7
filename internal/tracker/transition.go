// Package tracker applies completions and personalization to a user's
// progress. CompleteNode and StartNode are pure transitions; Tracker
// serializes them per user and persists the result.
package tracker

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/careertree/internal/eligibility"
	"github.com/abhisek/careertree/internal/progress"
	"github.com/abhisek/careertree/internal/skilltree"
)

// ErrIneligibleNode is returned when a locked node is completed or started
// under the strict policy.
type ErrIneligibleNode struct {
	NodeID  string
	Status  eligibility.Status
	Missing []string
}

func (e *ErrIneligibleNode) Error() string {
	return fmt.Sprintf("node %q is %s: missing prerequisites %s", e.NodeID, e.Status, strings.Join(e.Missing, ", "))
}

// Options tune the transitions. The zero value is the strict policy with
// the default achievements.
type Options struct {
	// AllowLocked lets locked nodes be completed and started.
	AllowLocked bool

	// Policy decides achievements. Nil means progress.DefaultPolicy{}.
	Policy progress.Policy

	// Now and NewID stamp unlocked achievements. Nil means time.Now and
	// uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

func (o Options) policy() progress.Policy {
	if o.Policy == nil {
		return progress.DefaultPolicy{}
	}
	return o.Policy
}

func (o Options) now() time.Time {
	if o.Now == nil {
		return time.Now().UTC()
	}
	return o.Now()
}

func (o Options) newID() string {
	if o.NewID == nil {
		return uuid.NewString()
	}
	return o.NewID()
}

// Outcome describes what a completion changed.
type Outcome struct {
	NodeID           string                 `json:"nodeId"`
	AlreadyCompleted bool                   `json:"alreadyCompleted"`
	XPAwarded        int                    `json:"xpAwarded"`
	LevelBefore      int                    `json:"levelBefore"`
	LevelAfter       int                    `json:"levelAfter"`
	Achievements     []progress.Achievement `json:"achievements"`
}

// LeveledUp reports whether the completion crossed a level boundary.
func (o Outcome) LeveledUp() bool {
	return o.LevelAfter > o.LevelBefore
}

// CompleteNode marks nodeID completed in p and returns the new progress.
// p is never modified.
//
// Completing an already completed node is a no-op reported through
// Outcome.AlreadyCompleted. An unknown node yields
// *skilltree.ErrNodeNotFound; a locked node yields *ErrIneligibleNode
// unless opts.AllowLocked is set.
func CompleteNode(p progress.Progress, nodeID string, catalog *skilltree.Catalog, opts Options) (progress.Progress, Outcome, error) {
	node, err := catalog.Lookup(nodeID)
	if err != nil {
		return p, Outcome{}, err
	}

	before := progress.LevelFor(p.TotalXP)
	if p.IsCompleted(nodeID) {
		return p, Outcome{NodeID: nodeID, AlreadyCompleted: true, LevelBefore: before, LevelAfter: before}, nil
	}
	if err := checkEligible(node, p, opts); err != nil {
		return p, Outcome{}, err
	}

	next := p.Clone()
	next.CompletedNodes = append(next.CompletedNodes, nodeID)
	next.InProgressNodes = slices.DeleteFunc(next.InProgressNodes, func(id string) bool { return id == nodeID })
	next.TotalXP += node.XPReward
	next.Level = progress.LevelFor(next.TotalXP)

	unlocked := opts.policy().Evaluate(p, next, catalog)
	now := opts.now()
	for i := range unlocked {
		unlocked[i].ID = opts.newID()
		unlocked[i].UnlockedAt = now
	}
	next.Achievements = append(next.Achievements, unlocked...)

	return next, Outcome{
		NodeID:       nodeID,
		XPAwarded:    node.XPReward,
		LevelBefore:  before,
		LevelAfter:   next.Level,
		Achievements: unlocked,
	}, nil
}

// StartNode marks nodeID in progress. It reports false with p unchanged
// when the node is already started or completed. The guards are those of
// CompleteNode.
func StartNode(p progress.Progress, nodeID string, catalog *skilltree.Catalog, opts Options) (progress.Progress, bool, error) {
	node, err := catalog.Lookup(nodeID)
	if err != nil {
		return p, false, err
	}
	if p.IsCompleted(nodeID) || p.IsInProgress(nodeID) {
		return p, false, nil
	}
	if err := checkEligible(node, p, opts); err != nil {
		return p, false, err
	}

	next := p.Clone()
	next.InProgressNodes = append(next.InProgressNodes, nodeID)
	return next, true, nil
}

func checkEligible(node skilltree.Node, p progress.Progress, opts Options) error {
	if opts.AllowLocked {
		return nil
	}
	if st := eligibility.ResolveStatus(node, p); st == eligibility.StatusLocked {
		return &ErrIneligibleNode{
			NodeID:  node.ID,
			Status:  st,
			Missing: eligibility.MissingPrerequisites(node, p),
		}
	}
	return nil
}
