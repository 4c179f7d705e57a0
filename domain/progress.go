package domain

import "time"

// Progress statuses.
const (
	ProgressActive    = "active"
	ProgressCompleted = "completed"
	ProgressArchived  = "archived"
)

// ValidProgressStatus reports whether s is one of the known statuses.
func ValidProgressStatus(s string) bool {
	return s == ProgressActive || s == ProgressCompleted || s == ProgressArchived
}

// Progress tracks which steps of a path a user has completed. At most one
// record exists per (user, path) pair. Version guards concurrent
// read-modify-write cycles: a save only succeeds against the version it
// was loaded with.
type Progress struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	PathID         string     `json:"path_id"`
	CompletedSteps []string   `json:"completed_steps"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	LastActivityAt time.Time  `json:"last_activity_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	Version        int        `json:"-"`
}

// HasStep reports whether the step is already marked complete.
func (p *Progress) HasStep(stepID string) bool {
	if p == nil {
		return false
	}
	for _, id := range p.CompletedSteps {
		if id == stepID {
			return true
		}
	}
	return false
}

// MarkStep adds or removes a step from the completed set. The operation is
// idempotent; it reports whether the set actually changed.
func (p *Progress) MarkStep(stepID string, completed bool) bool {
	if completed {
		if p.HasStep(stepID) {
			return false
		}
		p.CompletedSteps = append(p.CompletedSteps, stepID)
		return true
	}
	for i, id := range p.CompletedSteps {
		if id == stepID {
			p.CompletedSteps = append(p.CompletedSteps[:i], p.CompletedSteps[i+1:]...)
			return true
		}
	}
	return false
}

// CoversAll reports whether every given step ID is in the completed set.
// An empty stepIDs slice yields false: a path with no steps can never be
// considered completed.
func (p *Progress) CoversAll(stepIDs []string) bool {
	if p == nil || len(stepIDs) == 0 {
		return false
	}
	for _, id := range stepIDs {
		if !p.HasStep(id) {
			return false
		}
	}
	return true
}

// ApplyCompletion drives the status transition so that
// Status == completed exactly when allCompleted holds, keeping CompletedAt
// in lockstep with it.
func (p *Progress) ApplyCompletion(allCompleted bool, now time.Time) {
	switch {
	case allCompleted && p.Status != ProgressCompleted:
		p.Status = ProgressCompleted
		p.CompletedAt = &now
	case !allCompleted && p.Status == ProgressCompleted:
		p.Status = ProgressActive
		p.CompletedAt = nil
	}
}

// CompletionPercentage derives the rounded completion ratio. Zero total
// steps yields zero to sidestep the division even though path validation
// rejects step-less paths.
func CompletionPercentage(completedCount, totalSteps int) int {
	if totalSteps <= 0 {
		return 0
	}
	return int(float64(completedCount)/float64(totalSteps)*100 + 0.5)
}
