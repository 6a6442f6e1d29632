package domain

import "time"

// ProgressRecord is the stored completion state of one item for one user.
// Records are flipped to pending on uncomplete and only removed by a reset.
type ProgressRecord struct {
	ID          string
	UserID      string
	ItemID      string
	Status      ProgressStatus
	Label       string // snapshot for legacy label matching
	HandlerTag  string
	OriginPhase Phase
	OriginWeek  int
	CarriedOver bool
	Category    Category
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *ProgressRecord) IsCompleted() bool { return r.Status == ProgressCompleted }

// Complete marks the record completed. Completing twice keeps the first timestamp.
func (r *ProgressRecord) Complete(now time.Time) {
	if r.Status == ProgressCompleted && r.CompletedAt != nil {
		return
	}
	r.Status = ProgressCompleted
	t := now
	r.CompletedAt = &t
	r.UpdatedAt = now
}

// Uncomplete flips the record back to pending without deleting it.
func (r *ProgressRecord) Uncomplete(now time.Time) {
	r.Status = ProgressPending
	r.CompletedAt = nil
	r.UpdatedAt = now
}

func (r *ProgressRecord) Skip(now time.Time) {
	r.Status = ProgressSkipped
	r.CompletedAt = nil
	r.UpdatedAt = now
}
