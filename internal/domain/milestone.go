package domain

import (
	"fmt"
	"time"
)

// MilestoneProgress holds the facilitator sign-off and the user's certificate
// acknowledgement for one milestone.
type MilestoneProgress struct {
	UserID              string
	Milestone           int
	SignedOff           bool
	SignedOffAt         *time.Time
	SignedOffBy         string
	CertificateViewed   bool
	CertificateViewedAt *time.Time
	UpdatedAt           time.Time
}

// SignOff is write-once and facilitator-only.
func (m *MilestoneProgress) SignOff(actor Actor, now time.Time) error {
	if !actor.IsFacilitator() {
		return ErrFacilitatorOnly
	}
	if m.Milestone < 1 || m.Milestone > MilestoneCount {
		return ErrMilestoneRange
	}
	if m.SignedOff {
		return fmt.Errorf("milestone %d: %w", m.Milestone, ErrAlreadySignedOff)
	}
	m.SignedOff = true
	m.SignedOffBy = actor.ID
	t := now
	m.SignedOffAt = &t
	m.UpdatedAt = now
	return nil
}

// AcknowledgeCertificate records that the user viewed the milestone certificate.
func (m *MilestoneProgress) AcknowledgeCertificate(now time.Time) error {
	if !m.SignedOff {
		return fmt.Errorf("milestone %d: %w", m.Milestone, ErrNotSignedOff)
	}
	if m.CertificateViewed {
		return nil
	}
	m.CertificateViewed = true
	t := now
	m.CertificateViewedAt = &t
	m.UpdatedAt = now
	return nil
}

// MilestoneIndex keys milestone progress by milestone number.
func MilestoneIndex(progress []MilestoneProgress) map[int]MilestoneProgress {
	out := make(map[int]MilestoneProgress, len(progress))
	for _, p := range progress {
		out[p.Milestone] = p
	}
	return out
}

// SignedOffCount returns the number of contiguously signed-off milestones from 1.
func SignedOffCount(progress []MilestoneProgress) int {
	idx := MilestoneIndex(progress)
	n := 0
	for m := 1; m <= MilestoneCount; m++ {
		if !idx[m].SignedOff {
			break
		}
		n++
	}
	return n
}

// CurrentMilestone is 1 + the contiguous signed-off count, capped at MilestoneCount.
func CurrentMilestone(progress []MilestoneProgress) int {
	return min(SignedOffCount(progress)+1, MilestoneCount)
}
