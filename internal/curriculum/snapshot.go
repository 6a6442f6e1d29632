package curriculum

import "github.com/alexanderramin/waypoint/internal/domain"

// ProgressSnapshot bundles every completion source for one user. Resolver
// functions read only from it.
type ProgressSnapshot struct {
	Records       []domain.ProgressRecord
	Registrations []domain.SessionRegistration
	Forms         map[domain.FormKind]bool
	Milestones    []domain.MilestoneProgress

	byID       map[string]domain.ProgressRecord
	byHandler  map[string][]domain.ProgressRecord
	byLabel    map[labelScope]domain.ProgressRecord
	milestones map[int]domain.MilestoneProgress
	// known holds the current item ids once the snapshot is scoped.
	known map[string]bool
}

// labelScope keeps legacy label matches inside one phase.
type labelScope struct {
	kind   domain.PhaseKind
	number int
	label  string
}

func NewSnapshot(
	records []domain.ProgressRecord,
	registrations []domain.SessionRegistration,
	forms map[domain.FormKind]bool,
	milestones []domain.MilestoneProgress,
) *ProgressSnapshot {
	s := &ProgressSnapshot{
		Records:       records,
		Registrations: registrations,
		Forms:         forms,
		Milestones:    milestones,
		byID:          make(map[string]domain.ProgressRecord, len(records)),
		milestones:    domain.MilestoneIndex(milestones),
	}
	if s.Forms == nil {
		s.Forms = map[domain.FormKind]bool{}
	}
	for _, r := range records {
		s.byID[r.ItemID] = r
	}
	s.indexLegacy(nil)
	return s
}

// ScopeLegacy returns a copy of the snapshot whose handler and label
// matches only consider orphan records, those stored under an id that no
// current item carries. A record written for one item can then never
// complete a sibling that shares its label or handler tag.
func (s *ProgressSnapshot) ScopeLegacy(currentIDs []string) *ProgressSnapshot {
	known := make(map[string]bool, len(currentIDs))
	for _, id := range currentIDs {
		known[id] = true
	}
	scoped := *s
	scoped.indexLegacy(known)
	return &scoped
}

func (s *ProgressSnapshot) indexLegacy(known map[string]bool) {
	s.known = known
	s.byHandler = make(map[string][]domain.ProgressRecord)
	s.byLabel = make(map[labelScope]domain.ProgressRecord)
	for _, r := range s.Records {
		if known[r.ItemID] {
			continue
		}
		if r.HandlerTag != "" {
			s.byHandler[r.HandlerTag] = append(s.byHandler[r.HandlerTag], r)
		}
		if r.Label != "" && !r.OriginPhase.IsZero() && r.IsCompleted() {
			key := labelScope{kind: r.OriginPhase.Kind, number: r.OriginPhase.Number, label: foldLabel(r.Label)}
			s.byLabel[key] = r
		}
	}
}

// Record returns the progress record stored under the exact item id.
func (s *ProgressSnapshot) Record(itemID string) (domain.ProgressRecord, bool) {
	r, ok := s.byID[itemID]
	return r, ok
}

func (s *ProgressSnapshot) Milestone(n int) domain.MilestoneProgress {
	if m, ok := s.milestones[n]; ok {
		return m
	}
	return domain.MilestoneProgress{Milestone: n}
}

// completedByHandler finds a completed legacy record keyed by handler tag.
// Legacy records either carry the tag or were stored under it as their id.
func (s *ProgressSnapshot) completedByHandler(tag string) (domain.ProgressRecord, bool) {
	if tag == "" {
		return domain.ProgressRecord{}, false
	}
	if r, ok := s.byID[tag]; ok && r.IsCompleted() && !s.known[tag] {
		return r, true
	}
	for _, r := range s.byHandler[tag] {
		if r.IsCompleted() {
			return r, true
		}
	}
	return domain.ProgressRecord{}, false
}

func (s *ProgressSnapshot) completedByLabel(phase domain.Phase, label string) (domain.ProgressRecord, bool) {
	if label == "" {
		return domain.ProgressRecord{}, false
	}
	r, ok := s.byLabel[labelScope{kind: phase.Kind, number: phase.Number, label: foldLabel(label)}]
	return r, ok
}

// registrationFor returns the furthest-progressed active registration that
// books the item, either directly or through its session type and milestone.
func (s *ProgressSnapshot) registrationFor(item domain.ActionItem) (domain.SessionRegistration, bool) {
	var best domain.SessionRegistration
	found := false
	for _, r := range s.Registrations {
		if !r.IsActive() {
			continue
		}
		match := r.ItemID == item.ID
		if !match && item.SessionType != "" && item.Milestone != 0 {
			match = r.SessionTypeID == item.SessionType && r.Milestone == item.Milestone
		}
		if !match {
			continue
		}
		if !found || r.Status.Rank() > best.Status.Rank() {
			best = r
			found = true
		}
	}
	return best, found
}
