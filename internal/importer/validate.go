package importer

import (
	"fmt"

	"github.com/alexanderramin/waypoint/internal/domain"
)

var (
	validPhases        = map[string]bool{"prestart": true, "milestone": true, "ascent": true}
	validResourceTypes = map[string]bool{"video": true, "video_series": true, "reading": true, "document": true, "tool": true, "audio": true}
)

// ValidateCurriculum checks the schema before conversion and returns every
// problem found. References to unknown resources or session types are not
// errors here; the normalizer degrades them and reports diagnostics.
func ValidateCurriculum(schema *CurriculumSchema) []error {
	var errs []error
	errs = append(errs, validateResources(schema.Resources)...)
	errs = append(errs, validateSessionTypes(schema.SessionTypes)...)
	errs = append(errs, validatePeriods(schema.Periods)...)
	return errs
}

func validateResources(resources []ResourceImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, r := range resources {
		prefix := fmt.Sprintf("resources[%d]", i)
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if seen[r.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", prefix, r.ID))
		}
		seen[r.ID] = true
		if r.Type == "" {
			errs = append(errs, fmt.Errorf("%s.type is required", prefix))
		} else if !validResourceTypes[r.Type] {
			errs = append(errs, fmt.Errorf("%s.type: invalid value %q", prefix, r.Type))
		}
		if r.DurationMinutes < 0 {
			errs = append(errs, fmt.Errorf("%s.duration_minutes must not be negative", prefix))
		}
	}
	return errs
}

func validateSessionTypes(types []SessionTypeImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, st := range types {
		prefix := fmt.Sprintf("session_types[%d]", i)
		if st.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if seen[st.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", prefix, st.ID))
		}
		seen[st.ID] = true
		if !domain.ValidSessionKinds[st.Kind] {
			errs = append(errs, fmt.Errorf("%s.kind: invalid value %q", prefix, st.Kind))
		}
	}
	return errs
}

func validatePeriods(periods []PeriodImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, p := range periods {
		prefix := fmt.Sprintf("periods[%d]", i)
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else if seen[p.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id %q", prefix, p.ID))
		} else {
			prefix = fmt.Sprintf("periods[%s]", p.ID)
		}
		seen[p.ID] = true

		errs = append(errs, validatePhase(prefix, p)...)
		for j, a := range p.Actions {
			if a.Label == "" && a.ID == "" {
				errs = append(errs, fmt.Errorf("%s.actions[%d]: label or id is required", prefix, j))
			}
			if a.Strategy != "" && !domain.ValidStrategies[a.Strategy] {
				errs = append(errs, fmt.Errorf("%s.actions[%d].strategy: invalid value %q", prefix, j, a.Strategy))
			}
		}
		for j, w := range p.Weekly {
			if !domain.ValidSessionKinds[w.Kind] {
				errs = append(errs, fmt.Errorf("%s.weekly[%d].kind: invalid value %q", prefix, j, w.Kind))
			}
			if w.Label == "" {
				errs = append(errs, fmt.Errorf("%s.weekly[%d].label is required", prefix, j))
			}
		}
		for j, s := range p.Sessions {
			if !domain.ValidSessionKinds[s.Kind] {
				errs = append(errs, fmt.Errorf("%s.sessions[%d].kind: invalid value %q", prefix, j, s.Kind))
			}
			if s.SessionType == "" {
				errs = append(errs, fmt.Errorf("%s.sessions[%d].session_type is required", prefix, j))
			}
		}
		for j, f := range p.Forms {
			if f.Label == "" {
				errs = append(errs, fmt.Errorf("%s.forms[%d].label is required", prefix, j))
			}
		}
	}
	return errs
}

func validatePhase(prefix string, p PeriodImport) []error {
	var errs []error
	if !validPhases[p.Phase] {
		return append(errs, fmt.Errorf("%s.phase: invalid value %q", prefix, p.Phase))
	}
	switch p.Phase {
	case "prestart":
		if !domain.ValidSections[p.Section] {
			errs = append(errs, fmt.Errorf("%s.section: invalid value %q (expected onboarding, session1 or explore)", prefix, p.Section))
		}
		if p.Number != 0 {
			errs = append(errs, fmt.Errorf("%s.number must be omitted for prestart periods", prefix))
		}
	case "milestone":
		if p.Number < 1 || p.Number > domain.MilestoneCount {
			errs = append(errs, fmt.Errorf("%s.number: milestone %d out of range 1..%d", prefix, p.Number, domain.MilestoneCount))
		}
		if p.Section != "" {
			errs = append(errs, fmt.Errorf("%s.section is only allowed on prestart periods", prefix))
		}
	case "ascent":
		if p.Number < 1 {
			errs = append(errs, fmt.Errorf("%s.number: ascent week must be at least 1", prefix))
		}
		if p.Section != "" {
			errs = append(errs, fmt.Errorf("%s.section is only allowed on prestart periods", prefix))
		}
	}
	return errs
}
