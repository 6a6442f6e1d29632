package importer

import (
	"time"

	"github.com/alexanderramin/waypoint/internal/domain"
)

// Curriculum is the converted content of a curriculum file, ready for
// persistence.
type Curriculum struct {
	Resources    []domain.ResourceMetadata
	SessionTypes []domain.SessionType
	Periods      []domain.PeriodConfig
}

// Convert transforms a validated schema into domain objects stamped with now.
// Call ValidateCurriculum first; Convert assumes the schema is valid.
func Convert(schema *CurriculumSchema, now time.Time) *Curriculum {
	out := &Curriculum{
		Resources:    make([]domain.ResourceMetadata, 0, len(schema.Resources)),
		SessionTypes: make([]domain.SessionType, 0, len(schema.SessionTypes)),
		Periods:      make([]domain.PeriodConfig, 0, len(schema.Periods)),
	}
	for _, r := range schema.Resources {
		out.Resources = append(out.Resources, domain.ResourceMetadata{
			ID:              r.ID,
			Type:            r.Type,
			Title:           r.Title,
			DurationMinutes: r.DurationMinutes,
		})
	}
	for _, st := range schema.SessionTypes {
		out.SessionTypes = append(out.SessionTypes, domain.SessionType{
			ID:    st.ID,
			Kind:  domain.SessionKind(st.Kind),
			Title: st.Title,
		})
	}
	for _, p := range schema.Periods {
		out.Periods = append(out.Periods, convertPeriod(p, now))
	}
	return out
}

func convertPeriod(p PeriodImport, now time.Time) domain.PeriodConfig {
	cfg := domain.PeriodConfig{
		ID:        p.ID,
		Phase:     domain.PhaseKind(p.Phase),
		Number:    p.Number,
		Section:   domain.Section(p.Section),
		Day:       p.Day,
		Title:     p.Title,
		UpdatedAt: now,
	}
	for _, a := range p.Actions {
		cfg.Actions = append(cfg.Actions, domain.ActionDefinition{
			ID:           a.ID,
			Label:        a.Label,
			ContentType:  a.ContentType,
			Optional:     a.Optional,
			ResourceID:   a.ResourceID,
			ResourceType: a.ResourceType,
			Strategy:     a.Strategy,
			SlotKey:      a.SlotKey,
			HandlerTag:   a.HandlerTag,
			Form:         a.Form,
			SessionType:  a.SessionType,
		})
	}
	for _, w := range p.Weekly {
		cfg.WeeklySlots = append(cfg.WeeklySlots, domain.WeeklySlot{
			ID:          w.ID,
			Kind:        domain.SessionKind(w.Kind),
			Label:       w.Label,
			SessionType: w.SessionType,
			ResourceID:  w.ResourceID,
			Optional:    w.Optional,
		})
	}
	for _, s := range p.Sessions {
		cfg.SessionSlots = append(cfg.SessionSlots, domain.SessionSlot{
			ID:          s.ID,
			Kind:        domain.SessionKind(s.Kind),
			Label:       s.Label,
			SessionType: s.SessionType,
			Certifies:   s.Certifies,
			Optional:    s.Optional,
		})
	}
	for _, f := range p.Forms {
		cfg.FormSlots = append(cfg.FormSlots, domain.FormSlot{
			ID:       f.ID,
			Label:    f.Label,
			Form:     domain.FormKind(f.Form),
			Optional: f.Optional,
		})
	}
	return cfg
}
