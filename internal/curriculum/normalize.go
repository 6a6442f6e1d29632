package curriculum

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexanderramin/waypoint/internal/domain"
)

// Catalog is the collaborator content the normalizer validates references against.
type Catalog struct {
	Resources    map[string]domain.ResourceMetadata
	SessionTypes map[string]domain.SessionType
}

func NewCatalog(resources []domain.ResourceMetadata, sessionTypes []domain.SessionType) Catalog {
	c := Catalog{
		Resources:    make(map[string]domain.ResourceMetadata, len(resources)),
		SessionTypes: make(map[string]domain.SessionType, len(sessionTypes)),
	}
	for _, r := range resources {
		c.Resources[r.ID] = r
	}
	for _, st := range sessionTypes {
		c.SessionTypes[st.ID] = st
	}
	return c
}

type DiagnosticKind string

const (
	DiagUnknownStrategy    DiagnosticKind = "unknown_strategy"
	DiagMissingResource    DiagnosticKind = "missing_resource"
	DiagUnknownSessionType DiagnosticKind = "unknown_session_type"
	DiagMissingForm        DiagnosticKind = "missing_form"
	DiagKeywordInference   DiagnosticKind = "keyword_inference"
	DiagDuplicateID        DiagnosticKind = "duplicate_id"
)

// Diagnostic reports a configuration problem or heuristic decision. None of
// them fail normalization.
type Diagnostic struct {
	Kind     DiagnosticKind
	PeriodID string
	ItemID   string
	Label    string
	Detail   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s [%s/%s %q]: %s", d.Kind, d.PeriodID, d.ItemID, d.Label, d.Detail)
}

type NormalizeResult struct {
	Items       []domain.ActionItem
	Diagnostics []Diagnostic
}

// microHabitTypes are recurring daily prompts owned by the daily-habit feature.
var microHabitTypes = map[string]bool{
	"daily_rep":   true,
	"habit":       true,
	"micro_habit": true,
}

// formKeywords is the closed vocabulary used to recognise interactive flows by
// label when nothing structured identifies them.
var formKeywords = []struct {
	keyword string
	form    domain.FormKind
}{
	{"leader profile", domain.FormLeaderProfile},
	{"baseline assessment", domain.FormBaselineAssessment},
	{"notification setup", domain.FormNotificationSetup},
	{"notification preferences", domain.FormNotificationSetup},
	{"foundation commitment", domain.FormFoundationCommitment},
	{"conditioning tutorial", domain.FormConditioningTutorial},
	{"video series", domain.FormVideoSeries},
}

func keywordForm(label string) (domain.FormKind, string, bool) {
	folded := foldLabel(label)
	for _, k := range formKeywords {
		if strings.Contains(folded, k.keyword) {
			return k.form, k.keyword, true
		}
	}
	return "", "", false
}

// Normalize expands one period configuration into canonical action items.
func Normalize(cfg domain.PeriodConfig, catalog Catalog) NormalizeResult {
	n := &normalizer{cfg: cfg, ref: cfg.Ref(), catalog: catalog, seen: make(map[string]int)}
	n.actions()
	n.weeklySlots()
	n.sessionSlots()
	n.formSlots()
	return NormalizeResult{Items: n.items, Diagnostics: n.diags}
}

// NormalizeAll normalizes every period in curriculum order.
func NormalizeAll(configs []domain.PeriodConfig, catalog Catalog) NormalizeResult {
	sorted := make([]domain.PeriodConfig, len(configs))
	copy(sorted, configs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Ref().Compare(sorted[j].Ref()) < 0
	})

	var out NormalizeResult
	for _, cfg := range sorted {
		res := Normalize(cfg, catalog)
		out.Items = append(out.Items, res.Items...)
		out.Diagnostics = append(out.Diagnostics, res.Diagnostics...)
	}
	return out
}

type normalizer struct {
	cfg     domain.PeriodConfig
	ref     domain.PeriodRef
	catalog Catalog
	seen    map[string]int
	items   []domain.ActionItem
	diags   []Diagnostic
}

func (n *normalizer) milestone() int {
	if n.cfg.Phase == domain.PhaseMilestone {
		return n.cfg.Number
	}
	return 0
}

func (n *normalizer) add(item domain.ActionItem) {
	if c := n.seen[item.ID]; c > 0 {
		dup := fmt.Sprintf("%s-%d", item.ID, c+1)
		n.diag(DiagDuplicateID, item, fmt.Sprintf("id %q already used in period, renamed to %q", item.ID, dup))
		n.seen[item.ID]++
		item.ID = dup
	}
	n.seen[item.ID]++
	n.items = append(n.items, item)
}

func (n *normalizer) diag(kind DiagnosticKind, item domain.ActionItem, detail string) {
	n.diags = append(n.diags, Diagnostic{
		Kind:     kind,
		PeriodID: n.cfg.ID,
		ItemID:   item.ID,
		Label:    item.Label,
		Detail:   detail,
	})
}

// fallback degrades a misconfigured item to a plain checklist entry.
func (n *normalizer) fallback(item *domain.ActionItem, kind DiagnosticKind, detail string) {
	item.Strategy = domain.StrategySimple
	item.StrategySource = domain.SourceFallback
	item.Form = ""
	n.diag(kind, *item, detail+"; falling back to simple")
}

// ordinals tracks how many label-identified entries with the same folded label
// preceded the current one.
type ordinals map[string]int

func (o ordinals) next(explicitID, slotKey, label string) int {
	if explicitID != "" || slotKey != "" {
		return 0
	}
	key := foldLabel(label)
	ord := o[key]
	o[key]++
	return ord
}

func (n *normalizer) actions() {
	ords := ordinals{}
	for _, def := range n.cfg.Actions {
		if microHabitTypes[strings.ToLower(def.ContentType)] {
			continue
		}
		ord := ords.next(def.ID, def.SlotKey, def.Label)
		item := domain.ActionItem{
			ID:          stableID(n.cfg.ID, listActions, def.ID, def.SlotKey, def.Label, ord),
			Label:       def.Label,
			Category:    categoryForContent(def.ContentType),
			ContentType: def.ContentType,
			Required:    !def.Optional,
			Origin:      n.ref,
			ResourceID:  def.ResourceID,
			SessionType: def.SessionType,
			HandlerTag:  def.HandlerTag,
			Milestone:   n.milestone(),
		}
		n.inferStrategy(&item, def)
		n.add(item)
	}
}

// inferStrategy applies the signal precedence: explicit tag, resource type,
// label keyword, then simple.
func (n *normalizer) inferStrategy(item *domain.ActionItem, def domain.ActionDefinition) {
	if def.Strategy != "" {
		if !domain.ValidStrategies[def.Strategy] {
			n.fallback(item, DiagUnknownStrategy, fmt.Sprintf("unknown completion strategy %q", def.Strategy))
			return
		}
		item.Strategy = domain.CompletionStrategy(def.Strategy)
		item.StrategySource = domain.SourceExplicit
		n.checkExplicit(item, def)
		return
	}

	if form := structuredForm(def); form != "" {
		item.Strategy = domain.StrategyInteractive
		item.StrategySource = domain.SourceExplicit
		item.Form = form
		item.Category = domain.CategoryForm
		return
	}

	if def.ResourceID != "" || def.ResourceType != "" {
		resType := def.ResourceType
		if def.ResourceID != "" {
			res, ok := n.catalog.Resources[def.ResourceID]
			if !ok {
				n.fallback(item, DiagMissingResource, fmt.Sprintf("resource %q not found", def.ResourceID))
				return
			}
			if resType == "" {
				resType = res.Type
			}
		}
		switch strings.ToLower(resType) {
		case "video_series":
			item.Strategy = domain.StrategyResourceView
			item.StrategySource = domain.SourceResource
			item.DurationLookup = true
			return
		case "video", "reading", "document":
			item.Strategy = domain.StrategyResourceView
			item.StrategySource = domain.SourceResource
			return
		}
	}

	if form, keyword, ok := keywordForm(def.Label); ok {
		item.Strategy = domain.StrategyInteractive
		item.StrategySource = domain.SourceKeyword
		item.Form = form
		item.Category = domain.CategoryForm
		n.diag(DiagKeywordInference, *item, fmt.Sprintf("label matched %q, treated as %s form", keyword, form))
		return
	}

	item.Strategy = domain.StrategySimple
	item.StrategySource = domain.SourceDefault
}

// checkExplicit validates the references an explicitly tagged strategy needs.
func (n *normalizer) checkExplicit(item *domain.ActionItem, def domain.ActionDefinition) {
	switch item.Strategy {
	case domain.StrategyResourceView:
		if def.ResourceID != "" {
			if _, ok := n.catalog.Resources[def.ResourceID]; !ok {
				n.fallback(item, DiagMissingResource, fmt.Sprintf("resource %q not found", def.ResourceID))
				return
			}
		}
		if strings.EqualFold(def.ResourceType, "video_series") {
			item.DurationLookup = true
		}
	case domain.StrategyInteractive:
		form := structuredForm(def)
		if form == "" {
			form, _, _ = keywordForm(def.Label)
		}
		if form == "" {
			n.fallback(item, DiagMissingForm, "interactive item without a known form kind")
			return
		}
		item.Form = form
		item.Category = domain.CategoryForm
	case domain.StrategySessionSchedule, domain.StrategyCertificationGate:
		st, ok := n.catalog.SessionTypes[def.SessionType]
		if !ok {
			n.fallback(item, DiagUnknownSessionType, fmt.Sprintf("session type %q not found", def.SessionType))
			return
		}
		item.Category = categoryForSession(st.Kind)
	}
}

// structuredForm returns the form kind named by the definition's form or
// handler tag fields.
func structuredForm(def domain.ActionDefinition) domain.FormKind {
	if domain.ValidFormKind(def.Form) {
		return domain.FormKind(def.Form)
	}
	if domain.ValidFormKind(def.HandlerTag) {
		return domain.FormKind(def.HandlerTag)
	}
	return ""
}

func (n *normalizer) weeklySlots() {
	ords := ordinals{}
	for _, slot := range n.cfg.WeeklySlots {
		ord := ords.next(slot.ID, "", slot.Label)
		item := domain.ActionItem{
			ID:          stableID(n.cfg.ID, listWeekly, slot.ID, "", slot.Label, ord),
			Label:       slot.Label,
			Category:    categoryForSession(slot.Kind),
			ContentType: string(slot.Kind),
			Required:    !slot.Optional,
			Origin:      n.ref,
			ResourceID:  slot.ResourceID,
			SessionType: slot.SessionType,
			Milestone:   n.milestone(),
		}
		switch {
		case slot.SessionType == "":
			// A weekly resource with no bookable session is ticked off directly.
			item.Strategy = domain.StrategySimple
			item.StrategySource = domain.SourceDefault
		case n.knownSessionType(slot.SessionType):
			item.Strategy = domain.StrategySessionSchedule
			item.StrategySource = domain.SourceExplicit
		default:
			n.fallback(&item, DiagUnknownSessionType, fmt.Sprintf("session type %q not found", slot.SessionType))
		}
		n.add(item)
	}
}

func (n *normalizer) sessionSlots() {
	ords := ordinals{}
	for _, slot := range n.cfg.SessionSlots {
		ord := ords.next(slot.ID, slot.SessionType, slot.Label)
		label := slot.Label
		if label == "" {
			if st, ok := n.catalog.SessionTypes[slot.SessionType]; ok {
				label = st.Title
			}
		}
		item := domain.ActionItem{
			ID:          stableID(n.cfg.ID, listSession, slot.ID, slot.SessionType, label, ord),
			Label:       label,
			Category:    categoryForSession(slot.Kind),
			ContentType: string(slot.Kind),
			Required:    !slot.Optional,
			Origin:      n.ref,
			SessionType: slot.SessionType,
			Milestone:   n.milestone(),
		}
		if !n.knownSessionType(slot.SessionType) {
			n.fallback(&item, DiagUnknownSessionType, fmt.Sprintf("session type %q not found", slot.SessionType))
			n.add(item)
			continue
		}
		item.StrategySource = domain.SourceExplicit
		item.Strategy = domain.StrategySessionSchedule
		if slot.Certifies {
			item.Strategy = domain.StrategyCertificationGate
		}
		n.add(item)
	}
}

func (n *normalizer) formSlots() {
	ords := ordinals{}
	for _, slot := range n.cfg.FormSlots {
		ord := ords.next(slot.ID, string(slot.Form), slot.Label)
		item := domain.ActionItem{
			ID:          stableID(n.cfg.ID, listForm, slot.ID, string(slot.Form), slot.Label, ord),
			Label:       slot.Label,
			Category:    domain.CategoryForm,
			ContentType: "form",
			Required:    !slot.Optional,
			Origin:      n.ref,
			Milestone:   n.milestone(),
		}
		if !domain.ValidFormKind(string(slot.Form)) {
			item.Category = domain.CategoryContent
			n.fallback(&item, DiagMissingForm, fmt.Sprintf("unknown form kind %q", slot.Form))
			n.add(item)
			continue
		}
		item.Strategy = domain.StrategyInteractive
		item.StrategySource = domain.SourceExplicit
		item.Form = slot.Form
		n.add(item)
	}
}

func (n *normalizer) knownSessionType(id string) bool {
	_, ok := n.catalog.SessionTypes[id]
	return ok
}

func categoryForContent(contentType string) domain.Category {
	switch strings.ToLower(contentType) {
	case "coaching", "call":
		return domain.CategoryCoaching
	case "community", "leader_circle", "open_gym":
		return domain.CategoryCommunity
	default:
		return domain.CategoryContent
	}
}

func categoryForSession(kind domain.SessionKind) domain.Category {
	if kind == domain.SessionCommunity {
		return domain.CategoryCommunity
	}
	return domain.CategoryCoaching
}
