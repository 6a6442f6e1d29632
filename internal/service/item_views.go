package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/curriculum"
	"github.com/alexanderramin/waypoint/internal/domain"
)

func toItemView(item domain.ActionItem, v curriculum.Verdict) app.ItemView {
	return app.ItemView{
		ID:              item.ID,
		Label:           item.Label,
		Category:        item.Category,
		ContentType:     item.ContentType,
		Required:        item.Required,
		Strategy:        item.Strategy,
		StrategySource:  item.StrategySource,
		Status:          v.Status,
		Reason:          v.Reason,
		MatchedBy:       v.MatchedBy,
		Session:         v.Session,
		RegistrationID:  v.RegistrationID,
		SessionType:     item.SessionType,
		Form:            item.Form,
		Milestone:       item.Milestone,
		DurationMinutes: item.DurationMinutes,
		DurationLookup:  item.DurationLookup,
		Toggleable:      toggleable(item),
	}
}

func toItemViews(in []curriculum.ItemVerdict) []app.ItemView {
	out := make([]app.ItemView, 0, len(in))
	for _, iv := range in {
		out = append(out, toItemView(iv.Item, iv.Verdict))
	}
	return out
}

func carryOverViews(in []curriculum.CarryOverItem) []app.ItemView {
	out := make([]app.ItemView, 0, len(in))
	for _, c := range in {
		v := toItemView(c.Item, c.Verdict)
		v.FromPeriod = c.FromPeriod.Label()
		out = append(out, v)
	}
	return out
}

// toggleable reports whether the user may flip the item directly.
func toggleable(item domain.ActionItem) bool {
	switch item.Strategy {
	case domain.StrategySimple, domain.StrategyResourceView:
		return true
	default:
		return false
	}
}

// toggleRejection explains why an item cannot be toggled, or returns nil.
func toggleRejection(item domain.ActionItem, pos curriculum.Position) *app.MutationResult {
	switch item.Strategy {
	case domain.StrategyCertificationGate:
		return app.Rejected(item.ID, app.RejectRequiresCert, domain.ErrFacilitatorOnly.Error())
	case domain.StrategyInteractive:
		return app.Rejected(item.ID, app.RejectNotToggleable,
			fmt.Sprintf("completed by submitting the %s form", item.Form))
	case domain.StrategySessionSchedule:
		return app.Rejected(item.ID, app.RejectNotToggleable, "completed by attending a scheduled session")
	case domain.StrategyAcknowledgement:
		return app.Rejected(item.ID, app.RejectNotToggleable, "completed by acknowledging the certificate")
	}
	if locked(item, pos) {
		return app.Rejected(item.ID, app.RejectLocked, fmt.Sprintf("%s is not unlocked yet", item.Origin.Label()))
	}
	return nil
}

// locked reports whether the item belongs to a period the user has not
// reached. Past periods stay open so carry-over can be worked off.
func locked(item domain.ActionItem, pos curriculum.Position) bool {
	if pos.Unreached(item.Origin) {
		return true
	}
	return item.Origin.Section == domain.SectionExplore && !pos.ExploreUnlocked
}

// recordFor returns the stored record or a fresh pending one, with the item
// snapshot fields refreshed for legacy matching and stats.
func recordFor(existing *domain.ProgressRecord, userID string, item domain.ActionItem, pos curriculum.Position, now time.Time) *domain.ProgressRecord {
	rec := existing
	if rec == nil {
		rec = &domain.ProgressRecord{
			ID:        newID(),
			UserID:    userID,
			ItemID:    item.ID,
			Status:    domain.ProgressPending,
			CreatedAt: now,
		}
	}
	rec.Label = item.Label
	rec.HandlerTag = item.HandlerTag
	rec.OriginPhase = item.Origin.Phase
	rec.Category = item.Category
	rec.CarriedOver = pos.Passed(item.Origin)
	if item.Origin.Phase.Kind == domain.PhaseAscent {
		rec.OriginWeek = item.Origin.Phase.Number
	}
	rec.UpdatedAt = now
	return rec
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return &app.ProgressionError{Code: app.ErrCodeInvalidRequest, Message: domain.ErrEmptyUserID.Error()}
	}
	return nil
}

func notFound(what, id string) error {
	return &app.ProgressionError{Code: app.ErrCodeNotFound, Message: fmt.Sprintf("%s %q not found", what, id)}
}
