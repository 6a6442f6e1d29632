package curriculum

import (
	"fmt"
	"strings"

	"github.com/mitchellh/hashstructure/v2"
)

// listKind separates the four definition lists of a period so that an action
// and a form slot sharing a label never collide.
type listKind string

const (
	listActions listKind = "action"
	listWeekly  listKind = "weekly"
	listSession listKind = "session"
	listForm    listKind = "form"
)

type slotKeyIdentity struct {
	PeriodID string
	List     string
	SlotKey  string
}

type labelIdentity struct {
	PeriodID string
	List     string
	Label    string
	Ordinal  int
}

// stableID derives an item id. An explicit id wins, then a slot key, then the
// case-folded label plus its ordinal among equal labels in the same list.
// Neither fallback depends on list position, so inserting an unrelated entry
// leaves every other id unchanged.
func stableID(periodID string, list listKind, explicitID, slotKey, label string, ordinal int) string {
	if explicitID != "" {
		return explicitID
	}
	var v any
	if slotKey != "" {
		v = slotKeyIdentity{PeriodID: periodID, List: string(list), SlotKey: slotKey}
	} else {
		v = labelIdentity{PeriodID: periodID, List: string(list), Label: foldLabel(label), Ordinal: ordinal}
	}
	// Hash only fails on unsupported kinds; both identities are strings and ints.
	h, _ := hashstructure.Hash(v, hashstructure.FormatV2, nil)
	return fmt.Sprintf("act-%016x", h)
}

func foldLabel(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
