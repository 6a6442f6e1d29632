package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/waypoint/internal/domain"
)

func FormatEnrollment(e *domain.Enrollment) string {
	line := fmt.Sprintf("%s %s enrolled from %s", StyleGreen.Render("✔"), Bold(e.UserID), e.StartDate.Format("Jan 2, 2006"))
	if e.AscentStart != nil {
		line += Dim(fmt.Sprintf(", Ascent from %s", e.AscentStart.Format("Jan 2, 2006")))
	}
	return line + "\n"
}

// FormatForms lists every interactive flow with its submission state.
func FormatForms(forms map[domain.FormKind]bool) string {
	var b strings.Builder
	b.WriteString(Header("Forms") + "\n")
	for _, kind := range domain.FormKinds {
		mark := StyleDim.Render("[ ]")
		if forms[kind] {
			mark = StyleGreen.Render("[x]")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", mark, kind))
	}
	return b.String()
}
