package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/alexanderramin/waypoint/internal/domain"
	"github.com/alexanderramin/waypoint/internal/service"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	progression   service.ProgressionService
	registrations service.RegistrationService
	facilitator   service.FacilitatorService
	enrollments   service.EnrollmentService
	curriculum    service.CurriculumService
}

type Services struct {
	Progression   service.ProgressionService
	Registrations service.RegistrationService
	Facilitator   service.FacilitatorService
	Enrollments   service.EnrollmentService
	Curriculum    service.CurriculumService
}

func NewHandler(s Services) *Handler {
	return &Handler{
		progression:   s.Progression,
		registrations: s.Registrations,
		facilitator:   s.Facilitator,
		enrollments:   s.Enrollments,
		curriculum:    s.Curriculum,
	}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func badRequest(c *gin.Context, err error) {
	RespondError(c, http.StatusBadRequest, string(app.ErrCodeInvalidRequest), err)
}

// GetView serves the current view. X-Session-ID scopes carry-over
// memoization; the optional "at" query parameter evaluates the view at
// another instant.
func (h *Handler) GetView(c *gin.Context) {
	req := app.NewViewRequest(c.Param("userID"), c.GetHeader(headerSessionID))
	if at := c.Query("at"); at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			badRequest(c, fmt.Errorf("at must be RFC3339: %w", err))
			return
		}
		req.Now = &t
	}
	v, err := h.progression.GetCurrentView(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, toViewDTO(v))
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.progression.GetStats(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, toStatsDTO(stats))
}

func (h *Handler) ToggleItem(c *gin.Context) {
	res, err := h.progression.ToggleItem(c.Request.Context(), c.Param("userID"), c.Param("itemID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMutation(c, res)
}

func (h *Handler) SkipItem(c *gin.Context) {
	res, err := h.progression.SkipItem(c.Request.Context(), c.Param("userID"), c.Param("itemID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMutation(c, res)
}

func milestoneParam(c *gin.Context) (int, bool) {
	n, err := strconv.Atoi(c.Param("n"))
	if err != nil {
		badRequest(c, fmt.Errorf("milestone must be a number: %w", err))
		return 0, false
	}
	return n, true
}

func (h *Handler) AcknowledgeCertificate(c *gin.Context) {
	n, ok := milestoneParam(c)
	if !ok {
		return
	}
	res, err := h.progression.AcknowledgeCertificate(c.Request.Context(), c.Param("userID"), n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMutation(c, res)
}

type scheduleBody struct {
	ItemID       string `json:"item_id" binding:"required"`
	SessionID    string `json:"session_id" binding:"required"`
	SessionTitle string `json:"session_title"`
	CoachName    string `json:"coach_name"`
	StartsAt     string `json:"starts_at"`
}

func (h *Handler) ScheduleSession(c *gin.Context) {
	var body scheduleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.registrations.ScheduleSession(c.Request.Context(), app.ScheduleRequest{
		UserID:       c.Param("userID"),
		ItemID:       body.ItemID,
		SessionID:    body.SessionID,
		SessionTitle: body.SessionTitle,
		CoachName:    body.CoachName,
		StartsAt:     body.StartsAt,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMutation(c, res)
}

func (h *Handler) ListRegistrations(c *gin.Context) {
	regs, err := h.registrations.ListRegistrations(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]*registrationDTO, 0, len(regs))
	for i := range regs {
		out = append(out, toRegistrationDTO(&regs[i]))
	}
	RespondOK(c, gin.H{"registrations": out})
}

func (h *Handler) CancelSession(c *gin.Context) {
	res, err := h.registrations.CancelSession(c.Request.Context(), c.Param("userID"), c.Param("regID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMutation(c, res)
}

func (h *Handler) ConfirmAttendance(c *gin.Context) {
	res, err := h.registrations.ConfirmAttendance(c.Request.Context(), c.Param("userID"), c.Param("regID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMutation(c, res)
}

type enrollBody struct {
	StartDate   time.Time  `json:"start_date" binding:"required"`
	AscentStart *time.Time `json:"ascent_start"`
}

func (h *Handler) Enroll(c *gin.Context) {
	var body enrollBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	e, err := h.enrollments.Enroll(c.Request.Context(), c.Param("userID"), body.StartDate, body.AscentStart)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"user_id": e.UserID, "start_date": e.StartDate, "ascent_start": e.AscentStart})
}

type formBody struct {
	Submitted bool `json:"submitted"`
}

// SetFormStatus is the hook the interactive form owners call on submit.
func (h *Handler) SetFormStatus(c *gin.Context) {
	var body formBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	kind := domain.FormKind(c.Param("form"))
	if err := h.enrollments.SetFormStatus(c.Request.Context(), c.Param("userID"), kind, body.Submitted); err != nil {
		respondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"form": kind, "submitted": body.Submitted})
}

func (h *Handler) SignOffMilestone(c *gin.Context) {
	n, ok := milestoneParam(c)
	if !ok {
		return
	}
	res, err := h.facilitator.SignOffMilestone(c.Request.Context(), actorFrom(c), c.Param("userID"), n)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMutation(c, res)
}

func (h *Handler) CertifyRegistration(c *gin.Context) {
	res, err := h.facilitator.CertifyRegistration(c.Request.Context(), actorFrom(c), c.Param("regID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMutation(c, res)
}

func (h *Handler) ResetUser(c *gin.Context) {
	res, err := h.facilitator.ResetUser(c.Request.Context(), actorFrom(c), c.Param("userID"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondMutation(c, res)
}

func (h *Handler) ListPeriods(c *gin.Context) {
	periods, err := h.curriculum.ListPeriods(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	type periodDTO struct {
		ID      string `json:"id"`
		Phase   string `json:"phase"`
		Number  int    `json:"number,omitempty"`
		Section string `json:"section,omitempty"`
		Day     int    `json:"day,omitempty"`
		Title   string `json:"title"`
		Entries int    `json:"entries"`
	}
	out := make([]periodDTO, 0, len(periods))
	for _, p := range periods {
		out = append(out, periodDTO{
			ID:      p.ID,
			Phase:   string(p.Phase),
			Number:  p.Number,
			Section: string(p.Section),
			Day:     p.Day,
			Title:   p.Title,
			Entries: len(p.Actions) + len(p.WeeklySlots) + len(p.SessionSlots) + len(p.FormSlots),
		})
	}
	RespondOK(c, gin.H{"periods": out})
}

func (h *Handler) PreviewCurriculum(c *gin.Context) {
	res, err := h.curriculum.Preview(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	diags := make([]string, 0, len(res.Diagnostics))
	for _, d := range res.Diagnostics {
		diags = append(diags, d.String())
	}
	RespondOK(c, gin.H{"items": len(res.Items), "diagnostics": diags})
}
