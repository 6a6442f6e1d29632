package httpapi

import (
	"github.com/alexanderramin/waypoint/internal/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	Handler     *Handler
	Logger      *logger.Logger
	CORSOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(cfg.Logger))

	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", headerSessionID, headerFacilitatorID},
			AllowCredentials: true,
		}))
	}

	h := cfg.Handler
	router.GET("/healthcheck", HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/curriculum/periods", h.ListPeriods)
		api.GET("/curriculum/preview", h.PreviewCurriculum)
	}

	user := api.Group("/users/:userID")
	{
		user.GET("/view", h.GetView)
		user.GET("/stats", h.GetStats)
		user.PUT("/enrollment", h.Enroll)
		user.PUT("/forms/:form", h.SetFormStatus)
		user.POST("/items/:itemID/toggle", h.ToggleItem)
		user.POST("/items/:itemID/skip", h.SkipItem)
		user.POST("/milestones/:n/acknowledge", h.AcknowledgeCertificate)
		user.GET("/sessions", h.ListRegistrations)
		user.POST("/sessions", h.ScheduleSession)
		user.POST("/registrations/:regID/cancel", h.CancelSession)
		user.POST("/registrations/:regID/attend", h.ConfirmAttendance)
	}

	facilitator := api.Group("/facilitator")
	facilitator.Use(RequireFacilitator())
	{
		facilitator.POST("/users/:userID/milestones/:n/signoff", h.SignOffMilestone)
		facilitator.POST("/users/:userID/reset", h.ResetUser)
		facilitator.POST("/registrations/:regID/certify", h.CertifyRegistration)
	}

	return router
}
