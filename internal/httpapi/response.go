package httpapi

import (
	"errors"
	"net/http"

	"github.com/alexanderramin/waypoint/internal/app"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondServiceError maps request errors to their HTTP status. Anything
// else is an internal failure.
func respondServiceError(c *gin.Context, err error) {
	var perr *app.ProgressionError
	if errors.As(err, &perr) {
		status := http.StatusBadRequest
		switch perr.Code {
		case app.ErrCodeNotFound, app.ErrCodeNotEnrolled:
			status = http.StatusNotFound
		}
		c.JSON(status, ErrorEnvelope{Error: APIError{Message: perr.Message, Code: string(perr.Code)}})
		return
	}
	_ = c.Error(err)
	RespondError(c, http.StatusInternalServerError, "INTERNAL", errors.New("internal error"))
}

// respondMutation writes accepted results as 200 and rejections as 409.
func respondMutation(c *gin.Context, res *app.MutationResult) {
	if !res.Accepted {
		RespondError(c, http.StatusConflict, string(res.Code), errors.New(res.Message))
		return
	}
	RespondOK(c, toMutationDTO(res))
}
