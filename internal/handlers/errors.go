package handlers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	apierrors "github.com/yukikurage/meeting-scheduler-api/internal/errors"
	"github.com/yukikurage/meeting-scheduler-api/internal/scheduling"
	"github.com/yukikurage/meeting-scheduler-api/internal/services"
)

// respondServiceError maps service errors onto the API error envelope
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError
	var inputErr *scheduling.InputError

	switch {
	case errors.As(err, &validationErr):
		apierrors.ValidationFailed(c, validationErr.Fields)
	case errors.As(err, &conflictErr):
		apierrors.SchedulingConflict(c, conflictErr.Conflicts)
	case errors.As(err, &inputErr):
		apierrors.UnprocessableEntity(c, inputErr.Error())
	case errors.Is(err, services.ErrNoAttendees):
		apierrors.EmptySelection(c, err.Error())
	case errors.Is(err, services.ErrMeetingNotFound),
		errors.Is(err, services.ErrGroupNotFound),
		errors.Is(err, services.ErrSprintNotFound),
		errors.Is(err, services.ErrProductNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrSlotBusy):
		apierrors.SlotBusy(c, err.Error())
	case errors.Is(err, services.ErrNotMeetingHost),
		errors.Is(err, services.ErrNotGroupOwner):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrMeetingCancelled),
		errors.Is(err, services.ErrMeetingAlreadyLogged):
		apierrors.Conflict(c, err.Error())
	default:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		apierrors.InternalError(c, "")
	}
}

// paramID parses a numeric path parameter
func paramID(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// respondBindError reports request binding failures. Failed binding tags
// are listed per field; anything else is a malformed body.
func respondBindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[toSnakeCase(fe.Field())] = "failed " + fe.Tag() + " check"
	}
	apierrors.ValidationFailed(c, fields)
}

// toSnakeCase turns a Go field name such as FirstName into first_name
func toSnakeCase(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
