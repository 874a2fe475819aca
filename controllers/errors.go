package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kenylson23/lastortillas-backend/cart"
	"github.com/kenylson23/lastortillas-backend/catalog"
	"github.com/kenylson23/lastortillas-backend/services"
	"github.com/kenylson23/lastortillas-backend/utils"
)

var ErrNoPermission = errors.New("you don't have permission to access this resource")

// respondServiceError maps the service error taxonomy onto HTTP codes:
// validation -> 400, not-found -> 404, conflict -> 409, anything else -> 500.
func respondServiceError(c *gin.Context, err error) {
	utils.RespondError(c, statusForError(err), err)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrUnknownLocation),
		errors.Is(err, cart.ErrInvalidCustomization),
		errors.Is(err, cart.ErrItemUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrTableNotFound),
		errors.Is(err, catalog.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrDuplicateTableNumber),
		errors.Is(err, services.ErrTableUnavailable),
		errors.Is(err, services.ErrOrderFinalized):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
