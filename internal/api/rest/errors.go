package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/upravnik/assembly-engine/internal/api/shared/errors"
	"github.com/upravnik/assembly-engine/internal/domain"
	"github.com/upravnik/assembly-engine/internal/logger"
)

// respondBadRequest responds with a bad request error
func respondBadRequest(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusBadRequest, apierrors.NewBadRequestError(message, details...))
}

// respondNotFound responds with a not found error
func respondNotFound(c *gin.Context, message string, details ...string) {
	c.JSON(http.StatusNotFound, apierrors.NewNotFoundError(message, details...))
}

// respondValidationError responds with a validation error
func respondValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusUnprocessableEntity, apierrors.NewValidationError(message))
}

// respondInternalError responds with an internal server error and logs it
func respondInternalError(c *gin.Context, err error, message string, details ...string) {
	logger.Error(err, zap.String("path", c.Request.URL.Path))
	c.JSON(http.StatusInternalServerError, apierrors.NewInternalError(message, details...))
}

// respondDomainError maps a domain error to its HTTP representation.
// Validation failures are 422, lifecycle conflicts and duplicates are 409,
// missing entities are 404, anything unexpected is 500.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrAssemblyNotFound),
		errors.Is(err, domain.ErrAgendaItemNotFound),
		errors.Is(err, domain.ErrAttendeeNotFound),
		errors.Is(err, domain.ErrFinalResultNotFound):
		respondNotFound(c, err.Error())

	case errors.Is(err, domain.ErrInvalidChoice),
		errors.Is(err, domain.ErrInvalidMills),
		errors.Is(err, domain.ErrInvalidQuorum),
		errors.Is(err, domain.ErrMillsExceedTotal):
		respondValidationError(c, err.Error())

	case errors.Is(err, domain.ErrDuplicateAttendee):
		c.JSON(http.StatusConflict, apierrors.NewConflictError(err.Error()))

	case errors.Is(err, domain.ErrAssemblyClosed),
		errors.Is(err, domain.ErrAgendaItemClosed),
		errors.Is(err, domain.ErrAgendaItemNotPending),
		errors.Is(err, domain.ErrAgendaItemAlreadyClosed),
		errors.Is(err, domain.ErrAgendaItemNotOpen),
		errors.Is(err, domain.ErrAnotherItemOpen),
		errors.Is(err, domain.ErrPreviousItemNotClosed):
		c.JSON(http.StatusConflict, apierrors.NewStateConflictError(err.Error()))

	default:
		respondInternalError(c, err, "Internal server error")
	}
}
