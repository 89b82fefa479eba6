// Package handler exposes the admin console's HTTP endpoints.  Every
// handler is a thin wrapper: it parses and validates the request
// shape, calls into the core service or a repository, and maps domain
// errors onto HTTP status codes.  No business rule lives here.
package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hostel-admin/internal/hostel"
	"github.com/iliyamo/hostel-admin/internal/repository"
)

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// domainError translates core and repository errors into JSON error
// responses.  The mapping is uniform across all endpoints:
//
//	validation / same-room  -> 400
//	not found               -> 404
//	capacity exceeded       -> 409
//	anything else           -> 500
func domainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, hostel.ErrValidation), errors.Is(err, hostel.ErrSameRoom):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, hostel.ErrCapacityExceeded):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrResidentNotFound),
		errors.Is(err, repository.ErrPaymentNotFound),
		errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
