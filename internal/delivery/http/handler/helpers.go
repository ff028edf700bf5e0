package handler

import (
	"net/http"
	"strconv"

	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/dto"
	"github.com/RouteClouds/Health-Care-Management-System/internal/delivery/http/middleware"
	"github.com/RouteClouds/Health-Care-Management-System/internal/scheduler"
	"github.com/RouteClouds/Health-Care-Management-System/pkg/response"

	"github.com/google/uuid"
)

// pageQuery reads page and limit; unparsable values fall back to defaults.
func pageQuery(r *http.Request) dto.PageQuery {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return dto.PageQuery{Page: page, Limit: limit}.Normalize()
}

func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Access token required")
		return uuid.Nil, false
	}
	return userID, true
}

// writeSchedulingError maps scheduler rejections onto HTTP statuses.
func writeSchedulingError(w http.ResponseWriter, err error, fallback string) {
	switch scheduler.Kind(err) {
	case scheduler.ErrInvalidInput:
		response.BadRequest(w, err.Error())
	case scheduler.ErrNotFound:
		response.NotFound(w, err.Error())
	case scheduler.ErrConflict, scheduler.ErrInvalidState:
		response.Conflict(w, err.Error())
	default:
		response.InternalServerError(w, fallback)
	}
}
