package adaptor

import (
	"net/http"

	"room-booking/internal/apperr"
	"room-booking/internal/usecase"
	"room-booking/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	Room    *RoomHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:    NewAuthHandler(service.Auth, log),
		Room:    NewRoomHandler(service.Room, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}

// respondError maps the error taxonomy to HTTP without exposing lock or
// transaction internals to the caller.
func respondError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		log.Warn(operation+" rejected", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case apperr.KindConflict, apperr.KindVersionConflict:
		log.Warn(operation+" conflict", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case apperr.KindRateLimit:
		log.Warn(operation+" rate limited", zap.Error(err))
		retryAfter := int(apperr.RetryAfterOf(err).Seconds())
		utils.ResponseTooManyRequests(w, err.Error(), retryAfter)

	case apperr.KindNotFound:
		log.Warn(operation+" target not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case apperr.KindForbidden:
		log.Warn(operation+" forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case apperr.KindTransient:
		log.Warn(operation+" transient failure", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Temporarily unavailable, please retry")

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
