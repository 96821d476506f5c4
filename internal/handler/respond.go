package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Sima922/clouds-pos/pkg/apperr"
	"github.com/Sima922/clouds-pos/pkg/logger"
)

type contextKey string

const actorKey contextKey = "actor_id"

// ActorMiddleware reads the authenticated user id from the X-User-ID header
// set by the auth gateway. Requests without it get 401 before reaching any
// handler.
func ActorMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	log = log.WithComponent("auth_middleware")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-User-ID")
			if userID == "" {
				log.Warn("Request without user identity", "path", r.URL.Path)
				writeError(w, log, http.StatusUnauthorized, "missing user identity")
				return
			}
			ctx := context.WithValue(r.Context(), actorKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// actorID returns the authenticated user id placed by ActorMiddleware.
func actorID(r *http.Request) string {
	id, _ := r.Context().Value(actorKey).(string)
	return id
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error("Failed to encode JSON response", "error", err)
		}
	}
}

func writeError(w http.ResponseWriter, log *logger.Logger, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("Failed to encode error response", "error", err)
	}
}

// writeServiceError maps service errors to HTTP status codes by type, never
// by message text.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, apperr.ErrForbidden):
		writeError(w, log, http.StatusForbidden, err.Error())
	case apperr.IsValidation(err):
		writeError(w, log, http.StatusBadRequest, err.Error())
	case apperr.IsNotFound(err):
		writeError(w, log, http.StatusNotFound, err.Error())
	case apperr.IsConflict(err):
		writeError(w, log, http.StatusConflict, err.Error())
	case apperr.IsTransient(err):
		writeError(w, log, http.StatusServiceUnavailable, "storage contention, please retry")
	default:
		log.Error("Unhandled service error", "error", err)
		writeError(w, log, http.StatusInternalServerError, "internal server error")
	}
}

func parseBody(r *http.Request, target interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}
