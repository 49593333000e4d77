package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"quill/app/auth"
	"quill/app/middleware"
	"quill/app/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errUnauthenticated = errors.New("authentication required")

// responder writes JSON responses and maps service errors onto HTTP statuses.
type responder struct {
	log *zap.Logger
}

func (rs responder) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rs.log.Warn("failed to write response", zap.Error(err))
	}
}

func (rs responder) sendMessage(w http.ResponseWriter, status int, message string) {
	rs.sendJSON(w, status, map[string]string{"message": message})
}

func (rs responder) sendError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		rs.log.Error("request failed",
			zap.String("request_id", middleware.RequestIDFromContext(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		message = "internal server error"
	}
	rs.sendJSON(w, status, map[string]string{"error": message})
}

// statusFor maps an error onto its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", services.ErrValidation)
	}
	return nil
}

// pathID parses the named route variable as an ObjectID. An ID that cannot
// be parsed names no resource, so it reports not found.
func pathID(r *http.Request, name, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)[name])
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s %w", what, services.ErrNotFound)
	}
	return id, nil
}

// actor returns the authenticated caller.
func actor(r *http.Request) (primitive.ObjectID, error) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return primitive.NilObjectID, errUnauthenticated
	}
	return id.UserID, nil
}
