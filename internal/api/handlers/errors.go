package handlers

import (
	"errors"
	"io"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rohits-web03/devfolio/internal/api/middleware"
	"github.com/rohits-web03/devfolio/internal/apperrors"
	"github.com/rohits-web03/devfolio/internal/utils"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20 // 1 MB

func logInternal(log zerolog.Logger, r *http.Request, err error) {
	if apperrors.KindOf(err) != apperrors.KindInternal {
		return
	}
	log.Error().
		Err(err).
		Str("request_id", chimw.GetReqID(r.Context())).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("request failed")
}

// AuthError answers auth routes with {message}.
func AuthError(log zerolog.Logger) middleware.ErrorResponder {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		logInternal(log, r, err)
		utils.JSONResponse(w, apperrors.StatusOf(err), utils.ErrorBody{
			Message: apperrors.PublicMessage(err),
		})
	}
}

// ResourceError answers profile and project routes with {success:false, message}.
func ResourceError(log zerolog.Logger) middleware.ErrorResponder {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		logInternal(log, r, err)
		utils.JSONResponse(w, apperrors.StatusOf(err), utils.ResourceError{
			Success: false,
			Message: apperrors.PublicMessage(err),
		})
	}
}

// TooManyRequests is the rate limiter's rejection, in the auth envelope.
func TooManyRequests(w http.ResponseWriter, r *http.Request) {
	utils.JSONResponse(w, http.StatusTooManyRequests, utils.ErrorBody{
		Message: "Too many requests, please try again later",
	})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apperrors.Validation("Request body too large")
		}
		return nil, apperrors.Validation("Invalid request body")
	}
	return body, nil
}

func pathID(r *http.Request, entity string) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validationf("Invalid %s id", entity)
	}
	return id, nil
}

func identity(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		return uuid.Nil, apperrors.Unauthenticated("Unauthorized")
	}
	return id, nil
}

// input returns the caller's identity and the request body.
func input(w http.ResponseWriter, r *http.Request) (uuid.UUID, []byte, error) {
	id, err := identity(r)
	if err != nil {
		return uuid.Nil, nil, err
	}
	body, err := readBody(w, r)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, body, nil
}

func projectInput(w http.ResponseWriter, r *http.Request) (uuid.UUID, []byte, uuid.UUID, error) {
	projectID, err := pathID(r, "project")
	if err != nil {
		return uuid.Nil, nil, uuid.Nil, err
	}
	id, body, err := input(w, r)
	if err != nil {
		return uuid.Nil, nil, uuid.Nil, err
	}
	return id, body, projectID, nil
}
