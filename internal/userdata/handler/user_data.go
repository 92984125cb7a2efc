package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	userdataerrors "hashgate/internal/userdata/errors"
	"hashgate/internal/userdata/service"
	"hashgate/internal/userdata/validator"
	apperrors "hashgate/pkg/errors"
	httputil "hashgate/pkg/http"
	"hashgate/pkg/logger"
	"hashgate/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const hashUserDataParam = "hash_user_data"

type NormalizeResponse struct {
	UserData *model.UserData `json:"user_data"`
}

type UserDataHandler struct {
	service      service.UserDataService
	validator    *validator.UserDataValidator
	hashUserData bool
	log          *logger.Logger
}

// NewUserDataHandler builds the normalization endpoints. hashUserData is the
// default for event requests that do not pass the hash_user_data parameter.
func NewUserDataHandler(service service.UserDataService, validator *validator.UserDataValidator, hashUserData bool, log *logger.Logger) *UserDataHandler {
	return &UserDataHandler{
		service:      service,
		validator:    validator,
		hashUserData: hashUserData,
		log:          log,
	}
}

func (h *UserDataHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/user-data/normalize", h.NormalizeUserData)
	router.POST("/api/v1/events/normalize", h.NormalizeEvent)
}

func (h *UserDataHandler) NormalizeUserData(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req validator.NormalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "NormalizeUserData", bodyError(err))
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			h.writeError(w, "NormalizeUserData", apperrors.Validation("request validation failed", map[string]any{
				"errors": verrs,
			}))
			return
		}
		h.writeError(w, "NormalizeUserData", apperrors.InvalidInputWrap("invalid request", err))
		return
	}

	out := h.service.NormalizeUserData(r.Context(), req.UserData, *req.HashUserData)

	if err := httputil.WriteSuccess(w, NormalizeResponse{UserData: out}); err != nil {
		h.log.Error("failed to write success response", "handler", "NormalizeUserData", "operation", "WriteSuccess", "error", err)
	}
}

func (h *UserDataHandler) NormalizeEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	hash, err := httputil.ExtractBoolQuery(r, hashUserDataParam, h.hashUserData)
	if err != nil {
		h.writeError(w, "NormalizeEvent", err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, "NormalizeEvent", bodyError(err))
		return
	}

	out, err := h.service.NormalizeEvent(r.Context(), body, hash)
	if err != nil {
		if errors.Is(err, userdataerrors.ErrInvalidEvent) {
			h.writeError(w, "NormalizeEvent", apperrors.InvalidInputWrap("invalid event", err))
			return
		}
		h.writeError(w, "NormalizeEvent", apperrors.Internal("failed to normalize event", err))
		return
	}

	if err := httputil.WriteRawJSON(w, http.StatusOK, out); err != nil {
		h.log.Error("failed to write JSON response", "handler", "NormalizeEvent", "operation", "WriteRawJSON", "error", err)
	}
}

func (h *UserDataHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if appErr := apperrors.AsAppError(err); appErr.StatusCode() >= http.StatusInternalServerError {
		h.log.Error("request failed", "handler", handler, "error", err)
	}
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return apperrors.PayloadTooLarge(maxErr.Limit)
	}
	return apperrors.InvalidInputWrap("invalid request body", err)
}
