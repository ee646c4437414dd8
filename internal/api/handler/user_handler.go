package handler

import (
	"encoding/json"
	"net/http"

	"homefind/internal/api/middleware"
	"homefind/internal/app/service"
	"homefind/internal/common"

	"github.com/go-chi/chi/v5"
)

type UserHandler struct {
	userService     *service.UserService
	propertyService *service.PropertyService
}

func NewUserHandler(userService *service.UserService, propertyService *service.PropertyService) *UserHandler {
	return &UserHandler{userService: userService, propertyService: propertyService}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/{userID}", h.getProfile)
	r.Put("/{userID}", h.updateProfile)
	r.Delete("/{userID}", h.deleteAccount)
	r.Get("/{userID}/properties", h.listProperties)
}

func (h *UserHandler) getProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	user, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), chi.URLParam(r, "userID"), requesterID, middleware.IsAdmin(r.Context()), req)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, user)
}

func (h *UserHandler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	err := h.userService.DeleteAccount(r.Context(), chi.URLParam(r, "userID"), requesterID, middleware.IsAdmin(r.Context()))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "account deleted"})
}

func (h *UserHandler) listProperties(w http.ResponseWriter, r *http.Request) {
	properties, err := h.propertyService.ListByOwner(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, properties)
}
