package handler

import (
	"net/http"

	"homefind/internal/api/middleware"
	"homefind/internal/app/service"
	"homefind/internal/common"

	"github.com/go-chi/chi/v5"
)

type FavoriteHandler struct {
	favoriteService *service.FavoriteService
}

func NewFavoriteHandler(favoriteService *service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

func (h *FavoriteHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.listFavorites)
	r.Post("/{propertyID}", h.addFavorite)
	r.Delete("/{propertyID}", h.removeFavorite)
}

func (h *FavoriteHandler) listFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	properties, err := h.favoriteService.ListFavorites(r.Context(), userID)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, properties)
}

func (h *FavoriteHandler) addFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	fav, err := h.favoriteService.AddFavorite(r.Context(), userID, chi.URLParam(r, "propertyID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, fav)
}

func (h *FavoriteHandler) removeFavorite(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	err := h.favoriteService.RemoveFavorite(r.Context(), userID, chi.URLParam(r, "propertyID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "favorite removed"})
}
