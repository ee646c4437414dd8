package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"homefind/internal/api/middleware"
	"homefind/internal/app/service"
	"homefind/internal/common"
	"homefind/internal/domain/model"
	"homefind/internal/domain/repository"

	"github.com/go-chi/chi/v5"
)

type PropertyHandler struct {
	propertyService *service.PropertyService
}

func NewPropertyHandler(ps *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: ps}
}

func (h *PropertyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.searchProperties)        // GET /api/v1/properties
	r.Get("/{propertyID}", h.getProperty) // by UUID or by slug

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.createProperty)
		authed.Put("/{propertyID}", h.updateProperty)
		authed.Delete("/{propertyID}", h.deleteProperty)
	})
}

func (h *PropertyHandler) createProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	property, err := h.propertyService.CreateProperty(r.Context(), userID, req)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, property)
}

func (h *PropertyHandler) searchProperties(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	filter := repository.PropertyFilter{
		Type:         model.PropertyType(q.Get("type")),
		Status:       model.ListingStatus(q.Get("status")),
		City:         q.Get("city"),
		District:     q.Get("district"),
		MinPrice:     parseFloatParam(q.Get("minPrice")),
		MaxPrice:     parseFloatParam(q.Get("maxPrice")),
		MinBedrooms:  parseIntParam(q.Get("minBedrooms")),
		MaxBedrooms:  parseIntParam(q.Get("maxBedrooms")),
		MinBathrooms: parseIntParam(q.Get("minBathrooms")),
		MaxBathrooms: parseIntParam(q.Get("maxBathrooms")),
		MinArea:      parseFloatParam(q.Get("minArea")),
		MaxArea:      parseFloatParam(q.Get("maxArea")),
		SearchTerm:   q.Get("search"),
		Sort:         q.Get("sort"),
	}
	if features := q.Get("features"); features != "" {
		filter.Features = strings.Split(features, ",")
	}

	properties, total, page, pageSize, err := h.propertyService.Search(r.Context(), filter, page, pageSize)
	if err != nil {
		common.RespondError(w, err)
		return
	}

	type PaginatedPropertiesResponse struct {
		Properties []model.Property `json:"properties"`
		Total      int              `json:"total"`
		Page       int              `json:"page"`
		PageSize   int              `json:"page_size"`
	}
	common.RespondWithJSON(w, http.StatusOK, PaginatedPropertiesResponse{
		Properties: properties,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	})
}

func (h *PropertyHandler) getProperty(w http.ResponseWriter, r *http.Request) {
	property, err := h.propertyService.GetProperty(r.Context(), chi.URLParam(r, "propertyID"))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, property)
}

func (h *PropertyHandler) updateProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	property, err := h.propertyService.UpdateProperty(r.Context(), chi.URLParam(r, "propertyID"), userID, middleware.IsAdmin(r.Context()), req)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, property)
}

func (h *PropertyHandler) deleteProperty(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	err := h.propertyService.DeleteProperty(r.Context(), chi.URLParam(r, "propertyID"), userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "listing deleted"})
}

func parseFloatParam(s string) *float64 {
	if s == "" {
		return nil
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return &v
	}
	return nil
}

func parseIntParam(s string) *int {
	if s == "" {
		return nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v
	}
	return nil
}
