package handler

import (
	"encoding/json"
	"net/http"

	"homefind/internal/api/middleware"
	"homefind/internal/app/service"
	"homefind/internal/common"

	"github.com/go-chi/chi/v5"
)

type InquiryHandler struct {
	inquiryService *service.InquiryService
}

func NewInquiryHandler(inquiryService *service.InquiryService) *InquiryHandler {
	return &InquiryHandler{inquiryService: inquiryService}
}

// RegisterPropertyRoutes mounts under /properties/{propertyID}/inquiries.
// Creating an inquiry is open to anonymous visitors; listing them is not.
func (h *InquiryHandler) RegisterPropertyRoutes(r chi.Router) {
	r.Post("/", h.createInquiry)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/", h.listInquiries)
	})
}

// RegisterRoutes mounts under /inquiries.
func (h *InquiryHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Delete("/{inquiryID}", h.deleteInquiry)
}

func (h *InquiryHandler) createInquiry(w http.ResponseWriter, r *http.Request) {
	var req service.CreateInquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	// Sender identity is optional here; anonymous visitors supply contact
	// fields instead.
	userID := middleware.OptionalUserID(r.Context())

	inquiry, err := h.inquiryService.CreateInquiry(r.Context(), chi.URLParam(r, "propertyID"), userID, req)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, inquiry)
}

func (h *InquiryHandler) listInquiries(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	inquiries, err := h.inquiryService.ListForProperty(r.Context(), chi.URLParam(r, "propertyID"), userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, inquiries)
}

func (h *InquiryHandler) deleteInquiry(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	email, _ := middleware.GetUserEmailFromContext(r.Context())

	err := h.inquiryService.DeleteInquiry(r.Context(), chi.URLParam(r, "inquiryID"), userID, email, middleware.IsAdmin(r.Context()))
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "inquiry deleted"})
}
