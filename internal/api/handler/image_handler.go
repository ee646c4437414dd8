package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"homefind/internal/api/middleware"
	"homefind/internal/app/service"
	"homefind/internal/common"

	"github.com/go-chi/chi/v5"
)

// maxUploadBytes bounds the whole multipart request body: the 10 MiB image
// limit plus headroom for the form envelope.
const maxUploadBytes = 11 << 20

type ImageHandler struct {
	imageService *service.ImageService
}

func NewImageHandler(imageService *service.ImageService) *ImageHandler {
	return &ImageHandler{imageService: imageService}
}

// RegisterRoutes mounts under /properties/{propertyID}/images.
func (h *ImageHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/", h.uploadImage)
	r.Put("/order", h.reorderImages)
	r.Delete("/{imageID}", h.removeImage)
}

func (h *ImageHandler) uploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	// One extra MiB of form overhead on top of the image limit. The reader
	// cap stops oversize bodies before they are buffered.
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Missing file field: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Failed to read file: "+err.Error())
		return
	}

	img, err := h.imageService.AddImage(
		r.Context(),
		chi.URLParam(r, "propertyID"),
		userID,
		middleware.IsAdmin(r.Context()),
		header.Filename,
		header.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, img)
}

type reorderRequest struct {
	ImageIDs []string `json:"image_ids"`
}

func (h *ImageHandler) reorderImages(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	images, err := h.imageService.ReorderImages(
		r.Context(),
		chi.URLParam(r, "propertyID"),
		req.ImageIDs,
		userID,
		middleware.IsAdmin(r.Context()),
	)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, images)
}

func (h *ImageHandler) removeImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	err := h.imageService.RemoveImage(
		r.Context(),
		chi.URLParam(r, "propertyID"),
		chi.URLParam(r, "imageID"),
		userID,
		middleware.IsAdmin(r.Context()),
	)
	if err != nil {
		common.RespondError(w, err)
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "image removed"})
}
