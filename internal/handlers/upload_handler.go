package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vieerr/dearmom-backend/internal/blob"
	"github.com/vieerr/dearmom-backend/internal/logger"
)

type UploadHandler struct {
	uploader blob.Uploader
	log      *logger.Logger
}

func NewUploadHandler(uploader blob.Uploader) *UploadHandler {
	return &UploadHandler{
		uploader: uploader,
		log:      logger.New("upload-handler"),
	}
}

type UploadRequest struct {
	// Image is a data URL ("data:image/png;base64,...") or bare base64.
	Image string `json:"image"`
}

type UploadResponse struct {
	ImageURL string `json:"imageUrl"`
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req UploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Image == "" {
		respondError(w, http.StatusBadRequest, "image is required")
		return
	}

	data, contentType, err := decodeImage(req.Image)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid image encoding")
		return
	}

	url, err := h.uploader.Upload(r.Context(), data, contentType)
	if err != nil {
		h.log.Error("Failed to upload image: %v", err)
		respondError(w, http.StatusInternalServerError, "Error uploading image")
		return
	}

	respondJSON(w, http.StatusOK, UploadResponse{ImageURL: url})
}

func decodeImage(image string) ([]byte, string, error) {
	contentType := "image/png"

	if strings.HasPrefix(image, "data:") {
		meta, payload, found := strings.Cut(image, ",")
		if found {
			image = payload
			mime := strings.TrimPrefix(meta, "data:")
			if i := strings.Index(mime, ";"); i != -1 {
				mime = mime[:i]
			}
			if mime != "" {
				contentType = mime
			}
		}
	}

	data, err := base64.StdEncoding.DecodeString(image)
	if err != nil {
		return nil, "", err
	}

	return data, contentType, nil
}
