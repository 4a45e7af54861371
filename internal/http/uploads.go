package httpapi

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"unistay-backend-go/internal/models"
	"unistay-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

const maxUploadBytes = 10 << 20

// Upload accepts one multipart file and stores it under a bucket chosen
// by the "type" form field: avatar, listing or announcement.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "A file field is required")
		return
	}
	defer file.Close()

	var bucket string
	switch strings.ToLower(strings.TrimSpace(r.FormValue("type"))) {
	case "avatar":
		bucket = services.BucketAvatars
	case "announcement":
		bucket = services.BucketAnnouncements
	case "listing", "":
		bucket = services.BucketListings
	default:
		WriteError(w, http.StatusBadRequest, "Type must be avatar, listing or announcement")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		WriteError(w, http.StatusBadRequest, "Only image uploads are accepted")
		return
	}

	assetID, url, err := services.SaveMediaAsset(s.DB, s.Config.MediaStoragePath, bucket, contentType, header.Filename, userID, file)
	if err != nil {
		var svcErr services.ServiceError
		if errors.As(err, &svcErr) {
			WriteError(w, svcErr.Status, svcErr.Message)
			return
		}
		log.Printf("upload: %v", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if bucket == services.BucketAvatars {
		var previous *string
		_ = s.DB.Get(&previous, `SELECT avatar_url FROM users WHERE id = $1`, userID)
		if _, err := s.DB.Exec(`UPDATE users SET avatar_url = $2 WHERE id = $1`, userID, url); err != nil {
			log.Printf("set avatar url: %v", err)
		}
		// The replaced avatar is unreachable from the profile now; reclaim
		// the file and its row.
		if previous != nil {
			if oldID := services.AssetIDFromURL(*previous); oldID != "" && oldID != assetID {
				_ = services.DeleteAsset(s.DB, s.Config.MediaStoragePath, oldID)
			}
		}
	}
	WriteJSON(w, http.StatusOK, map[string]string{"id": assetID, "url": url})
}

// MediaContent streams a stored asset back with its recorded content type.
func (s *Server) MediaContent(w http.ResponseWriter, r *http.Request) {
	assetID := chi.URLParam(r, "assetId")
	var asset models.MediaAsset
	if err := s.DB.Get(&asset, `
SELECT id, owner_user_id, bucket, storage_key, filename, content_type, size_bytes, sha256, created_at
FROM media_assets
WHERE id = $1
`, assetID); err != nil {
		WriteError(w, http.StatusNotFound, "Asset not found")
		return
	}
	path := filepath.Join(s.Config.MediaStoragePath, asset.Bucket, asset.StorageKey)
	if _, err := os.Stat(path); err != nil {
		WriteError(w, http.StatusNotFound, "Asset not found")
		return
	}
	w.Header().Set("Content-Type", asset.ContentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeFile(w, r, path)
}
