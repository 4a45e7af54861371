package services

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	BucketAvatars       = "avatars"
	BucketListings      = "listings"
	BucketAnnouncements = "announcements"
)

func EnsureStoragePath(base string, bucket string) (string, error) {
	path := filepath.Join(base, bucket)
	if err := os.MkdirAll(path, 0755); err != nil {
		return "", err
	}
	return path, nil
}

// SaveMediaAsset streams an upload to disk and records it in
// media_assets. Returns the asset id and the URL clients embed in
// listing/announcement image fields and avatars.
func SaveMediaAsset(db *sqlx.DB, basePath, bucket, contentType, filename, ownerID string, body io.Reader) (string, string, error) {
	assetID := uuid.NewString()
	bucketPath, err := EnsureStoragePath(basePath, bucket)
	if err != nil {
		return "", "", err
	}
	targetPath := filepath.Join(bucketPath, assetID)

	file, err := os.Create(targetPath)
	if err != nil {
		return "", "", err
	}
	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(file, hasher), body)
	_ = file.Close()
	if err != nil {
		return "", "", err
	}
	if size == 0 {
		_ = os.Remove(targetPath)
		return "", "", ErrBadRequest("Uploaded file is empty")
	}
	sha := hex.EncodeToString(hasher.Sum(nil))

	_, err = db.Exec(`
INSERT INTO media_assets (id, owner_user_id, bucket, storage_key, filename, content_type, size_bytes, sha256, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, assetID, ownerID, bucket, assetID, filename, contentType, size, sha, time.Now().UTC())
	if err != nil {
		_ = os.Remove(targetPath)
		return "", "", err
	}
	return assetID, BuildAssetURL(assetID), nil
}

func BuildAssetURL(assetID string) string {
	return "/media/assets/" + assetID + "/content"
}

// AssetIDFromURL recovers the asset id from a URL produced by
// BuildAssetURL. Foreign URLs (external avatars) yield "".
func AssetIDFromURL(url string) string {
	rest, ok := strings.CutPrefix(url, "/media/assets/")
	if !ok {
		return ""
	}
	assetID, ok := strings.CutSuffix(rest, "/content")
	if !ok || assetID == "" || strings.Contains(assetID, "/") {
		return ""
	}
	return assetID
}

// DeleteUserAssets removes every stored asset the user owns, file and
// row both. Called before the user row itself is deleted, since the FK
// only nulls ownership and would leave the files behind.
func DeleteUserAssets(db *sqlx.DB, basePath, userID string) {
	assetIDs := []string{}
	if err := db.Select(&assetIDs, `SELECT id FROM media_assets WHERE owner_user_id = $1`, userID); err != nil {
		return
	}
	for _, assetID := range assetIDs {
		_ = DeleteAsset(db, basePath, assetID)
	}
}

func DeleteAsset(db *sqlx.DB, basePath string, assetID string) error {
	row := struct {
		Bucket     string `db:"bucket"`
		StorageKey string `db:"storage_key"`
	}{}
	if err := db.Get(&row, `SELECT bucket, storage_key FROM media_assets WHERE id = $1`, assetID); err != nil {
		return nil
	}
	_, _ = db.Exec(`DELETE FROM media_assets WHERE id = $1`, assetID)
	_ = os.Remove(filepath.Join(basePath, row.Bucket, row.StorageKey))
	return nil
}
