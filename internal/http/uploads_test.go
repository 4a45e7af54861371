package httpapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func multipartUpload(t *testing.T, s *Server, token, uploadType string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="avatar.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("png-bytes")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if uploadType != "" {
		_ = writer.WriteField("type", uploadType)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestUploadRejectsNonImage(t *testing.T) {
	s, mock := newTestServer(t)
	s.Config.MediaStoragePath = t.TempDir()
	token := accessToken(t, s, "user-1", "ana@example.com", "student")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="notes.pdf"`)
	header.Set("Content-Type", "application/pdf")
	part, _ := writer.CreatePart(header)
	_, _ = part.Write([]byte("pdf-bytes"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}

// Replacing an avatar reclaims the previous asset: file and row both,
// instead of orphaning them once the profile stops pointing at them.
func TestUploadAvatarReclaimsPrevious(t *testing.T) {
	s, mock := newTestServer(t)
	s.Config.MediaStoragePath = t.TempDir()
	token := accessToken(t, s, "user-1", "ana@example.com", "student")

	mock.ExpectExec(`INSERT INTO media_assets`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT avatar_url FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"avatar_url"}).AddRow("/media/assets/old-asset/content"))
	mock.ExpectExec(`UPDATE users SET avatar_url`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT bucket, storage_key FROM media_assets`).
		WithArgs("old-asset").
		WillReturnRows(sqlmock.NewRows([]string{"bucket", "storage_key"}).AddRow("avatars", "old-asset"))
	mock.ExpectExec(`DELETE FROM media_assets`).
		WithArgs("old-asset").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := multipartUpload(t, s, token, "avatar")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	decodeBody(t, rec, &resp)
	if resp["url"] == "" || resp["id"] == "" {
		t.Errorf("response = %v", resp)
	}
	expectMet(t, mock)
}

// An external avatar URL is not one of ours; nothing gets deleted.
func TestUploadAvatarLeavesForeignURLAlone(t *testing.T) {
	s, mock := newTestServer(t)
	s.Config.MediaStoragePath = t.TempDir()
	token := accessToken(t, s, "user-1", "ana@example.com", "student")

	mock.ExpectExec(`INSERT INTO media_assets`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT avatar_url FROM users`).
		WillReturnRows(sqlmock.NewRows([]string{"avatar_url"}).AddRow("https://cdn.example.com/pic.png"))
	mock.ExpectExec(`UPDATE users SET avatar_url`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := multipartUpload(t, s, token, "avatar")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	expectMet(t, mock)
}
