package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func multipartRequest(t *testing.T, field string, filenames []string, size int) (*http.Request, []*multipart.FileHeader) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for _, name := range filenames {
		fw, err := mw.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := fw.Write(bytes.Repeat([]byte("x"), size)); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	mw.Close()
	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(32 << 20); err != nil {
		t.Fatalf("parse multipart: %v", err)
	}
	return req, req.MultipartForm.File[field]
}

func TestValidate(t *testing.T) {
	s := &Saver{Dir: t.TempDir(), MaxSize: 100}

	_, files := multipartRequest(t, "photos", []string{"a.jpg", "b.png"}, 10)
	if err := s.Validate(files); err != nil {
		t.Errorf("expected valid batch, got %v", err)
	}

	_, files = multipartRequest(t, "photos", []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg"}, 10)
	if err := s.Validate(files); !errors.Is(err, ErrTooManyFiles) {
		t.Errorf("expected ErrTooManyFiles, got %v", err)
	}

	_, files = multipartRequest(t, "photos", []string{"big.jpg"}, 101)
	if err := s.Validate(files); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}

	_, files = multipartRequest(t, "photos", []string{"doc.pdf"}, 10)
	if err := s.Validate(files); !errors.Is(err, ErrBadFileType) {
		t.Errorf("expected ErrBadFileType, got %v", err)
	}
}

func TestSavePhotosAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 1024)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, files := multipartRequest(t, "photos", []string{"item.JPG"}, 10)
	c.Request = req

	urls, err := s.SavePhotos(c, files)
	if err != nil {
		t.Fatalf("SavePhotos: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("expected 1 url, got %d", len(urls))
	}
	if !strings.HasPrefix(urls[0], "/uploads/photos-") || !strings.HasSuffix(urls[0], ".jpg") {
		t.Errorf("unexpected url shape: %s", urls[0])
	}
	name := strings.TrimPrefix(urls[0], "/uploads/")
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Errorf("stored file missing: %v", err)
	}

	s.Delete(urls[0])
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Errorf("file should be removed after Delete")
	}
}

func TestSavePhotos_RejectedBatchWritesNothing(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, 1024)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, files := multipartRequest(t, "photos", []string{"ok.png", "bad.exe"}, 10)
	c.Request = req

	if _, err := s.SavePhotos(c, files); err == nil {
		t.Fatalf("expected rejection")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("rejected batch must not persist files, found %d", len(entries))
	}
}
