package upload

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxFiles is the most photos a single operation may attach.
const MaxFiles = 5

var (
	ErrTooManyFiles = errors.New("too many files")
	ErrFileTooLarge = errors.New("file too large")
	ErrBadFileType  = errors.New("unsupported file type")
)

var allowedExt = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Saver stores uploaded photos on disk and hands out public /uploads URLs.
type Saver struct {
	Dir     string
	MaxSize int64
}

func New(dir string, maxSize int64) (*Saver, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Saver{Dir: dir, MaxSize: maxSize}, nil
}

// Validate checks count, size and extension for every file before anything is
// written, so a rejected batch leaves no partial files behind.
func (s *Saver) Validate(files []*multipart.FileHeader) error {
	if len(files) > MaxFiles {
		return ErrTooManyFiles
	}
	for _, f := range files {
		if f.Size > s.MaxSize {
			return fmt.Errorf("%w: %s", ErrFileTooLarge, f.Filename)
		}
		ext := strings.ToLower(filepath.Ext(f.Filename))
		if !allowedExt[ext] {
			return fmt.Errorf("%w: %s", ErrBadFileType, f.Filename)
		}
	}
	return nil
}

// SavePhotos validates then writes each file under a generated name and
// returns the public URLs. A mid-batch write failure removes the files
// already written.
func (s *Saver) SavePhotos(c *gin.Context, files []*multipart.FileHeader) ([]string, error) {
	if err := s.Validate(files); err != nil {
		return nil, err
	}
	var urls []string
	for _, f := range files {
		ext := strings.ToLower(filepath.Ext(f.Filename))
		name := "photos-" + uuid.NewString() + ext
		if err := c.SaveUploadedFile(f, filepath.Join(s.Dir, name)); err != nil {
			for _, u := range urls {
				s.Delete(u)
			}
			return nil, fmt.Errorf("save upload: %w", err)
		}
		urls = append(urls, "/uploads/"+name)
	}
	return urls, nil
}

// Delete removes a stored photo by its public URL. Best effort.
func (s *Saver) Delete(photoURL string) {
	name := strings.TrimPrefix(photoURL, "/uploads/")
	if name == "" || strings.Contains(name, "/") {
		return
	}
	if err := os.Remove(filepath.Join(s.Dir, name)); err != nil && !os.IsNotExist(err) {
		log.Printf("[Upload] failed to delete %s: %v", name, err)
	}
}
