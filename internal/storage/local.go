// Package storage keeps uploaded listing images and documents.
package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/invest-marketplace/internal/apperr"
	"github.com/google/uuid"
)

// PublicPrefix is the URL path uploads are served under.
const PublicPrefix = "/uploads"

var (
	allowedExt  = map[string]bool{".jpeg": true, ".jpg": true, ".png": true, ".gif": true, ".pdf": true}
	allowedMIME = regexp.MustCompile(`jpeg|jpg|png|gif|pdf`)

	ErrNoFile       = apperr.Validation("no file uploaded")
	ErrFileType     = apperr.Validation("only images and PDFs are allowed")
	ErrFileTooLarge = apperr.Validation("file is too large")
)

// StoredFile describes a saved upload.
type StoredFile struct {
	Name string
	// Path is the public path, e.g. /uploads/file-1700000000000-<id>.pdf.
	Path string
	Size int64
}

// LocalStore writes uploads to a directory on disk.
type LocalStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

func NewLocalStore(dir string, maxBytes int64) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

// Save validates and stores one multipart file.
func (s *LocalStore) Save(fh *multipart.FileHeader) (*StoredFile, error) {
	if fh == nil {
		return nil, ErrNoFile
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExt[ext] || !allowedMIME.MatchString(strings.ToLower(fh.Header.Get("Content-Type"))) {
		return nil, ErrFileType
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, apperr.Internal("failed to read upload", err)
	}
	defer src.Close()

	name := fmt.Sprintf("file-%d-%s%s", s.now().UnixMilli(), uuid.NewString(), ext)
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, apperr.Internal("failed to store upload", err)
	}

	var reader io.Reader = src
	if s.maxBytes > 0 {
		reader = io.LimitReader(src, s.maxBytes+1)
	}
	written, copyErr := io.Copy(dst, reader)
	closeErr := dst.Close()
	if copyErr == nil && s.maxBytes > 0 && written > s.maxBytes {
		copyErr = ErrFileTooLarge
	}
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		if copyErr == ErrFileTooLarge {
			return nil, ErrFileTooLarge
		}
		return nil, apperr.Internal("failed to store upload", copyErr)
	}

	return &StoredFile{Name: name, Path: PublicPrefix + "/" + name, Size: written}, nil
}
