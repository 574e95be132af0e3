// Package upload stages multipart files on local disk before they are sent to the media host.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// DefaultMaxFileSize bounds a single staged file.
const DefaultMaxFileSize int64 = 10 << 20

// ErrFileTooLarge is returned when a part exceeds the size limit.
var ErrFileTooLarge = errors.New("uploaded file is too large")

// Stager copies uploaded files into a staging directory.
type Stager struct {
	dir     string
	maxSize int64
}

// NewStager creates the staging directory if needed.
func NewStager(dir string, maxSize int64) (*Stager, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "videotube-uploads")
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Stager{dir: dir, maxSize: maxSize}, nil
}

// Dir returns the staging directory.
func (s *Stager) Dir() string { return s.dir }

// Stage writes fh into the staging directory and returns its path.
// cleanup removes the staged file and is safe to call after the file is gone.
func (s *Stager) Stage(fh *multipart.FileHeader) (string, func(), error) {
	if fh.Size > s.maxSize {
		return "", func() {}, ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to open multipart file: %w", err)
	}
	defer src.Close()

	dst, err := os.CreateTemp(s.dir, "upload-*"+safeExt(fh.Filename))
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create staged file: %w", err)
	}
	path := dst.Name()
	cleanup := func() { _ = os.Remove(path) }

	n, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("failed to write staged file: %w", err)
	}
	if n > s.maxSize {
		cleanup()
		return "", func() {}, ErrFileTooLarge
	}

	return path, cleanup, nil
}

// StageFormFile stages the multipart field of c.
// A missing field or a non-multipart request yields an empty path and no error.
func (s *Stager) StageFormFile(c *gin.Context, field string) (string, func(), error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", func() {}, nil
		}
		return "", func() {}, fmt.Errorf("failed to read form file %s: %w", field, err)
	}
	return s.Stage(fh)
}

func safeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		return ""
	}
	return ext
}
