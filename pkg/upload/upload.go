package upload

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/example/tmstore/pkg/config"
	"github.com/google/uuid"
)

// InvalidError is the typed rejection for uploads that fail validation.
// Handlers map it to HTTP 400.
type InvalidError struct {
	Reason string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid upload: %s", e.Reason)
}

var extByType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Saver validates incoming files against the configured size limit and MIME
// allow-list, then stores them under the upload directory with generated
// names. The MIME type is sniffed from content, not trusted from the
// client-supplied header.
type Saver struct {
	config *config.UploadConfig
}

func NewSaver(cfg *config.UploadConfig) *Saver {
	return &Saver{config: cfg}
}

// Save returns the stored filename relative to the upload directory.
func (s *Saver) Save(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.config.MaxSizeBytes {
		return "", &InvalidError{Reason: fmt.Sprintf("file exceeds %d bytes", s.config.MaxSizeBytes)}
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])

	if !s.allowed(contentType) {
		return "", &InvalidError{Reason: fmt.Sprintf("unsupported type %s", contentType)}
	}

	if err := os.MkdirAll(s.config.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	name := uuid.NewString() + extByType[contentType]
	if err := s.store(name, head[:n], src); err != nil {
		return "", err
	}
	return name, nil
}

// store writes the sniffed head and streams the rest. A failed write never
// leaves a partial file behind.
func (s *Saver) store(name string, head []byte, src io.Reader) error {
	path := filepath.Join(s.config.Dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	_, err = dst.Write(head)
	if err == nil {
		_, err = io.Copy(dst, src)
	}
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (s *Saver) allowed(contentType string) bool {
	for _, t := range s.config.AllowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}
